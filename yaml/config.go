// Package yaml loads site configurations from YAML files.
package yaml

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aptscanio/aptscan"
	"gopkg.in/yaml.v3"
)

// strategyAliases maps accepted config spellings to canonical strategy
// names. Older configs say "jsonld" for the structured-data strategy.
var strategyAliases = map[string]string{
	"jsonld": aptscan.StrategyStructuredData,
}

// LoadSite reads one site configuration. A missing name defaults to the
// file's base name without extension; a missing strategy order defaults
// to the full built-in order.
func LoadSite(path string) (*aptscan.SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, aptscan.Errorf(aptscan.ENOTFOUND, "site config not found: %s", path)
		}
		return nil, fmt.Errorf("reading site config %s: %w", path, err)
	}

	var cfg aptscan.SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "parsing site config %s: %v", path, err)
	}

	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("site config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDir reads every .yml and .yaml file in dir, sorted by file name.
// Site names must be unique across the directory.
func LoadDir(dir string) ([]*aptscan.SiteConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, aptscan.Errorf(aptscan.ENOTFOUND, "site config directory not found: %s", dir)
		}
		return nil, fmt.Errorf("reading site config directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yml", ".yaml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	var configs []*aptscan.SiteConfig
	seen := make(map[string]string)
	for _, path := range paths {
		cfg, err := LoadSite(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[cfg.Name]; ok {
			return nil, aptscan.Errorf(aptscan.EINVALID, "duplicate site name %q in %s and %s", cfg.Name, prev, path)
		}
		seen[cfg.Name] = path
		configs = append(configs, cfg)
	}
	return configs, nil
}

// applyDefaults validates the config and fills defaulted fields.
func applyDefaults(cfg *aptscan.SiteConfig) error {
	if len(cfg.Seeds) == 0 {
		return aptscan.Errorf(aptscan.EINVALID, "site %q has no seeds", cfg.Name)
	}

	if len(cfg.StrategyOrder) == 0 {
		cfg.StrategyOrder = aptscan.DefaultStrategyOrder()
	}
	for i, name := range cfg.StrategyOrder {
		if canonical, ok := strategyAliases[name]; ok {
			cfg.StrategyOrder[i] = canonical
			name = canonical
		}
		switch name {
		case aptscan.StrategyStructuredData, aptscan.StrategyXHR, aptscan.StrategyDOM:
		default:
			return aptscan.Errorf(aptscan.EINVALID, "site %q lists unknown strategy %q", cfg.Name, name)
		}
	}

	if cfg.Fingerprint == "" {
		cfg.Fingerprint = aptscan.FingerprintURL
	}
	if !cfg.Fingerprint.Valid() {
		return aptscan.Errorf(aptscan.EINVALID, "site %q has unknown fingerprint policy %q", cfg.Name, cfg.Fingerprint)
	}

	for field, pattern := range cfg.DOM.RegexHelpers {
		if _, err := regexp.Compile(pattern); err != nil {
			return aptscan.Errorf(aptscan.EINVALID, "site %q has invalid regex helper for %q: %v", cfg.Name, field, err)
		}
	}
	return nil
}
