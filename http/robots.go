package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aptscanio/aptscan"
)

// Ensure Robots implements aptscan.RobotsPolicy at compile time.
var _ aptscan.RobotsPolicy = (*Robots)(nil)

// Robots answers robots.txt queries with a per-host rule cache. An
// unreachable, missing, or malformed robots.txt permits fetching; only
// an explicit matching Disallow rule denies. The cache lives as long as
// the Robots value and is safe for concurrent use.
type Robots struct {
	client *http.Client
	agent  string

	mu    sync.Mutex
	cache map[string][]robotsRule
}

// robotsRule is one Allow or Disallow path prefix from a group that
// applies to our agent.
type robotsRule struct {
	allow bool
	path  string
}

// NewRobots creates a Robots policy for the given user agent. A nil
// client uses http.DefaultClient.
func NewRobots(client *http.Client, agent string) *Robots {
	if client == nil {
		client = http.DefaultClient
	}
	if agent == "" {
		agent = DefaultUserAgent
	}
	return &Robots{
		client: client,
		agent:  agent,
		cache:  make(map[string][]robotsRule),
	}
}

// Allowed reports whether fetching rawURL is permitted by the host's
// robots.txt. The longest matching path rule wins; ties favor Allow.
func (r *Robots) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, aptscan.Errorf(aptscan.EINVALID, "parsing URL %q: %v", rawURL, err)
	}
	host := u.Scheme + "://" + u.Host

	rules, err := r.rulesFor(ctx, host)
	if err != nil {
		return false, err
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	allowed := true
	matched := -1
	for _, rule := range rules {
		if rule.path == "" || !strings.HasPrefix(path, rule.path) {
			continue
		}
		switch {
		case len(rule.path) > matched:
			allowed = rule.allow
			matched = len(rule.path)
		case len(rule.path) == matched && rule.allow:
			allowed = true
		}
	}
	return allowed, nil
}

// rulesFor returns the cached rule set for the host, fetching and
// parsing robots.txt on first use.
func (r *Robots) rulesFor(ctx context.Context, host string) ([]robotsRule, error) {
	r.mu.Lock()
	rules, ok := r.cache[host]
	r.mu.Unlock()
	if ok {
		return rules, nil
	}

	rules = r.fetchRules(ctx, host)

	r.mu.Lock()
	r.cache[host] = rules
	r.mu.Unlock()
	return rules, nil
}

// fetchRules retrieves and parses the host's robots.txt. Any failure
// yields an empty rule set, which permits everything.
func (r *Robots) fetchRules(ctx context.Context, host string) []robotsRule {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil
	}
	return parseRobots(resp.Body, r.agent)
}

// parseRobots extracts the Allow and Disallow rules from the groups
// whose User-agent matches agent or the wildcard.
func parseRobots(body io.Reader, agent string) []robotsRule {
	agent = strings.ToLower(agent)

	var rules []robotsRule
	applies := false
	inAgentLines := false

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i != -1 {
			line = line[:i]
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "user-agent":
			// consecutive User-agent lines open one group
			if !inAgentLines {
				applies = false
			}
			inAgentLines = true
			ua := strings.ToLower(value)
			if ua == "*" || strings.Contains(agent, ua) {
				applies = true
			}
		case "allow", "disallow":
			inAgentLines = false
			if !applies || value == "" {
				continue
			}
			rules = append(rules, robotsRule{allow: field == "allow", path: value})
		default:
			inAgentLines = false
		}
	}
	return rules
}
