package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/aptscanio/aptscan"
)

// Ensure LoggingStrategy implements aptscan.Strategy.
var _ aptscan.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a Strategy with per-extraction logging.
type LoggingStrategy struct {
	next   aptscan.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next aptscan.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// Name returns the wrapped strategy's name.
func (s *LoggingStrategy) Name() string {
	return s.next.Name()
}

// Extract delegates to the wrapped strategy and logs the operation.
func (s *LoggingStrategy) Extract(ctx context.Context, page aptscan.Page, cfg *aptscan.SiteConfig) (records []aptscan.RawRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("extract",
			"strategy", s.next.Name(),
			"url", page.URL,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Extract(ctx, page, cfg)
}
