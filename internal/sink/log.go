package sink

import (
	"context"
	"log/slog"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// LogSink writes events to the structured logger. Default sink when no
// backend is configured; also useful when debugging a deployment.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Send logs each event.
func (s *LogSink) Send(_ context.Context, events []domain.Event) error {
	for _, e := range events {
		s.logger.Info("event",
			"service", e.Service,
			"metric", e.Metric,
			"state", e.State,
			"description", e.Description,
			"host", e.Host,
			"ttl", e.TTL,
		)
	}
	return nil
}

// Validate always succeeds.
func (s *LogSink) Validate(_ context.Context) error {
	return nil
}

// Ensure LogSink implements domain.EventSink.
var _ domain.EventSink = (*LogSink)(nil)
