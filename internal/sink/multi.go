package sink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// MultiSink fans a batch out to several sinks. One failing sink does
// not stop delivery to the others.
type MultiSink struct {
	sinks  []domain.EventSink
	logger *slog.Logger
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...domain.EventSink) *MultiSink {
	return &MultiSink{
		sinks:  sinks,
		logger: slog.Default(),
	}
}

// Send delivers the batch to every sink and joins any failures.
func (m *MultiSink) Send(ctx context.Context, events []domain.Event) error {
	var errs []error

	for _, s := range m.sinks {
		if err := s.Send(ctx, events); err != nil {
			m.logger.Warn("sink failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate validates every sink.
func (m *MultiSink) Validate(ctx context.Context) error {
	var errs []error

	for _, s := range m.sinks {
		if err := s.Validate(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Ensure MultiSink implements domain.EventSink.
var _ domain.EventSink = (*MultiSink)(nil)
