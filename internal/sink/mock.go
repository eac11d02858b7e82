package sink

import (
	"context"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// MockSink is a mock implementation of domain.EventSink for testing.
type MockSink struct {
	SendFunc     func(ctx context.Context, events []domain.Event) error
	ValidateFunc func(ctx context.Context) error

	// Batches stores every batch that has been sent.
	Batches [][]domain.Event
}

// Send stores the batch and calls the mock SendFunc.
func (m *MockSink) Send(ctx context.Context, events []domain.Event) error {
	m.Batches = append(m.Batches, events)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, events)
	}
	return nil
}

// Validate calls the mock ValidateFunc.
func (m *MockSink) Validate(ctx context.Context) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx)
	}
	return nil
}

// Events flattens all sent batches.
func (m *MockSink) Events() []domain.Event {
	var out []domain.Event
	for _, b := range m.Batches {
		out = append(out, b...)
	}
	return out
}

// Reset clears all stored batches.
func (m *MockSink) Reset() {
	m.Batches = nil
}

// Ensure MockSink implements domain.EventSink.
var _ domain.EventSink = (*MockSink)(nil)
