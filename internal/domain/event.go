package domain

import "context"

// Event is one generic observability record. The schema matches what
// stream-processing backends such as Riemann consume: a dot-separated
// hierarchical service name, a numeric metric, an optional state label
// and a TTL after which consumers should treat the value as stale.
type Event struct {
	// Service is the hierarchical metric name, e.g. "backup.health.score".
	Service string

	Metric float64

	// State is a lower-cased classification label ("ok", "warning",
	// "critical", "healthy", "stale", ...). Empty means unclassified.
	State string

	Description string

	// Time is unix seconds.
	Time int64

	Host string

	// TTL is in seconds.
	TTL int
}

// EventSink delivers event batches to a metrics backend.
type EventSink interface {
	// Send delivers a batch of events. A batch is delivered or failed
	// as a whole.
	Send(ctx context.Context, events []Event) error

	// Validate checks if the sink is properly configured and reachable.
	Validate(ctx context.Context) error
}

// Collector produces supplementary events outside the backup health
// engine (disk usage and similar single-pass signals).
type Collector interface {
	// Name returns a short identifier for logging.
	Name() string

	// Collect gathers current readings and projects them to events.
	Collect(ctx context.Context) ([]Event, error)
}
