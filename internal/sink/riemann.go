package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// RiemannSink sends events to a Riemann server as plain-text UDP
// datagrams in "host service metric state" form. Fire-and-forget by
// design; datagram loss is acceptable for liveness-style metrics.
type RiemannSink struct {
	addr   string
	logger *slog.Logger
}

// RiemannOption configures a RiemannSink.
type RiemannOption func(*RiemannSink)

// WithRiemannLogger sets the logger.
func WithRiemannLogger(logger *slog.Logger) RiemannOption {
	return func(s *RiemannSink) {
		s.logger = logger
	}
}

// NewRiemannSink creates a RiemannSink targeting addr (host:port).
func NewRiemannSink(addr string, opts ...RiemannOption) *RiemannSink {
	s := &RiemannSink{
		addr:   addr,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Send writes one datagram per event.
func (s *RiemannSink) Send(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	conn, err := net.Dial("udp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to dial riemann at %s: %w", s.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	for _, e := range events {
		line := formatRiemannLine(e)
		if _, err := conn.Write([]byte(line)); err != nil {
			return fmt.Errorf("failed to send event %q: %w", e.Service, err)
		}
	}

	s.logger.Debug("sent events to riemann", "addr", s.addr, "events", len(events))
	return nil
}

// Validate checks that the address resolves and a socket can be opened.
func (s *RiemannSink) Validate(_ context.Context) error {
	conn, err := net.DialTimeout("udp", s.addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("riemann not reachable at %s: %w", s.addr, err)
	}
	return conn.Close()
}

func formatRiemannLine(e domain.Event) string {
	state := e.State
	if state == "" {
		state = "ok"
	}
	// Service names keep their spaces-free dotted form; the receiving
	// side splits on single spaces.
	service := strings.ReplaceAll(e.Service, " ", "-")
	return fmt.Sprintf("%s %s %s %s\n",
		e.Host, service, strconv.FormatFloat(e.Metric, 'f', -1, 64), state)
}

// Ensure RiemannSink implements domain.EventSink.
var _ domain.EventSink = (*RiemannSink)(nil)
