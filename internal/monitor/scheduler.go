package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives periodic collection runs from a standard cron
// expression. The engine itself is not self-triggering; this loop is
// its external invoker in serve mode.
type Scheduler struct {
	monitor          *Monitor
	schedule         cron.Schedule
	spec             string
	collectOnStartup bool
	logger           *slog.Logger

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithCollectOnStartup sets whether to run a collection immediately on
// start.
func WithCollectOnStartup(b bool) SchedulerOption {
	return func(s *Scheduler) {
		s.collectOnStartup = b
	}
}

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// NewScheduler creates a Scheduler from a standard cron expression.
func NewScheduler(m *Monitor, spec string, opts ...SchedulerOption) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s := &Scheduler{
		monitor:          m,
		schedule:         schedule,
		spec:             spec,
		collectOnStartup: true,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Start begins the scheduler loop. It runs until Stop is called or the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.stoppedCh = make(chan struct{})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		close(s.stoppedCh)
		s.mu.Unlock()
	}()

	s.logger.Info("scheduler started",
		"schedule", s.spec,
		"collect_on_startup", s.collectOnStartup,
	)

	if s.collectOnStartup {
		s.logger.Debug("running collection on startup")
		s.monitor.Run(ctx)
	}

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopping due to context cancellation")
			return ctx.Err()

		case <-s.stopCh:
			timer.Stop()
			s.logger.Info("scheduler stopping due to stop signal")
			return nil

		case <-timer.C:
			s.logger.Debug("schedule triggered, running collection", "at", next)
			s.monitor.Run(ctx)
		}
	}
}

// Stop signals the scheduler to stop and waits for it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	stoppedCh := s.stoppedCh
	s.mu.Unlock()

	<-stoppedCh
}

// IsRunning returns true if the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
