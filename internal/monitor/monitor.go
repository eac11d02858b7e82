// Package monitor provides the core collection run orchestration.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tbrooke/backup-monitor/internal/analyze"
	"github.com/tbrooke/backup-monitor/internal/config"
	"github.com/tbrooke/backup-monitor/internal/domain"
	"github.com/tbrooke/backup-monitor/internal/project"
	"github.com/tbrooke/backup-monitor/internal/scanner"
)

// tierScanner is the directory listing dependency of a Monitor.
type tierScanner interface {
	Scan(dir string, typ domain.BackupType, evalTime time.Time) []domain.BackupRecord
}

// Monitor orchestrates one collection run: scan the three tier
// directories, analyze the record sets, score, project to events and
// hand them to the sink. It never returns an error or panics across
// its boundary; a failed run yields a synthetic Error report and a
// backup.monitor.error event.
type Monitor struct {
	cfg        *config.Config
	scanner    tierScanner
	projector  *project.Projector
	sink       domain.EventSink
	collectors []domain.Collector
	state      *domain.RunState
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithSink sets the event sink.
func WithSink(s domain.EventSink) Option {
	return func(m *Monitor) {
		m.sink = s
	}
}

// WithCollectors adds supplementary collectors whose events ride along
// with each run's batch.
func WithCollectors(cs ...domain.Collector) Option {
	return func(m *Monitor) {
		m.collectors = append(m.collectors, cs...)
	}
}

// WithState sets the run state shared with a liveness probe.
func WithState(s *domain.RunState) Option {
	return func(m *Monitor) {
		m.state = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = l
	}
}

// WithNow overrides the evaluation clock. Tests use this to pin the
// evaluation instant.
func WithNow(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a Monitor.
func New(cfg *config.Config, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:    cfg,
		state:  &domain.RunState{},
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.scanner = scanner.New(cfg.MinBackupSizeMB, cfg.MaxBackupAgeHours,
		scanner.WithLogger(m.logger))
	m.projector = project.New(cfg.Host, cfg.TTLSeconds)

	return m
}

// State returns the run state for liveness probes.
func (m *Monitor) State() *domain.RunState {
	return m.state
}

// Run executes one collection cycle and returns the report. The
// evaluation instant is captured once, so every age computed in the
// run is internally consistent.
func (m *Monitor) Run(ctx context.Context) *domain.HealthReport {
	evalTime := m.now()
	report := m.collect(evalTime)

	var events []domain.Event
	if report.Overall == domain.OverallError {
		m.logger.Error("collection run failed", "error", report.Error)
		events = []domain.Event{m.projector.RunError(report.Timestamp, report.Error)}
	} else {
		events = m.projector.Project(report)
		events = append(events, m.projector.LastSuccess(evalTime))
	}

	// Supplementary collectors are additive; their failures never
	// fail the backup run.
	for _, c := range m.collectors {
		aux, err := c.Collect(ctx)
		if err != nil {
			m.logger.Warn("collector failed", "collector", c.Name(), "error", err)
			continue
		}
		events = append(events, aux...)
	}

	if m.sink != nil {
		if err := m.sink.Send(ctx, events); err != nil {
			m.logger.Error("failed to send events", "events", len(events), "error", err)
			return report
		}
	}

	if report.Overall != domain.OverallError {
		m.state.MarkSuccess(evalTime)
		m.logger.Info("collection run completed",
			"health_score", report.HealthScore,
			"overall", report.Overall,
			"events", len(events),
		)
	}

	return report
}

// collect scans and analyzes. A panic while combining signals converts
// to a synthetic Error report instead of crossing the engine boundary.
func (m *Monitor) collect(evalTime time.Time) (report *domain.HealthReport) {
	defer func() {
		if r := recover(); r != nil {
			report = domain.NewErrorReport(evalTime, fmt.Sprintf("%v", r))
		}
	}()

	// The tier scans only read their own subtree and fill their own
	// slot, so they can run in parallel without synchronization.
	var tiers [3][]domain.BackupRecord
	var wg sync.WaitGroup
	for i, typ := range domain.BackupTypes {
		wg.Add(1)
		go func(i int, typ domain.BackupType) {
			defer wg.Done()
			tiers[i] = m.scanner.Scan(m.cfg.TierDir(typ.String()), typ, evalTime)
		}(i, typ)
	}
	wg.Wait()

	daily, weekly, monthly := tiers[0], tiers[1], tiers[2]

	freshness := analyze.Freshness(daily, m.cfg.ExpectedIntervalHours)
	retention := map[domain.BackupType]domain.RetentionResult{
		domain.BackupDaily:   analyze.Retention(daily, m.cfg.Retention.Daily),
		domain.BackupWeekly:  analyze.Retention(weekly, m.cfg.Retention.Weekly),
		domain.BackupMonthly: analyze.Retention(monthly, m.cfg.Retention.Monthly),
	}
	integrity := analyze.Integrity(daily)
	storage := analyze.Storage(daily, weekly, monthly)

	score, overall := analyze.Score(freshness, retention[domain.BackupDaily], integrity)

	return &domain.HealthReport{
		Timestamp:   evalTime,
		Freshness:   freshness,
		Retention:   retention,
		Integrity:   integrity,
		Storage:     storage,
		HealthScore: score,
		Overall:     overall,
	}
}
