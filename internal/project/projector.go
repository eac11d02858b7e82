// Package project maps health reports onto the generic observability
// event schema.
package project

import (
	"fmt"
	"time"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// AgeUnknown is the sentinel metric emitted for backup.freshness.age_hours
// when no backup exists to age. Consumers filter on it instead of the
// projector dropping to a null record.
const AgeUnknown = -1.0

// Projector is a stateless mapping from a HealthReport to an ordered
// event sequence.
type Projector struct {
	host string
	ttl  int
}

// New creates a Projector stamping events with the given host and TTL.
func New(host string, ttlSeconds int) *Projector {
	return &Projector{host: host, ttl: ttlSeconds}
}

// Project flattens a report into events with a stable naming scheme.
// Optional upstream fields never produce null records; they are
// substituted with documented sentinels.
func (p *Projector) Project(report *domain.HealthReport) []domain.Event {
	ts := report.Timestamp.Unix()
	events := make([]domain.Event, 0, 8)

	events = append(events, p.event(
		"backup.health.score",
		report.HealthScore,
		report.Overall.String(),
		fmt.Sprintf("Backup health %.2f (%s)", report.HealthScore, report.Overall),
		ts,
	))

	age := AgeUnknown
	if report.Freshness.AgeHours != nil {
		age = *report.Freshness.AgeHours
	}
	events = append(events, p.event(
		"backup.freshness.age_hours",
		age,
		report.Freshness.Status.String(),
		report.Freshness.Message,
		ts,
	))

	for _, tier := range domain.BackupTypes {
		ret, ok := report.Retention[tier]
		if !ok {
			continue
		}
		events = append(events, p.event(
			fmt.Sprintf("backup.retention.%s.count", tier),
			float64(ret.ActualCount),
			ret.Status.String(),
			fmt.Sprintf("%d of %d expected %s backups present, %d healthy",
				ret.ActualCount, ret.ExpectedCount, tier, ret.HealthyCount),
			ts,
		))
	}

	events = append(events, p.event(
		"backup.integrity.score",
		report.Integrity.Score,
		report.Integrity.Status.String(),
		describeIntegrity(report.Integrity),
		ts,
	))

	events = append(events, p.event(
		"backup.storage.total_size_mb",
		report.Storage.TotalSizeMB,
		"ok",
		fmt.Sprintf("%.1fMB across %d daily, %d weekly, %d monthly backups",
			report.Storage.TotalSizeMB,
			report.Storage.DailyCount,
			report.Storage.WeeklyCount,
			report.Storage.MonthlyCount),
		ts,
	))

	return events
}

// LastSuccess projects the monitor's own liveness signal.
func (p *Projector) LastSuccess(t time.Time) domain.Event {
	return p.event(
		"backup.process.last_success",
		float64(t.Unix()),
		"ok",
		"Backup monitor completed a collection run",
		t.Unix(),
	)
}

// RunError projects the synthetic failure event of a run that could
// not produce a normal report, so monitor death stays observable.
func (p *Projector) RunError(ts time.Time, msg string) domain.Event {
	return p.event(
		"backup.monitor.error",
		1,
		"critical",
		fmt.Sprintf("Backup monitor run failed: %s", msg),
		ts.Unix(),
	)
}

func (p *Projector) event(service string, metric float64, state, description string, ts int64) domain.Event {
	return domain.Event{
		Service:     service,
		Metric:      metric,
		State:       state,
		Description: description,
		Time:        ts,
		Host:        p.host,
		TTL:         p.ttl,
	}
}

func describeIntegrity(result domain.IntegrityResult) string {
	switch result.Status {
	case domain.IntegrityMissing:
		return "No backups found"
	case domain.IntegrityError:
		return "Integrity evaluation failed"
	default:
		return fmt.Sprintf("Newest backup %s is %.1fMB", result.Filename, result.SizeMB)
	}
}
