package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrooke/backup-monitor/internal/config"
	"github.com/tbrooke/backup-monitor/internal/domain"
	"github.com/tbrooke/backup-monitor/internal/sink"
)

func testConfig(root string) *config.Config {
	return &config.Config{
		BackupRoot:            root,
		ExpectedIntervalHours: 25,
		MinBackupSizeMB:       1,
		MaxBackupAgeHours:     168,
		Host:                  "trust",
		TTLSeconds:            300,
		Retention:             config.RetentionConfig{Daily: 7, Weekly: 4, Monthly: 6},
	}
}

// placeBackup drops a sparse archive into a tier directory, named so
// its embedded timestamp is age before the evaluation instant.
func placeBackup(t *testing.T, root, tier string, age time.Duration, sizeBytes int64, evalTime time.Time) {
	t.Helper()

	dir := filepath.Join(root, tier)
	require.NoError(t, os.MkdirAll(dir, 0750))

	name := "alfresco_" + evalTime.Add(-age).Format("20060102_150405") + ".tar.gz"
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, f.Truncate(sizeBytes))
	require.NoError(t, f.Close())
}

func TestMonitor_Run(t *testing.T) {
	root := t.TempDir()
	evalTime := time.Now()

	placeBackup(t, root, "daily", 10*time.Hour, 120<<20, evalTime)

	mock := &sink.MockSink{}
	m := New(testConfig(root),
		WithSink(mock),
		WithNow(func() time.Time { return evalTime }),
	)

	report := m.Run(context.Background())

	// Fresh (10h < 25h) and intact (120MB), but a single daily backup
	// out of seven expected.
	assert.Equal(t, domain.FreshnessHealthy, report.Freshness.Status)
	require.NotNil(t, report.Freshness.AgeHours)
	assert.InDelta(t, 10.0, *report.Freshness.AgeHours, 0.01)

	assert.Equal(t, domain.RetentionCritical, report.Retention[domain.BackupDaily].Status)
	assert.Equal(t, 1, report.Retention[domain.BackupDaily].ActualCount)
	assert.Equal(t, domain.RetentionCritical, report.Retention[domain.BackupWeekly].Status)
	assert.Equal(t, domain.RetentionCritical, report.Retention[domain.BackupMonthly].Status)

	assert.Equal(t, domain.IntegrityHealthy, report.Integrity.Status)
	assert.Equal(t, 1.0, report.Integrity.Score)

	assert.InDelta(t, 0.75, report.HealthScore, 0.001)
	assert.Equal(t, domain.OverallWarning, report.Overall)

	require.Len(t, mock.Batches, 1)
	events := mock.Events()
	require.Len(t, events, 8)
	assert.Equal(t, "backup.health.score", events[0].Service)
	assert.Equal(t, "backup.process.last_success", events[7].Service)

	last, ok := m.State().LastSuccess()
	require.True(t, ok)
	assert.True(t, last.Equal(evalTime))
}

func TestMonitor_RunWithNoBackups(t *testing.T) {
	mock := &sink.MockSink{}
	evalTime := time.Now()
	m := New(testConfig(t.TempDir()),
		WithSink(mock),
		WithNow(func() time.Time { return evalTime }),
	)

	report := m.Run(context.Background())

	assert.Equal(t, domain.FreshnessMissing, report.Freshness.Status)
	assert.Nil(t, report.Freshness.AgeHours)
	assert.Equal(t, domain.IntegrityMissing, report.Integrity.Status)
	assert.Equal(t, 0.0, report.HealthScore)
	assert.Equal(t, domain.OverallCritical, report.Overall)

	// Missing backups are still a successful collection run.
	_, ok := m.State().LastSuccess()
	assert.True(t, ok)
}

func TestMonitor_RunIsDeterministicForPinnedClock(t *testing.T) {
	root := t.TempDir()
	evalTime := time.Now()

	placeBackup(t, root, "daily", 10*time.Hour, 120<<20, evalTime)
	placeBackup(t, root, "weekly", 100*time.Hour, 400<<20, evalTime)

	mock := &sink.MockSink{}
	m := New(testConfig(root),
		WithSink(mock),
		WithNow(func() time.Time { return evalTime }),
	)

	first := m.Run(context.Background())
	second := m.Run(context.Background())

	assert.Equal(t, first, second)
	require.Len(t, mock.Batches, 2)
	assert.Equal(t, mock.Batches[0], mock.Batches[1])
}

func TestMonitor_SinkFailureLeavesStateUnmarked(t *testing.T) {
	failing := &sink.MockSink{
		SendFunc: func(ctx context.Context, events []domain.Event) error {
			return errors.New("influxdb down")
		},
	}
	m := New(testConfig(t.TempDir()), WithSink(failing))

	report := m.Run(context.Background())

	assert.NotNil(t, report)
	_, ok := m.State().LastSuccess()
	assert.False(t, ok, "a run whose events never left must not count as success")
}

// panicScanner blows up on every tier scan.
type panicScanner struct{}

func (panicScanner) Scan(string, domain.BackupType, time.Time) []domain.BackupRecord {
	panic("tier scan exploded")
}

func TestMonitor_CollectPanicEmitsSingleErrorEvent(t *testing.T) {
	mock := &sink.MockSink{}
	evalTime := time.Now()
	m := New(testConfig(t.TempDir()),
		WithSink(mock),
		WithNow(func() time.Time { return evalTime }),
	)
	m.scanner = panicScanner{}

	report := m.Run(context.Background())

	assert.Equal(t, domain.OverallError, report.Overall)
	assert.Equal(t, 0.0, report.HealthScore)
	assert.Contains(t, report.Error, "tier scan exploded")

	// The batch is the lone failure event, no health metrics and no
	// last-success marker.
	require.Len(t, mock.Batches, 1)
	events := mock.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "backup.monitor.error", events[0].Service)
	assert.Equal(t, "critical", events[0].State)
	assert.Equal(t, 1.0, events[0].Metric)
	assert.Contains(t, events[0].Description, "tier scan exploded")

	_, ok := m.State().LastSuccess()
	assert.False(t, ok, "a failed run must not count as success")
}

type staticCollector struct {
	name   string
	events []domain.Event
	err    error
}

func (c *staticCollector) Name() string { return c.name }

func (c *staticCollector) Collect(_ context.Context) ([]domain.Event, error) {
	return c.events, c.err
}

func TestMonitor_CollectorEventsRideAlong(t *testing.T) {
	mock := &sink.MockSink{}
	aux := &staticCollector{
		name:   "disk",
		events: []domain.Event{{Service: "disk.root.usage.percent", Metric: 0.42, State: "ok"}},
	}
	m := New(testConfig(t.TempDir()), WithSink(mock), WithCollectors(aux))

	m.Run(context.Background())

	events := mock.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "disk.root.usage.percent", events[len(events)-1].Service)
}

func TestMonitor_CollectorFailureDoesNotFailRun(t *testing.T) {
	mock := &sink.MockSink{}
	aux := &staticCollector{name: "disk", err: errors.New("statfs failed")}
	m := New(testConfig(t.TempDir()), WithSink(mock), WithCollectors(aux))

	report := m.Run(context.Background())

	assert.NotEqual(t, domain.OverallError, report.Overall)
	assert.Len(t, mock.Batches, 1)

	_, ok := m.State().LastSuccess()
	assert.True(t, ok)
}
