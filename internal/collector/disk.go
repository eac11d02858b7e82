// Package collector provides supplementary metric collectors sharing
// the backup monitor's event schema and sink.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// DiskCollector reports filesystem usage for one mount point as
// fraction-of-capacity events with ok/warning/critical states.
type DiskCollector struct {
	path    string
	warnPct float64
	critPct float64
	host    string
	ttl     int
	logger  *slog.Logger
	now     func() time.Time
}

// DiskOption configures a DiskCollector.
type DiskOption func(*DiskCollector)

// WithDiskLogger sets the logger.
func WithDiskLogger(l *slog.Logger) DiskOption {
	return func(c *DiskCollector) {
		c.logger = l
	}
}

// WithDiskNow overrides the event clock for tests.
func WithDiskNow(now func() time.Time) DiskOption {
	return func(c *DiskCollector) {
		c.now = now
	}
}

// NewDisk creates a DiskCollector for the given mount point. warnPct
// and critPct are used-percentage thresholds (0-100).
func NewDisk(path string, warnPct, critPct float64, host string, ttlSeconds int, opts ...DiskOption) *DiskCollector {
	c := &DiskCollector{
		path:    path,
		warnPct: warnPct,
		critPct: critPct,
		host:    host,
		ttl:     ttlSeconds,
		logger:  slog.Default(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the collector identifier.
func (c *DiskCollector) Name() string {
	return "disk"
}

// Collect reads current usage for the mount point.
func (c *DiskCollector) Collect(ctx context.Context) ([]domain.Event, error) {
	usage, err := disk.UsageWithContext(ctx, c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", c.path, err)
	}

	ts := c.now().Unix()
	name := mountName(c.path)
	freeGB := float64(usage.Free) / (1024 * 1024 * 1024)

	events := []domain.Event{
		{
			Service: fmt.Sprintf("disk.%s.usage.percent", name),
			Metric:  usage.UsedPercent / 100.0,
			State:   UsageState(usage.UsedPercent, c.warnPct, c.critPct),
			Description: fmt.Sprintf("%s disk %.1f%% used",
				c.path, usage.UsedPercent),
			Time: ts,
			Host: c.host,
			TTL:  c.ttl,
		},
		{
			Service:     fmt.Sprintf("disk.%s.free.gb", name),
			Metric:      freeGB,
			State:       "ok",
			Description: fmt.Sprintf("%.1fGB free space", freeGB),
			Time:        ts,
			Host:        c.host,
			TTL:         c.ttl,
		},
	}

	return events, nil
}

// UsageState classifies a used-percentage reading against the warning
// and critical thresholds.
func UsageState(usedPct, warnPct, critPct float64) string {
	switch {
	case usedPct >= critPct:
		return "critical"
	case usedPct >= warnPct:
		return "warning"
	default:
		return "ok"
	}
}

// mountName flattens a mount point into a service name component: "/"
// becomes "root", deeper paths join with underscores.
func mountName(path string) string {
	if path == "/" {
		return "root"
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	return strings.ReplaceAll(trimmed, "/", "_")
}

// Ensure DiskCollector implements domain.Collector.
var _ domain.Collector = (*DiskCollector)(nil)
