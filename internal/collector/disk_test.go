package collector

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageState(t *testing.T) {
	tests := []struct {
		usedPct float64
		want    string
	}{
		{50, "ok"},
		{79.9, "ok"},
		{80, "warning"},
		{89.9, "warning"},
		{90, "critical"},
		{100, "critical"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UsageState(tt.usedPct, 80, 90), "%.1f%%", tt.usedPct)
	}
}

func TestMountName(t *testing.T) {
	assert.Equal(t, "root", mountName("/"))
	assert.Equal(t, "root", mountName("//"))
	assert.Equal(t, "mnt", mountName("/mnt"))
	assert.Equal(t, "mnt_backups", mountName("/mnt/backups/"))
}

func TestDiskCollector_Collect(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := NewDisk(t.TempDir(), 80, 90, "trust", 300,
		WithDiskNow(func() time.Time { return ts }))

	assert.Equal(t, "disk", c.Name())

	events, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	usage := events[0]
	assert.True(t, strings.HasPrefix(usage.Service, "disk."), usage.Service)
	assert.True(t, strings.HasSuffix(usage.Service, ".usage.percent"), usage.Service)
	assert.GreaterOrEqual(t, usage.Metric, 0.0)
	assert.LessOrEqual(t, usage.Metric, 1.0)
	assert.Contains(t, []string{"ok", "warning", "critical"}, usage.State)
	assert.Equal(t, "trust", usage.Host)
	assert.Equal(t, 300, usage.TTL)
	assert.Equal(t, ts.Unix(), usage.Time)

	free := events[1]
	assert.True(t, strings.HasSuffix(free.Service, ".free.gb"), free.Service)
	assert.Equal(t, "ok", free.State)
	assert.GreaterOrEqual(t, free.Metric, 0.0)
}

func TestDiskCollector_MissingPath(t *testing.T) {
	c := NewDisk("/definitely/not/a/mount", 80, 90, "trust", 300)

	_, err := c.Collect(context.Background())
	assert.Error(t, err)
}
