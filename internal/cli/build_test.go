package cli

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbrooke/backup-monitor/internal/config"
	"github.com/tbrooke/backup-monitor/internal/sink"
)

func TestBuildSink(t *testing.T) {
	logger := slog.Default()

	cfg := &config.Config{Sink: config.SinkConfig{Type: config.SinkLog}}
	assert.IsType(t, &sink.LogSink{}, buildSink(cfg, logger))

	cfg = &config.Config{Sink: config.SinkConfig{
		Type:     config.SinkInfluxDB,
		InfluxDB: config.InfluxDBConfig{URL: "http://localhost:8086", Database: "monitoring"},
	}}
	assert.IsType(t, &sink.InfluxSink{}, buildSink(cfg, logger))

	cfg = &config.Config{Sink: config.SinkConfig{
		Type:    config.SinkRiemann,
		Riemann: config.RiemannConfig{Addr: "localhost:5555"},
	}}
	assert.IsType(t, &sink.RiemannSink{}, buildSink(cfg, logger))
}

func TestBuildMonitor(t *testing.T) {
	cfg := &config.Config{
		BackupRoot:            t.TempDir(),
		ExpectedIntervalHours: 25,
		MinBackupSizeMB:       1,
		MaxBackupAgeHours:     168,
		Host:                  "trust",
		TTLSeconds:            300,
		Retention:             config.RetentionConfig{Daily: 7, Weekly: 4, Monthly: 6},
		Sink:                  config.SinkConfig{Type: config.SinkLog},
	}

	m := buildMonitor(cfg, slog.Default())

	assert.NotNil(t, m)
	assert.NotNil(t, m.State())
}
