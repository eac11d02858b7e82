package cli

import (
	"log/slog"

	"github.com/tbrooke/backup-monitor/internal/collector"
	"github.com/tbrooke/backup-monitor/internal/config"
	"github.com/tbrooke/backup-monitor/internal/domain"
	"github.com/tbrooke/backup-monitor/internal/httpclient"
	"github.com/tbrooke/backup-monitor/internal/monitor"
	"github.com/tbrooke/backup-monitor/internal/sink"
)

// buildSink constructs the configured event sink.
func buildSink(cfg *config.Config, logger *slog.Logger) domain.EventSink {
	switch cfg.Sink.Type {
	case config.SinkInfluxDB:
		httpClient := httpclient.NewClient(
			httpclient.WithRetryConfig(httpclient.RetryConfig{
				MaxAttempts:  cfg.Retry.MaxAttempts,
				InitialDelay: cfg.Retry.InitialDelay,
				MaxDelay:     cfg.Retry.MaxDelay,
			}),
			httpclient.WithLogger(logger),
		)
		return sink.NewInfluxSink(
			cfg.Sink.InfluxDB.URL,
			cfg.Sink.InfluxDB.Database,
			sink.WithInfluxCredentials(cfg.Sink.InfluxDB.Username, cfg.Sink.InfluxDB.Password),
			sink.WithInfluxHTTPClient(httpClient),
			sink.WithInfluxLogger(logger),
		)
	case config.SinkRiemann:
		return sink.NewRiemannSink(
			cfg.Sink.Riemann.Addr,
			sink.WithRiemannLogger(logger),
		)
	default:
		return sink.NewLogSink(logger)
	}
}

// buildMonitor constructs the monitor with its sink and any enabled
// supplementary collectors.
func buildMonitor(cfg *config.Config, logger *slog.Logger) *monitor.Monitor {
	opts := []monitor.Option{
		monitor.WithSink(buildSink(cfg, logger)),
		monitor.WithLogger(logger),
	}

	if cfg.Disk.Enabled {
		diskCollector := collector.NewDisk(
			cfg.Disk.Path,
			cfg.Disk.WarningPercent,
			cfg.Disk.CriticalPercent,
			cfg.Host,
			cfg.TTLSeconds,
			collector.WithDiskLogger(logger),
		)
		opts = append(opts, monitor.WithCollectors(diskCollector))
	}

	return monitor.New(cfg, opts...)
}
