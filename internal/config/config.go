package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all application configuration. All thresholds carry
// defaults; validation happens once at load, not ad hoc at read sites.
type Config struct {
	// BackupRoot is the directory holding the daily/, weekly/ and
	// monthly/ tier subdirectories.
	BackupRoot string `mapstructure:"backup_root"`

	// ExpectedIntervalHours is the freshness threshold for the newest
	// daily backup.
	ExpectedIntervalHours float64 `mapstructure:"expected_interval_hours"`

	// MinBackupSizeMB and MaxBackupAgeHours are the per-record health
	// thresholds.
	MinBackupSizeMB   float64 `mapstructure:"min_backup_size_mb"`
	MaxBackupAgeHours float64 `mapstructure:"max_backup_age_hours"`

	// Host stamps emitted events; defaults to os.Hostname.
	Host string `mapstructure:"host"`

	// TTLSeconds is the staleness window consumers apply per event.
	TTLSeconds int `mapstructure:"ttl_seconds"`

	// Schedule is the standard cron expression driving serve mode.
	Schedule         string `mapstructure:"schedule"`
	CollectOnStartup bool   `mapstructure:"collect_on_startup"`

	Retention RetentionConfig `mapstructure:"retention"`
	Liveness  LivenessConfig  `mapstructure:"liveness"`
	Sink      SinkConfig      `mapstructure:"sink"`
	Disk      DiskConfig      `mapstructure:"disk"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Log       LogConfig       `mapstructure:"log"`
}

// RetentionConfig holds the expected backup count per tier.
type RetentionConfig struct {
	Daily   int `mapstructure:"daily"`
	Weekly  int `mapstructure:"weekly"`
	Monthly int `mapstructure:"monthly"`
}

// LivenessConfig configures the monitor's self-health probe.
type LivenessConfig struct {
	ThresholdMinutes int `mapstructure:"threshold_minutes"`

	// Bind is the serve-mode address of the /healthz endpoint. Empty
	// disables the endpoint.
	Bind string `mapstructure:"bind"`
}

// SinkConfig selects and configures the event transport.
type SinkConfig struct {
	Type     SinkType       `mapstructure:"type"`
	InfluxDB InfluxDBConfig `mapstructure:"influxdb"`
	Riemann  RiemannConfig  `mapstructure:"riemann"`
}

// InfluxDBConfig holds InfluxDB sink settings.
type InfluxDBConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// RiemannConfig holds Riemann sink settings.
type RiemannConfig struct {
	Addr string `mapstructure:"addr"`
}

// DiskConfig configures the optional disk usage collector.
type DiskConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	Path            string  `mapstructure:"path"`
	WarningPercent  float64 `mapstructure:"warning_percent"`
	CriticalPercent float64 `mapstructure:"critical_percent"`
}

// RetryConfig holds HTTP retry configuration.
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configPath string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// WithConfigPath sets a specific config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// Load reads configuration from all sources and returns the merged
// config. Precedence (highest to lowest): CLI flags > environment >
// config file > defaults.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()
	l.setupEnvBindings()

	if err := l.loadConfigFile(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Host == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		cfg.Host = hostname
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	l.v.SetDefault("backup_root", "")
	l.v.SetDefault("expected_interval_hours", DefaultExpectedIntervalHours)
	l.v.SetDefault("min_backup_size_mb", DefaultMinBackupSizeMB)
	l.v.SetDefault("max_backup_age_hours", DefaultMaxBackupAgeHours)
	l.v.SetDefault("host", "")
	l.v.SetDefault("ttl_seconds", DefaultTTLSeconds)
	l.v.SetDefault("schedule", DefaultSchedule)
	l.v.SetDefault("collect_on_startup", DefaultCollectOnStartup)

	l.v.SetDefault("retention.daily", DefaultRetentionDaily)
	l.v.SetDefault("retention.weekly", DefaultRetentionWeekly)
	l.v.SetDefault("retention.monthly", DefaultRetentionMonthly)

	l.v.SetDefault("liveness.threshold_minutes", DefaultLivenessThresholdMinutes)
	l.v.SetDefault("liveness.bind", DefaultLivenessBind)

	l.v.SetDefault("sink.type", string(DefaultSinkType))
	l.v.SetDefault("sink.influxdb.url", "")
	l.v.SetDefault("sink.influxdb.database", "")
	l.v.SetDefault("sink.influxdb.username", "")
	l.v.SetDefault("sink.influxdb.password", "")
	l.v.SetDefault("sink.riemann.addr", "")

	l.v.SetDefault("disk.enabled", DefaultDiskEnabled)
	l.v.SetDefault("disk.path", DefaultDiskPath)
	l.v.SetDefault("disk.warning_percent", DefaultDiskWarningPercent)
	l.v.SetDefault("disk.critical_percent", DefaultDiskCriticalPercent)

	l.v.SetDefault("retry.max_attempts", DefaultRetryMaxAttempts)
	l.v.SetDefault("retry.initial_delay", DefaultRetryInitialDelay)
	l.v.SetDefault("retry.max_delay", DefaultRetryMaxDelay)

	l.v.SetDefault("log.level", DefaultLogLevel)
	l.v.SetDefault("log.output", "")
	l.v.SetDefault("log.max_size_mb", DefaultLogMaxSizeMB)
}

// setupEnvBindings configures environment variable bindings.
func (l *Loader) setupEnvBindings() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

// loadConfigFile loads configuration from a file.
func (l *Loader) loadConfigFile() error {
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
	} else {
		configDir, err := DefaultConfigDir()
		if err != nil {
			// Can't determine config dir, proceed without file config
			return nil
		}

		l.v.SetConfigName("config")
		l.v.SetConfigType("toml")
		l.v.AddConfigPath(configDir)
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		// Config file not found is not an error - use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// Set sets a configuration value (for CLI flag overrides).
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BackupRoot == "" {
		return fmt.Errorf("backup_root is required")
	}

	if c.ExpectedIntervalHours <= 0 {
		return fmt.Errorf("expected_interval_hours must be positive, got %v", c.ExpectedIntervalHours)
	}

	if c.MinBackupSizeMB < 0 {
		return fmt.Errorf("min_backup_size_mb cannot be negative")
	}

	if c.MaxBackupAgeHours <= 0 {
		return fmt.Errorf("max_backup_age_hours must be positive, got %v", c.MaxBackupAgeHours)
	}

	if c.TTLSeconds < 1 {
		return fmt.Errorf("ttl_seconds must be at least 1")
	}

	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}

	if c.Retention.Daily < 1 || c.Retention.Weekly < 1 || c.Retention.Monthly < 1 {
		return fmt.Errorf("retention counts must be at least 1")
	}

	if c.Liveness.ThresholdMinutes < 1 {
		return fmt.Errorf("liveness.threshold_minutes must be at least 1")
	}

	if !c.Sink.Type.IsValid() {
		return fmt.Errorf("sink.type must be one of: log, influxdb, riemann")
	}

	if c.Sink.Type == SinkInfluxDB {
		if c.Sink.InfluxDB.URL == "" {
			return fmt.Errorf("sink.influxdb.url is required when sink.type is influxdb")
		}
		if c.Sink.InfluxDB.Database == "" {
			return fmt.Errorf("sink.influxdb.database is required when sink.type is influxdb")
		}
	}

	if c.Sink.Type == SinkRiemann && c.Sink.Riemann.Addr == "" {
		return fmt.Errorf("sink.riemann.addr is required when sink.type is riemann")
	}

	if c.Disk.Enabled {
		if c.Disk.Path == "" {
			return fmt.Errorf("disk.path is required when disk is enabled")
		}
		if c.Disk.WarningPercent <= 0 || c.Disk.WarningPercent > 100 {
			return fmt.Errorf("disk.warning_percent must be in (0,100]")
		}
		if c.Disk.CriticalPercent < c.Disk.WarningPercent || c.Disk.CriticalPercent > 100 {
			return fmt.Errorf("disk.critical_percent must be in [warning_percent,100]")
		}
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}

	if c.Retry.InitialDelay < 0 {
		return fmt.Errorf("retry.initial_delay cannot be negative")
	}

	if c.Retry.MaxDelay < c.Retry.InitialDelay {
		return fmt.Errorf("retry.max_delay must be >= retry.initial_delay")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log.max_size_mb must be at least 1")
	}

	return nil
}

// TierDir returns the directory of one backup tier under the root.
func (c *Config) TierDir(tier string) string {
	return filepath.Join(c.BackupRoot, tier)
}
