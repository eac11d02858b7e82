// Package config handles application configuration loading and validation.
package config

import "time"

// Default configuration values.
const (
	// DefaultExpectedIntervalHours allows one daily backup plus an hour
	// of scheduling slack.
	DefaultExpectedIntervalHours = 25.0

	DefaultRetentionDaily   = 7
	DefaultRetentionWeekly  = 4
	DefaultRetentionMonthly = 6

	DefaultMinBackupSizeMB   = 1.0
	DefaultMaxBackupAgeHours = 168.0

	DefaultTTLSeconds = 300

	DefaultSchedule         = "*/5 * * * *"
	DefaultCollectOnStartup = true

	DefaultLivenessThresholdMinutes = 10
	DefaultLivenessBind             = ":9131"

	DefaultSinkType = SinkLog

	DefaultDiskEnabled         = false
	DefaultDiskPath            = "/"
	DefaultDiskWarningPercent  = 80.0
	DefaultDiskCriticalPercent = 90.0

	DefaultRetryMaxAttempts  = 3
	DefaultRetryInitialDelay = 5 * time.Second
	DefaultRetryMaxDelay     = 30 * time.Second

	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
)

// SinkType selects the event transport backend.
type SinkType string

const (
	// SinkLog writes events to the structured logger.
	SinkLog SinkType = "log"
	// SinkInfluxDB writes events to InfluxDB via line protocol.
	SinkInfluxDB SinkType = "influxdb"
	// SinkRiemann sends events to Riemann as plain-text UDP.
	SinkRiemann SinkType = "riemann"
)

// IsValid returns true if the sink type is known.
func (t SinkType) IsValid() bool {
	switch t {
	case SinkLog, SinkInfluxDB, SinkRiemann:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sink type.
func (t SinkType) String() string {
	return string(t)
}
