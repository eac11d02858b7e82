// Package domain defines core business types and interfaces.
package domain

import "time"

// BackupType represents a backup retention tier.
type BackupType string

const (
	// BackupDaily is the daily backup tier.
	BackupDaily BackupType = "daily"
	// BackupWeekly is the weekly backup tier.
	BackupWeekly BackupType = "weekly"
	// BackupMonthly is the monthly backup tier.
	BackupMonthly BackupType = "monthly"
)

// BackupTypes lists all tiers in reporting order.
var BackupTypes = []BackupType{BackupDaily, BackupWeekly, BackupMonthly}

// String returns the string representation of the backup type.
func (t BackupType) String() string {
	return string(t)
}

// BackupRecord describes one physical backup archive found on disk.
// Records are built fresh on every scan and never mutated afterwards.
type BackupRecord struct {
	Filename     string
	Path         string
	Type         BackupType
	SizeBytes    int64
	LastModified time.Time

	// ParsedTimestamp is extracted from the filename, not file metadata.
	// It is nil when the name carries no parseable timestamp.
	ParsedTimestamp *time.Time

	// AgeHours is computed against the single evaluation instant of the
	// scan that produced the record, so all records of one run compare
	// consistently even if the scan itself takes a while.
	AgeHours float64

	// Healthy is true when the archive is both large enough and young
	// enough per the configured thresholds.
	Healthy bool
}

// SizeMB returns the archive size in megabytes.
func (r BackupRecord) SizeMB() float64 {
	return float64(r.SizeBytes) / (1024 * 1024)
}

// EffectiveTime returns the best-known creation time of the backup:
// the filename timestamp when present, the file mtime otherwise.
func (r BackupRecord) EffectiveTime() time.Time {
	if r.ParsedTimestamp != nil {
		return *r.ParsedTimestamp
	}
	return r.LastModified
}
