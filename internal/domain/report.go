package domain

import "time"

// FreshnessStatus classifies the age of the newest backup of a tier.
type FreshnessStatus string

const (
	FreshnessHealthy FreshnessStatus = "healthy"
	FreshnessStale   FreshnessStatus = "stale"
	FreshnessMissing FreshnessStatus = "missing"
)

// String returns the string representation of the freshness status.
func (s FreshnessStatus) String() string {
	return string(s)
}

// FreshnessResult is the outcome of comparing the newest backup of a
// tier against the expected backup cadence.
type FreshnessResult struct {
	Status FreshnessStatus

	// AgeHours is nil when no backup exists for the tier.
	AgeHours *float64

	Message string
}

// RetentionStatus classifies how complete a tier's backup history is.
type RetentionStatus string

const (
	RetentionHealthy  RetentionStatus = "healthy"
	RetentionWarning  RetentionStatus = "warning"
	RetentionCritical RetentionStatus = "critical"
)

// String returns the string representation of the retention status.
func (s RetentionStatus) String() string {
	return string(s)
}

// RetentionResult is the outcome of counting a tier's backups against
// its expected retention depth.
type RetentionResult struct {
	Status        RetentionStatus
	ActualCount   int
	ExpectedCount int
	HealthyCount  int
}

// IntegrityStatus classifies the size-heuristic completeness check of
// the newest daily backup.
type IntegrityStatus string

const (
	IntegrityHealthy  IntegrityStatus = "healthy"
	IntegrityDegraded IntegrityStatus = "degraded"
	IntegrityMissing  IntegrityStatus = "missing"
	IntegrityError    IntegrityStatus = "error"
)

// String returns the string representation of the integrity status.
func (s IntegrityStatus) String() string {
	return string(s)
}

// IntegrityResult is the outcome of the size-based completeness
// heuristic. It is a proxy only; archive contents are never inspected.
type IntegrityResult struct {
	Status IntegrityStatus

	// Score is in [0,1], mapped from the archive size breakpoints.
	Score float64

	SizeMB   float64
	Filename string
}

// StorageSummary aggregates descriptive size and count figures across
// all tiers. It carries no thresholds or classification.
type StorageSummary struct {
	TotalSizeMB  float64
	DailyCount   int
	WeeklyCount  int
	MonthlyCount int
}

// OverallStatus is the tri-state (plus error) classification of a
// whole health report.
type OverallStatus string

const (
	OverallHealthy  OverallStatus = "healthy"
	OverallWarning  OverallStatus = "warning"
	OverallCritical OverallStatus = "critical"
	OverallError    OverallStatus = "error"
)

// String returns the string representation of the overall status.
func (s OverallStatus) String() string {
	return string(s)
}

// HealthReport is the single artifact of one analysis run. It is
// owned by that run alone and handed to the event projector and the
// run state; no cross-run identity exists.
type HealthReport struct {
	Timestamp time.Time
	Freshness FreshnessResult
	Retention map[BackupType]RetentionResult
	Integrity IntegrityResult
	Storage   StorageSummary

	// HealthScore is the normalized [0,1] weighted aggregate.
	HealthScore float64
	Overall     OverallStatus

	// Error carries the failure description when Overall is
	// OverallError; empty otherwise.
	Error string
}

// NewErrorReport builds the synthetic report emitted when a run fails
// while combining signals. The failure stays a value; it never crosses
// the engine boundary as a panic or error return.
func NewErrorReport(ts time.Time, msg string) *HealthReport {
	return &HealthReport{
		Timestamp:   ts,
		Freshness:   FreshnessResult{Status: FreshnessMissing, Message: msg},
		Retention:   map[BackupType]RetentionResult{},
		Integrity:   IntegrityResult{Status: IntegrityError},
		HealthScore: 0.0,
		Overall:     OverallError,
		Error:       msg,
	}
}
