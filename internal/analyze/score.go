package analyze

import "github.com/tbrooke/backup-monitor/internal/domain"

// Score point allocation. The 8-point split and the 0.8/0.5 overall
// breakpoints are an inherited heuristic with no documented
// derivation; they are preserved as the default policy, not derived
// from anything.
const (
	freshnessHealthyPoints = 3
	freshnessStalePoints   = 1

	retentionHealthyPoints = 2
	retentionWarningPoints = 1

	integrityHealthyPoints  = 3
	integrityDegradedPoints = 1

	totalPoints = 8.0
)

// Score combines freshness, daily retention and integrity into the
// normalized health score and the overall status. Weekly and monthly
// retention are reported but deliberately not weighted in.
func Score(freshness domain.FreshnessResult, dailyRetention domain.RetentionResult, integrity domain.IntegrityResult) (float64, domain.OverallStatus) {
	points := 0

	switch freshness.Status {
	case domain.FreshnessHealthy:
		points += freshnessHealthyPoints
	case domain.FreshnessStale:
		points += freshnessStalePoints
	}

	switch dailyRetention.Status {
	case domain.RetentionHealthy:
		points += retentionHealthyPoints
	case domain.RetentionWarning:
		points += retentionWarningPoints
	}

	switch integrity.Status {
	case domain.IntegrityHealthy:
		points += integrityHealthyPoints
	case domain.IntegrityDegraded:
		points += integrityDegradedPoints
	}

	score := float64(points) / totalPoints

	var status domain.OverallStatus
	switch {
	case score > 0.8:
		status = domain.OverallHealthy
	case score > 0.5:
		status = domain.OverallWarning
	default:
		status = domain.OverallCritical
	}

	return score, status
}
