package analyze

import "github.com/tbrooke/backup-monitor/internal/domain"

// Retention counts a tier's backups against its expected retention
// depth. Below half the expected count (real division, so 3 of 7 is
// critical while 4 of 7 is not) the tier is critical; below the full
// count it is a warning.
func Retention(records []domain.BackupRecord, expectedCount int) domain.RetentionResult {
	result := domain.RetentionResult{
		ActualCount:   len(records),
		ExpectedCount: expectedCount,
	}

	for _, rec := range records {
		if rec.Healthy {
			result.HealthyCount++
		}
	}

	switch {
	case float64(result.ActualCount) < float64(expectedCount)/2:
		result.Status = domain.RetentionCritical
	case result.ActualCount < expectedCount:
		result.Status = domain.RetentionWarning
	default:
		result.Status = domain.RetentionHealthy
	}

	return result
}
