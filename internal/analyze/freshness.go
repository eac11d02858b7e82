// Package analyze holds the pure signal analyzers and the health
// scorer. Every function here operates on already-scanned, immutable
// record collections and returns a typed result; none of them touch
// the filesystem or shared state.
package analyze

import (
	"fmt"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// Freshness compares the newest record of a tier against the expected
// backup cadence. records must be ordered most recent first.
func Freshness(records []domain.BackupRecord, expectedIntervalHours float64) domain.FreshnessResult {
	if len(records) == 0 {
		return domain.FreshnessResult{
			Status:  domain.FreshnessMissing,
			Message: "No backups found",
		}
	}

	age := records[0].AgeHours
	result := domain.FreshnessResult{
		AgeHours: &age,
		Message:  fmt.Sprintf("Latest backup is %d hours old", int(age)),
	}

	if age < expectedIntervalHours {
		result.Status = domain.FreshnessHealthy
	} else {
		result.Status = domain.FreshnessStale
	}

	return result
}
