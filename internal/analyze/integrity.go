package analyze

import "github.com/tbrooke/backup-monitor/internal/domain"

// Integrity evaluates the newest daily backup with a size-based
// completeness heuristic. Older backups are retention's concern, and
// archive contents are never inspected; the score is a proxy for "did
// the backup likely complete". records must be ordered most recent
// first.
//
// Any panic during evaluation converts to an Error result rather than
// propagating past the engine boundary.
func Integrity(records []domain.BackupRecord) (result domain.IntegrityResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.IntegrityResult{
				Status: domain.IntegrityError,
				Score:  0.0,
			}
		}
	}()

	if len(records) == 0 {
		return domain.IntegrityResult{
			Status: domain.IntegrityMissing,
			Score:  0.0,
		}
	}

	newest := records[0]
	sizeMB := newest.SizeMB()
	score := integrityScore(sizeMB)

	result = domain.IntegrityResult{
		Score:    score,
		SizeMB:   sizeMB,
		Filename: newest.Filename,
	}

	if score > 0.5 {
		result.Status = domain.IntegrityHealthy
	} else {
		result.Status = domain.IntegrityDegraded
	}

	return result
}

// integrityScore maps archive size to a score via fixed monotonic
// breakpoints.
func integrityScore(sizeMB float64) float64 {
	switch {
	case sizeMB < 0.1:
		return 0.0
	case sizeMB < 1:
		return 0.3
	case sizeMB < 5:
		return 0.7
	case sizeMB < 50:
		return 0.9
	default:
		return 1.0
	}
}