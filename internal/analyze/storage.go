package analyze

import "github.com/tbrooke/backup-monitor/internal/domain"

// Storage sums sizes and counts across all three tiers. Purely
// descriptive; no thresholds, no classification.
func Storage(daily, weekly, monthly []domain.BackupRecord) domain.StorageSummary {
	summary := domain.StorageSummary{
		DailyCount:   len(daily),
		WeeklyCount:  len(weekly),
		MonthlyCount: len(monthly),
	}

	for _, tier := range [][]domain.BackupRecord{daily, weekly, monthly} {
		for _, rec := range tier {
			summary.TotalSizeMB += rec.SizeMB()
		}
	}

	return summary
}
