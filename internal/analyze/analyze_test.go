package analyze

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

func record(sizeMB, ageHours float64, healthy bool) domain.BackupRecord {
	return domain.BackupRecord{
		Filename:  fmt.Sprintf("alfresco_%.0fh.tar.gz", ageHours),
		Type:      domain.BackupDaily,
		SizeBytes: int64(sizeMB * 1024 * 1024),
		AgeHours:  ageHours,
		Healthy:   healthy,
	}
}

func TestFreshness(t *testing.T) {
	tests := []struct {
		name       string
		records    []domain.BackupRecord
		interval   float64
		wantStatus domain.FreshnessStatus
		wantMsg    string
	}{
		{
			name:       "no backups",
			records:    nil,
			interval:   25,
			wantStatus: domain.FreshnessMissing,
			wantMsg:    "No backups found",
		},
		{
			name:       "fresh backup",
			records:    []domain.BackupRecord{record(120, 10, true)},
			interval:   25,
			wantStatus: domain.FreshnessHealthy,
			wantMsg:    "Latest backup is 10 hours old",
		},
		{
			name:       "stale backup",
			records:    []domain.BackupRecord{record(120, 30, false)},
			interval:   25,
			wantStatus: domain.FreshnessStale,
			wantMsg:    "Latest backup is 30 hours old",
		},
		{
			name:       "exactly at interval is stale",
			records:    []domain.BackupRecord{record(120, 25, true)},
			interval:   25,
			wantStatus: domain.FreshnessStale,
			wantMsg:    "Latest backup is 25 hours old",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Freshness(tt.records, tt.interval)

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantMsg, result.Message)
			if len(tt.records) == 0 {
				assert.Nil(t, result.AgeHours)
			} else {
				require.NotNil(t, result.AgeHours)
				assert.Equal(t, tt.records[0].AgeHours, *result.AgeHours)
			}
		})
	}
}

func TestRetention(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected int
		want     domain.RetentionStatus
	}{
		{"3 of 7 is critical", 3, 7, domain.RetentionCritical},
		{"4 of 7 is warning", 4, 7, domain.RetentionWarning},
		{"5 of 7 is warning", 5, 7, domain.RetentionWarning},
		{"7 of 7 is healthy", 7, 7, domain.RetentionHealthy},
		{"8 of 7 is healthy", 8, 7, domain.RetentionHealthy},
		{"0 of 7 is critical", 0, 7, domain.RetentionCritical},
		{"2 of 4 is warning", 2, 4, domain.RetentionWarning},
		{"1 of 4 is critical", 1, 4, domain.RetentionCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]domain.BackupRecord, tt.count)
			for i := range records {
				records[i] = record(120, float64(i*24), i%2 == 0)
			}

			result := Retention(records, tt.expected)

			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, tt.count, result.ActualCount)
			assert.Equal(t, tt.expected, result.ExpectedCount)
		})
	}
}

func TestRetention_HealthyCount(t *testing.T) {
	records := []domain.BackupRecord{
		record(120, 10, true),
		record(120, 34, true),
		record(0.5, 58, false),
	}

	result := Retention(records, 7)

	assert.Equal(t, 3, result.ActualCount)
	assert.Equal(t, 2, result.HealthyCount)
}

func TestIntegrity_NoBackups(t *testing.T) {
	result := Integrity(nil)

	assert.Equal(t, domain.IntegrityMissing, result.Status)
	assert.Equal(t, 0.0, result.Score)
}

func TestIntegrity_SizeBreakpoints(t *testing.T) {
	tests := []struct {
		sizeMB     float64
		wantScore  float64
		wantStatus domain.IntegrityStatus
	}{
		{0.05, 0.0, domain.IntegrityDegraded},
		{0.5, 0.3, domain.IntegrityDegraded},
		{3, 0.7, domain.IntegrityHealthy},
		{20, 0.9, domain.IntegrityHealthy},
		{120, 1.0, domain.IntegrityHealthy},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.2fMB", tt.sizeMB), func(t *testing.T) {
			result := Integrity([]domain.BackupRecord{record(tt.sizeMB, 10, true)})

			assert.InDelta(t, tt.wantScore, result.Score, 0.001)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.InDelta(t, tt.sizeMB, result.SizeMB, 0.001)
		})
	}
}

func TestIntegrity_ScoreIsMonotonicInSize(t *testing.T) {
	sizes := []float64{0.01, 0.05, 0.2, 0.9, 1.5, 4.9, 5.1, 49, 51, 500}

	prev := -1.0
	for _, size := range sizes {
		result := Integrity([]domain.BackupRecord{record(size, 10, true)})
		assert.GreaterOrEqual(t, result.Score, prev, "score regressed at %.2fMB", size)
		prev = result.Score
	}
}

func TestIntegrity_OnlyNewestBackupCounts(t *testing.T) {
	records := []domain.BackupRecord{
		record(120, 10, true),
		record(0.01, 34, false),
	}

	result := Integrity(records)

	assert.Equal(t, domain.IntegrityHealthy, result.Status)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, records[0].Filename, result.Filename)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		freshness  domain.FreshnessStatus
		retention  domain.RetentionStatus
		integrity  domain.IntegrityStatus
		wantScore  float64
		wantStatus domain.OverallStatus
	}{
		{
			name:      "everything healthy",
			freshness: domain.FreshnessHealthy, retention: domain.RetentionHealthy, integrity: domain.IntegrityHealthy,
			wantScore: 1.0, wantStatus: domain.OverallHealthy,
		},
		{
			name:      "fresh and intact but thin retention",
			freshness: domain.FreshnessHealthy, retention: domain.RetentionCritical, integrity: domain.IntegrityHealthy,
			wantScore: 0.75, wantStatus: domain.OverallWarning,
		},
		{
			name:      "stale with warnings",
			freshness: domain.FreshnessStale, retention: domain.RetentionWarning, integrity: domain.IntegrityDegraded,
			wantScore: 0.375, wantStatus: domain.OverallCritical,
		},
		{
			name:      "everything missing",
			freshness: domain.FreshnessMissing, retention: domain.RetentionCritical, integrity: domain.IntegrityMissing,
			wantScore: 0.0, wantStatus: domain.OverallCritical,
		},
		{
			name:      "healthy except degraded integrity",
			freshness: domain.FreshnessHealthy, retention: domain.RetentionHealthy, integrity: domain.IntegrityDegraded,
			wantScore: 0.75, wantStatus: domain.OverallWarning,
		},
		{
			name:      "integrity error earns zero points",
			freshness: domain.FreshnessHealthy, retention: domain.RetentionHealthy, integrity: domain.IntegrityError,
			wantScore: 0.625, wantStatus: domain.OverallWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, status := Score(
				domain.FreshnessResult{Status: tt.freshness},
				domain.RetentionResult{Status: tt.retention},
				domain.IntegrityResult{Status: tt.integrity},
			)

			assert.InDelta(t, tt.wantScore, score, 0.001)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestScore_AlwaysNormalized(t *testing.T) {
	freshnesses := []domain.FreshnessStatus{domain.FreshnessHealthy, domain.FreshnessStale, domain.FreshnessMissing}
	retentions := []domain.RetentionStatus{domain.RetentionHealthy, domain.RetentionWarning, domain.RetentionCritical}
	integrities := []domain.IntegrityStatus{domain.IntegrityHealthy, domain.IntegrityDegraded, domain.IntegrityMissing, domain.IntegrityError}

	for _, f := range freshnesses {
		for _, r := range retentions {
			for _, i := range integrities {
				score, _ := Score(
					domain.FreshnessResult{Status: f},
					domain.RetentionResult{Status: r},
					domain.IntegrityResult{Status: i},
				)
				assert.GreaterOrEqual(t, score, 0.0, "%s/%s/%s", f, r, i)
				assert.LessOrEqual(t, score, 1.0, "%s/%s/%s", f, r, i)
			}
		}
	}
}

func TestStorage(t *testing.T) {
	daily := []domain.BackupRecord{record(100, 10, true), record(110, 34, true)}
	weekly := []domain.BackupRecord{record(400, 100, true)}
	var monthly []domain.BackupRecord

	summary := Storage(daily, weekly, monthly)

	assert.Equal(t, 2, summary.DailyCount)
	assert.Equal(t, 1, summary.WeeklyCount)
	assert.Equal(t, 0, summary.MonthlyCount)
	assert.InDelta(t, 610.0, summary.TotalSizeMB, 0.001)
}
