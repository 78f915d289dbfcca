package services_test

import (
	"testing"

	"go-jobboard/internal/models"
	"go-jobboard/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatios_NeverDivideByZero(t *testing.T) {
	tests := []struct {
		likes, reports   int
		wantLike, wantRp float64
	}{
		{0, 0, 0, 0},
		{7, 0, 7, 0},
		{0, 3, 0, 3},
		{2, 8, 0.25, 4},
		{10, 5, 2, 0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.wantLike, services.LikeRatio(tt.likes, tt.reports), 1e-9, "likes=%d reports=%d", tt.likes, tt.reports)
		assert.InDelta(t, tt.wantRp, services.ReportRatio(tt.likes, tt.reports), 1e-9, "likes=%d reports=%d", tt.likes, tt.reports)
	}
}

func TestStandingOf(t *testing.T) {
	settings := services.DefaultSettings()
	assert.Equal(t, models.StandingGood, services.StandingOf(5, 0, settings))
	assert.Equal(t, models.StandingFlagged, services.StandingOf(50, 3, settings))
	assert.Equal(t, models.StandingNeutral, services.StandingOf(4, 2, settings))
}

func TestAggregateHirers(t *testing.T) {
	hirers := []models.User{
		{ID: "h1", Role: models.RoleHirer},
		{ID: "h2", Role: models.RoleHirer},
		{ID: "x", Role: models.RoleApplicant},
	}
	jobs := []models.Job{
		{ID: "j1", HirerID: "h1", LikesCount: 2, ReportsCount: 0},
		{ID: "j2", HirerID: "h1", LikesCount: 4, ReportsCount: 0, Frozen: true},
		{ID: "j3", HirerID: "h2", LikesCount: 0, ReportsCount: 2},
	}
	reports := []models.Report{
		{ID: "r1", JobID: "j3", Reasons: []models.ReportReason{models.ReasonScam}},
		{ID: "r2", JobID: "j3", Reasons: []models.ReportReason{models.ReasonScam, models.ReasonOther}, Note: "no reply"},
	}

	got := services.AggregateHirers(hirers, jobs, reports, services.DefaultSettings())
	require.Len(t, got, 2)

	assert.Equal(t, "h2", got[0].Hirer.ID)
	assert.Equal(t, 2, got[0].TotalReports)
	assert.InDelta(t, 2.0, got[0].ReportRatio, 1e-9)
	assert.Equal(t, map[string]int{"scam": 2, "other": 1}, got[0].ReasonTotals)
	require.Len(t, got[0].Jobs, 1)
	assert.Equal(t, []string{"no reply"}, got[0].Jobs[0].Notes)

	assert.Equal(t, "h1", got[1].Hirer.ID)
	assert.Equal(t, 6, got[1].TotalLikes)
	assert.Equal(t, 0, got[1].TotalReports)
	assert.Equal(t, 0.0, got[1].ReportRatio)
	assert.InDelta(t, 6.0, got[1].LikeRatio, 1e-9)
	assert.Equal(t, 1, got[1].FrozenJobs)
	assert.Equal(t, models.StandingGood, got[1].Standing)
}
