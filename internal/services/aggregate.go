package services

import (
	"sort"

	"go-jobboard/internal/models"
)

// LikeRatio is totalLikes / max(totalReports, 1).
func LikeRatio(totalLikes, totalReports int) float64 {
	return float64(totalLikes) / float64(max(totalReports, 1))
}

// ReportRatio is totalReports / max(totalLikes, 1).
func ReportRatio(totalLikes, totalReports int) float64 {
	return float64(totalReports) / float64(max(totalLikes, 1))
}

// StandingOf classifies a hirer by totals. Flagged wins over good.
func StandingOf(totalLikes, totalReports int, settings Settings) models.Standing {
	settings = settings.withDefaults()
	switch {
	case totalReports >= settings.FlaggedStandingReports:
		return models.StandingFlagged
	case totalLikes >= settings.GoodStandingLikes:
		return models.StandingGood
	default:
		return models.StandingNeutral
	}
}

// AggregateHirers folds already fetched jobs and reports into one summary per hirer.
// Likes and reports totals come from the job counters; reason tallies come from the reports.
// Summaries are ordered by report ratio, highest first.
func AggregateHirers(hirers []models.User, jobs []models.Job, reports []models.Report, settings Settings) []models.HirerSummary {
	reportsByJob := make(map[string][]models.Report)
	for _, r := range reports {
		reportsByJob[r.JobID] = append(reportsByJob[r.JobID], r)
	}
	jobsByHirer := make(map[string][]models.Job)
	for _, j := range jobs {
		jobsByHirer[j.HirerID] = append(jobsByHirer[j.HirerID], j)
	}

	summaries := make([]models.HirerSummary, 0, len(hirers))
	for _, h := range hirers {
		if h.Role != models.RoleHirer {
			continue
		}
		sum := models.HirerSummary{
			Hirer:        h,
			Jobs:         []models.JobTally{},
			ReasonTotals: map[string]int{},
		}
		for _, j := range jobsByHirer[h.ID] {
			tally := models.JobTally{
				JobID:        j.ID,
				Position:     j.Position,
				Frozen:       j.Frozen,
				LikesCount:   j.LikesCount,
				ReportsCount: j.ReportsCount,
				ReasonCounts: map[string]int{},
			}
			for _, r := range reportsByJob[j.ID] {
				for _, reason := range r.Reasons {
					tally.ReasonCounts[string(reason)]++
					sum.ReasonTotals[string(reason)]++
				}
				if r.Note != "" {
					tally.Notes = append(tally.Notes, r.Note)
				}
			}
			sum.TotalLikes += j.LikesCount
			sum.TotalReports += j.ReportsCount
			if j.Frozen {
				sum.FrozenJobs++
			}
			sum.Jobs = append(sum.Jobs, tally)
		}
		sum.LikeRatio = LikeRatio(sum.TotalLikes, sum.TotalReports)
		sum.ReportRatio = ReportRatio(sum.TotalLikes, sum.TotalReports)
		sum.Standing = StandingOf(sum.TotalLikes, sum.TotalReports, settings)
		summaries = append(summaries, sum)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].ReportRatio != summaries[j].ReportRatio {
			return summaries[i].ReportRatio > summaries[j].ReportRatio
		}
		return summaries[i].Hirer.ID < summaries[j].Hirer.ID
	})
	return summaries
}
