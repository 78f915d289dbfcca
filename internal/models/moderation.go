package models

// Standing is the colour-coded reputation shown next to a hirer.
type Standing string

const (
	StandingGood    Standing = "good"
	StandingNeutral Standing = "neutral"
	StandingFlagged Standing = "flagged"
)

// JobTally is one job's contribution to a hirer summary.
type JobTally struct {
	JobID        string         `json:"job_id"`
	Position     string         `json:"position"`
	Frozen       bool           `json:"frozen"`
	LikesCount   int            `json:"likes_count"`
	ReportsCount int            `json:"reports_count"`
	ReasonCounts map[string]int `json:"reason_counts"`
	Notes        []string       `json:"notes,omitempty"`
}

// HirerSummary aggregates likes and reports over all jobs of one hirer.
type HirerSummary struct {
	Hirer        User           `json:"hirer"`
	Jobs         []JobTally     `json:"jobs"`
	TotalLikes   int            `json:"total_likes"`
	TotalReports int            `json:"total_reports"`
	ReasonTotals map[string]int `json:"reason_totals"`
	LikeRatio    float64        `json:"like_ratio"`
	ReportRatio  float64        `json:"report_ratio"`
	FrozenJobs   int            `json:"frozen_jobs"`
	Standing     Standing       `json:"standing"`
}
