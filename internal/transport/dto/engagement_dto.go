package dto

import "go-jobboard/internal/models"

// ToggleLikeRequest flips the caller's like on a job.
type ToggleLikeRequest struct {
	JobID string         `json:"-" validate:"required"`
	Actor models.Session `json:"-"`
}

// SubmitReportRequest files a report against a job.
type SubmitReportRequest struct {
	JobID   string                `json:"-" validate:"required"`
	Reasons []models.ReportReason `json:"reasons" validate:"required,min=1,dive,oneof=scam unresponsive fakeListing spam other"`
	Note    string                `json:"note" validate:"max=1000"`
	Actor   models.Session        `json:"-"`
}

// GetEngagementRequest asks for the caller's like/report state on a job.
type GetEngagementRequest struct {
	JobID string         `json:"-" validate:"required"`
	Actor models.Session `json:"-"`
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	JobID      string `json:"job_id"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likes_count"`
}

// ReportResult is the state after a report. Created is false when the caller had already reported.
type ReportResult struct {
	JobID        string `json:"job_id"`
	Reported     bool   `json:"reported"`
	Created      bool   `json:"created"`
	ReportsCount int    `json:"reports_count"`
}

// EngagementState is the caller's view of one job's engagement.
type EngagementState struct {
	JobID        string `json:"job_id"`
	Liked        bool   `json:"liked"`
	Reported     bool   `json:"reported"`
	LikesCount   int    `json:"likes_count"`
	ReportsCount int    `json:"reports_count"`
}
