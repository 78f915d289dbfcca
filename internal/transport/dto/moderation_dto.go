package dto

import "go-jobboard/internal/models"

// ModerationRequest targets one hirer with an admin action.
type ModerationRequest struct {
	HirerID string         `json:"-" validate:"required"`
	Actor   models.Session `json:"-"`
}

// SendNoticeRequest sends an escalation notice to a hirer. Step defaults to "notice".
type SendNoticeRequest struct {
	HirerID string            `json:"-" validate:"required"`
	Step    models.StatusStep `json:"step" validate:"omitempty,oneof=notice deletion ban"`
	Actor   models.Session    `json:"-"`
}

// ListReportsRequest asks for the reports filed against a job.
type ListReportsRequest struct {
	JobID string         `json:"-" validate:"required"`
	Actor models.Session `json:"-"`
}

// ListLikesRequest asks who liked a job.
type ListLikesRequest struct {
	JobID string         `json:"-" validate:"required"`
	Actor models.Session `json:"-"`
}

// LikerView is a like with the liker's name and email for the admin view.
type LikerView struct {
	models.Like
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// FreezeResult tells how many jobs changed and whether the hirer was emailed.
type FreezeResult struct {
	HirerID  string `json:"hirer_id"`
	Changed  int    `json:"changed"`
	Notified bool   `json:"notified"`
}
