package dto

import "go-jobboard/internal/models"

// SubmitCVRequest submits or updates the caller's CV link for a job.
// An empty CVURL falls back to the profile CV.
type SubmitCVRequest struct {
	JobID string         `json:"-" validate:"required"`
	CVURL string         `json:"cv_url" validate:"omitempty,url"`
	Actor models.Session `json:"-"`
}

// SaveProfileCVRequest stores the caller's base CV link.
type SaveProfileCVRequest struct {
	CVURL string         `json:"cv_url" validate:"required,url"`
	Actor models.Session `json:"-"`
}

// UploadCVRequest carries an uploaded CV file.
type UploadCVRequest struct {
	FileName string
	Content  []byte
	Actor    models.Session
}

// DecideRequest records a hirer's outcome for a submission.
type DecideRequest struct {
	SubmissionID string                  `json:"-" validate:"required"`
	Outcome      models.SubmissionStatus `json:"outcome" validate:"required,oneof=accepted rejected"`
	Actor        models.Session          `json:"-"`
}

// ListMySubmissionsRequest pages the caller's job submissions.
type ListMySubmissionsRequest struct {
	Page     int            `form:"page,default=1" validate:"gte=1"`
	PageSize int            `form:"page_size,default=0" validate:"gte=0,lte=50"`
	Actor    models.Session `json:"-"`
}

// ListJobSubmissionsRequest lists the submissions of a job for its hirer.
type ListJobSubmissionsRequest struct {
	JobID string         `json:"-" validate:"required"`
	Actor models.Session `json:"-"`
}

// SubmissionView is a submission with the job it targets.
type SubmissionView struct {
	models.Submission
	Position    string `json:"position,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// SubmissionPage is one page of the caller's submissions.
type SubmissionPage struct {
	Submissions []SubmissionView `json:"submissions"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
	TotalItems  int              `json:"total_items"`
	TotalPages  int              `json:"total_pages"`
}

// ListHirerSubmissionsRequest pages the submissions across all of the caller's jobs.
type ListHirerSubmissionsRequest struct {
	Page     int            `form:"page,default=1" validate:"gte=1"`
	PageSize int            `form:"page_size,default=0" validate:"gte=0,lte=50"`
	Actor    models.Session `json:"-"`
}

// InboxEntry is a submission as a hirer sees it: who applied and to which job.
type InboxEntry struct {
	models.Submission
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email,omitempty"`
	ApplicantPhoto string `json:"applicant_photo,omitempty"`
	JobTitle       string `json:"job_title"`
}

// InboxPage is one page of a hirer's inbox.
type InboxPage struct {
	Submissions []InboxEntry `json:"submissions"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalItems  int          `json:"total_items"`
	TotalPages  int          `json:"total_pages"`
}
