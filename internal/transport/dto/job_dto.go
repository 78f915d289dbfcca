// internal/transport/dto/job_dto.go
package dto

import "go-jobboard/internal/models"

// --- Job Request DTOs ---

// PostJobRequest defines the structure for posting a new job listing.
type PostJobRequest struct {
	Position    string         `json:"position" validate:"required,max=120"`
	CompanyName string         `json:"company_name" validate:"required,max=120"`
	Location    string         `json:"location" validate:"required,max=120"`
	Salary      float64        `json:"salary" validate:"gte=0"`
	Description string         `json:"description" validate:"required,max=5000"`
	JobImage    string         `json:"job_image" validate:"omitempty,startswith=data:"` // Base64 data URL
	Actor       models.Session `json:"-"`                                               // Set internally by handler from auth context
}

// UpdateJobRequest defines the content fields a hirer may edit.
type UpdateJobRequest struct {
	ID          string         `json:"-" validate:"required"`
	Position    *string        `json:"position,omitempty" validate:"omitempty,max=120"`
	CompanyName *string        `json:"company_name,omitempty" validate:"omitempty,max=120"`
	Location    *string        `json:"location,omitempty" validate:"omitempty,max=120"`
	Salary      *float64       `json:"salary,omitempty" validate:"omitempty,gte=0"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=5000"`
	JobImage    *string        `json:"job_image,omitempty" validate:"omitempty,startswith=data:"`
	Actor       models.Session `json:"-"`
}

// GetJobRequest defines the structure for getting a job by ID.
type GetJobRequest struct {
	ID    string         `json:"-" validate:"required"`
	Actor models.Session `json:"-"`
}

// BrowseJobsRequest defines the query parameters of the public job list.
type BrowseJobsRequest struct {
	Search   string `form:"q" validate:"max=100"`
	Page     int    `form:"page,default=1" validate:"gte=1"`
	PageSize int    `form:"page_size,default=0" validate:"gte=0,lte=50"`
}

// --- Job Response DTOs ---

// JobPage is one page of a job listing.
type JobPage struct {
	Jobs       []models.Job `json:"jobs"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalItems int          `json:"total_items"`
	TotalPages int          `json:"total_pages"`
}
