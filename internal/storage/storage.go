package storage

import (
	"context"
	"time"

	"go-jobboard/internal/models"
)

//go:generate mockgen -destination=../mocks/mock_storage.go -package=mocks go-jobboard/internal/storage Store,UserRepository,JobRepository,ReportRepository,SubmissionRepository,LikeRepository

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
}

// JobRepository defines the interface for job data operations.
// Inside a transaction GetByID locks the job until commit.
type JobRepository interface {
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, id string, upd *models.JobUpdate) (*models.Job, error)
	// SaveEngagement writes LikedBy, LikesCount, ReportedBy, ReportsCount and ReasonCounts.
	SaveEngagement(ctx context.Context, job *models.Job) error
	// SetFrozen sets the frozen flag and reports whether the stored value changed.
	SetFrozen(ctx context.Context, id string, frozen bool) (bool, error)
}

// ReportRepository defines the interface for report data operations.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ExistsForReporter(ctx context.Context, jobID, reporterID string) (bool, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Report, error)
	ListByJobs(ctx context.Context, jobIDs []string) ([]models.Report, error)
}

// SubmissionRepository defines the interface for CV submission data operations.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Submission, error)
	Create(ctx context.Context, sub *models.Submission) error
	UpdatePDF(ctx context.Context, id, pdfURL string, at time.Time) (*models.Submission, error)
	// Decide moves a pending submission to status. It returns ErrConflict when
	// the submission is no longer pending.
	Decide(ctx context.Context, id string, status models.SubmissionStatus, at time.Time) (*models.Submission, error)
	ListByUser(ctx context.Context, userID string) ([]models.Submission, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Submission, error)
}

// LikeRepository maintains the display-only mirror of Job.LikedBy.
type LikeRepository interface {
	Add(ctx context.Context, like *models.Like) error
	Remove(ctx context.Context, jobID, userID string) error
	ListByJob(ctx context.Context, jobID string) ([]models.Like, error)
}

// Store hands out repositories and runs atomic read-modify-write transactions.
// Repositories obtained from the tx Store passed to fn take part in the transaction.
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Reports() ReportRepository
	Submissions() SubmissionRepository
	Likes() LikeRepository
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
