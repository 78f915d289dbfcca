package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, hirer_id, position, company_name, location, salary, description, job_image, frozen,
	liked_by, likes_count, reported_by, reports_count, reason_counts, created_at, updated_at`

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db Querier
	// lock makes GetByID take a row lock; set inside transactions.
	lock bool
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db Querier) *JobRepo {
	return &JobRepo{db: db}
}

// Compile-time check to ensure JobRepo implements JobRepository
var _ storage.JobRepository = (*JobRepo)(nil)

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID,
		&j.HirerID,
		&j.Position,
		&j.CompanyName,
		&j.Location,
		&j.Salary,
		&j.Description,
		&j.JobImage,
		&j.Frozen,
		&j.LikedBy,
		&j.LikesCount,
		&j.ReportedBy,
		&j.ReportsCount,
		&j.ReasonCounts,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if j.LikedBy == nil {
		j.LikedBy = []string{}
	}
	if j.ReportedBy == nil {
		j.ReportedBy = []string{}
	}
	if j.ReasonCounts == nil {
		j.ReasonCounts = map[string]int{}
	}
	return &j, nil
}

// GetByID retrieves a specific job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	if r.lock {
		query += ` FOR UPDATE`
	}
	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning job by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get job by ID %s: %w", id, err)
	}
	return job, nil
}

func (r *JobRepo) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	var conditions []string
	var args []any
	if filter.HirerID != "" {
		args = append(args, filter.HirerID)
		conditions = append(conditions, fmt.Sprintf("hirer_id = $%d", len(args)))
	}
	if filter.Frozen != nil {
		args = append(args, *filter.Frozen)
		conditions = append(conditions, fmt.Sprintf("frozen = $%d", len(args)))
	}
	query := buildListQuery(`SELECT `+jobColumns+` FROM jobs`, conditions, &args, "created_at DESC, id ASC", filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error listing jobs: %v\n", err)
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			log.Printf("Error scanning job: %v\n", err)
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Create saves a new job posting.
func (r *JobRepo) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.LikedBy == nil {
		job.LikedBy = []string{}
	}
	if job.ReportedBy == nil {
		job.ReportedBy = []string{}
	}
	if job.ReasonCounts == nil {
		job.ReasonCounts = map[string]int{}
	}

	query := `
		INSERT INTO jobs (id, hirer_id, position, company_name, location, salary, description, job_image, frozen,
			liked_by, likes_count, reported_by, reports_count, reason_counts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, COALESCE($15::timestamptz, NOW()), NOW())
		RETURNING created_at, updated_at
	`
	var createdAt any
	if !job.CreatedAt.IsZero() {
		createdAt = job.CreatedAt
	}
	err := r.db.QueryRow(ctx, query,
		job.ID,
		job.HirerID,
		job.Position,
		job.CompanyName,
		job.Location,
		job.Salary,
		job.Description,
		job.JobImage,
		job.Frozen,
		job.LikedBy,
		job.LikesCount,
		job.ReportedBy,
		job.ReportsCount,
		job.ReasonCounts,
		createdAt,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		log.Printf("Error creating job: %v\n", err)
		return fmt.Errorf("failed to create job: %w", err)
	}

	log.Printf("Job created successfully with ID: %s", job.ID)
	return nil
}

func (r *JobRepo) Update(ctx context.Context, id string, upd *models.JobUpdate) (*models.Job, error) {
	var c setClause
	if upd.Position != nil {
		c.add("position", *upd.Position)
	}
	if upd.CompanyName != nil {
		c.add("company_name", *upd.CompanyName)
	}
	if upd.Location != nil {
		c.add("location", *upd.Location)
	}
	if upd.Salary != nil {
		c.add("salary", *upd.Salary)
	}
	if upd.Description != nil {
		c.add("description", *upd.Description)
	}
	if upd.JobImage != nil {
		c.add("job_image", *upd.JobImage)
	}

	query, args := c.build("jobs", id, jobColumns)
	job, err := scanJob(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating job %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update job %s: %w", id, err)
	}
	return job, nil
}

func (r *JobRepo) SaveEngagement(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET liked_by = $2, likes_count = $3, reported_by = $4, reports_count = $5, reason_counts = $6, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, job.ID, job.LikedBy, job.LikesCount, job.ReportedBy, job.ReportsCount, job.ReasonCounts)
	if err != nil {
		log.Printf("Error saving engagement of job %s: %v\n", job.ID, err)
		return fmt.Errorf("failed to save engagement of job %s: %w", job.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *JobRepo) SetFrozen(ctx context.Context, id string, frozen bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE jobs SET frozen = $2, updated_at = NOW() WHERE id = $1 AND frozen <> $2`, id, frozen)
	if err != nil {
		log.Printf("Error setting frozen=%t on job %s: %v\n", frozen, id, err)
		return false, fmt.Errorf("failed to set frozen on job %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check job %s: %w", id, err)
	}
	if !exists {
		return false, storage.ErrNotFound
	}
	return false, nil
}
