package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportRepo implements storage.ReportRepository using PostgreSQL.
type ReportRepo struct {
	db Querier
}

func NewReportRepo(db Querier) *ReportRepo {
	return &ReportRepo{db: db}
}

var _ storage.ReportRepository = (*ReportRepo)(nil)

const reportColumns = `id, job_id, reporter_id, reasons, note, created_at`

func scanReport(row pgx.Row) (*models.Report, error) {
	var rep models.Report
	var reasons []string
	if err := row.Scan(&rep.ID, &rep.JobID, &rep.ReporterID, &reasons, &rep.Note, &rep.CreatedAt); err != nil {
		return nil, err
	}
	rep.Reasons = make([]models.ReportReason, 0, len(reasons))
	for _, r := range reasons {
		rep.Reasons = append(rep.Reasons, models.ReportReason(r))
	}
	return &rep, nil
}

func (r *ReportRepo) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	reasons := make([]string, 0, len(report.Reasons))
	for _, reason := range report.Reasons {
		reasons = append(reasons, string(reason))
	}

	query := `
		INSERT INTO reports (id, job_id, reporter_id, reasons, note, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, report.ID, report.JobID, report.ReporterID, reasons, report.Note).Scan(&report.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		log.Printf("Error creating report for job %s: %v\n", report.JobID, err)
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportRepo) ExistsForReporter(ctx context.Context, jobID, reporterID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reports WHERE job_id = $1 AND reporter_id = $2)`,
		jobID, reporterID,
	).Scan(&exists)
	if err != nil {
		log.Printf("Error checking report of %s on job %s: %v\n", reporterID, jobID, err)
		return false, fmt.Errorf("failed to check report: %w", err)
	}
	return exists, nil
}

func (r *ReportRepo) ListByJob(ctx context.Context, jobID string) ([]models.Report, error) {
	return r.ListByJobs(ctx, []string{jobID})
}

func (r *ReportRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]models.Report, error) {
	if len(jobIDs) == 0 {
		return []models.Report{}, nil
	}
	query := `SELECT ` + reportColumns + ` FROM reports WHERE job_id = ANY($1) ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, jobIDs)
	if err != nil {
		log.Printf("Error listing reports: %v\n", err)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			log.Printf("Error scanning report: %v\n", err)
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

// SubmissionRepo implements storage.SubmissionRepository using PostgreSQL.
type SubmissionRepo struct {
	db Querier
}

func NewSubmissionRepo(db Querier) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

var _ storage.SubmissionRepository = (*SubmissionRepo)(nil)

const submissionColumns = `id, user_id, job_id, pdf_url, status, submitted_at, updated_at, decided_at`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var sub models.Submission
	err := row.Scan(&sub.ID, &sub.UserID, &sub.JobID, &sub.PDFURL, &sub.Status, &sub.SubmittedAt, &sub.UpdatedAt, &sub.DecidedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepo) getOne(ctx context.Context, query string, args ...any) (*models.Submission, error) {
	sub, err := scanSubmission(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error fetching submission: %v\n", err)
		return nil, fmt.Errorf("failed to fetch submission: %w", err)
	}
	return sub, nil
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	return r.getOne(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
}

func (r *SubmissionRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Submission, error) {
	return r.getOne(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE user_id = $1 AND job_id = $2`, userID, jobID)
}

func (r *SubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = sub.SubmittedAt
	}
	query := `
		INSERT INTO submissions (id, user_id, job_id, pdf_url, status, submitted_at, updated_at, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, sub.ID, sub.UserID, sub.JobID, sub.PDFURL, sub.Status, sub.SubmittedAt, sub.UpdatedAt, sub.DecidedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		log.Printf("Error creating submission for user %s on job %s: %v\n", sub.UserID, sub.JobID, err)
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepo) UpdatePDF(ctx context.Context, id, pdfURL string, at time.Time) (*models.Submission, error) {
	return r.getOne(ctx,
		`UPDATE submissions SET pdf_url = $2, updated_at = $3 WHERE id = $1 RETURNING `+submissionColumns,
		id, pdfURL, at,
	)
}

// Decide only touches pending rows; a miss is resolved into NotFound or Conflict.
func (r *SubmissionRepo) Decide(ctx context.Context, id string, status models.SubmissionStatus, at time.Time) (*models.Submission, error) {
	sub, err := r.getOne(ctx,
		`UPDATE submissions SET status = $2, decided_at = $3, updated_at = $3
		 WHERE id = $1 AND status = 'pending' RETURNING `+submissionColumns,
		id, status, at,
	)
	if !errors.Is(err, storage.ErrNotFound) {
		return sub, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check submission %s: %w", id, err)
	}
	if exists {
		return nil, storage.ErrConflict
	}
	return nil, storage.ErrNotFound
}

func (r *SubmissionRepo) ListByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	return r.list(ctx, "user_id", userID)
}

func (r *SubmissionRepo) ListByJob(ctx context.Context, jobID string) ([]models.Submission, error) {
	return r.list(ctx, "job_id", jobID)
}

func (r *SubmissionRepo) list(ctx context.Context, column, value string) ([]models.Submission, error) {
	var args []any
	args = append(args, value)
	query := buildListQuery(`SELECT `+submissionColumns+` FROM submissions`,
		[]string{column + " = $1"}, &args, "submitted_at DESC", 0)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error listing submissions by %s: %v\n", column, err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// LikeRepo implements storage.LikeRepository using PostgreSQL.
type LikeRepo struct {
	db Querier
}

func NewLikeRepo(db Querier) *LikeRepo {
	return &LikeRepo{db: db}
}

var _ storage.LikeRepository = (*LikeRepo)(nil)

func (r *LikeRepo) Add(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO likes (id, job_id, user_id, created_at) VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (job_id, user_id) DO NOTHING`,
		like.ID, like.JobID, like.UserID,
	)
	if err != nil {
		log.Printf("Error adding like of %s on job %s: %v\n", like.UserID, like.JobID, err)
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

func (r *LikeRepo) Remove(ctx context.Context, jobID, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM likes WHERE job_id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		log.Printf("Error removing like of %s on job %s: %v\n", userID, jobID, err)
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

func (r *LikeRepo) ListByJob(ctx context.Context, jobID string) ([]models.Like, error) {
	rows, err := r.db.Query(ctx, `SELECT id, job_id, user_id, created_at FROM likes WHERE job_id = $1 ORDER BY created_at ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	defer rows.Close()

	likes := []models.Like{}
	for rows.Next() {
		var l models.Like
		if err := rows.Scan(&l.ID, &l.JobID, &l.UserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, l)
	}
	return likes, rows.Err()
}
