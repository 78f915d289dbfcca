package memory

import (
	"context"
	"sort"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
)

type ReportRepo struct {
	s *Store
}

var _ storage.ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) Create(ctx context.Context, report *models.Report) error {
	defer r.s.lock()()
	for _, existing := range r.s.st.reports {
		if existing.JobID == report.JobID && existing.ReporterID == report.ReporterID {
			return storage.ErrConflict
		}
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	r.s.st.reports[report.ID] = copyReport(*report)
	return nil
}

func (r *ReportRepo) ExistsForReporter(ctx context.Context, jobID, reporterID string) (bool, error) {
	defer r.s.lock()()
	for _, existing := range r.s.st.reports {
		if existing.JobID == jobID && existing.ReporterID == reporterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReportRepo) ListByJob(ctx context.Context, jobID string) ([]models.Report, error) {
	return r.ListByJobs(ctx, []string{jobID})
}

func (r *ReportRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]models.Report, error) {
	defer r.s.lock()()
	wanted := make(map[string]bool, len(jobIDs))
	for _, id := range jobIDs {
		wanted[id] = true
	}
	reports := []models.Report{}
	for _, rep := range r.s.st.reports {
		if wanted[rep.JobID] {
			reports = append(reports, copyReport(rep))
		}
	}
	sort.Slice(reports, func(a, b int) bool { return reports[a].CreatedAt.After(reports[b].CreatedAt) })
	return reports, nil
}

type SubmissionRepo struct {
	s *Store
}

var _ storage.SubmissionRepository = (*SubmissionRepo)(nil)

func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	defer r.s.lock()()
	sub, ok := r.s.st.submissions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	sub = copySubmission(sub)
	return &sub, nil
}

func (r *SubmissionRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Submission, error) {
	defer r.s.lock()()
	for _, sub := range r.s.st.submissions {
		if sub.UserID == userID && sub.JobID == jobID {
			found := copySubmission(sub)
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *SubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	defer r.s.lock()()
	for _, existing := range r.s.st.submissions {
		if existing.UserID == sub.UserID && existing.JobID == sub.JobID {
			return storage.ErrConflict
		}
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = now
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = sub.SubmittedAt
	}
	r.s.st.submissions[sub.ID] = copySubmission(*sub)
	return nil
}

func (r *SubmissionRepo) UpdatePDF(ctx context.Context, id, pdfURL string, at time.Time) (*models.Submission, error) {
	defer r.s.lock()()
	sub, ok := r.s.st.submissions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	sub.PDFURL = pdfURL
	sub.UpdatedAt = at
	r.s.st.submissions[id] = sub
	out := copySubmission(sub)
	return &out, nil
}

func (r *SubmissionRepo) Decide(ctx context.Context, id string, status models.SubmissionStatus, at time.Time) (*models.Submission, error) {
	defer r.s.lock()()
	sub, ok := r.s.st.submissions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if sub.Status != models.SubmissionPending {
		return nil, storage.ErrConflict
	}
	sub.Status = status
	sub.DecidedAt = &at
	sub.UpdatedAt = at
	r.s.st.submissions[id] = sub
	out := copySubmission(sub)
	return &out, nil
}

func (r *SubmissionRepo) ListByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	return r.list(func(sub models.Submission) bool { return sub.UserID == userID })
}

func (r *SubmissionRepo) ListByJob(ctx context.Context, jobID string) ([]models.Submission, error) {
	return r.list(func(sub models.Submission) bool { return sub.JobID == jobID })
}

func (r *SubmissionRepo) list(match func(models.Submission) bool) ([]models.Submission, error) {
	defer r.s.lock()()
	subs := []models.Submission{}
	for _, sub := range r.s.st.submissions {
		if match(sub) {
			subs = append(subs, copySubmission(sub))
		}
	}
	sort.Slice(subs, func(a, b int) bool { return subs[a].SubmittedAt.After(subs[b].SubmittedAt) })
	return subs, nil
}

type LikeRepo struct {
	s *Store
}

var _ storage.LikeRepository = (*LikeRepo)(nil)

func (r *LikeRepo) Add(ctx context.Context, like *models.Like) error {
	defer r.s.lock()()
	for _, existing := range r.s.st.likes {
		if existing.JobID == like.JobID && existing.UserID == like.UserID {
			return nil
		}
	}
	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	r.s.st.likes[like.ID] = *like
	return nil
}

func (r *LikeRepo) Remove(ctx context.Context, jobID, userID string) error {
	defer r.s.lock()()
	for id, existing := range r.s.st.likes {
		if existing.JobID == jobID && existing.UserID == userID {
			delete(r.s.st.likes, id)
		}
	}
	return nil
}

func (r *LikeRepo) ListByJob(ctx context.Context, jobID string) ([]models.Like, error) {
	defer r.s.lock()()
	likes := []models.Like{}
	for _, l := range r.s.st.likes {
		if l.JobID == jobID {
			likes = append(likes, l)
		}
	}
	sort.Slice(likes, func(a, b int) bool { return likes[a].CreatedAt.Before(likes[b].CreatedAt) })
	return likes, nil
}
