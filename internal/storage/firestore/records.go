package firestore

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

type ReportRepo struct {
	s *Store
}

var _ storage.ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) byReporter(jobID, reporterID string) firestore.Query {
	return r.s.collection(reportsCollection).
		Where("jobId", "==", jobID).
		Where("reporterId", "==", reporterID).
		Limit(1)
}

func (r *ReportRepo) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	return r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		existing, err := tx.documents(ctx, (&ReportRepo{s: tx}).byReporter(report.JobID, report.ReporterID))
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return storage.ErrConflict
		}
		ref := tx.collection(reportsCollection).Doc(report.ID)
		stored := *report
		tx.queue(func(t *firestore.Transaction) error { return t.Create(ref, stored) })
		return nil
	})
}

func (r *ReportRepo) ExistsForReporter(ctx context.Context, jobID, reporterID string) (bool, error) {
	snaps, err := r.s.documents(ctx, r.byReporter(jobID, reporterID))
	if err != nil {
		return false, err
	}
	return len(snaps) > 0, nil
}

func (r *ReportRepo) ListByJob(ctx context.Context, jobID string) ([]models.Report, error) {
	return r.ListByJobs(ctx, []string{jobID})
}

// ListByJobs queries in chunks of 30, the limit of an "in" filter.
func (r *ReportRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]models.Report, error) {
	reports := []models.Report{}
	for start := 0; start < len(jobIDs); start += 30 {
		end := min(start+30, len(jobIDs))
		q := r.s.collection(reportsCollection).Where("jobId", "in", jobIDs[start:end])
		snaps, err := r.s.documents(ctx, q)
		if err != nil {
			log.Printf("Error listing reports: %v\n", err)
			return nil, err
		}
		for _, snap := range snaps {
			var rep models.Report
			if err := snap.DataTo(&rep); err != nil {
				return nil, fmt.Errorf("failed to decode report %s: %w", snap.Ref.ID, err)
			}
			rep.ID = snap.Ref.ID
			reports = append(reports, rep)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports, nil
}

type SubmissionRepo struct {
	s *Store
}

var _ storage.SubmissionRepository = (*SubmissionRepo)(nil)

func decodeSubmission(snap *firestore.DocumentSnapshot) (*models.Submission, error) {
	var sub models.Submission
	if err := snap.DataTo(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode submission %s: %w", snap.Ref.ID, err)
	}
	sub.ID = snap.Ref.ID
	return &sub, nil
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	snap, err := r.s.get(ctx, r.s.collection(submissionsCollection).Doc(id))
	if err != nil {
		return nil, err
	}
	return decodeSubmission(snap)
}

func (r *SubmissionRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Submission, error) {
	q := r.s.collection(submissionsCollection).Where("userId", "==", userID).Where("jobId", "==", jobID).Limit(1)
	snaps, err := r.s.documents(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, storage.ErrNotFound
	}
	return decodeSubmission(snaps[0])
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
	return r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		if _, err := (&SubmissionRepo{s: tx}).FindByUserAndJob(ctx, sub.UserID, sub.JobID); !isNotFound(err) {
			if err != nil {
				return err
			}
			return storage.ErrConflict
		}
		ref := tx.collection(submissionsCollection).Doc(sub.ID)
		stored := *sub
		tx.queue(func(t *firestore.Transaction) error { return t.Create(ref, stored) })
		return nil
	})
}

// modify reads the submission, lets change edit it and writes it back.
func (r *SubmissionRepo) modify(ctx context.Context, id string, change func(sub *models.Submission) error) (*models.Submission, error) {
	var out *models.Submission
	err := r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		ref := tx.collection(submissionsCollection).Doc(id)
		snap, err := tx.get(ctx, ref)
		if err != nil {
			return err
		}
		sub, err := decodeSubmission(snap)
		if err != nil {
			return err
		}
		if err := change(sub); err != nil {
			return err
		}
		stored := *sub
		tx.queue(func(t *firestore.Transaction) error { return t.Set(ref, stored) })
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SubmissionRepo) UpdatePDF(ctx context.Context, id, pdfURL string, at time.Time) (*models.Submission, error) {
	return r.modify(ctx, id, func(sub *models.Submission) error {
		sub.PDFURL = pdfURL
		sub.UpdatedAt = at
		return nil
	})
}

func (r *SubmissionRepo) Decide(ctx context.Context, id string, status models.SubmissionStatus, at time.Time) (*models.Submission, error) {
	return r.modify(ctx, id, func(sub *models.Submission) error {
		if sub.Status != models.SubmissionPending {
			return storage.ErrConflict
		}
		decidedAt := at
		sub.Status = status
		sub.DecidedAt = &decidedAt
		sub.UpdatedAt = at
		return nil
	})
}

func (r *SubmissionRepo) ListByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	return r.list(ctx, "userId", userID)
}

func (r *SubmissionRepo) ListByJob(ctx context.Context, jobID string) ([]models.Submission, error) {
	return r.list(ctx, "jobId", jobID)
}

func (r *SubmissionRepo) list(ctx context.Context, field, value string) ([]models.Submission, error) {
	q := r.s.collection(submissionsCollection).Where(field, "==", value).OrderBy("submittedAt", firestore.Desc)
	snaps, err := r.s.documents(ctx, q)
	if err != nil {
		log.Printf("Error listing submissions by %s: %v\n", field, err)
		return nil, err
	}
	subs := make([]models.Submission, 0, len(snaps))
	for _, snap := range snaps {
		sub, err := decodeSubmission(snap)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, nil
}

// LikeRepo stores one document per (job, user) pair, keyed by both IDs.
type LikeRepo struct {
	s *Store
}

var _ storage.LikeRepository = (*LikeRepo)(nil)

func likeDocID(jobID, userID string) string {
	return jobID + "_" + userID
}

func (r *LikeRepo) Add(ctx context.Context, like *models.Like) error {
	like.ID = likeDocID(like.JobID, like.UserID)
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	ref := r.s.collection(likesCollection).Doc(like.ID)
	if r.s.tx != nil {
		stored := *like
		r.s.queue(func(t *firestore.Transaction) error { return t.Set(ref, stored) })
		return nil
	}
	if _, err := ref.Set(ctx, like); err != nil {
		log.Printf("Error adding like of %s on job %s: %v\n", like.UserID, like.JobID, err)
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

func (r *LikeRepo) Remove(ctx context.Context, jobID, userID string) error {
	ref := r.s.collection(likesCollection).Doc(likeDocID(jobID, userID))
	if r.s.tx != nil {
		r.s.queue(func(t *firestore.Transaction) error { return t.Delete(ref) })
		return nil
	}
	if _, err := ref.Delete(ctx); err != nil {
		log.Printf("Error removing like of %s on job %s: %v\n", userID, jobID, err)
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

func (r *LikeRepo) ListByJob(ctx context.Context, jobID string) ([]models.Like, error) {
	snaps, err := r.s.documents(ctx, r.s.collection(likesCollection).Where("jobId", "==", jobID))
	if err != nil {
		return nil, err
	}
	likes := make([]models.Like, 0, len(snaps))
	for _, snap := range snaps {
		var l models.Like
		if err := snap.DataTo(&l); err != nil {
			return nil, fmt.Errorf("failed to decode like %s: %w", snap.Ref.ID, err)
		}
		l.ID = snap.Ref.ID
		likes = append(likes, l)
	}
	sort.SliceStable(likes, func(i, j int) bool { return likes[i].CreatedAt.Before(likes[j].CreatedAt) })
	return likes, nil
}
