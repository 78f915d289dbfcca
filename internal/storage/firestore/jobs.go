package firestore

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

type JobRepo struct {
	s *Store
}

var _ storage.JobRepository = (*JobRepo)(nil)

func decodeJob(snap *firestore.DocumentSnapshot) (*models.Job, error) {
	var j models.Job
	if err := snap.DataTo(&j); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", snap.Ref.ID, err)
	}
	j.ID = snap.Ref.ID
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

func (r *JobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	snap, err := r.s.get(ctx, r.s.collection(jobsCollection).Doc(id))
	if err != nil {
		return nil, err
	}
	return decodeJob(snap)
}

// List needs composite indexes on (hirerId, createdAt) and (frozen, createdAt).
func (r *JobRepo) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	q := r.s.collection(jobsCollection).Query
	if filter.HirerID != "" {
		q = q.Where("hirerId", "==", filter.HirerID)
	}
	if filter.Frozen != nil {
		q = q.Where("frozen", "==", *filter.Frozen)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	snaps, err := r.s.documents(ctx, q)
	if err != nil {
		log.Printf("Error listing jobs: %v\n", err)
		return nil, err
	}
	jobs := make([]models.Job, 0, len(snaps))
	for _, snap := range snaps {
		j, err := decodeJob(snap)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

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
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	return r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		ref := tx.collection(jobsCollection).Doc(job.ID)
		if _, err := tx.get(ctx, ref); !isNotFound(err) {
			if err != nil {
				return err
			}
			return storage.ErrConflict
		}
		stored := *job
		tx.queue(func(t *firestore.Transaction) error { return t.Create(ref, stored) })
		return nil
	})
}

func (r *JobRepo) Update(ctx context.Context, id string, upd *models.JobUpdate) (*models.Job, error) {
	var updated *models.Job
	err := r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		ref := tx.collection(jobsCollection).Doc(id)
		snap, err := tx.get(ctx, ref)
		if err != nil {
			return err
		}
		j, err := decodeJob(snap)
		if err != nil {
			return err
		}
		upd.Apply(j)
		j.UpdatedAt = time.Now().UTC()
		stored := *j
		tx.queue(func(t *firestore.Transaction) error { return t.Set(ref, stored) })
		updated = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *JobRepo) SaveEngagement(ctx context.Context, job *models.Job) error {
	return r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		ref := tx.collection(jobsCollection).Doc(job.ID)
		if _, err := tx.get(ctx, ref); err != nil {
			return err
		}
		updates := []firestore.Update{
			{Path: "likedBy", Value: job.LikedBy},
			{Path: "likesCount", Value: job.LikesCount},
			{Path: "reportedBy", Value: job.ReportedBy},
			{Path: "reportsCount", Value: job.ReportsCount},
			{Path: "reasonCounts", Value: job.ReasonCounts},
			{Path: "updatedAt", Value: time.Now().UTC()},
		}
		tx.queue(func(t *firestore.Transaction) error { return t.Update(ref, updates) })
		return nil
	})
}

func (r *JobRepo) SetFrozen(ctx context.Context, id string, frozen bool) (bool, error) {
	var changed bool
	err := r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		changed = false
		ref := tx.collection(jobsCollection).Doc(id)
		snap, err := tx.get(ctx, ref)
		if err != nil {
			return err
		}
		j, err := decodeJob(snap)
		if err != nil {
			return err
		}
		if j.Frozen == frozen {
			return nil
		}
		changed = true
		tx.queue(func(t *firestore.Transaction) error {
			return t.Update(ref, []firestore.Update{
				{Path: "frozen", Value: frozen},
				{Path: "updatedAt", Value: time.Now().UTC()},
			})
		})
		return nil
	})
	return changed, err
}
