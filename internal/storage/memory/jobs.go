package memory

import (
	"context"
	"sort"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
)

type JobRepo struct {
	s *Store
}

var _ storage.JobRepository = (*JobRepo)(nil)

func (r *JobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	defer r.s.lock()()
	j, ok := r.s.st.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	j = copyJob(j)
	return &j, nil
}

func (r *JobRepo) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	defer r.s.lock()()
	jobs := []models.Job{}
	for _, j := range r.s.st.jobs {
		if filter.HirerID != "" && j.HirerID != filter.HirerID {
			continue
		}
		if filter.Frozen != nil && j.Frozen != *filter.Frozen {
			continue
		}
		jobs = append(jobs, copyJob(j))
	}
	sort.SliceStable(jobs, func(a, b int) bool { return jobs[a].CreatedAt.After(jobs[b].CreatedAt) })
	if filter.Limit > 0 && len(jobs) > filter.Limit {
		jobs = jobs[:filter.Limit]
	}
	return jobs, nil
}

func (r *JobRepo) Create(ctx context.Context, job *models.Job) error {
	defer r.s.lock()()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if _, exists := r.s.st.jobs[job.ID]; exists {
		return storage.ErrConflict
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	stored := copyJob(*job)
	r.s.st.jobs[job.ID] = stored
	*job = copyJob(stored)
	return nil
}

func (r *JobRepo) Update(ctx context.Context, id string, upd *models.JobUpdate) (*models.Job, error) {
	defer r.s.lock()()
	j, ok := r.s.st.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	upd.Apply(&j)
	j.UpdatedAt = time.Now().UTC()
	r.s.st.jobs[id] = j
	out := copyJob(j)
	return &out, nil
}

func (r *JobRepo) SaveEngagement(ctx context.Context, job *models.Job) error {
	defer r.s.lock()()
	j, ok := r.s.st.jobs[job.ID]
	if !ok {
		return storage.ErrNotFound
	}
	src := copyJob(*job)
	j.LikedBy = src.LikedBy
	j.LikesCount = src.LikesCount
	j.ReportedBy = src.ReportedBy
	j.ReportsCount = src.ReportsCount
	j.ReasonCounts = src.ReasonCounts
	j.UpdatedAt = time.Now().UTC()
	r.s.st.jobs[job.ID] = j
	return nil
}

func (r *JobRepo) SetFrozen(ctx context.Context, id string, frozen bool) (bool, error) {
	defer r.s.lock()()
	j, ok := r.s.st.jobs[id]
	if !ok {
		return false, storage.ErrNotFound
	}
	if j.Frozen == frozen {
		return false, nil
	}
	j.Frozen = frozen
	j.UpdatedAt = time.Now().UTC()
	r.s.st.jobs[id] = j
	return true, nil
}
