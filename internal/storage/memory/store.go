// Package memory is an in-process Store for development and tests.
package memory

import (
	"context"
	"sync"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"
)

type state struct {
	mu          sync.Mutex
	users       map[string]models.User
	jobs        map[string]models.Job
	reports     map[string]models.Report
	submissions map[string]models.Submission
	likes       map[string]models.Like
}

func (st *state) clone() *state {
	c := &state{
		users:       make(map[string]models.User, len(st.users)),
		jobs:        make(map[string]models.Job, len(st.jobs)),
		reports:     make(map[string]models.Report, len(st.reports)),
		submissions: make(map[string]models.Submission, len(st.submissions)),
		likes:       make(map[string]models.Like, len(st.likes)),
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.jobs {
		c.jobs[k] = copyJob(v)
	}
	for k, v := range st.reports {
		c.reports[k] = copyReport(v)
	}
	for k, v := range st.submissions {
		c.submissions[k] = copySubmission(v)
	}
	for k, v := range st.likes {
		c.likes[k] = v
	}
	return c
}

// Store keeps every collection in maps guarded by one mutex. A transaction
// holds the mutex for its whole duration and restores a snapshot on error.
type Store struct {
	st   *state
	inTx bool
}

var _ storage.Store = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{st: &state{
		users:       make(map[string]models.User),
		jobs:        make(map[string]models.Job),
		reports:     make(map[string]models.Report),
		submissions: make(map[string]models.Submission),
		likes:       make(map[string]models.Like),
	}}
}

// lock acquires the state mutex unless the caller already holds it through a transaction.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.st.mu.Lock()
	return s.st.mu.Unlock
}

func (s *Store) Users() storage.UserRepository             { return &UserRepo{s: s} }
func (s *Store) Jobs() storage.JobRepository               { return &JobRepo{s: s} }
func (s *Store) Reports() storage.ReportRepository         { return &ReportRepo{s: s} }
func (s *Store) Submissions() storage.SubmissionRepository { return &SubmissionRepo{s: s} }
func (s *Store) Likes() storage.LikeRepository             { return &LikeRepo{s: s} }

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	snapshot := s.st.clone()
	tx := &Store{st: s.st, inTx: true}
	err := fn(ctx, tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.st.users = snapshot.users
		s.st.jobs = snapshot.jobs
		s.st.reports = snapshot.reports
		s.st.submissions = snapshot.submissions
		s.st.likes = snapshot.likes
		return err
	}
	return nil
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyJob(j models.Job) models.Job {
	j.LikedBy = copyStrings(j.LikedBy)
	j.ReportedBy = copyStrings(j.ReportedBy)
	counts := make(map[string]int, len(j.ReasonCounts))
	for k, v := range j.ReasonCounts {
		counts[k] = v
	}
	j.ReasonCounts = counts
	return j
}

func copyReport(r models.Report) models.Report {
	reasons := make([]models.ReportReason, len(r.Reasons))
	copy(reasons, r.Reasons)
	r.Reasons = reasons
	return r
}

func copySubmission(s models.Submission) models.Submission {
	if s.DecidedAt != nil {
		at := *s.DecidedAt
		s.DecidedAt = &at
	}
	return s
}
