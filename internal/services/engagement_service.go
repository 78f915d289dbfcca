package services

import (
	"context"
	"fmt"
	"log"

	"go-jobboard/internal/models"
	"go-jobboard/internal/pubsub"
	"go-jobboard/internal/storage"
	"go-jobboard/internal/transport/dto"
)

type engagementService struct {
	store  storage.Store
	events publisher
	busy   *inflight
}

// NewEngagementService creates a new instance of EngagementService. broker may be nil.
func NewEngagementService(store storage.Store, broker pubsub.Broker) EngagementService {
	return &engagementService{store: store, events: publisher{broker: broker}, busy: newInflight()}
}

// toggleMembership flips userID in job.LikedBy and keeps LikesCount equal to the list length.
// It returns the new liked state.
func toggleMembership(job *models.Job, userID string) bool {
	kept := make([]string, 0, len(job.LikedBy)+1)
	found := false
	for _, id := range job.LikedBy {
		if id == userID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if found {
		job.LikesCount--
	} else {
		kept = append(kept, userID)
		job.LikesCount++
	}
	if job.LikesCount < 0 {
		job.LikesCount = 0
	}
	if job.LikesCount != len(kept) {
		log.Printf("ToggleLike: repairing likes count of job %s (%d stored, %d members)", job.ID, job.LikesCount, len(kept))
		job.LikesCount = len(kept)
	}
	job.LikedBy = kept
	return !found
}

// normalizeReasons validates reasons and drops duplicates, keeping the first occurrence.
func normalizeReasons(reasons []models.ReportReason) ([]models.ReportReason, error) {
	if len(reasons) == 0 {
		return nil, fmt.Errorf("%w: pick at least one reason", ErrInvalidInput)
	}
	seen := make(map[models.ReportReason]bool, len(reasons))
	out := make([]models.ReportReason, 0, len(reasons))
	for _, r := range reasons {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: unknown report reason %q", ErrInvalidInput, r)
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out, nil
}

// visibleJob loads a job inside tx, hiding frozen jobs from everyone but their hirer and admins.
func visibleJob(ctx context.Context, tx storage.Store, id string, actor models.Session) (*models.Job, error) {
	job, err := tx.Jobs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Frozen && !canSeeFrozen(actor, job) {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return job, nil
}

func (s *engagementService) ToggleLike(ctx context.Context, req *dto.ToggleLikeRequest) (*dto.LikeResult, error) {
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	release, ok := s.busy.acquire("like:" + req.JobID + ":" + req.Actor.UserID)
	if !ok {
		return nil, fmt.Errorf("%w: like already in progress", ErrBusy)
	}
	defer release()

	var job *models.Job
	var liked bool
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		job, err = visibleJob(ctx, tx, req.JobID, req.Actor)
		if err != nil {
			return err
		}
		liked = toggleMembership(job, req.Actor.UserID)
		return tx.Jobs().SaveEngagement(ctx, job)
	})
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("toggling like on job %s", req.JobID))
	}

	// Mirror records are display only
	if liked {
		err = s.store.Likes().Add(ctx, &models.Like{JobID: job.ID, UserID: req.Actor.UserID})
	} else {
		err = s.store.Likes().Remove(ctx, job.ID, req.Actor.UserID)
	}
	if err != nil {
		log.Printf("ToggleLike: failed to mirror like of user %s on job %s: %v", req.Actor.UserID, job.ID, err)
	}
	s.events.job(ctx, models.JobUpdated, job)

	return &dto.LikeResult{JobID: job.ID, Liked: liked, LikesCount: job.LikesCount}, nil
}

func (s *engagementService) SubmitReport(ctx context.Context, req *dto.SubmitReportRequest) (*dto.ReportResult, error) {
	// 1. Validation
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	reasons, err := normalizeReasons(req.Reasons)
	if err != nil {
		return nil, err
	}
	release, ok := s.busy.acquire("report:" + req.JobID + ":" + req.Actor.UserID)
	if !ok {
		return nil, fmt.Errorf("%w: report already in progress", ErrBusy)
	}
	defer release()

	// 2. Duplicate check and write in one transaction
	result := &dto.ReportResult{JobID: req.JobID, Reported: true}
	var job *models.Job
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		job, err = visibleJob(ctx, tx, req.JobID, req.Actor)
		if err != nil {
			return err
		}
		if job.HirerID == req.Actor.UserID {
			log.Printf("SubmitReport: Forbidden attempt by user %s to report own job %s", req.Actor.UserID, job.ID)
			return fmt.Errorf("%w: you cannot report your own job", ErrForbidden)
		}

		exists, err := tx.Reports().ExistsForReporter(ctx, job.ID, req.Actor.UserID)
		if err != nil {
			return err
		}
		if exists || job.ReportedByUser(req.Actor.UserID) {
			result.ReportsCount = job.ReportsCount
			return nil
		}

		report := &models.Report{
			JobID:      job.ID,
			ReporterID: req.Actor.UserID,
			Reasons:    reasons,
			Note:       trimmed(req.Note),
		}
		if err := tx.Reports().Create(ctx, report); err != nil {
			return err
		}
		job.ReportedBy = append(job.ReportedBy, req.Actor.UserID)
		job.ReportsCount = len(job.ReportedBy)
		if job.ReasonCounts == nil {
			job.ReasonCounts = map[string]int{}
		}
		for _, r := range reasons {
			job.ReasonCounts[string(r)]++
		}
		if err := tx.Jobs().SaveEngagement(ctx, job); err != nil {
			return err
		}
		result.Created = true
		result.ReportsCount = job.ReportsCount
		return nil
	})
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("reporting job %s", req.JobID))
	}

	if result.Created {
		log.Printf("SubmitReport: user %s reported job %s (%v)", req.Actor.UserID, job.ID, reasons)
		s.events.job(ctx, models.JobUpdated, job)
	}
	return result, nil
}

func (s *engagementService) GetEngagement(ctx context.Context, req *dto.GetEngagementRequest) (*dto.EngagementState, error) {
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	job, err := visibleJob(ctx, s.store, req.JobID, req.Actor)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching engagement for job %s", req.JobID))
	}
	return &dto.EngagementState{
		JobID:        job.ID,
		Liked:        job.LikedByUser(req.Actor.UserID),
		Reported:     job.ReportedByUser(req.Actor.UserID),
		LikesCount:   job.LikesCount,
		ReportsCount: job.ReportsCount,
	}, nil
}
