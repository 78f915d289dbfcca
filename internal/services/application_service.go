package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"go-jobboard/internal/media"
	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"
	"go-jobboard/internal/transport/dto"

	"github.com/google/uuid"
)

type applicationService struct {
	store    storage.Store
	objects  media.ObjectStore
	settings Settings
	now      func() time.Time
}

// NewApplicationService creates a new instance of ApplicationService.
// objects may be nil, in which case CV uploads are rejected.
func NewApplicationService(store storage.Store, objects media.ObjectStore, settings Settings) ApplicationService {
	return &applicationService{
		store:    store,
		objects:  objects,
		settings: settings.withDefaults(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// upsertSubmission creates the (userID, jobID) submission or points the existing one at pdfURL.
// The status of an existing submission is never touched.
func upsertSubmission(ctx context.Context, tx storage.Store, userID, jobID, pdfURL string, now time.Time) (*models.Submission, error) {
	existing, err := tx.Submissions().FindByUserAndJob(ctx, userID, jobID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return tx.Submissions().UpdatePDF(ctx, existing.ID, pdfURL, now)
	}
	sub := &models.Submission{
		UserID:      userID,
		JobID:       jobID,
		PDFURL:      pdfURL,
		Status:      models.SubmissionPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := tx.Submissions().Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *applicationService) SubmitOrUpdateCV(ctx context.Context, req *dto.SubmitCVRequest) (*models.Submission, error) {
	// 1. Validation before any read or write
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	cvURL := trimmed(req.CVURL)
	if cvURL != "" {
		if err := validateCVURL(cvURL); err != nil {
			return nil, err
		}
	}
	if err := requireRole(req.Actor, models.RoleApplicant, "submit CVs"); err != nil {
		return nil, err
	}
	if req.JobID == "" || req.JobID == models.ProfileJobID {
		return nil, fmt.Errorf("%w: a job is required", ErrInvalidInput)
	}

	// 2. Fall back to the profile CV
	if cvURL == "" {
		user, err := s.store.Users().GetByID(ctx, req.Actor.UserID)
		if err != nil {
			return nil, MapRepoError(err, "fetching applicant for CV fallback")
		}
		if user.CVURL == "" {
			return nil, fmt.Errorf("%w: no CV link given and none saved on your profile", ErrInvalidInput)
		}
		cvURL = user.CVURL
	}

	// 3. Create or update
	var sub *models.Submission
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		if _, err := visibleJob(ctx, tx, req.JobID, req.Actor); err != nil {
			return err
		}
		var err error
		sub, err = upsertSubmission(ctx, tx, req.Actor.UserID, req.JobID, cvURL, s.now())
		return err
	})
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("submitting CV for job %s", req.JobID))
	}
	log.Printf("SubmitOrUpdateCV: applicant %s submission %s for job %s is %s", req.Actor.UserID, sub.ID, req.JobID, sub.Status)
	return sub, nil
}

func (s *applicationService) SaveProfileCV(ctx context.Context, req *dto.SaveProfileCVRequest) (*models.Submission, error) {
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	cvURL := trimmed(req.CVURL)
	if err := validateCVURL(cvURL); err != nil {
		return nil, err
	}
	if err := requireRole(req.Actor, models.RoleApplicant, "save a profile CV"); err != nil {
		return nil, err
	}

	var sub *models.Submission
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		sub, err = upsertSubmission(ctx, tx, req.Actor.UserID, models.ProfileJobID, cvURL, s.now())
		if err != nil {
			return err
		}
		_, err = tx.Users().Update(ctx, req.Actor.UserID, &models.UserUpdate{CVURL: &cvURL})
		return err
	})
	if err != nil {
		return nil, MapRepoError(err, "saving profile CV")
	}
	return sub, nil
}

func (s *applicationService) UploadProfileCV(ctx context.Context, req *dto.UploadCVRequest) (*models.Submission, error) {
	if err := requireRole(req.Actor, models.RoleApplicant, "upload a CV"); err != nil {
		return nil, err
	}
	if s.objects == nil {
		return nil, fmt.Errorf("%w: CV uploads are not configured", ErrTransient)
	}
	pages, err := media.ValidatePDF(req.Content, s.settings.MaxPDFBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := fmt.Sprintf("cv/%s/%s.pdf", req.Actor.UserID, uuid.NewString())
	url, err := s.objects.Put(ctx, key, req.Content, "application/pdf")
	if err != nil {
		log.Printf("UploadProfileCV: failed to store %s (%d pages) for user %s: %v", req.FileName, pages, req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: storing CV: %w", ErrTransient, err)
	}
	log.Printf("UploadProfileCV: stored %s (%d pages) for user %s at %s", req.FileName, pages, req.Actor.UserID, key)

	return s.SaveProfileCV(ctx, &dto.SaveProfileCVRequest{CVURL: url, Actor: req.Actor})
}

func (s *applicationService) Decide(ctx context.Context, req *dto.DecideRequest) (*models.Submission, error) {
	// 1. Validation
	if err := requireRole(req.Actor, models.RoleHirer, "decide on submissions"); err != nil {
		return nil, err
	}
	if !req.Outcome.IsDecision() {
		return nil, fmt.Errorf("%w: outcome must be accepted or rejected", ErrInvalidInput)
	}

	// 2. Fetch the submission and the job it targets to check ownership
	sub, err := s.store.Submissions().GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching submission %s", req.SubmissionID))
	}
	if sub.IsProfile() {
		return nil, fmt.Errorf("%w: submission %s", ErrNotFound, req.SubmissionID)
	}
	job, err := s.store.Jobs().GetByID(ctx, sub.JobID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching job %s for submission %s", sub.JobID, sub.ID))
	}
	if job.HirerID != req.Actor.UserID {
		log.Printf("Decide: Forbidden attempt by user %s on submission %s for job %s owned by %s", req.Actor.UserID, sub.ID, job.ID, job.HirerID)
		return nil, ErrForbidden
	}

	// 3. Decisions are terminal
	if sub.Status != models.SubmissionPending {
		return nil, fmt.Errorf("%w: submission is already %s", ErrAlreadyDecided, sub.Status)
	}
	decided, err := s.store.Submissions().Decide(ctx, sub.ID, req.Outcome, s.now())
	if errors.Is(err, storage.ErrConflict) {
		return nil, fmt.Errorf("%w: submission was decided concurrently", ErrAlreadyDecided)
	}
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("deciding submission %s", sub.ID))
	}
	log.Printf("Decide: hirer %s %s submission %s", req.Actor.UserID, req.Outcome, sub.ID)
	return decided, nil
}

func (s *applicationService) ListMySubmissions(ctx context.Context, req *dto.ListMySubmissionsRequest) (*dto.SubmissionPage, error) {
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	all, err := s.store.Submissions().ListByUser(ctx, req.Actor.UserID)
	if err != nil {
		return nil, MapRepoError(err, "listing submissions")
	}
	subs := make([]models.Submission, 0, len(all))
	for _, sub := range all {
		if !sub.IsProfile() {
			subs = append(subs, sub)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })

	size := req.PageSize
	if size <= 0 {
		size = s.settings.PageSize
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	items, totalPages := Paginate(subs, page, size)

	views := make([]dto.SubmissionView, 0, len(items))
	for _, sub := range items {
		view := dto.SubmissionView{Submission: sub}
		job, err := s.store.Jobs().GetByID(ctx, sub.JobID)
		switch {
		case err == nil:
			view.Position = job.Position
			view.CompanyName = job.CompanyName
		case !errors.Is(err, storage.ErrNotFound):
			return nil, MapRepoError(err, fmt.Sprintf("fetching job %s for submission %s", sub.JobID, sub.ID))
		}
		views = append(views, view)
	}

	return &dto.SubmissionPage{
		Submissions: views,
		Page:        page,
		PageSize:    size,
		TotalItems:  len(subs),
		TotalPages:  totalPages,
	}, nil
}

func (s *applicationService) ListJobSubmissions(ctx context.Context, req *dto.ListJobSubmissionsRequest) ([]models.Submission, error) {
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	job, err := s.store.Jobs().GetByID(ctx, req.JobID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching job %s", req.JobID))
	}
	if job.HirerID != req.Actor.UserID && !req.Actor.Is(models.RoleAdmin) {
		log.Printf("ListJobSubmissions: Forbidden attempt by user %s on job %s owned by %s", req.Actor.UserID, job.ID, job.HirerID)
		return nil, ErrForbidden
	}
	subs, err := s.store.Submissions().ListByJob(ctx, job.ID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing submissions of job %s", job.ID))
	}
	return subs, nil
}

// ListHirerSubmissions is the hirer inbox: submissions to any of the caller's
// jobs, newest first, with the applicant and job title filled in.
func (s *applicationService) ListHirerSubmissions(ctx context.Context, req *dto.ListHirerSubmissionsRequest) (*dto.InboxPage, error) {
	if err := requireRole(req.Actor, models.RoleHirer, "view the submissions inbox"); err != nil {
		return nil, err
	}

	// 1. Gather submissions of every owned job
	jobs, err := s.store.Jobs().List(ctx, models.JobFilter{HirerID: req.Actor.UserID})
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing jobs of hirer %s", req.Actor.UserID))
	}
	titles := make(map[string]string, len(jobs))
	var subs []models.Submission
	for _, job := range jobs {
		titles[job.ID] = job.Position
		list, err := s.store.Submissions().ListByJob(ctx, job.ID)
		if err != nil {
			return nil, MapRepoError(err, fmt.Sprintf("listing submissions of job %s", job.ID))
		}
		for _, sub := range list {
			if !sub.IsProfile() {
				subs = append(subs, sub)
			}
		}
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })

	size := req.PageSize
	if size <= 0 {
		size = s.settings.PageSize
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	items, totalPages := Paginate(subs, page, size)

	// 2. Enrich the page only
	applicants := make(map[string]*models.User)
	entries := make([]dto.InboxEntry, 0, len(items))
	for _, sub := range items {
		entry := dto.InboxEntry{Submission: sub, ApplicantName: "Unknown Applicant", JobTitle: titles[sub.JobID]}
		if entry.JobTitle == "" {
			entry.JobTitle = "(Untitled Job)"
		}
		user, seen := applicants[sub.UserID]
		if !seen {
			user, err = s.store.Users().GetByID(ctx, sub.UserID)
			if err != nil {
				if !errors.Is(err, storage.ErrNotFound) {
					return nil, MapRepoError(err, fmt.Sprintf("fetching applicant %s", sub.UserID))
				}
				user = nil
			}
			applicants[sub.UserID] = user
		}
		if user != nil {
			if name := user.DisplayName(); name != "" {
				entry.ApplicantName = name
			}
			entry.ApplicantEmail = user.Email
			entry.ApplicantPhoto = user.ProfileImage
		}
		entries = append(entries, entry)
	}

	return &dto.InboxPage{
		Submissions: entries,
		Page:        page,
		PageSize:    size,
		TotalItems:  len(subs),
		TotalPages:  totalPages,
	}, nil
}
