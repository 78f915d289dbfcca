package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-jobboard/internal/media"
	"go-jobboard/internal/models"
	"go-jobboard/internal/pubsub"
	"go-jobboard/internal/storage"
	"go-jobboard/internal/transport/dto"
)

type jobCatalog struct {
	store    storage.Store
	events   publisher
	settings Settings
}

// NewJobCatalog creates a new instance of JobCatalog. broker may be nil.
func NewJobCatalog(store storage.Store, broker pubsub.Broker, settings Settings) JobCatalog {
	return &jobCatalog{store: store, events: publisher{broker: broker}, settings: settings.withDefaults()}
}

// SearchJobs keeps jobs whose position, company or location contains term, ignoring case.
// A blank term returns jobs unchanged.
func SearchJobs(jobs []models.Job, term string) []models.Job {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return jobs
	}
	out := []models.Job{}
	for _, j := range jobs {
		if strings.Contains(strings.ToLower(j.Position), term) ||
			strings.Contains(strings.ToLower(j.CompanyName), term) ||
			strings.Contains(strings.ToLower(j.Location), term) {
			out = append(out, j)
		}
	}
	return out
}

// RecentJobs returns the first n jobs of an already ordered list.
func RecentJobs(jobs []models.Job, n int) []models.Job {
	if n < 0 {
		n = 0
	}
	if len(jobs) <= n {
		return jobs
	}
	return jobs[:n]
}

func (s *jobCatalog) PostJob(ctx context.Context, req *dto.PostJobRequest) (*models.Job, error) {
	// 1. Authorization
	if err := requireRole(req.Actor, models.RoleHirer, "post jobs"); err != nil {
		return nil, err
	}

	// 2. Validation
	job := &models.Job{
		HirerID:      req.Actor.UserID,
		Position:     trimmed(req.Position),
		CompanyName:  trimmed(req.CompanyName),
		Location:     trimmed(req.Location),
		Salary:       req.Salary,
		Description:  trimmed(req.Description),
		JobImage:     req.JobImage,
		LikedBy:      []string{},
		ReportedBy:   []string{},
		ReasonCounts: map[string]int{},
	}
	if job.Position == "" || job.CompanyName == "" || job.Location == "" || job.Description == "" {
		return nil, fmt.Errorf("%w: position, company name, location and description are required", ErrInvalidInput)
	}
	if job.Salary < 0 {
		return nil, fmt.Errorf("%w: salary cannot be negative", ErrInvalidInput)
	}
	if err := media.ValidateImage(job.JobImage, s.settings.MaxImageBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hirer, err := s.store.Users().GetByID(ctx, req.Actor.UserID)
	if err != nil {
		return nil, MapRepoError(err, "fetching hirer for new job")
	}
	if hirer.Banned {
		log.Printf("PostJob: Forbidden attempt by banned hirer %s", hirer.ID)
		return nil, fmt.Errorf("%w: account is banned", ErrForbidden)
	}

	// 3. Create
	if err := s.store.Jobs().Create(ctx, job); err != nil {
		return nil, MapRepoError(err, "creating job")
	}
	log.Printf("PostJob: hirer %s posted job %s", job.HirerID, job.ID)
	s.events.job(ctx, models.JobPosted, job)
	return job, nil
}

func (s *jobCatalog) UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error) {
	if err := requireRole(req.Actor, models.RoleHirer, "edit jobs"); err != nil {
		return nil, err
	}

	// 1. Fetch the Job to check ownership
	existing, err := s.store.Jobs().GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching job %s for update", req.ID))
	}
	if existing.HirerID != req.Actor.UserID {
		log.Printf("UpdateJob: Forbidden attempt by user %s on job %s owned by %s", req.Actor.UserID, existing.ID, existing.HirerID)
		return nil, ErrForbidden
	}

	// 2. Validate changed fields
	upd := &models.JobUpdate{Salary: req.Salary, JobImage: req.JobImage}
	for _, f := range []struct {
		in  *string
		out **string
	}{
		{req.Position, &upd.Position},
		{req.CompanyName, &upd.CompanyName},
		{req.Location, &upd.Location},
		{req.Description, &upd.Description},
	} {
		if f.in == nil {
			continue
		}
		v := trimmed(*f.in)
		if v == "" {
			return nil, fmt.Errorf("%w: fields cannot be blank", ErrInvalidInput)
		}
		*f.out = &v
	}
	if upd.Salary != nil && *upd.Salary < 0 {
		return nil, fmt.Errorf("%w: salary cannot be negative", ErrInvalidInput)
	}
	if upd.JobImage != nil {
		if err := media.ValidateImage(*upd.JobImage, s.settings.MaxImageBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	// 3. Update
	job, err := s.store.Jobs().Update(ctx, req.ID, upd)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("updating job %s", req.ID))
	}
	s.events.job(ctx, models.JobUpdated, job)
	return job, nil
}

// canSeeFrozen reports whether actor may see job while it is frozen.
func canSeeFrozen(actor models.Session, job *models.Job) bool {
	return actor.Is(models.RoleAdmin) || (actor.Authenticated() && actor.UserID == job.HirerID)
}

func (s *jobCatalog) GetJob(ctx context.Context, req *dto.GetJobRequest) (*models.Job, error) {
	job, err := s.store.Jobs().GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching job %s", req.ID))
	}
	if job.Frozen && !canSeeFrozen(req.Actor, job) {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, req.ID)
	}
	return job, nil
}

func (s *jobCatalog) ListVisible(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.store.Jobs().List(ctx, models.JobFilter{Frozen: ptrBool(false)})
	if err != nil {
		return nil, MapRepoError(err, "listing visible jobs")
	}
	return jobs, nil
}

func (s *jobCatalog) Browse(ctx context.Context, req *dto.BrowseJobsRequest) (*dto.JobPage, error) {
	jobs, err := s.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	matches := SearchJobs(jobs, req.Search)

	size := req.PageSize
	if size <= 0 {
		size = s.settings.PageSize
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	items, totalPages := Paginate(matches, page, size)
	return &dto.JobPage{
		Jobs:       items,
		Page:       page,
		PageSize:   size,
		TotalItems: len(matches),
		TotalPages: totalPages,
	}, nil
}

// Recommended takes the newest window of jobs, drops frozen ones and keeps the first few.
func (s *jobCatalog) Recommended(ctx context.Context) ([]models.Job, error) {
	newest, err := s.store.Jobs().List(ctx, models.JobFilter{Limit: s.settings.RecommendedWindow})
	if err != nil {
		return nil, MapRepoError(err, "listing recommended jobs")
	}
	visible := make([]models.Job, 0, len(newest))
	for _, j := range newest {
		if !j.Frozen {
			visible = append(visible, j)
		}
	}
	return RecentJobs(visible, s.settings.RecommendedCount), nil
}

// ListByHirer returns every job of hirerID to the hirer and admins, and only visible ones to everyone else.
func (s *jobCatalog) ListByHirer(ctx context.Context, hirerID string, actor models.Session) ([]models.Job, error) {
	filter := models.JobFilter{HirerID: hirerID}
	if !actor.Is(models.RoleAdmin) && actor.UserID != hirerID {
		filter.Frozen = ptrBool(false)
	}
	jobs, err := s.store.Jobs().List(ctx, filter)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing jobs of hirer %s", hirerID))
	}
	return jobs, nil
}
