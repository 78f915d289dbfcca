package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"go-jobboard/internal/cache"
	"go-jobboard/internal/models"
	"go-jobboard/internal/notify"
	"go-jobboard/internal/pubsub"
	"go-jobboard/internal/storage"
	"go-jobboard/internal/transport/dto"
)

type moderationService struct {
	store    storage.Store
	notifier notify.Gateway
	events   publisher
	profiles *cache.ProfileCache
	settings Settings
}

// NewModerationService creates a new instance of ModerationService.
// broker and profiles may be nil.
func NewModerationService(store storage.Store, notifier notify.Gateway, broker pubsub.Broker, profiles *cache.ProfileCache, settings Settings) ModerationService {
	return &moderationService{
		store:    store,
		notifier: notifier,
		events:   publisher{broker: broker},
		profiles: profiles,
		settings: settings.withDefaults(),
	}
}

var noticeTemplates = map[models.StatusStep]string{
	models.StatusStepNotice:   notify.TemplateNotice,
	models.StatusStepDeletion: notify.TemplateDeletion,
	models.StatusStepBan:      notify.TemplateBanWarning,
}

// loadHirer checks the actor is an admin and fetches the target hirer.
func (s *moderationService) loadHirer(ctx context.Context, actor models.Session, hirerID, action string) (*models.User, error) {
	if err := requireRole(actor, models.RoleAdmin, action); err != nil {
		return nil, err
	}
	hirer, err := s.store.Users().GetByID(ctx, hirerID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching hirer %s", hirerID))
	}
	if hirer.Role != models.RoleHirer {
		return nil, fmt.Errorf("%w: %s is not a hirer", ErrNotFound, hirerID)
	}
	return hirer, nil
}

// updateHirer writes upd and fans the new snapshot out.
func (s *moderationService) updateHirer(ctx context.Context, hirerID string, upd *models.UserUpdate, op string) (*models.User, error) {
	user, err := s.store.Users().Update(ctx, hirerID, upd)
	if err != nil {
		return nil, MapRepoError(err, op)
	}
	if s.profiles != nil {
		s.profiles.Invalidate(user.ID)
	}
	s.events.user(ctx, user)
	return user, nil
}

func (s *moderationService) hirerJobs(ctx context.Context, hirerID string) ([]models.Job, error) {
	jobs, err := s.store.Jobs().List(ctx, models.JobFilter{HirerID: hirerID})
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing jobs of hirer %s", hirerID))
	}
	return jobs, nil
}

func (s *moderationService) BuildHirerReport(ctx context.Context, actor models.Session) ([]models.HirerSummary, error) {
	if err := requireRole(actor, models.RoleAdmin, "view hirer reports"); err != nil {
		return nil, err
	}

	// 1. Fetch hirers, their jobs and the reports on those jobs
	hirers, err := s.store.Users().ListByRole(ctx, models.RoleHirer)
	if err != nil {
		return nil, MapRepoError(err, "listing hirers")
	}
	jobs, err := s.store.Jobs().List(ctx, models.JobFilter{})
	if err != nil {
		return nil, MapRepoError(err, "listing jobs")
	}
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	reports, err := s.store.Reports().ListByJobs(ctx, ids)
	if err != nil {
		return nil, MapRepoError(err, "listing reports")
	}

	// 2. Fold
	return AggregateHirers(hirers, jobs, reports, s.settings), nil
}

func (s *moderationService) ListJobReports(ctx context.Context, req *dto.ListReportsRequest) ([]models.Report, error) {
	if err := requireRole(req.Actor, models.RoleAdmin, "view reports"); err != nil {
		return nil, err
	}
	if _, err := s.store.Jobs().GetByID(ctx, req.JobID); err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching job %s", req.JobID))
	}
	reports, err := s.store.Reports().ListByJob(ctx, req.JobID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing reports of job %s", req.JobID))
	}
	return reports, nil
}

// ListJobLikes reads the like mirror of a job. Likers whose account is gone keep their ID only.
func (s *moderationService) ListJobLikes(ctx context.Context, req *dto.ListLikesRequest) ([]dto.LikerView, error) {
	if err := requireRole(req.Actor, models.RoleAdmin, "view likes"); err != nil {
		return nil, err
	}
	if _, err := s.store.Jobs().GetByID(ctx, req.JobID); err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching job %s", req.JobID))
	}
	likes, err := s.store.Likes().ListByJob(ctx, req.JobID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing likes of job %s", req.JobID))
	}

	views := make([]dto.LikerView, 0, len(likes))
	for _, like := range likes {
		view := dto.LikerView{Like: like, Name: like.UserID}
		user, err := s.store.Users().GetByID(ctx, like.UserID)
		switch {
		case err == nil:
			view.Name = user.DisplayName()
			view.Email = user.Email
		case !errors.Is(err, storage.ErrNotFound):
			return nil, MapRepoError(err, fmt.Sprintf("fetching liker %s", like.UserID))
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *moderationService) GrantCertification(ctx context.Context, req *dto.ModerationRequest) (*models.User, error) {
	hirer, err := s.loadHirer(ctx, req.Actor, req.HirerID, "certify hirers")
	if err != nil {
		return nil, err
	}
	if hirer.Certified {
		return hirer, nil
	}
	log.Printf("GrantCertification: admin %s certified hirer %s", req.Actor.UserID, hirer.ID)
	return s.updateHirer(ctx, hirer.ID, &models.UserUpdate{Certified: ptrBool(true)}, "certifying hirer")
}

func (s *moderationService) SendNotice(ctx context.Context, req *dto.SendNoticeRequest) (*models.User, error) {
	// 1. Validation
	step := req.Step
	if step == "" || step == models.StatusStepNone {
		step = models.StatusStepNotice
	}
	templateID, ok := noticeTemplates[step]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a notice step", ErrInvalidInput, step)
	}
	hirer, err := s.loadHirer(ctx, req.Actor, req.HirerID, "send notices")
	if err != nil {
		return nil, err
	}
	if hirer.Email == "" {
		return nil, fmt.Errorf("%w: hirer %s has no email on file", ErrMissingContact, hirer.ID)
	}

	// 2. Send with the current totals
	jobs, err := s.hirerJobs(ctx, hirer.ID)
	if err != nil {
		return nil, err
	}
	likes, reports := 0, 0
	for _, j := range jobs {
		likes += j.LikesCount
		reports += j.ReportsCount
	}
	msg := notify.Message{To: hirer.Email, Variables: map[string]string{
		"Name":         hirer.DisplayName(),
		"TotalLikes":   strconv.Itoa(likes),
		"TotalReports": strconv.Itoa(reports),
	}}
	if err := s.notifier.Send(ctx, templateID, msg); err != nil {
		if errors.Is(err, notify.ErrMissingRecipient) {
			return nil, fmt.Errorf("%w: hirer %s has no email on file", ErrMissingContact, hirer.ID)
		}
		log.Printf("SendNotice: failed to send %s to hirer %s: %v", templateID, hirer.ID, err)
		return nil, fmt.Errorf("%w: sending %s: %w", ErrTransient, step, err)
	}

	// 3. Record the escalation
	log.Printf("SendNotice: admin %s sent %s to hirer %s", req.Actor.UserID, step, hirer.ID)
	return s.updateHirer(ctx, hirer.ID, &models.UserUpdate{StatusStep: ptrStatusStep(step)}, "recording notice step")
}

// setAllFrozen flips every job of hirerID whose flag differs and returns how many changed.
func (s *moderationService) setAllFrozen(ctx context.Context, hirerID string, frozen bool) (int, error) {
	jobs, err := s.hirerJobs(ctx, hirerID)
	if err != nil {
		return 0, err
	}
	evType := models.JobUnfrozen
	if frozen {
		evType = models.JobFrozen
	}
	changed := 0
	for i := range jobs {
		if jobs[i].Frozen == frozen {
			continue
		}
		ok, err := s.store.Jobs().SetFrozen(ctx, jobs[i].ID, frozen)
		if err != nil {
			return changed, MapRepoError(err, fmt.Sprintf("setting frozen=%t on job %s", frozen, jobs[i].ID))
		}
		if ok {
			changed++
			s.events.job(ctx, evType, &jobs[i])
		}
	}
	return changed, nil
}

func (s *moderationService) FreezeAllJobs(ctx context.Context, req *dto.ModerationRequest) (*dto.FreezeResult, error) {
	hirer, err := s.loadHirer(ctx, req.Actor, req.HirerID, "freeze jobs")
	if err != nil {
		return nil, err
	}

	// 1. Freeze the remainder
	changed, err := s.setAllFrozen(ctx, hirer.ID, true)
	if err != nil {
		return nil, err
	}
	log.Printf("FreezeAllJobs: admin %s froze %d jobs of hirer %s", req.Actor.UserID, changed, hirer.ID)
	result := &dto.FreezeResult{HirerID: hirer.ID, Changed: changed}

	// 2. Notify on every call; a failed email never unfreezes
	msg := notify.Message{To: hirer.Email, Variables: map[string]string{
		"Name":        hirer.DisplayName(),
		"FrozenCount": strconv.Itoa(changed),
	}}
	if err := s.notifier.Send(ctx, notify.TemplateJobsFrozen, msg); err != nil {
		log.Printf("FreezeAllJobs: jobs of hirer %s are frozen but the notification failed: %v", hirer.ID, err)
		return result, nil
	}
	result.Notified = true
	return result, nil
}

func (s *moderationService) UnfreezeAllJobs(ctx context.Context, req *dto.ModerationRequest) (*dto.FreezeResult, error) {
	hirer, err := s.loadHirer(ctx, req.Actor, req.HirerID, "unfreeze jobs")
	if err != nil {
		return nil, err
	}
	changed, err := s.setAllFrozen(ctx, hirer.ID, false)
	if err != nil {
		return nil, err
	}
	log.Printf("UnfreezeAllJobs: admin %s unfroze %d jobs of hirer %s", req.Actor.UserID, changed, hirer.ID)
	return &dto.FreezeResult{HirerID: hirer.ID, Changed: changed}, nil
}

// BanAccount marks the hirer banned. Jobs are left as they are.
func (s *moderationService) BanAccount(ctx context.Context, req *dto.ModerationRequest) (*models.User, error) {
	hirer, err := s.loadHirer(ctx, req.Actor, req.HirerID, "ban accounts")
	if err != nil {
		return nil, err
	}
	if hirer.Banned && hirer.StatusStep == models.StatusStepBanned {
		return hirer, nil
	}
	log.Printf("BanAccount: admin %s banned hirer %s", req.Actor.UserID, hirer.ID)
	return s.updateHirer(ctx, hirer.ID, &models.UserUpdate{
		Banned:     ptrBool(true),
		StatusStep: ptrStatusStep(models.StatusStepBanned),
	}, "banning hirer")
}

func (s *moderationService) UnbanAccount(ctx context.Context, req *dto.ModerationRequest) (*models.User, error) {
	hirer, err := s.loadHirer(ctx, req.Actor, req.HirerID, "unban accounts")
	if err != nil {
		return nil, err
	}
	if !hirer.Banned {
		return hirer, nil
	}
	log.Printf("UnbanAccount: admin %s lifted the ban on hirer %s", req.Actor.UserID, hirer.ID)
	return s.updateHirer(ctx, hirer.ID, &models.UserUpdate{
		Banned:     ptrBool(false),
		StatusStep: ptrStatusStep(models.StatusStepNone),
	}, "unbanning hirer")
}
