package services_test

import (
	"context"
	"errors"
	"testing"

	"go-jobboard/internal/mocks"
	"go-jobboard/internal/models"
	"go-jobboard/internal/notify"
	"go-jobboard/internal/services"
	"go-jobboard/internal/storage/memory"
	"go-jobboard/internal/transport/dto"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = models.Session{UserID: "admin", Role: models.RoleAdmin, Email: "admin@example.com"}

func setupModerationTest(t *testing.T) (context.Context, services.ModerationService, *memory.Store, *mocks.MockNotifier, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	notifier := mocks.NewMockNotifier(ctrl)
	svc := services.NewModerationService(store, notifier, nil, nil, services.DefaultSettings())
	return context.Background(), svc, store, notifier, ctrl
}

func frozenMessage(to, name, count string) notify.Message {
	return notify.Message{To: to, Variables: map[string]string{"Name": name, "FrozenCount": count}}
}

func TestModerationService_FreezeAllJobs_Scenario(t *testing.T) {
	ctx, svc, store, notifier, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0)
	seedJob(t, store, "j2", hirer.ID, 1)
	seedJob(t, store, "j3", hirer.ID, 2, frozen)

	// The summary goes out on every call, including the one with nothing left to freeze.
	gomock.InOrder(
		notifier.EXPECT().Send(gomock.Any(), notify.TemplateJobsFrozen, frozenMessage("h1@example.com", "h1", "2")).Return(nil).Times(1),
		notifier.EXPECT().Send(gomock.Any(), notify.TemplateJobsFrozen, frozenMessage("h1@example.com", "h1", "0")).Return(nil).Times(1),
	)

	res, err := svc.FreezeAllJobs(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, &dto.FreezeResult{HirerID: hirer.ID, Changed: 2, Notified: true}, res)
	for _, id := range []string{"j1", "j2", "j3"} {
		assert.True(t, getJob(t, store, id).Frozen, "job %s", id)
	}

	res, err = svc.FreezeAllJobs(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Changed)
	assert.True(t, res.Notified)
}

func TestModerationService_FreezeAllJobs_NotificationFailureKeepsJobsFrozen(t *testing.T) {
	ctx, svc, store, notifier, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0)

	notifier.EXPECT().Send(gomock.Any(), notify.TemplateJobsFrozen, gomock.Any()).Return(errors.New("smtp down")).Times(1)

	res, err := svc.FreezeAllJobs(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Changed)
	assert.False(t, res.Notified)
	assert.True(t, getJob(t, store, "j1").Frozen)
}

func TestModerationService_UnfreezeAllJobs(t *testing.T) {
	ctx, svc, store, _, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0, frozen)
	seedJob(t, store, "j2", hirer.ID, 1, frozen)
	seedJob(t, store, "j3", hirer.ID, 2)

	res, err := svc.UnfreezeAllJobs(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Changed)
	for _, id := range []string{"j1", "j2", "j3"} {
		assert.False(t, getJob(t, store, id).Frozen, "job %s", id)
	}

	res, err = svc.UnfreezeAllJobs(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Changed)
}

func TestModerationService_SendNotice(t *testing.T) {
	ctx, svc, store, notifier, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0, func(j *models.Job) {
		j.LikesCount = 2
		j.ReportsCount = 4
	})

	notifier.EXPECT().Send(gomock.Any(), notify.TemplateDeletion, notify.Message{
		To:        "h1@example.com",
		Variables: map[string]string{"Name": "h1", "TotalLikes": "2", "TotalReports": "4"},
	}).Return(nil).Times(1)

	user, err := svc.SendNotice(ctx, &dto.SendNoticeRequest{HirerID: hirer.ID, Step: models.StatusStepDeletion, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, models.StatusStepDeletion, user.StatusStep)
	assert.False(t, user.Banned)
}

func TestModerationService_SendNotice_DefaultsToNotice(t *testing.T) {
	ctx, svc, store, notifier, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	notifier.EXPECT().Send(gomock.Any(), notify.TemplateNotice, gomock.Any()).Return(nil).Times(1)

	user, err := svc.SendNotice(ctx, &dto.SendNoticeRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, models.StatusStepNotice, user.StatusStep)
}

func TestModerationService_SendNotice_MissingContact(t *testing.T) {
	ctx, svc, store, _, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "")

	_, err := svc.SendNotice(ctx, &dto.SendNoticeRequest{HirerID: hirer.ID, Actor: admin})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrMissingContact))

	stored, err := store.Users().GetByID(ctx, hirer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusStepNone, stored.StatusStep)
}

func TestModerationService_SendNotice_SendFailureLeavesStep(t *testing.T) {
	ctx, svc, store, notifier, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	notifier.EXPECT().Send(gomock.Any(), notify.TemplateNotice, gomock.Any()).Return(errors.New("quota exceeded")).Times(1)

	_, err := svc.SendNotice(ctx, &dto.SendNoticeRequest{HirerID: hirer.ID, Actor: admin})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrTransient))

	stored, err := store.Users().GetByID(ctx, hirer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusStepNone, stored.StatusStep)
}

func TestModerationService_CertifyBanUnban(t *testing.T) {
	ctx, svc, store, _, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0)

	for i := 0; i < 2; i++ {
		user, err := svc.GrantCertification(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
		require.NoError(t, err)
		assert.True(t, user.Certified)
	}

	user, err := svc.BanAccount(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.True(t, user.Banned)
	assert.Equal(t, models.StatusStepBanned, user.StatusStep)
	assert.False(t, getJob(t, store, "j1").Frozen, "banning must not freeze jobs")

	user, err = svc.UnbanAccount(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: admin})
	require.NoError(t, err)
	assert.False(t, user.Banned)
	assert.Equal(t, models.StatusStepNone, user.StatusStep)
}

func TestModerationService_AdminOnlyAndHirerTargets(t *testing.T) {
	ctx, svc, store, _, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	applicant := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0)

	_, err := svc.BanAccount(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: sessionOf(hirer)})
	assert.True(t, errors.Is(err, services.ErrForbidden))
	_, err = svc.FreezeAllJobs(ctx, &dto.ModerationRequest{HirerID: hirer.ID, Actor: sessionOf(applicant)})
	assert.True(t, errors.Is(err, services.ErrForbidden))
	_, err = svc.BuildHirerReport(ctx, sessionOf(applicant))
	assert.True(t, errors.Is(err, services.ErrForbidden))
	_, err = svc.ListJobReports(ctx, &dto.ListReportsRequest{JobID: "j1"})
	assert.True(t, errors.Is(err, services.ErrUnauthenticated))

	_, err = svc.GrantCertification(ctx, &dto.ModerationRequest{HirerID: applicant.ID, Actor: admin})
	assert.True(t, errors.Is(err, services.ErrNotFound))
	_, err = svc.GrantCertification(ctx, &dto.ModerationRequest{HirerID: "ghost", Actor: admin})
	assert.True(t, errors.Is(err, services.ErrNotFound))

	stored, err := store.Users().GetByID(ctx, hirer.ID)
	require.NoError(t, err)
	assert.False(t, stored.Banned)
	assert.False(t, getJob(t, store, "j1").Frozen)
}

func TestModerationService_BuildHirerReport(t *testing.T) {
	ctx, svc, store, _, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	quiet := seedUser(t, store, "h2", models.RoleHirer, "h2@example.com")
	seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0, func(j *models.Job) { j.LikesCount = 1; j.ReportsCount = 5 })
	seedJob(t, store, "j2", hirer.ID, 1, func(j *models.Job) { j.LikesCount = 1; j.ReportsCount = 3 })
	require.NoError(t, store.Reports().Create(ctx, &models.Report{
		JobID: "j1", ReporterID: "a1", Reasons: []models.ReportReason{models.ReasonScam, models.ReasonSpam}, Note: "fake",
	}))

	summaries, err := svc.BuildHirerReport(ctx, admin)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	top := summaries[0]
	assert.Equal(t, hirer.ID, top.Hirer.ID)
	assert.Equal(t, 2, top.TotalLikes)
	assert.Equal(t, 8, top.TotalReports)
	assert.InDelta(t, 4.0, top.ReportRatio, 1e-9)
	assert.InDelta(t, 0.25, top.LikeRatio, 1e-9)
	assert.Equal(t, models.StandingFlagged, top.Standing)
	assert.Equal(t, map[string]int{"scam": 1, "spam": 1}, top.ReasonTotals)
	require.Len(t, top.Jobs, 2)

	assert.Equal(t, quiet.ID, summaries[1].Hirer.ID)
	assert.Equal(t, 0.0, summaries[1].ReportRatio)
	assert.Equal(t, models.StandingNeutral, summaries[1].Standing)
}

func TestModerationService_ListJobLikes(t *testing.T) {
	ctx, svc, store, _, ctrl := setupModerationTest(t)
	defer ctrl.Finish()

	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0)
	seedJob(t, store, "j2", hirer.ID, 1)
	for _, like := range []models.Like{{JobID: "j1", UserID: "a1"}, {JobID: "j1", UserID: "ghost"}, {JobID: "j2", UserID: "a1"}} {
		like := like
		require.NoError(t, store.Likes().Add(ctx, &like))
	}

	likers, err := svc.ListJobLikes(ctx, &dto.ListLikesRequest{JobID: "j1", Actor: admin})
	require.NoError(t, err)
	require.Len(t, likers, 2)
	byUser := map[string]dto.LikerView{}
	for _, l := range likers {
		assert.Equal(t, "j1", l.JobID)
		byUser[l.UserID] = l
	}
	assert.Equal(t, "a1", byUser["a1"].Name)
	assert.Equal(t, "a1@example.com", byUser["a1"].Email)
	assert.Equal(t, "ghost", byUser["ghost"].Name)
	assert.Empty(t, byUser["ghost"].Email)

	_, err = svc.ListJobLikes(ctx, &dto.ListLikesRequest{JobID: "j1", Actor: sessionOf(a1)})
	assert.True(t, errors.Is(err, services.ErrForbidden))
	_, err = svc.ListJobLikes(ctx, &dto.ListLikesRequest{JobID: "nope", Actor: admin})
	assert.True(t, errors.Is(err, services.ErrNotFound))
}
