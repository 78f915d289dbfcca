package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-jobboard/internal/models"
	"go-jobboard/internal/services"
	"go-jobboard/internal/storage/memory"
	"go-jobboard/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogTest(t *testing.T) (context.Context, services.JobCatalog, *memory.Store) {
	store := memory.NewStore()
	return context.Background(), services.NewJobCatalog(store, nil, services.DefaultSettings()), store
}

func jobIDs(jobs []models.Job) []string {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}

func TestSearchJobs(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Position: "Backend Engineer", CompanyName: "Acme", Location: "Lisbon"},
		{ID: "2", Position: "Designer", CompanyName: "Globex", Location: "Porto"},
		{ID: "3", Position: "Data Analyst", CompanyName: "Initech", Location: "Remote"},
	}

	assert.Equal(t, jobs, services.SearchJobs(jobs, ""))
	assert.Equal(t, jobs, services.SearchJobs(jobs, "   "))
	assert.Equal(t, []string{"1"}, jobIDs(services.SearchJobs(jobs, "ENGINEER")))
	assert.Equal(t, []string{"2"}, jobIDs(services.SearchJobs(jobs, "glob")))
	assert.Equal(t, []string{"3"}, jobIDs(services.SearchJobs(jobs, "remote")))
	assert.Empty(t, services.SearchJobs(jobs, "astronaut"))
}

func TestRecentJobs(t *testing.T) {
	jobs := []models.Job{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	assert.Equal(t, []string{"1", "2"}, jobIDs(services.RecentJobs(jobs, 2)))
	assert.Equal(t, jobs, services.RecentJobs(jobs, 10))
	assert.Empty(t, services.RecentJobs(jobs, 0))
}

func TestJobCatalog_ListVisible_HidesFrozenNewestFirst(t *testing.T) {
	ctx, svc, store := setupCatalogTest(t)
	seedJob(t, store, "old", "h1", 3)
	seedJob(t, store, "cold", "h1", 2, frozen)
	seedJob(t, store, "new", "h1", 1)

	jobs, err := svc.ListVisible(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, jobIDs(jobs))
}

func TestJobCatalog_Browse_Pages(t *testing.T) {
	ctx, svc, store := setupCatalogTest(t)
	for i := 0; i < 12; i++ {
		seedJob(t, store, fmt.Sprintf("j%02d", i), "h1", i)
	}

	page, err := svc.Browse(ctx, &dto.BrowseJobsRequest{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, []string{"j10", "j11"}, jobIDs(page.Jobs))

	page, err = svc.Browse(ctx, &dto.BrowseJobsRequest{Search: "j01", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"j01"}, jobIDs(page.Jobs))

	page, err = svc.Browse(ctx, &dto.BrowseJobsRequest{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page.Jobs)
}

func TestJobCatalog_Recommended(t *testing.T) {
	ctx, svc, store := setupCatalogTest(t)
	for i := 0; i < 12; i++ {
		if i%3 == 0 {
			seedJob(t, store, fmt.Sprintf("j%02d", i), "h1", i, frozen)
			continue
		}
		seedJob(t, store, fmt.Sprintf("j%02d", i), "h1", i)
	}

	jobs, err := svc.Recommended(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"j01", "j02", "j04", "j05", "j07"}, jobIDs(jobs))
}

func TestJobCatalog_GetJob_FrozenVisibility(t *testing.T) {
	ctx, svc, store := setupCatalogTest(t)
	owner := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	other := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "cold", owner.ID, 0, frozen)

	_, err := svc.GetJob(ctx, &dto.GetJobRequest{ID: "cold", Actor: sessionOf(other)})
	assert.True(t, errors.Is(err, services.ErrNotFound))
	_, err = svc.GetJob(ctx, &dto.GetJobRequest{ID: "cold"})
	assert.True(t, errors.Is(err, services.ErrNotFound))

	job, err := svc.GetJob(ctx, &dto.GetJobRequest{ID: "cold", Actor: sessionOf(owner)})
	require.NoError(t, err)
	assert.True(t, job.Frozen)
	_, err = svc.GetJob(ctx, &dto.GetJobRequest{ID: "cold", Actor: admin})
	require.NoError(t, err)

	mine, err := svc.ListByHirer(ctx, owner.ID, sessionOf(owner))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := svc.ListByHirer(ctx, owner.ID, sessionOf(other))
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestJobCatalog_PostJob(t *testing.T) {
	ctx, svc, store := setupCatalogTest(t)
	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	applicant := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	banned := seedUser(t, store, "h2", models.RoleHirer, "h2@example.com")
	_, err := store.Users().Update(ctx, banned.ID, &models.UserUpdate{Banned: func() *bool { b := true; return &b }()})
	require.NoError(t, err)

	req := dto.PostJobRequest{
		Position:    " Go Developer ",
		CompanyName: "Acme",
		Location:    "Remote",
		Salary:      4200,
		Description: "Build APIs",
	}

	withActor := func(s models.Session) *dto.PostJobRequest {
		r := req
		r.Actor = s
		return &r
	}

	job, err := svc.PostJob(ctx, withActor(sessionOf(hirer)))
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Go Developer", job.Position)
	assert.Equal(t, hirer.ID, job.HirerID)
	assert.False(t, job.Frozen)
	assert.Equal(t, 0, job.LikesCount)

	_, err = svc.PostJob(ctx, withActor(sessionOf(applicant)))
	assert.True(t, errors.Is(err, services.ErrForbidden))
	_, err = svc.PostJob(ctx, withActor(sessionOf(banned)))
	assert.True(t, errors.Is(err, services.ErrForbidden))
	_, err = svc.PostJob(ctx, withActor(models.Session{}))
	assert.True(t, errors.Is(err, services.ErrUnauthenticated))

	blank := withActor(sessionOf(hirer))
	blank.Position = "   "
	_, err = svc.PostJob(ctx, blank)
	assert.True(t, errors.Is(err, services.ErrInvalidInput))

	jobs, err := svc.ListVisible(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestJobCatalog_UpdateJob_OwnerOnly(t *testing.T) {
	ctx, svc, store := setupCatalogTest(t)
	owner := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	other := seedUser(t, store, "h2", models.RoleHirer, "h2@example.com")
	seedJob(t, store, "j1", owner.ID, 0)

	title := "Senior Go Developer"
	_, err := svc.UpdateJob(ctx, &dto.UpdateJobRequest{ID: "j1", Position: &title, Actor: sessionOf(other)})
	assert.True(t, errors.Is(err, services.ErrForbidden))

	job, err := svc.UpdateJob(ctx, &dto.UpdateJobRequest{ID: "j1", Position: &title, Actor: sessionOf(owner)})
	require.NoError(t, err)
	assert.Equal(t, title, job.Position)
}
