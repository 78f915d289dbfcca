package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/services"
	"go-jobboard/internal/storage/memory"
	"go-jobboard/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	puts map[string][]byte
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[key] = content
	return "https://cdn.example.com/" + key, nil
}

func setupApplicationTest(t *testing.T) (context.Context, services.ApplicationService, *memory.Store) {
	store := memory.NewStore()
	return context.Background(), services.NewApplicationService(store, nil, services.DefaultSettings()), store
}

func TestApplicationService_Scenario(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "job7", hirer.ID, 0)

	sub, err := svc.SubmitOrUpdateCV(ctx, &dto.SubmitCVRequest{JobID: "job7", CVURL: "https://x/cv.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, sub.Status)
	assert.Equal(t, "https://x/cv.pdf", sub.PDFURL)
	assert.False(t, sub.SubmittedAt.IsZero())

	decided, err := svc.Decide(ctx, &dto.DecideRequest{SubmissionID: sub.ID, Outcome: models.SubmissionAccepted, Actor: sessionOf(hirer)})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionAccepted, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	updated, err := svc.SubmitOrUpdateCV(ctx, &dto.SubmitCVRequest{JobID: "job7", CVURL: "https://x/cv-v2.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, updated.ID)
	assert.Equal(t, "https://x/cv-v2.pdf", updated.PDFURL)
	assert.Equal(t, models.SubmissionAccepted, updated.Status)

	subs, err := store.Submissions().ListByJob(ctx, "job7")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestApplicationService_Decide_IsTerminal(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0)

	sub, err := svc.SubmitOrUpdateCV(ctx, &dto.SubmitCVRequest{JobID: "j1", CVURL: "https://x/cv.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)
	_, err = svc.Decide(ctx, &dto.DecideRequest{SubmissionID: sub.ID, Outcome: models.SubmissionRejected, Actor: sessionOf(hirer)})
	require.NoError(t, err)

	for _, outcome := range []models.SubmissionStatus{models.SubmissionAccepted, models.SubmissionRejected} {
		_, err = svc.Decide(ctx, &dto.DecideRequest{SubmissionID: sub.ID, Outcome: outcome, Actor: sessionOf(hirer)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, services.ErrAlreadyDecided))
	}

	stored, err := store.Submissions().GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionRejected, stored.Status)
}

func TestApplicationService_Decide_Authorization(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	owner := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	other := seedUser(t, store, "h2", models.RoleHirer, "h2@example.com")
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", owner.ID, 0)

	sub, err := svc.SubmitOrUpdateCV(ctx, &dto.SubmitCVRequest{JobID: "j1", CVURL: "https://x/cv.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, &dto.DecideRequest{SubmissionID: sub.ID, Outcome: models.SubmissionAccepted, Actor: sessionOf(other)})
	assert.True(t, errors.Is(err, services.ErrForbidden))

	_, err = svc.Decide(ctx, &dto.DecideRequest{SubmissionID: sub.ID, Outcome: models.SubmissionAccepted, Actor: sessionOf(a1)})
	assert.True(t, errors.Is(err, services.ErrForbidden))

	_, err = svc.Decide(ctx, &dto.DecideRequest{SubmissionID: sub.ID, Outcome: models.SubmissionPending, Actor: sessionOf(owner)})
	assert.True(t, errors.Is(err, services.ErrInvalidInput))

	_, err = svc.Decide(ctx, &dto.DecideRequest{SubmissionID: "missing", Outcome: models.SubmissionAccepted, Actor: sessionOf(owner)})
	assert.True(t, errors.Is(err, services.ErrNotFound))

	stored, err := store.Submissions().GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, stored.Status)
}

func TestApplicationService_SubmitOrUpdateCV_Validation(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", hirer.ID, 0)
	seedJob(t, store, "cold", hirer.ID, 1, frozen)

	tests := []struct {
		name    string
		req     *dto.SubmitCVRequest
		wantErr error
	}{
		{"no session", &dto.SubmitCVRequest{JobID: "j1", CVURL: "https://x/cv.pdf"}, services.ErrUnauthenticated},
		{"relative url", &dto.SubmitCVRequest{JobID: "j1", CVURL: "cv.pdf", Actor: sessionOf(a1)}, services.ErrInvalidInput},
		{"ftp url", &dto.SubmitCVRequest{JobID: "j1", CVURL: "ftp://x/cv.pdf", Actor: sessionOf(a1)}, services.ErrInvalidInput},
		{"hirer", &dto.SubmitCVRequest{JobID: "j1", CVURL: "https://x/cv.pdf", Actor: sessionOf(hirer)}, services.ErrForbidden},
		{"no cv on file", &dto.SubmitCVRequest{JobID: "j1", Actor: sessionOf(a1)}, services.ErrInvalidInput},
		{"profile sentinel", &dto.SubmitCVRequest{JobID: models.ProfileJobID, CVURL: "https://x/cv.pdf", Actor: sessionOf(a1)}, services.ErrInvalidInput},
		{"missing job", &dto.SubmitCVRequest{JobID: "nope", CVURL: "https://x/cv.pdf", Actor: sessionOf(a1)}, services.ErrNotFound},
		{"frozen job", &dto.SubmitCVRequest{JobID: "cold", CVURL: "https://x/cv.pdf", Actor: sessionOf(a1)}, services.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitOrUpdateCV(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	subs, err := store.Submissions().ListByUser(ctx, a1.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestApplicationService_SaveProfileCV_UpsertsSentinelAndFallsBack(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", "h1", 0)

	first, err := svc.SaveProfileCV(ctx, &dto.SaveProfileCVRequest{CVURL: "https://x/base.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)
	assert.True(t, first.IsProfile())

	second, err := svc.SaveProfileCV(ctx, &dto.SaveProfileCVRequest{CVURL: "https://x/base-v2.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "https://x/base-v2.pdf", second.PDFURL)

	user, err := store.Users().GetByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://x/base-v2.pdf", user.CVURL)

	sub, err := svc.SubmitOrUpdateCV(ctx, &dto.SubmitCVRequest{JobID: "j1", Actor: sessionOf(a1)})
	require.NoError(t, err)
	assert.Equal(t, "https://x/base-v2.pdf", sub.PDFURL)

	all, err := store.Submissions().ListByUser(ctx, a1.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestApplicationService_UploadProfileCV(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")

	noObjects := services.NewApplicationService(store, nil, services.DefaultSettings())
	_, err := noObjects.UploadProfileCV(ctx, &dto.UploadCVRequest{FileName: "cv.pdf", Content: []byte("%PDF-1.4"), Actor: sessionOf(a1)})
	assert.True(t, errors.Is(err, services.ErrTransient))

	objects := &fakeObjectStore{}
	svc := services.NewApplicationService(store, objects, services.DefaultSettings())
	_, err = svc.UploadProfileCV(ctx, &dto.UploadCVRequest{FileName: "cv.pdf", Content: []byte("not a pdf"), Actor: sessionOf(a1)})
	assert.True(t, errors.Is(err, services.ErrInvalidInput))
	assert.Empty(t, objects.puts)

	_, err = svc.UploadProfileCV(ctx, &dto.UploadCVRequest{FileName: "cv.pdf", Content: []byte("%PDF-1.4"), Actor: models.Session{UserID: "h1", Role: models.RoleHirer}})
	assert.True(t, errors.Is(err, services.ErrForbidden))
}

func TestApplicationService_ListMySubmissions(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")

	_, err := svc.SaveProfileCV(ctx, &dto.SaveProfileCVRequest{CVURL: "https://x/base.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		id := fmt.Sprintf("j%d", i)
		seedJob(t, store, id, "h1", i)
		require.NoError(t, store.Submissions().Create(ctx, &models.Submission{
			UserID:      a1.ID,
			JobID:       id,
			PDFURL:      "https://x/cv.pdf",
			Status:      models.SubmissionPending,
			SubmittedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}))
	}

	page1, err := svc.ListMySubmissions(ctx, &dto.ListMySubmissionsRequest{Page: 1, Actor: sessionOf(a1)})
	require.NoError(t, err)
	assert.Equal(t, 7, page1.TotalItems)
	assert.Equal(t, 2, page1.TotalPages)
	require.Len(t, page1.Submissions, 5)
	assert.Equal(t, "j6", page1.Submissions[0].JobID)
	assert.Equal(t, "Position j6", page1.Submissions[0].Position)
	assert.Equal(t, "Company j6", page1.Submissions[0].CompanyName)

	page2, err := svc.ListMySubmissions(ctx, &dto.ListMySubmissionsRequest{Page: 2, Actor: sessionOf(a1)})
	require.NoError(t, err)
	require.Len(t, page2.Submissions, 2)
	for _, s := range append(page1.Submissions, page2.Submissions...) {
		assert.False(t, s.IsProfile())
	}
}

func TestApplicationService_ListJobSubmissions(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	owner := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	other := seedUser(t, store, "h2", models.RoleHirer, "h2@example.com")
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedJob(t, store, "j1", owner.ID, 0)

	_, err := svc.SubmitOrUpdateCV(ctx, &dto.SubmitCVRequest{JobID: "j1", CVURL: "https://x/cv.pdf", Actor: sessionOf(a1)})
	require.NoError(t, err)

	subs, err := svc.ListJobSubmissions(ctx, &dto.ListJobSubmissionsRequest{JobID: "j1", Actor: sessionOf(owner)})
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	_, err = svc.ListJobSubmissions(ctx, &dto.ListJobSubmissionsRequest{JobID: "j1", Actor: sessionOf(other)})
	assert.True(t, errors.Is(err, services.ErrForbidden))
}

func TestApplicationService_ListHirerSubmissions(t *testing.T) {
	ctx, svc, store := setupApplicationTest(t)
	hirer := seedUser(t, store, "h1", models.RoleHirer, "h1@example.com")
	other := seedUser(t, store, "h2", models.RoleHirer, "h2@example.com")
	a1 := seedUser(t, store, "a1", models.RoleApplicant, "a1@example.com")
	seedUser(t, store, "a2", models.RoleApplicant, "a2@example.com")
	seedUser(t, store, "a3", models.RoleApplicant, "a3@example.com")
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "a4", Role: models.RoleApplicant, Email: "a4@example.com", ProfileImage: "data:image/png;base64,AAAA"}))
	seedJob(t, store, "j1", hirer.ID, 0)
	seedJob(t, store, "j2", hirer.ID, 1)
	seedJob(t, store, "j3", other.ID, 2)

	submit := func(userID, jobID string, hoursAgo int) {
		t.Helper()
		require.NoError(t, store.Submissions().Create(ctx, &models.Submission{
			UserID:      userID,
			JobID:       jobID,
			PDFURL:      fmt.Sprintf("https://x/%s-%s.pdf", userID, jobID),
			Status:      models.SubmissionPending,
			SubmittedAt: baseTime.Add(-time.Duration(hoursAgo) * time.Hour),
		}))
	}
	submit("a1", "j1", 1)
	submit("a2", "j1", 2)
	submit("ghost", "j1", 3)
	submit("a1", "j2", 4)
	submit("a2", "j2", 5)
	submit("a3", "j2", 6)
	submit("a4", "j2", 7)
	submit("a1", "j3", 0)
	submit("a1", models.ProfileJobID, 0)

	page, err := svc.ListHirerSubmissions(ctx, &dto.ListHirerSubmissionsRequest{Page: 1, Actor: sessionOf(hirer)})
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 5, page.PageSize)
	require.Len(t, page.Submissions, 5)

	first := page.Submissions[0]
	assert.Equal(t, "a1", first.UserID)
	assert.Equal(t, "j1", first.JobID)
	assert.Equal(t, "a1", first.ApplicantName)
	assert.Equal(t, "a1@example.com", first.ApplicantEmail)
	assert.Equal(t, "Position j1", first.JobTitle)
	assert.Equal(t, "Unknown Applicant", page.Submissions[2].ApplicantName)
	assert.Empty(t, page.Submissions[2].ApplicantEmail)
	for i := 1; i < len(page.Submissions); i++ {
		assert.True(t, page.Submissions[i-1].SubmittedAt.After(page.Submissions[i].SubmittedAt))
	}

	page, err = svc.ListHirerSubmissions(ctx, &dto.ListHirerSubmissionsRequest{Page: 2, Actor: sessionOf(hirer)})
	require.NoError(t, err)
	require.Len(t, page.Submissions, 2)
	last := page.Submissions[1]
	assert.Equal(t, "a4", last.UserID)
	assert.Equal(t, "a4@example.com", last.ApplicantName)
	assert.Equal(t, "data:image/png;base64,AAAA", last.ApplicantPhoto)
	assert.Equal(t, "Position j2", last.JobTitle)

	_, err = svc.ListHirerSubmissions(ctx, &dto.ListHirerSubmissionsRequest{Page: 1, Actor: sessionOf(a1)})
	assert.True(t, errors.Is(err, services.ErrForbidden))
}
