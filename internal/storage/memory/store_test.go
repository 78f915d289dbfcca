package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"
	"go-jobboard/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_EmailIsUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Users().Create(ctx, &models.User{Email: "a@example.com", Role: models.RoleHirer}))
	err := store.Users().Create(ctx, &models.User{Email: "A@EXAMPLE.com", Role: models.RoleApplicant})
	assert.ErrorIs(t, err, storage.ErrConflict)

	got, err := store.Users().GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusStepNone, got.StatusStep)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	job := &models.Job{HirerID: "h1", Position: "Cook"}
	require.NoError(t, store.Jobs().Create(ctx, job))

	boom := errors.New("boom")
	err := store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		got, err := tx.Jobs().GetByID(ctx, job.ID)
		require.NoError(t, err)
		got.LikedBy = append(got.LikedBy, "u1")
		got.LikesCount = 1
		require.NoError(t, tx.Jobs().SaveEngagement(ctx, got))
		require.NoError(t, tx.Likes().Add(ctx, &models.Like{JobID: job.ID, UserID: "u1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)
	assert.Empty(t, got.LikedBy)
	likes, err := store.Likes().ListByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestRunInTx_Commits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	job := &models.Job{HirerID: "h1", Position: "Cook"}
	require.NoError(t, store.Jobs().Create(ctx, job))

	err := store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		// Nested calls join the outer transaction.
		return tx.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
			_, err := tx.Jobs().SetFrozen(ctx, job.ID, true)
			return err
		})
	})
	require.NoError(t, err)

	got, err := store.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, got.Frozen)
}

func TestJobs_SetFrozenReportsChange(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	job := &models.Job{HirerID: "h1"}
	require.NoError(t, store.Jobs().Create(ctx, job))

	changed, err := store.Jobs().SetFrozen(ctx, job.ID, true)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = store.Jobs().SetFrozen(ctx, job.ID, true)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = store.Jobs().SetFrozen(ctx, "missing", true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestJobs_ReturnedCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	job := &models.Job{HirerID: "h1", LikedBy: []string{"u1"}, LikesCount: 1}
	require.NoError(t, store.Jobs().Create(ctx, job))

	got, err := store.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	got.LikedBy[0] = "tampered"

	again, err := store.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, again.LikedBy)
}

func TestSubmissions_DecideOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sub := &models.Submission{UserID: "a1", JobID: "j1", PDFURL: "https://cv", Status: models.SubmissionPending}
	require.NoError(t, store.Submissions().Create(ctx, sub))

	now := time.Now()
	decided, err := store.Submissions().Decide(ctx, sub.ID, models.SubmissionAccepted, now)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionAccepted, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	_, err = store.Submissions().Decide(ctx, sub.ID, models.SubmissionRejected, now)
	assert.ErrorIs(t, err, storage.ErrConflict)
	_, err = store.Submissions().Decide(ctx, "missing", models.SubmissionRejected, now)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
