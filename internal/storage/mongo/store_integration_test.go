//go:build integration

package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"
	jobmongo "go-jobboard/internal/storage/mongo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// getTestStore needs TEST_MONGO_URI pointing at a replica set; each test gets a fresh database.
func getTestStore(t *testing.T) *jobmongo.Store {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("jobboard_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, jobmongo.EnsureIndexes(ctx, db))
	return jobmongo.NewStore(client, db)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	job := &models.Job{HirerID: "h1", Position: "Baker", CompanyName: "Bread Co", Location: "Lisbon", Description: "Dough"}
	require.NoError(t, store.Jobs().Create(ctx, job))

	err := store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		j, err := tx.Jobs().GetByID(ctx, job.ID)
		if err != nil {
			return err
		}
		j.LikedBy = append(j.LikedBy, "u1")
		j.LikesCount = 1
		if err := tx.Jobs().SaveEngagement(ctx, j); err != nil {
			return err
		}
		return storage.ErrConflict
	})
	assert.ErrorIs(t, err, storage.ErrConflict)

	got, err := store.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LikedBy)
	assert.Equal(t, 0, got.LikesCount)
}

func TestUserRepo_EmailIsCaseInsensitive(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{Role: models.RoleApplicant, Email: "Sam@Example.com"}))
	assert.ErrorIs(t, store.Users().Create(ctx, &models.User{Role: models.RoleHirer, Email: "sam@example.com"}), storage.ErrConflict)

	u, err := store.Users().GetByEmail(ctx, "SAM@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Sam@Example.com", u.Email)
}

func TestSubmissionRepo_DecideOnce(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	sub := &models.Submission{UserID: "a1", JobID: "j1", PDFURL: "https://cv/a1.pdf", Status: models.SubmissionPending}
	require.NoError(t, store.Submissions().Create(ctx, sub))

	_, err := store.Submissions().Decide(ctx, sub.ID, models.SubmissionRejected, time.Now().UTC())
	require.NoError(t, err)
	_, err = store.Submissions().Decide(ctx, sub.ID, models.SubmissionAccepted, time.Now().UTC())
	assert.ErrorIs(t, err, storage.ErrConflict)
}
