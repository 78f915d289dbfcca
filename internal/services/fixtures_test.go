package services_test

import (
	"context"
	"testing"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, store *memory.Store, id string, role models.Role, email string) models.User {
	t.Helper()
	u := &models.User{ID: id, Role: role, Email: email, FirstName: id}
	require.NoError(t, store.Users().Create(context.Background(), u), "Failed to seed user %s", id)
	return *u
}

// seedJob creates a job; age orders jobs, larger is older.
func seedJob(t *testing.T, store *memory.Store, id, hirerID string, age int, mutate ...func(*models.Job)) models.Job {
	t.Helper()
	j := &models.Job{
		ID:          id,
		HirerID:     hirerID,
		Position:    "Position " + id,
		CompanyName: "Company " + id,
		Location:    "Remote",
		Salary:      1000,
		Description: "Description of " + id,
		CreatedAt:   baseTime.Add(-time.Duration(age) * time.Hour),
	}
	for _, m := range mutate {
		m(j)
	}
	require.NoError(t, store.Jobs().Create(context.Background(), j), "Failed to seed job %s", id)
	return *j
}

func frozen(j *models.Job) { j.Frozen = true }

func sessionOf(u models.User) models.Session {
	return models.Session{UserID: u.ID, Role: u.Role, Email: u.Email, SessionID: "sess-" + u.ID}
}

func getJob(t *testing.T, store *memory.Store, id string) *models.Job {
	t.Helper()
	j, err := store.Jobs().GetByID(context.Background(), id)
	require.NoError(t, err)
	return j
}
