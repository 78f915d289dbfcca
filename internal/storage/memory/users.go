package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
)

type UserRepo struct {
	s *Store
}

var _ storage.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *UserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	defer r.s.lock()()
	users := []models.User{}
	for _, u := range r.s.st.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	defer r.s.lock()()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, exists := r.s.st.users[user.ID]; exists {
		return storage.ErrConflict
	}
	if user.Email != "" {
		for _, u := range r.s.st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return storage.ErrConflict
			}
		}
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.StatusStep == "" {
		user.StatusStep = models.StatusStepNone
	}
	r.s.st.users[user.ID] = *user
	return nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	upd.Apply(&u)
	u.UpdatedAt = time.Now().UTC()
	r.s.st.users[id] = u
	return &u, nil
}
