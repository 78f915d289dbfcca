package firestore

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

// UserRepo keeps one userEmails/<lowercased email> document per user so that
// email lookups are case-insensitive and emails stay unique.
type UserRepo struct {
	s *Store
}

var _ storage.UserRepository = (*UserRepo)(nil)

type emailIndex struct {
	UserID string `firestore:"userId"`
}

func decodeUser(snap *firestore.DocumentSnapshot) (*models.User, error) {
	var u models.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
	}
	u.ID = snap.Ref.ID
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	snap, err := r.s.get(ctx, r.s.collection(usersCollection).Doc(id))
	if err != nil {
		return nil, err
	}
	return decodeUser(snap)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	snap, err := r.s.get(ctx, r.s.collection(emailsCollection).Doc(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}
	var idx emailIndex
	if err := snap.DataTo(&idx); err != nil {
		return nil, fmt.Errorf("failed to decode email index: %w", err)
	}
	return r.GetByID(ctx, idx.UserID)
}

func (r *UserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	q := r.s.collection(usersCollection).Where("role", "==", string(role)).OrderBy("createdAt", firestore.Asc)
	snaps, err := r.s.documents(ctx, q)
	if err != nil {
		log.Printf("Error querying users with role %s: %v\n", role, err)
		return nil, err
	}
	users := make([]models.User, 0, len(snaps))
	for _, snap := range snaps {
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.StatusStep == "" {
		user.StatusStep = models.StatusStepNone
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	return r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		userRef := tx.collection(usersCollection).Doc(user.ID)
		if _, err := tx.get(ctx, userRef); !isNotFound(err) {
			if err != nil {
				return err
			}
			return storage.ErrConflict
		}

		var emailRef *firestore.DocumentRef
		if user.Email != "" {
			emailRef = tx.collection(emailsCollection).Doc(strings.ToLower(user.Email))
			if _, err := tx.get(ctx, emailRef); !isNotFound(err) {
				if err != nil {
					return err
				}
				return storage.ErrConflict
			}
		}

		stored := *user
		tx.queue(func(t *firestore.Transaction) error {
			if emailRef != nil {
				if err := t.Create(emailRef, emailIndex{UserID: stored.ID}); err != nil {
					return err
				}
			}
			return t.Create(userRef, stored)
		})
		return nil
	})
}

func (r *UserRepo) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	var updated *models.User
	err := r.s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		ref := tx.collection(usersCollection).Doc(id)
		snap, err := tx.get(ctx, ref)
		if err != nil {
			return err
		}
		u, err := decodeUser(snap)
		if err != nil {
			return err
		}
		upd.Apply(u)
		u.UpdatedAt = time.Now().UTC()
		stored := *u
		tx.queue(func(t *firestore.Transaction) error { return t.Set(ref, stored) })
		updated = u
		return nil
	})
	if err != nil {
		if !isNotFound(err) {
			log.Printf("Error updating user %s: %v\n", id, err)
		}
		return nil, err
	}
	return updated, nil
}
