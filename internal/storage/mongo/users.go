package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	coll *mongo.Collection
}

var _ storage.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&user)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error fetching user %v: %v\n", filter, err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(caseInsensitive))
}

func (r *UserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
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

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if err := mapWriteError(err); err == storage.ErrConflict {
			return err
		}
		log.Printf("Error creating user: %v\n", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	b := newUpdateBuilder().Set("updated_at", time.Now().UTC())
	if upd.Role != nil {
		b.Set("role", *upd.Role)
	}
	if upd.FirstName != nil {
		b.Set("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		b.Set("last_name", *upd.LastName)
	}
	if upd.About != nil {
		b.Set("about", *upd.About)
	}
	if upd.SocialLinks != nil {
		b.Set("social_links", *upd.SocialLinks)
	}
	if upd.ProfileImage != nil {
		b.Set("profile_image", *upd.ProfileImage)
	}
	if upd.Certified != nil {
		b.Set("certified", *upd.Certified)
	}
	if upd.StatusStep != nil {
		b.Set("status_step", *upd.StatusStep)
	}
	if upd.Banned != nil {
		b.Set("banned", *upd.Banned)
	}
	if upd.CVURL != nil {
		b.Set("cv_url", *upd.CVURL)
	}
	if upd.EmailVerified != nil {
		b.Set("email_verified", *upd.EmailVerified)
	}

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, b.Build(),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating user %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return &user, nil
}
