package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, role, first_name, last_name, email, about, social_links, profile_image, certified,
	status_step, banned, total_likes, total_reports, cv_url, email_verified, password_hash, created_at, updated_at`

// UserRepo implements the storage.UserRepository interface using PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// Compile-time check to ensure UserRepo implements UserRepository
var _ storage.UserRepository = (*UserRepo)(nil)

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.About,
		&u.SocialLinks,
		&u.ProfileImage,
		&u.Certified,
		&u.StatusStep,
		&u.Banned,
		&u.TotalLikes,
		&u.TotalReports,
		&u.CVURL,
		&u.EmailVerified,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning user (%s %v): %v\n", where, arg, err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "lower(email) = $1", strings.ToLower(email))
}

func (r *UserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC`, role)
	if err != nil {
		log.Printf("Error querying users with role %s: %v\n", role, err)
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Printf("Error scanning user: %v\n", err)
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.StatusStep == "" {
		user.StatusStep = models.StatusStepNone
	}

	query := `
		INSERT INTO users (id, role, first_name, last_name, email, about, social_links, profile_image, certified,
			status_step, banned, cv_url, email_verified, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Email,
		user.About,
		user.SocialLinks,
		user.ProfileImage,
		user.Certified,
		user.StatusStep,
		user.Banned,
		user.CVURL,
		user.EmailVerified,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Printf("Attempted to create user with duplicate email %s: %v\n", user.Email, err)
			return storage.ErrConflict
		}
		log.Printf("Error creating user %s: %v\n", user.ID, err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	var c setClause
	if upd.Role != nil {
		c.add("role", *upd.Role)
	}
	if upd.FirstName != nil {
		c.add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		c.add("last_name", *upd.LastName)
	}
	if upd.About != nil {
		c.add("about", *upd.About)
	}
	if upd.SocialLinks != nil {
		c.add("social_links", *upd.SocialLinks)
	}
	if upd.ProfileImage != nil {
		c.add("profile_image", *upd.ProfileImage)
	}
	if upd.Certified != nil {
		c.add("certified", *upd.Certified)
	}
	if upd.StatusStep != nil {
		c.add("status_step", *upd.StatusStep)
	}
	if upd.Banned != nil {
		c.add("banned", *upd.Banned)
	}
	if upd.CVURL != nil {
		c.add("cv_url", *upd.CVURL)
	}
	if upd.EmailVerified != nil {
		c.add("email_verified", *upd.EmailVerified)
	}

	query, args := c.build("users", id, userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating user %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return u, nil
}
