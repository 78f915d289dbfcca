package dto

import "go-jobboard/internal/models"

// RegisterRequest defines the structure for creating a new account.
type RegisterRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=applicant hirer"`
}

// LoginRequest defines the structure for signing in with a password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful sign-in.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	Redirect  string      `json:"redirect"`
	User      models.User `json:"user"`
}

// CompleteProfileRequest updates the caller's public profile.
type CompleteProfileRequest struct {
	FirstName    *string             `json:"first_name,omitempty" validate:"omitempty,max=60"`
	LastName     *string             `json:"last_name,omitempty" validate:"omitempty,max=60"`
	About        *string             `json:"about,omitempty" validate:"omitempty,max=2000"`
	SocialLinks  *models.SocialLinks `json:"social_links,omitempty"`
	ProfileImage *string             `json:"profile_image,omitempty" validate:"omitempty,startswith=data:"`
	Role         *models.Role        `json:"role,omitempty" validate:"omitempty,oneof=applicant hirer"`
	Actor        models.Session      `json:"-"`
}

// PublicProfile is what anyone can see about a hirer.
type PublicProfile struct {
	ID           string             `json:"id"`
	Role         models.Role        `json:"role"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	About        string             `json:"about"`
	SocialLinks  models.SocialLinks `json:"social_links"`
	ProfileImage string             `json:"profile_image,omitempty"`
	Certified    bool               `json:"certified"`
}

// VerificationStatus reports the outcome of waiting for email verification.
type VerificationStatus struct {
	Verified bool   `json:"verified"`
	Result   string `json:"result"`
}
