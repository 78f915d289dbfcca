package identity

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("accounts can only register as applicant or hirer")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrSessionRevoked     = errors.New("session has been signed out")
	ErrAccountBanned      = errors.New("account is banned")
	ErrVerificationToken  = errors.New("verification link is invalid or has expired")
	ErrOAuthUnavailable   = errors.New("oauth sign-in is not configured")
	ErrOAuthFailed        = errors.New("oauth sign-in failed")
)
