// Package identity signs users up and in, issues session tokens and tracks session state.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/notify"
	"go-jobboard/internal/pubsub"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

//go:generate mockgen -destination=../mocks/mock_identity.go -package=mocks -mock_names=Gateway=MockIdentityGateway go-jobboard/internal/identity Gateway,TokenStore

// Gateway is the identity provider the services depend on.
type Gateway interface {
	SignUp(ctx context.Context, email, password string, role models.Role) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	OAuthURL(state string) (string, error)
	SignInWithOAuth(ctx context.Context, code string) (*AuthResult, error)
	SignOut(ctx context.Context, session models.Session) error
	SignOutAll(ctx context.Context, userID string, reason models.SessionEventType) error
	OnSessionChanged(ctx context.Context, userID string) (*pubsub.Subscription, error)
	Authenticate(ctx context.Context, token string) (models.Session, error)
	SendVerificationEmail(ctx context.Context, user *models.User) error
	ConfirmEmail(ctx context.Context, token string) (*models.User, error)
	ReloadUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthResult is returned by a successful sign-in.
type AuthResult struct {
	User      *models.User
	Session   models.Session
	Token     string
	ExpiresAt time.Time
	Created   bool
}

// Options configures a Provider.
type Options struct {
	VerifyURL       string
	VerificationTTL time.Duration
}

// Provider implements Gateway on top of the user repository, JWTs and a TokenStore.
type Provider struct {
	users    storage.UserRepository
	issuer   *TokenIssuer
	tokens   TokenStore
	broker   pubsub.Broker
	notifier notify.Gateway
	oauth    OAuthProvider
	opts     Options
}

var _ Gateway = (*Provider)(nil)

// NewProvider wires a Provider. oauth may be nil when OAuth sign-in is disabled.
func NewProvider(users storage.UserRepository, issuer *TokenIssuer, tokens TokenStore, broker pubsub.Broker,
	notifier notify.Gateway, oauth OAuthProvider, opts Options) *Provider {
	if opts.VerificationTTL <= 0 {
		opts.VerificationTTL = 24 * time.Hour
	}
	return &Provider{
		users:    users,
		issuer:   issuer,
		tokens:   tokens,
		broker:   broker,
		notifier: notifier,
		oauth:    oauth,
		opts:     opts,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) SignUp(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if role == "" {
		role = models.RoleApplicant
	}
	if role != models.RoleApplicant && role != models.RoleHirer {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Role:         role,
		Email:        normalizeEmail(email),
		StatusStep:   models.StatusStepNone,
		PasswordHash: string(hash),
	}
	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	log.Printf("Identity: registered %s as %s", user.ID, user.Role)
	return user, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := p.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("Identity: sign-in failed for %s: user not found", email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Printf("Identity: sign-in failed for %s: invalid password", email)
		return nil, ErrInvalidCredentials
	}
	return p.startSession(ctx, user, false)
}

func (p *Provider) OAuthURL(state string) (string, error) {
	if p.oauth == nil {
		return "", ErrOAuthUnavailable
	}
	return p.oauth.AuthCodeURL(state), nil
}

// SignInWithOAuth finishes the code flow. Unknown emails get a new applicant account.
func (p *Provider) SignInWithOAuth(ctx context.Context, code string) (*AuthResult, error) {
	if p.oauth == nil {
		return nil, ErrOAuthUnavailable
	}
	profile, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", ErrOAuthFailed)
	}

	user, err := p.users.GetByEmail(ctx, normalizeEmail(profile.Email))
	switch {
	case err == nil:
		if profile.EmailVerified && !user.EmailVerified {
			verified := true
			if user, err = p.users.Update(ctx, user.ID, &models.UserUpdate{EmailVerified: &verified}); err != nil {
				return nil, fmt.Errorf("failed to mark email verified: %w", err)
			}
		}
		return p.startSession(ctx, user, false)
	case errors.Is(err, storage.ErrNotFound):
		user = &models.User{
			ID:            uuid.NewString(),
			Role:          models.RoleApplicant,
			Email:         normalizeEmail(profile.Email),
			FirstName:     profile.GivenName,
			LastName:      profile.FamilyName,
			StatusStep:    models.StatusStepNone,
			EmailVerified: profile.EmailVerified,
		}
		if err := p.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create oauth account: %w", err)
		}
		log.Printf("Identity: created %s from oauth sign-in", user.ID)
		return p.startSession(ctx, user, true)
	default:
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
}

func (p *Provider) startSession(ctx context.Context, user *models.User, created bool) (*AuthResult, error) {
	if user.Banned {
		log.Printf("Identity: refused sign-in for banned user %s", user.ID)
		return nil, ErrAccountBanned
	}
	token, claims, err := p.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := p.tokens.TrackSession(ctx, user.ID, claims.ID, p.issuer.TTL()); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	session := models.Session{UserID: user.ID, Role: user.Role, Email: user.Email, SessionID: claims.ID}
	p.publish(ctx, models.SessionEvent{Type: models.SessionSignedIn, UserID: user.ID, SessionID: claims.ID})
	return &AuthResult{
		User:      user,
		Session:   session,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Created:   created,
	}, nil
}

func (p *Provider) SignOut(ctx context.Context, session models.Session) error {
	if !session.Authenticated() || session.SessionID == "" {
		return ErrInvalidToken
	}
	if err := p.tokens.Revoke(ctx, session.UserID, session.SessionID, p.issuer.TTL()); err != nil {
		return err
	}
	p.publish(ctx, models.SessionEvent{Type: models.SessionSignedOut, UserID: session.UserID, SessionID: session.SessionID, Redirect: "/login"})
	return nil
}

// SignOutAll revokes every session of userID and tells live clients to go to the login page.
func (p *Provider) SignOutAll(ctx context.Context, userID string, reason models.SessionEventType) error {
	ids, err := p.tokens.RevokeAll(ctx, userID, p.issuer.TTL())
	if err != nil {
		return err
	}
	log.Printf("Identity: revoked %d sessions of %s (%s)", len(ids), userID, reason)
	p.publish(ctx, models.SessionEvent{Type: reason, UserID: userID, Redirect: "/login"})
	return nil
}

func (p *Provider) publish(ctx context.Context, ev models.SessionEvent) {
	if p.broker == nil {
		return
	}
	if err := p.broker.Publish(ctx, pubsub.SessionTopic(ev.UserID), ev); err != nil {
		log.Printf("Identity: failed to publish %s event for %s: %v", ev.Type, ev.UserID, err)
	}
}

func (p *Provider) OnSessionChanged(ctx context.Context, userID string) (*pubsub.Subscription, error) {
	return p.broker.Subscribe(ctx, pubsub.SessionTopic(userID))
}

func (p *Provider) Authenticate(ctx context.Context, token string) (models.Session, error) {
	claims, err := p.issuer.Parse(token)
	if err != nil {
		return models.Session{}, err
	}
	revoked, err := p.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return models.Session{}, err
	}
	if revoked {
		return models.Session{}, ErrSessionRevoked
	}

	// The stored record wins over the claims: roles change on profile completion and bans land mid-session.
	user, err := p.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Session{}, ErrInvalidToken
		}
		return models.Session{}, fmt.Errorf("failed to load account: %w", err)
	}
	if user.Banned {
		return models.Session{}, ErrAccountBanned
	}
	return models.Session{UserID: user.ID, Role: user.Role, Email: user.Email, SessionID: claims.ID}, nil
}

func (p *Provider) SendVerificationEmail(ctx context.Context, user *models.User) error {
	token := uuid.NewString()
	if err := p.tokens.SaveVerification(ctx, token, user.ID, p.opts.VerificationTTL); err != nil {
		return err
	}
	link := p.opts.VerifyURL
	if link != "" {
		sep := "?"
		if strings.Contains(link, "?") {
			sep = "&"
		}
		link += sep + "token=" + url.QueryEscape(token)
	}
	return p.notifier.Send(ctx, notify.TemplateVerifyEmail, notify.Message{
		To: user.Email,
		Variables: map[string]string{
			"VerifyURL": link,
			"ExpiresIn": p.opts.VerificationTTL.String(),
		},
	})
}

func (p *Provider) ConfirmEmail(ctx context.Context, token string) (*models.User, error) {
	userID, ok, err := p.tokens.ConsumeVerification(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVerificationToken
	}
	verified := true
	user, err := p.users.Update(ctx, userID, &models.UserUpdate{EmailVerified: &verified})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm email: %w", err)
	}
	log.Printf("Identity: email verified for %s", userID)
	return user, nil
}

func (p *Provider) ReloadUser(ctx context.Context, userID string) (*models.User, error) {
	return p.users.GetByID(ctx, userID)
}
