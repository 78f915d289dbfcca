package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-jobboard/internal/cache"
	"go-jobboard/internal/identity"
	"go-jobboard/internal/media"
	"go-jobboard/internal/models"
	"go-jobboard/internal/notify"
	"go-jobboard/internal/poll"
	"go-jobboard/internal/pubsub"
	"go-jobboard/internal/storage"
	"go-jobboard/internal/transport/dto"
)

type accountService struct {
	identity identity.Gateway
	store    storage.Store
	events   publisher
	profiles *cache.ProfileCache
	clock    poll.Clock
	settings Settings
}

// NewAccountService creates a new instance of AccountService.
// broker and profiles may be nil; a nil clock uses real timers.
func NewAccountService(gateway identity.Gateway, store storage.Store, broker pubsub.Broker, profiles *cache.ProfileCache, clock poll.Clock, settings Settings) AccountService {
	if clock == nil {
		clock = poll.SystemClock{}
	}
	return &accountService{
		identity: gateway,
		store:    store,
		events:   publisher{broker: broker},
		profiles: profiles,
		clock:    clock,
		settings: settings.withDefaults(),
	}
}

// mapIdentityError maps identity provider errors to service errors.
func mapIdentityError(err error, operation string) error {
	switch {
	case err == nil:
		return nil
	case IsServiceError(err):
		return err
	case errors.Is(err, identity.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, identity.ErrEmailTaken):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidRole),
		errors.Is(err, identity.ErrVerificationToken):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrTokenExpired),
		errors.Is(err, identity.ErrSessionRevoked),
		errors.Is(err, identity.ErrOAuthFailed):
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	case errors.Is(err, identity.ErrAccountBanned):
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	case errors.Is(err, identity.ErrOAuthUnavailable):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, notify.ErrMissingRecipient):
		return fmt.Errorf("%w: %v", ErrMissingContact, err)
	}
	return MapRepoError(err, operation)
}

func (s *accountService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	user, err := s.identity.SignUp(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, mapIdentityError(err, "registering account")
	}
	// The account exists either way; the user can ask for another link.
	if err := s.identity.SendVerificationEmail(ctx, user); err != nil {
		log.Printf("Register: failed to send verification email to %s: %v", user.ID, err)
	}
	return user, nil
}

func (s *accountService) Login(ctx context.Context, req *dto.LoginRequest) (*identity.AuthResult, error) {
	res, err := s.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, mapIdentityError(err, "signing in")
	}
	return res, nil
}

func (s *accountService) OAuthURL(state string) (string, error) {
	u, err := s.identity.OAuthURL(state)
	if err != nil {
		return "", mapIdentityError(err, "building oauth url")
	}
	return u, nil
}

func (s *accountService) OAuthLogin(ctx context.Context, code string) (*identity.AuthResult, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrInvalidInput)
	}
	res, err := s.identity.SignInWithOAuth(ctx, code)
	if err != nil {
		return nil, mapIdentityError(err, "signing in with oauth")
	}
	return res, nil
}

func (s *accountService) Logout(ctx context.Context, actor models.Session) error {
	if err := requireSession(actor); err != nil {
		return err
	}
	return mapIdentityError(s.identity.SignOut(ctx, actor), "signing out")
}

func (s *accountService) ResendVerification(ctx context.Context, actor models.Session) error {
	if err := requireSession(actor); err != nil {
		return err
	}
	user, err := s.identity.ReloadUser(ctx, actor.UserID)
	if err != nil {
		return mapIdentityError(err, "reloading user")
	}
	if user.EmailVerified {
		return nil
	}
	return mapIdentityError(s.identity.SendVerificationEmail(ctx, user), "sending verification email")
}

func (s *accountService) ConfirmEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing verification token", ErrInvalidInput)
	}
	user, err := s.identity.ConfirmEmail(ctx, token)
	if err != nil {
		return nil, mapIdentityError(err, "confirming email")
	}
	s.events.user(ctx, user)
	return user, nil
}

// AwaitVerification reloads the user on a fixed schedule until the email is verified or attempts run out.
func (s *accountService) AwaitVerification(ctx context.Context, actor models.Session) (*dto.VerificationStatus, error) {
	if err := requireSession(actor); err != nil {
		return nil, err
	}
	verified := func(ctx context.Context) (bool, error) {
		user, err := s.identity.ReloadUser(ctx, actor.UserID)
		if err != nil {
			return false, err
		}
		return user.EmailVerified, nil
	}

	res, err := poll.Until(ctx, s.clock, verified, s.settings.VerificationInterval, s.settings.VerificationAttempts)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: stopped waiting", ErrVerificationTimeout)
	case err != nil:
		return nil, mapIdentityError(err, "waiting for email verification")
	case res == poll.TimedOut:
		log.Printf("AwaitVerification: user %s not verified after %d checks", actor.UserID, s.settings.VerificationAttempts)
		return nil, fmt.Errorf("%w: email not verified yet", ErrVerificationTimeout)
	}
	return &dto.VerificationStatus{Verified: true, Result: string(res)}, nil
}

func (s *accountService) Me(ctx context.Context, actor models.Session) (*models.User, error) {
	if err := requireSession(actor); err != nil {
		return nil, err
	}
	user, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, MapRepoError(err, "fetching current user")
	}
	return user, nil
}

func (s *accountService) CompleteProfile(ctx context.Context, req *dto.CompleteProfileRequest) (*models.User, error) {
	// 1. Validation
	if err := requireSession(req.Actor); err != nil {
		return nil, err
	}
	upd := &models.UserUpdate{SocialLinks: req.SocialLinks}
	if req.FirstName != nil {
		upd.FirstName = ptrString(trimmed(*req.FirstName))
	}
	if req.LastName != nil {
		upd.LastName = ptrString(trimmed(*req.LastName))
	}
	if req.About != nil {
		upd.About = ptrString(trimmed(*req.About))
	}
	if req.ProfileImage != nil {
		if *req.ProfileImage != "" {
			if err := media.ValidateImage(*req.ProfileImage, s.settings.MaxImageBytes); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
		}
		upd.ProfileImage = req.ProfileImage
	}
	if req.Role != nil && *req.Role != req.Actor.Role {
		if req.Actor.Is(models.RoleAdmin) {
			log.Printf("CompleteProfile: Forbidden attempt by admin %s to change role", req.Actor.UserID)
			return nil, fmt.Errorf("%w: admins cannot change role", ErrForbidden)
		}
		if *req.Role != models.RoleApplicant && *req.Role != models.RoleHirer {
			return nil, fmt.Errorf("%w: role must be applicant or hirer", ErrInvalidInput)
		}
		if *req.Role == models.RoleApplicant {
			// A hirer who owns jobs stays a hirer so moderation can still reach them.
			owned, err := s.store.Jobs().List(ctx, models.JobFilter{HirerID: req.Actor.UserID, Limit: 1})
			if err != nil {
				return nil, MapRepoError(err, "checking owned jobs")
			}
			if len(owned) > 0 {
				log.Printf("CompleteProfile: Hirer %s with posted jobs tried to become an applicant", req.Actor.UserID)
				return nil, fmt.Errorf("%w: hirers with posted jobs cannot become applicants", ErrForbidden)
			}
		}
		upd.Role = req.Role
	}

	// 2. Update
	user, err := s.store.Users().Update(ctx, req.Actor.UserID, upd)
	if err != nil {
		return nil, MapRepoError(err, "updating profile")
	}
	if s.profiles != nil {
		s.profiles.Invalidate(user.ID)
	}
	s.events.user(ctx, user)
	return user, nil
}

// GetPublicProfile serves profiles from the cache. Banned accounts are hidden.
func (s *accountService) GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfile, error) {
	var user models.User
	cached := false
	if s.profiles != nil {
		user, cached = s.profiles.Get(userID)
	}
	if !cached {
		u, err := s.store.Users().GetByID(ctx, userID)
		if err != nil {
			return nil, MapRepoError(err, fmt.Sprintf("fetching profile %s", userID))
		}
		user = *u
		if s.profiles != nil {
			s.profiles.Put(user)
		}
	}
	if user.Banned {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}
	return &dto.PublicProfile{
		ID:           user.ID,
		Role:         user.Role,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		About:        user.About,
		SocialLinks:  user.SocialLinks,
		ProfileImage: user.ProfileImage,
		Certified:    user.Certified,
	}, nil
}
