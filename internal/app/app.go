// Package app builds the dependency container shared by the server and the background workers.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"go-jobboard/config"
	"go-jobboard/internal/cache"
	"go-jobboard/internal/database"
	"go-jobboard/internal/identity"
	"go-jobboard/internal/media"
	"go-jobboard/internal/notify"
	"go-jobboard/internal/poll"
	"go-jobboard/internal/pubsub"
	"go-jobboard/internal/services"
	"go-jobboard/internal/storage"
	"go-jobboard/internal/storage/firestore"
	"go-jobboard/internal/storage/memory"
	"go-jobboard/internal/storage/mongo"
	"go-jobboard/internal/storage/postgres"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
)

// Application holds core application dependencies.
type Application struct {
	Config    *config.Config
	Validator *validator.Validate
	Cookies   sessions.Store

	Store    storage.Store
	Broker   pubsub.Broker
	Identity identity.Gateway
	Profiles *cache.ProfileCache

	Catalog      services.JobCatalog
	Engagement   services.EngagementService
	Applications services.ApplicationService
	Moderation   services.ModerationService
	Accounts     services.AccountService
	BanEnforcer  *services.BanEnforcer

	closers []func() error
}

// Settings maps the configuration onto the business rule tunables.
func Settings(cfg *config.Config) services.Settings {
	return services.Settings{
		PageSize:               cfg.Catalog.PageSize,
		RecommendedWindow:      cfg.Catalog.RecommendedWindow,
		RecommendedCount:       cfg.Catalog.RecommendedCount,
		MaxImageBytes:          cfg.Media.MaxImageBytes,
		MaxPDFBytes:            cfg.Media.MaxPDFBytes,
		GoodStandingLikes:      cfg.Moderation.GoodStandingLikes,
		FlaggedStandingReports: cfg.Moderation.FlaggedStandingReports,
		VerificationInterval:   cfg.Verification.Interval,
		VerificationAttempts:   cfg.Verification.MaxAttempts,
	}
}

// New connects the configured backends and wires every service.
// Close must be called to release the connections.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	a := &Application{Config: cfg, Validator: validator.New()}

	// 1. Record store, pub/sub broker and session state
	var tokens identity.TokenStore
	if cfg.Storage.Driver == "memory" {
		log.Println("App: using in-memory store, broker and session state")
		a.Store = memory.NewStore()
		a.Broker = pubsub.NewMemoryBroker()
		tokens = identity.NewMemoryTokenStore()
	} else {
		store, err := a.openStore(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store

		rdb, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.onClose(rdb.Close)
		a.Broker = pubsub.NewRedisBroker(rdb)
		tokens = identity.NewRedisTokenStore(rdb)
	}

	// 2. Mail, media and caches
	notifier, err := a.newMailer(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	objects, err := a.newObjectStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Profiles, err = cache.NewProfileCache(cfg.Moderation.ProfileCacheSize, cfg.Moderation.ProfileCacheTTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}

	// 3. Identity
	var oauth identity.OAuthProvider
	if cfg.OAuth.ClientID != "" {
		oauth = identity.NewGoogleOAuth(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.RedirectURL)
	}
	a.Identity = identity.NewProvider(
		a.Store.Users(),
		identity.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		tokens,
		a.Broker,
		notifier,
		oauth,
		identity.Options{VerifyURL: cfg.Auth.VerifyURL, VerificationTTL: cfg.Auth.VerificationTTL},
	)

	cookies := sessions.NewCookieStore([]byte(cfg.Auth.SessionSecret))
	cookies.Options = &sessions.Options{Path: "/", MaxAge: 600, HttpOnly: true, SameSite: http.SameSiteLaxMode}
	a.Cookies = cookies

	// 4. Services
	settings := Settings(cfg)
	a.Catalog = services.NewJobCatalog(a.Store, a.Broker, settings)
	a.Engagement = services.NewEngagementService(a.Store, a.Broker)
	a.Applications = services.NewApplicationService(a.Store, objects, settings)
	a.Moderation = services.NewModerationService(a.Store, notifier, a.Broker, a.Profiles, settings)
	a.Accounts = services.NewAccountService(a.Identity, a.Store, a.Broker, a.Profiles, poll.SystemClock{}, settings)
	a.BanEnforcer = services.NewBanEnforcer(a.Broker, a.Identity, a.Profiles)

	return a, nil
}

func (a *Application) openStore(ctx context.Context) (storage.Store, error) {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := database.NewConnectionPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error { pool.Close(); return nil })
		if err := postgres.InitSchema(ctx, pool); err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	case "mongo":
		client, err := database.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error { return client.Disconnect(context.Background()) })
		db := client.Database(cfg.Mongo.Database)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		return mongo.NewStore(client, db), nil
	case "firestore":
		client, err := database.NewFirestoreClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, err
		}
		a.onClose(client.Close)
		return firestore.NewStore(client), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (a *Application) newMailer(ctx context.Context) (*notify.Mailer, error) {
	cfg := a.Config.Mail
	var sender notify.Sender = notify.LogSender{}
	if cfg.CredentialsFile != "" && cfg.TokenFile != "" {
		gmail, err := notify.NewGmailSender(ctx, cfg.CredentialsFile, cfg.TokenFile, cfg.From)
		if err != nil {
			return nil, err
		}
		sender = gmail
	} else {
		log.Println("App: Gmail credentials missing, emails will only be logged")
	}
	return notify.NewMailer(sender, map[string]string{
		"AppName":      services.DefaultSettings().AppName,
		"SupportEmail": cfg.SupportEmail,
	})
}

// newObjectStore returns nil when uploads are not configured; the services then refuse uploads.
func (a *Application) newObjectStore(ctx context.Context) (media.ObjectStore, error) {
	cfg := a.Config.S3
	if cfg.Bucket == "" {
		log.Println("App: s3.bucket not set, CV uploads are disabled")
		return nil, nil
	}
	return media.NewS3Store(ctx, media.S3Config{
		Bucket:        cfg.Bucket,
		Endpoint:      cfg.Endpoint,
		Region:        cfg.Region,
		AccessKey:     cfg.AccessKey,
		SecretKey:     cfg.SecretKey,
		PublicBaseURL: cfg.PublicBaseURL,
	})
}

func (a *Application) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases connections in reverse order of creation.
func (a *Application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("App: error during close: %v", err)
		}
	}
	a.closers = nil
}
