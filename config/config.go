package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	DB           DBConfig           `mapstructure:"database"`
	Mongo        MongoConfig        `mapstructure:"mongo"`
	Firestore    FirestoreConfig    `mapstructure:"firestore"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	OAuth        OAuthConfig        `mapstructure:"oauth"`
	Mail         MailConfig         `mapstructure:"mail"`
	Media        MediaConfig        `mapstructure:"media"`
	S3           S3Config           `mapstructure:"s3"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Moderation   ModerationConfig   `mapstructure:"moderation"`
	Verification VerificationConfig `mapstructure:"verification"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the record store: postgres, mongo, firestore or memory.
// The memory driver also swaps Redis for in-process pub/sub and session state.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// DBConfig holds database specific configuration
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// RedisConfig holds the Redis connection used for pub/sub and session state.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	SessionSecret   string        `mapstructure:"session_secret"`
	VerifyURL       string        `mapstructure:"verify_url"`
	VerificationTTL time.Duration `mapstructure:"verification_ttl"`
}

// OAuthConfig configures Google sign-in. Sign-in is disabled when ClientID is empty.
type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// MailConfig selects the mail sender. Without Gmail credentials messages are only logged.
type MailConfig struct {
	From            string `mapstructure:"from"`
	SupportEmail    string `mapstructure:"support_email"`
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
}

type MediaConfig struct {
	MaxImageBytes int `mapstructure:"max_image_bytes"`
	MaxPDFBytes   int `mapstructure:"max_pdf_bytes"`
}

// S3Config configures CV uploads. Uploads are disabled when Bucket is empty.
type S3Config struct {
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type CatalogConfig struct {
	PageSize          int `mapstructure:"page_size"`
	RecommendedWindow int `mapstructure:"recommended_window"`
	RecommendedCount  int `mapstructure:"recommended_count"`
}

type ModerationConfig struct {
	GoodStandingLikes      int           `mapstructure:"good_standing_likes"`
	FlaggedStandingReports int           `mapstructure:"flagged_standing_reports"`
	ProfileCacheSize       int           `mapstructure:"profile_cache_size"`
	ProfileCacheTTL        time.Duration `mapstructure:"profile_cache_ttl"`
}

type VerificationConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// CORSConfig holds CORS specific configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load configuration from .env, the config file and environment variables
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file not found, using defaults and environment variables.")
		} else {
			log.Printf("Error reading config file: %v", err)
		}
	}

	// Example: API_AUTH_JWT_SECRET
	v.SetEnvPrefix("API")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Configuration loaded: Server Port=%d, Storage=%s, Allowed Origins=%v",
		cfg.Server.Port, cfg.Storage.Driver, cfg.CORS.AllowedOrigins)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "jobboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("mongo.database", "jobboard")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.verify_url", "http://localhost:8080/api/v1/auth/verify")
	v.SetDefault("auth.verification_ttl", 24*time.Hour)
	v.SetDefault("oauth.redirect_url", "http://localhost:8080/api/v1/auth/google/callback")
	v.SetDefault("mail.from", "no-reply@jobboard.local")
	v.SetDefault("mail.support_email", "support@jobboard.local")
	v.SetDefault("media.max_image_bytes", 1024*1024)
	v.SetDefault("media.max_pdf_bytes", 5*1024*1024)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("catalog.page_size", 5)
	v.SetDefault("catalog.recommended_window", 10)
	v.SetDefault("catalog.recommended_count", 5)
	v.SetDefault("moderation.good_standing_likes", 5)
	v.SetDefault("moderation.flagged_standing_reports", 3)
	v.SetDefault("moderation.profile_cache_size", 256)
	v.SetDefault("moderation.profile_cache_ttl", 5*time.Minute)
	v.SetDefault("verification.interval", 4*time.Second)
	v.SetDefault("verification.max_attempts", 20)
	// For production, this SHOULD be overridden by environment variables.
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
}

// applyEnvOverrides lets the conventional unprefixed variables win over everything else.
func applyEnvOverrides(cfg *Config) {
	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = driver
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.DB.Port = port
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.DB.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Mongo.URI = uri
	}
	if project := os.Getenv("FIRESTORE_PROJECT_ID"); project != "" {
		cfg.Firestore.ProjectID = project
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.OAuth.ClientID = id
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		cfg.OAuth.ClientSecret = secret
	}

	// Handle CORS_ALLOWED_ORIGINS env var (comma-separated string -> slice)
	if originsStr := os.Getenv("CORS_ALLOWED_ORIGINS"); originsStr != "" {
		cfg.CORS.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.CORS.AllowedOrigins {
			cfg.CORS.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "mongo", "firestore", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		if c.Storage.Driver != "memory" {
			return errors.New("auth.jwt_secret must be set")
		}
		c.Auth.JWTSecret = "dev-secret"
		log.Println("WARN: auth.jwt_secret not set, using an insecure development secret")
	}
	if c.Auth.SessionSecret == "" {
		c.Auth.SessionSecret = c.Auth.JWTSecret
	}
	if c.Storage.Driver == "firestore" && c.Firestore.ProjectID == "" {
		return errors.New("firestore.project_id must be set for the firestore driver")
	}
	return nil
}
