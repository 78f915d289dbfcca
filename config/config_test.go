package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("API_CATALOG_PAGE_SIZE", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Catalog.PageSize)
	assert.Equal(t, 4*time.Second, cfg.Verification.Interval)
	assert.Equal(t, 20, cfg.Verification.MaxAttempts)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "memory driver falls back to a development secret")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "unknown driver", cfg: Config{Storage: StorageConfig{Driver: "sqlite"}}, wantErr: "unknown storage driver"},
		{name: "postgres needs a secret", cfg: Config{Storage: StorageConfig{Driver: "postgres"}}, wantErr: "jwt_secret"},
		{
			name:    "firestore needs a project",
			cfg:     Config{Storage: StorageConfig{Driver: "firestore"}, Auth: AuthConfig{JWTSecret: "s"}},
			wantErr: "project_id",
		},
		{name: "valid", cfg: Config{Storage: StorageConfig{Driver: "postgres"}, Auth: AuthConfig{JWTSecret: "s"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, "s", tt.cfg.Auth.SessionSecret)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
