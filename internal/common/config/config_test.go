package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JWT_SECRET", "PORT", "STORE_DRIVER", "DATABASE_URL", "SQLITE_PATH",
		"MIGRATE_ON_START", "BCRYPT_COST", "TOKEN_TTL", "REQUEST_TIMEOUT",
		"STORE_BREAKER_THRESHOLD", "STORE_BREAKER_RESET", "EXPOSE_PASSWORD_HASH",
		"LOG_DIR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadAuthConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)

	assert.Equal(t, "6000", cfg.HTTPPort)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.ExposePasswordHash)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadAuthConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/users.db")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("EXPOSE_PASSWORD_HASH", "true")
	t.Setenv("MIGRATE_ON_START", "false")

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/users.db", cfg.SQLitePath)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.ExposePasswordHash)
	assert.False(t, cfg.MigrateOnStart)
}

func TestLoadAuthConfig_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "forever")
	t.Setenv("BCRYPT_COST", "ten")
	t.Setenv("REQUEST_TIMEOUT", "-1s")

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadAuthConfig_BreakerThresholdOutOfRange(t *testing.T) {
	for _, value := range []string{"4294967297", "-3", "0"} {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", testSecret)
			t.Setenv("STORE_BREAKER_THRESHOLD", value)

			cfg, err := LoadAuthConfig()
			require.NoError(t, err)
			assert.Equal(t, int32(5), cfg.StoreBreakerThreshold)
		})
	}
}

func TestLoadAuthConfig_DatabaseURLSelectsPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
}

func TestLoadAuthConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{
			name: "missing secret",
			env:  map[string]string{},
			want: commonerrors.ErrMissingRequiredEnv,
		},
		{
			name: "short secret",
			env:  map[string]string{"JWT_SECRET": "short"},
			want: commonerrors.ErrInvalidJWTSecret,
		},
		{
			name: "postgres without url",
			env:  map[string]string{"JWT_SECRET": testSecret, "STORE_DRIVER": "postgres"},
			want: commonerrors.ErrMissingRequiredEnv,
		},
		{
			name: "unknown driver",
			env:  map[string]string{"JWT_SECRET": testSecret, "STORE_DRIVER": "mongo"},
			want: commonerrors.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadAuthConfig()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadStoreConfig_NoSecretNeeded(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/users.db")

	cfg, err := LoadStoreConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/users.db", cfg.SQLitePath)
	assert.Empty(t, cfg.JWTSecret)
}
