package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/user-auth/internal/common/constants"
	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type AuthConfig struct {
	HTTPPort              string
	JWTSecret             string
	StoreDriver           string
	DatabaseURL           string
	SQLitePath            string
	MigrateOnStart        bool
	BcryptCost            int
	TokenTTL              time.Duration
	RequestTimeout        time.Duration
	StoreBreakerThreshold int32
	StoreBreakerReset     time.Duration
	ExposePasswordHash    bool
	LogDir                string
	LogLevel              string
}

func LoadAuthConfig() (AuthConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return AuthConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return AuthConfig{}, err
	}

	cfg, err := LoadStoreConfig()
	if err != nil {
		return AuthConfig{}, err
	}

	cfg.HTTPPort = getEnv("PORT", constants.DefaultHTTPPort)
	cfg.JWTSecret = jwtSecret
	cfg.BcryptCost = getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost)
	cfg.TokenTTL = getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL)
	cfg.RequestTimeout = getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout)
	cfg.StoreBreakerThreshold = getPositiveInt32Env("STORE_BREAKER_THRESHOLD", constants.DefaultStoreBreakerThreshold)
	cfg.StoreBreakerReset = getDurationEnv("STORE_BREAKER_RESET", constants.DefaultStoreBreakerReset)
	cfg.ExposePasswordHash = getBoolEnv("EXPOSE_PASSWORD_HASH", false)
	return cfg, nil
}

// LoadStoreConfig reads only the store settings, for commands that never
// sign tokens.
func LoadStoreConfig() (AuthConfig, error) {
	databaseURL := getEnv("DATABASE_URL", "")

	driver, err := resolveStoreDriver(getEnv("STORE_DRIVER", ""), databaseURL)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		StoreDriver:    driver,
		DatabaseURL:    databaseURL,
		SQLitePath:     getEnv("SQLITE_PATH", constants.DefaultSQLitePath),
		MigrateOnStart: getBoolEnv("MIGRATE_ON_START", true),
		LogDir:         getEnv("LOG_DIR", ""),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

func resolveStoreDriver(driver, databaseURL string) (string, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "":
		if databaseURL != "" {
			return StoreDriverPostgres, nil
		}
		return StoreDriverMemory, nil
	case StoreDriverMemory, StoreDriverSQLite:
		return driver, nil
	case StoreDriverPostgres:
		if databaseURL == "" {
			return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("DATABASE_URL is required for the %s store", driver))
		}
		return driver, nil
	default:
		return "", commonerrors.ErrInvalidConfig.WithCause(fmt.Errorf("unknown STORE_DRIVER %q", driver))
	}
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s is not set", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// getPositiveInt32Env falls back when the value does not fit in int32 or is
// not positive.
func getPositiveInt32Env(key string, fallback int32) int32 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 32)
	if err != nil || i <= 0 {
		return fallback
	}
	return int32(i)
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
