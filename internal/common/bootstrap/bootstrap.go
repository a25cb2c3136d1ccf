package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/user-auth/internal/auth/http"
	"github.com/AlibekovAA/user-auth/internal/auth/service"
	"github.com/AlibekovAA/user-auth/internal/common/clock"
	"github.com/AlibekovAA/user-auth/internal/common/config"
	"github.com/AlibekovAA/user-auth/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/user-auth/internal/common/crypto"
	"github.com/AlibekovAA/user-auth/internal/common/db"
	commonhttp "github.com/AlibekovAA/user-auth/internal/common/http"
	"github.com/AlibekovAA/user-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/user-auth/internal/common/logger"
	"github.com/AlibekovAA/user-auth/internal/common/resilience"
	"github.com/AlibekovAA/user-auth/internal/migrations"
	userrepo "github.com/AlibekovAA/user-auth/internal/user/repository"
)

type AuthApp struct {
	Log      *logger.Logger
	Config   config.AuthConfig
	UserRepo userrepo.Repository
	Clock    clock.Clock

	closers []func()
}

// NewAuthApp loads the config from the environment, builds the logger and
// opens the configured user store.
func NewAuthApp(ctx context.Context) (*AuthApp, error) {
	cfg, err := config.LoadAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, "auth", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, err := NewAuthAppWithConfig(ctx, log, cfg)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	app.closers = append(app.closers, func() { _ = log.Close() })
	return app, nil
}

func NewAuthAppWithConfig(ctx context.Context, log *logger.Logger, cfg config.AuthConfig) (*AuthApp, error) {
	app := &AuthApp{
		Log:    log,
		Config: cfg,
		Clock:  clock.NewRealClock(),
	}

	store, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.UserRepo = userrepo.NewGuardedRepository(store, resilience.CircuitBreakerConfig{
		Threshold:  cfg.StoreBreakerThreshold,
		Timeout:    cfg.RequestTimeout,
		ResetAfter: cfg.StoreBreakerReset,
		Name:       "user_store",
		Clock:      app.Clock,
		Logger:     log,
	})

	log.Infof("user store ready: driver=%s", cfg.StoreDriver)
	return app, nil
}

// Handler wires the auth service into the HTTP surface, including /metrics.
func (a *AuthApp) Handler() http.Handler {
	hasher := commoncrypto.NewBcryptHasher(a.Config.BcryptCost)
	issuer := service.NewTokenIssuer(a.Config.JWTSecret, a.Config.TokenTTL, a.Clock)
	verifier := jwtverify.NewVerifier(a.Config.JWTSecret, a.Clock)
	authService := service.NewAuthService(a.UserRepo, hasher, issuer, a.Log)

	mux := http.NewServeMux()
	mux.Handle("/", authhttp.NewHandler(authService, a.Config, verifier, a.Log))
	mux.Handle("/metrics", promhttp.Handler())

	return commonhttp.BuildBaseHandler(a.Log, mux)
}

// Close releases the store and the log file in reverse order of creation.
func (a *AuthApp) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *AuthApp) openStore(ctx context.Context) (userrepo.Repository, error) {
	idGenerator := commoncrypto.NewUUIDGenerator()

	switch a.Config.StoreDriver {
	case config.StoreDriverPostgres:
		if a.Config.MigrateOnStart {
			if _, err := Migrate(ctx, a.Log, a.Config); err != nil {
				return nil, err
			}
		}

		pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		metricsCtx, stopMetrics := context.WithCancel(context.Background())
		db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)
		a.closers = append(a.closers, func() {
			stopMetrics()
			pool.Close()
		})
		return userrepo.NewPgRepository(pool, idGenerator), nil

	case config.StoreDriverSQLite:
		conn, err := openSQLite(a.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })

		if a.Config.MigrateOnStart {
			if _, err := migrate(ctx, a.Log, conn, config.StoreDriverSQLite); err != nil {
				return nil, err
			}
		}
		return userrepo.NewSQLiteRepository(conn, idGenerator, a.Clock), nil

	case config.StoreDriverMemory, "":
		a.Log.Warnf("using in-memory user store: accounts are lost on restart")
		return userrepo.NewMemoryRepository(idGenerator, a.Clock), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", a.Config.StoreDriver)
	}
}

// Migrate applies the embedded schema for the configured SQL store and
// returns how many migrations ran.
func Migrate(ctx context.Context, log *logger.Logger, cfg config.AuthConfig) (int, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		conn, err = db.OpenPostgres(cfg.DatabaseURL)
	case config.StoreDriverSQLite:
		conn, err = openSQLite(cfg.SQLitePath)
	default:
		return 0, fmt.Errorf("store driver %q has no schema to migrate", cfg.StoreDriver)
	}
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	return migrate(ctx, log, conn, cfg.StoreDriver)
}

func migrate(ctx context.Context, log *logger.Logger, conn *sql.DB, driver string) (int, error) {
	applied, err := migrations.Up(ctx, conn, driver)
	if err != nil {
		return 0, err
	}
	log.Infof("%s schema migrated: %d migration(s) applied", driver, applied)
	return applied, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	return db.OpenSQLite(path)
}
