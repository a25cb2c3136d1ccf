package main

import (
	"github.com/spf13/cobra"

	"github.com/AlibekovAA/user-auth/internal/common/bootstrap"
	"github.com/AlibekovAA/user-auth/internal/common/config"
	"github.com/AlibekovAA/user-auth/internal/common/logger"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply all pending migrations to the configured SQL store
(STORE_DRIVER=postgres with DATABASE_URL, or STORE_DRIVER=sqlite with SQLITE_PATH).`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadStoreConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogDir, "auth-migrate", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Close()

	cmd.Printf("Running %s migrations...\n", cfg.StoreDriver)
	applied, err := bootstrap.Migrate(cmd.Context(), log, cfg)
	if err != nil {
		return err
	}

	cmd.Printf("Migrations completed: %d applied\n", applied)
	return nil
}
