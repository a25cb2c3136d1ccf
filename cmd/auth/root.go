package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Configuration comes from the
// environment.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "User registration and login API",
		Long: `auth serves the register/login API: it stores bcrypt password hashes
and issues signed session tokens. Configuration is read from environment
variables (JWT_SECRET, PORT, STORE_DRIVER, DATABASE_URL, SQLITE_PATH, ...).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
