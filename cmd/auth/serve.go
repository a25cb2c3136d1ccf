package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/user-auth/internal/common/bootstrap"
	srv "github.com/AlibekovAA/user-auth/internal/common/server"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, port string) error {
	app, err := bootstrap.NewAuthApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if port != "" {
		app.Config.HTTPPort = port
	}

	server := srv.NewServer(srv.DefaultServerConfig(app.Config.HTTPPort), app.Handler())

	return srv.Run(ctx, server, app.Log, "auth", nil)
}
