package main

import (
	"fmt"
	"os"

	_ "collabkanban/docs"
	"collabkanban/internal/config"
	"collabkanban/internal/logger"
	"collabkanban/internal/migrations"
	"collabkanban/internal/server"

	"github.com/spf13/cobra"
)

// @title           Collaborative Kanban API
// @version         1.0
// @description     Shared kanban boards with ordered columns and cards, roles, invitations and an activity log.

// @contact.name   octaview
// @contact.url    t.me/octaview
// @contact.email  octaviewes@gmail.com

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kanban",
		Short:         "Collaborative kanban board server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var storage string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("storage") {
				cfg.StorageDriver = storage
			}
			log := logger.New("kanban", cfg.AppEnv, cfg.LogLevel)
			defer func() { _ = log.Sync() }()

			s, err := server.Init(cfg, log)
			if err != nil {
				return fmt.Errorf("server initialization failed: %w", err)
			}
			return s.Run()
		},
	}
	cmd.Flags().StringVar(&storage, "storage", config.StoragePostgres, "storage driver: postgres or memory")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(*cobra.Command, []string) error {
				return migrations.Up(config.Load().MigrateURL())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(*cobra.Command, []string) error {
				return migrations.Down(config.Load().MigrateURL())
			},
		},
	)
	return cmd
}
