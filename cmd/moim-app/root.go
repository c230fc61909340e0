package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"moim-app-go/internal/app"
	"moim-app-go/internal/config"
	"moim-app-go/internal/db"
	"moim-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newRootCommand(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "moim-app",
		Short:         "Moim group and meeting scheduling backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand(log))
	cmd.AddCommand(newMigrateCommand(log))
	cmd.AddCommand(newLoginCommand(log))
	cmd.AddCommand(newMoimsCommand(log))
	cmd.AddCommand(newCreateMoimCommand(log))
	cmd.AddCommand(newJoinMoimCommand(log))
	cmd.AddCommand(newRespondCommand(log))

	return cmd
}

func newServeCommand(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), log)
		},
	}
}

func runServe(ctx context.Context, log logger.Logger) error {
	log.Info("app: starting")

	application, err := app.New(ctx, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		log.Info("app: stopped")
	}
	return runErr
}

func newMigrateCommand(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			switch command {
			case "up", "down", "status":
			default:
				return fmt.Errorf("unknown migrate command %q", command)
			}

			cfg, err := config.Load(log)
			if err != nil {
				return err
			}
			conn, err := db.Open(cfg.DB, log)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := conn.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			if cfg.DB.Driver == config.DriverSQLite {
				if command != "up" {
					return fmt.Errorf("migrate %s is only supported on postgres", command)
				}
				return db.Migrate(cmd.Context(), conn, cfg.DB.Driver, app.Models...)
			}

			log.Info("db: running migrations", "command", command)
			return db.RunGoose(cmd.Context(), conn, command)
		},
	}
}
