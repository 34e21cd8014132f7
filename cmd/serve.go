package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tmx/internal/repositories"
	"github.com/desertthunder/tmx/internal/server"
	"github.com/desertthunder/tmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the development REST backend until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	dbCfg := r.config.Database
	if cmd.IsSet("db") {
		dbCfg.Path = cmd.String("db")
	}
	srvCfg := r.config.Server
	if cmd.IsSet("host") {
		srvCfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		srvCfg.Port = int(cmd.Int("port"))
	}

	db, err := shared.OpenDatabase(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Info("applied migrations", "count", applied)
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	api := server.NewAPI(
		repositories.NewUserRepository(db),
		repositories.NewTaskRepository(db),
		logger,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(srvCfg.Addr(), api, logger).Run(ctx)
}
