package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitaplan/vitaplan/adapter/api"
	"github.com/vitaplan/vitaplan/adapter/cli"
	_ "github.com/vitaplan/vitaplan/adapter/cli/plan"
	"github.com/vitaplan/vitaplan/internal/app"
	"github.com/vitaplan/vitaplan/pkg/config"
	"github.com/vitaplan/vitaplan/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("shutdown error", "error", err)
		}
	}()

	cli.SetLogger(logger)
	cli.SetApp(&cli.App{
		RunPlanHandler:   container.RunPlanHandler,
		GetPlanHandler:   container.GetPlanHandler,
		ListPlansHandler: container.ListPlansHandler,
	})
	cli.SetServeDeps(&cli.ServeDeps{
		Handler: api.NewPlansHandler(
			container.GetPlanHandler,
			container.ListPlansHandler,
			container.PlanCache,
			logger,
		),
		Addr: cfg.APIAddr,
	})

	cli.Execute(ctx)
}
