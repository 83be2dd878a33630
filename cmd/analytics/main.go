package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/destipicker/internal/app/analytics"
	"github.com/magabrotheeeer/destipicker/internal/config"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting analytics worker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := analytics.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize analytics app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("analytics app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("analytics app stopped gracefully")
}
