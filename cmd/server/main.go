package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/royal-judge/backend/app"
	"github.com/royal-judge/backend/conf"
	"github.com/royal-judge/backend/logger"
)

func main() {
	cfg, err := conf.NewConfig()
	if err != nil {
		slog.Error("failed to read config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(logger.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		JSON:  cfg.LogFile != "",
	}))

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
