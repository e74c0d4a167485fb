package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/inevs/webservice/internal/app"
	"github.com/inevs/webservice/internal/config"
	"github.com/inevs/webservice/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "webget failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("webget starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	webget, err := app.NewWebget(cfg, logger.Shared())
	if err != nil {
		logger.ErrorObj("failed to initialize webget", "error", err)
		return err
	}
	defer webget.Close()

	if err := webget.Run(ctx, os.Args[1:]); err != nil {
		return fmt.Errorf("webget run: %w", err)
	}

	return nil
}
