package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskvault/taskvault/internal/app"
	"github.com/taskvault/taskvault/internal/config"
	"github.com/taskvault/taskvault/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault("taskvault").Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.New(&cfg.Logging, cfg.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to start service", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.Run(ctx); err != nil {
		log.Error("Service exited with error", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
