package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spx-dashboard/internal/app"
	"spx-dashboard/internal/config"
	"spx-dashboard/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (default: ./spxdash.yaml or ./configs/spxdash.yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, closer, err := logging.Setup(cfg.Logging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}
	defer closer.Close()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		closer.Close()
		os.Exit(1)
	}
}
