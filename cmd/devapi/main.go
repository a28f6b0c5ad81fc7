package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/journify/internal/devapi"
	"github.com/dmitrijs2005/journify/internal/devapi/config"
	"github.com/dmitrijs2005/journify/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := devapi.NewApp(cfg, logger).Run(ctx); err != nil {
		logger.Error(ctx, "dev API stopped", "err", err)
		stop()
		os.Exit(1)
	}
}
