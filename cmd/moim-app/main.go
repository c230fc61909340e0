package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"moim-app-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(log).ExecuteContext(ctx); err != nil {
		log.Critical("app: command failed", "err", err)
		stop()
		os.Exit(1)
	}
}
