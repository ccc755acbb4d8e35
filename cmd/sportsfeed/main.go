package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SportsFeed/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootApp().RunContext(ctx, os.Args); err != nil {
		logging.New("error", "text").Error("sportsfeed stopped", "error", err)
		os.Exit(1)
	}
}
