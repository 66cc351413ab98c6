package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nmang004/rival-outranker-sub001/cmd"
	"github.com/nmang004/rival-outranker-sub001/internal/observability"
)

// main is the entry point of the application.
func main() {
	// Listen for interrupt signals so a long triage run can be cancelled
	// cleanly between pipeline stages.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
