// Command bot runs the counseling session engine: the matching and
// lifecycle services, background sweepers, and the admin HTTP API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
