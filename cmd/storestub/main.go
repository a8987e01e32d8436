package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	appstorestub "github.com/Apurer/grocery-store-client/internal/app/storestub"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := appstorestub.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := appstorestub.Run(ctx, cfg); err != nil {
		log.Fatalf("item store stub failed: %v", err)
	}
}
