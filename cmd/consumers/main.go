package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourly/cmd/consumers/jobs"
	"tourly/internal/config"
	"tourly/internal/consumers"
	"tourly/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Best effort; production supplies real environment variables
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Separate NATS client ID so the API and consumers can share a cluster
	cfg.NATS.ClientID = "tourly-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	sweeper := jobs.NewReleaseSweeperJob(
		consumerService.Repositories().Reservations,
		consumerService.Release,
		30*time.Second,
	)
	sweeper.Start(context.Background())

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
