package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"luckystat/internal/config"
	"luckystat/internal/logging"
	"luckystat/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, appConfig, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
