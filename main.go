package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shoeshop/internal/config"
	"shoeshop/internal/repositories"
	"shoeshop/internal/services"
	"shoeshop/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Storage ---
	// A failed connection is logged and the process keeps serving; storage
	// routes then answer 500 until the backend is reachable.
	store, err := repositories.Open(context.Background(), repositories.Options{
		Driver:        cfg.StorageDriver,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		DSN:           cfg.DatabaseDSN,
		Timeout:       cfg.StorageTimeout,
	})
	if err != nil {
		log.Printf("Storage connection error (%s): %v", cfg.StorageDriver, err)
	} else {
		log.Printf("Connected to %s storage", store.Driver)
	}

	// --- Shop events (optional) ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, shop events disabled: %v", err)
		} else {
			events = mqClient
			if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
				log.Printf("Failed to start shop event consumer: %v", err)
			}
		}
	}

	app := NewApp(cfg, store, events)

	// --- Start HTTP Server ---
	addr := cfg.ListenAddr()
	log.Printf("Server is running on http://localhost%s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		log.Printf("Error closing storage: %v", err)
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}

	log.Println("Server gracefully stopped")
}
