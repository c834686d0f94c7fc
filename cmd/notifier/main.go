// Command notifier consumes transaction events from the broker and logs them.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kudi/internal/config"
	"kudi/internal/services/notification"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := notification.NewLogPublisher()
	log.Printf("Consuming %s", notification.TransactionCreatedQueue)
	err := notification.Consume(ctx, cfg.AMQPURL, func(ctx context.Context, event notification.TransactionCreatedEvent) error {
		return logger.PublishTransactionCreated(ctx, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Consumer stopped: %v", err)
	}
	log.Println("Notifier stopped")
}
