// Package notification publishes ledger events. Publishing is best effort:
// callers log failures and never fail the write that produced the event.
package notification

import (
	"context"
	"log"
	"time"

	"kudi/internal/models"

	"github.com/google/uuid"
)

// TransactionCreatedQueue is the durable queue receiving TransactionCreatedEvent.
const TransactionCreatedQueue = "transaction.created"

// TransactionCreatedEvent is emitted after a transaction row is committed.
type TransactionCreatedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	UserID        uuid.UUID `json:"user_id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventFromTransaction builds the event of a committed transaction.
func EventFromTransaction(t *models.Transaction) TransactionCreatedEvent {
	return TransactionCreatedEvent{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Type:          t.Type,
		Amount:        t.Amount.StringFixed(2),
		Status:        t.Status,
		Reference:     t.Reference,
		CreatedAt:     t.CreatedAt,
	}
}

// Publisher delivers ledger events.
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, event TransactionCreatedEvent) error
	Close() error
}

// LogPublisher writes events to the process log. It is used when no broker
// is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (p *LogPublisher) PublishTransactionCreated(ctx context.Context, event TransactionCreatedEvent) error {
	log.Printf("📣 transaction %s created for %s: %s %s (%s)",
		event.Reference, event.UserID, event.Type, event.Amount, event.Status)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
