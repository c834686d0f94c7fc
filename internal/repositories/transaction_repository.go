package repositories

import (
	"context"

	"kudi/internal/models"

	"github.com/google/uuid"
)

// TransactionRepository defines the ledger operations available to an owner.
// Every method is scoped to caller; rows of other identities are invisible.
type TransactionRepository interface {
	// Create inserts a transaction owned by caller
	Create(ctx context.Context, caller uuid.UUID, t *models.Transaction) error

	// ListRecent returns at most limit transactions, newest first
	ListRecent(ctx context.Context, caller uuid.UUID, limit int) ([]models.Transaction, error)

	// List returns a page of transactions, newest first, and the total count
	List(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)

	// GetByID retrieves one transaction
	GetByID(ctx context.Context, caller, id uuid.UUID) (*models.Transaction, error)

	// FindPending returns the newest pending transaction of txType
	FindPending(ctx context.Context, caller uuid.UUID, txType string) (*models.Transaction, error)

	// Delete removes one transaction
	Delete(ctx context.Context, caller, id uuid.UUID) error
}

// Implementation is in transaction_repository_impl.go
