package repositories

import (
	"context"

	"kudi/internal/models"

	"github.com/google/uuid"
)

// IdentityRepository defines the interface for identity-related database operations.
// Identities belong to the authentication subsystem and are not row-level secured.
type IdentityRepository interface {
	// Create inserts the identity; its profile is provisioned in the same transaction
	Create(ctx context.Context, identity *models.Identity) error

	// GetByID retrieves an identity by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)

	// GetByPhone retrieves an identity by its phone number
	GetByPhone(ctx context.Context, phone string) (*models.Identity, error)

	// GetByEmail retrieves an identity by its email address
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)

	// IncrementTokenVersion revokes every token issued so far and returns the new version
	IncrementTokenVersion(ctx context.Context, id uuid.UUID) (int, error)

	// GetTokenVersion returns the current token version, served from cache when possible
	GetTokenVersion(ctx context.Context, id uuid.UUID) (int, error)

	// Delete removes the identity and every row it owns
	Delete(ctx context.Context, id uuid.UUID) error
}

// Implementation is in identity_repository_impl.go
