package repositories

import (
	"context"

	"kudi/internal/models"
	"kudi/internal/policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfileRepository reads profiles on behalf of their owner. Balance and
// verification changes are server-side only and have no client surface.
type ProfileRepository interface {
	// Get reads the profile id as seen by caller; other identities' profiles are not found
	Get(ctx context.Context, caller, id uuid.UUID) (*models.Profile, error)

	// SetBalance overwrites the balance; a change is recorded in the audit log
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// SetVerification updates the verification flags
	SetVerification(ctx context.Context, id uuid.UUID, verified, paid bool) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, caller, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		return tx.Scopes(policy.Scope("profiles", policy.Select, caller)).
			Where("id = ?", id).
			First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return r.update(ctx, id, map[string]interface{}{"balance": balance})
}

func (r *profileRepository) SetVerification(ctx context.Context, id uuid.UUID, verified, paid bool) error {
	return r.update(ctx, id, map[string]interface{}{
		"is_verified":           verified,
		"has_paid_verification": paid,
	})
}

func (r *profileRepository) update(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	return WithCaller(ctx, r.db, id, func(tx *gorm.DB) error {
		res := tx.Model(&models.Profile{ID: id}).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
