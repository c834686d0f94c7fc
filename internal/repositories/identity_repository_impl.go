package repositories

import (
	"context"
	"log"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"
	"kudi/internal/repositories/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type identityRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewIdentityRepository creates a new instance of IdentityRepository.
// cache may be nil, in which case token versions are always read from the database.
func NewIdentityRepository(db *gorm.DB, cache *cache.CacheService) IdentityRepository {
	return &identityRepository{
		db:    db,
		cache: cache,
	}
}

func (r *identityRepository) Create(ctx context.Context, identity *models.Identity) error {
	return mapError(r.db.WithContext(ctx).Create(identity).Error)
}

func (r *identityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &identity, nil
}

func (r *identityRepository) GetByPhone(ctx context.Context, phone string) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&identity).Error; err != nil {
		return nil, mapError(err)
	}
	return &identity, nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&identity).Error; err != nil {
		return nil, mapError(err)
	}
	return &identity, nil
}

func (r *identityRepository) IncrementTokenVersion(ctx context.Context, id uuid.UUID) (int, error) {
	var version int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Identity{}).Where("id = ?", id).
			UpdateColumn("token_version", gorm.Expr("token_version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		var updated models.Identity
		if err := tx.Select("token_version").First(&updated, "id = ?", id).Error; err != nil {
			return err
		}
		version = updated.TokenVersion
		return nil
	})
	if err != nil {
		return 0, mapError(err)
	}

	if r.cache != nil {
		if err := r.cache.InvalidateTokenVersion(ctx, id); err != nil {
			log.Printf("Warning: failed to invalidate token version cache for %s: %v", id, err)
		}
	}
	log.Printf("Incremented token version for identity %s to %d", id, version)
	return version, nil
}

func (r *identityRepository) GetTokenVersion(ctx context.Context, id uuid.UUID) (int, error) {
	if r.cache != nil {
		if v, found, err := r.cache.GetTokenVersion(ctx, id); err == nil && found {
			return v, nil
		} else if err != nil {
			log.Printf("Token version cache unavailable: %v", err)
		}
	}

	identity, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if r.cache != nil {
		if err := r.cache.SetTokenVersion(ctx, id, identity.TokenVersion); err != nil {
			log.Printf("Failed to cache token version: %v", err)
		}
	}
	return identity.TokenVersion, nil
}

func (r *identityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Identity{ID: id})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	if r.cache != nil {
		_ = r.cache.InvalidateTokenVersion(ctx, id)
	}
	return nil
}
