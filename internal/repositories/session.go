package repositories

import (
	"context"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WithCaller runs fn in a transaction bound to caller. On postgres the caller
// is published to the row-level security policies through a transaction-local
// setting; on every dialect the repositories also scope their queries to it.
func WithCaller(ctx context.Context, db *gorm.DB, caller uuid.UUID, fn func(tx *gorm.DB) error) error {
	if caller == uuid.Nil {
		return apperrors.ErrUnauthenticated
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := models.SetSessionSetting(tx, models.SettingCurrentUser, caller.String()); err != nil {
			return err
		}
		return fn(tx)
	})
	return mapError(err)
}
