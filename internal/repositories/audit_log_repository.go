package repositories

import (
	"context"

	"kudi/internal/models"
	"kudi/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository exposes the read-only audit trail of an owner. Entries
// are written by the balance trigger only.
type AuditLogRepository interface {
	List(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) List(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.AuditLog, int64, error) {
	var (
		logs  = make([]models.AuditLog, 0, limit)
		total int64
	)
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		if err := tx.Model(&models.AuditLog{}).
			Scopes(policy.Scope("audit_logs", policy.Select, caller)).
			Count(&total).Error; err != nil {
			return err
		}
		return tx.Scopes(policy.Scope("audit_logs", policy.Select, caller)).
			Order(newestFirst).
			Offset(offset).
			Limit(limit).
			Find(&logs).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
