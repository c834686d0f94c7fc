package models

import (
	"time"

	apperrors "kudi/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions
const (
	AuditActionUpdate = "UPDATE"
)

// AuditLog is an immutable record of a balance change on a profile.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    string    `gorm:"not null" json:"action"`
	Table     string    `gorm:"column:table_name;not null" json:"table_name"`
	OldData   JSON      `gorm:"type:jsonb" json:"old_data"`
	NewData   JSON      `gorm:"type:jsonb" json:"new_data"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// GetUserID returns the owning identity.
func (a *AuditLog) GetUserID() uuid.UUID { return a.UserID }

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return apperrors.ErrAuditLogImmutable
}

func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return apperrors.ErrAuditLogImmutable
}
