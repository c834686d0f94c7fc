package models

import (
	"encoding/json"
	"time"

	apperrors "kudi/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultOpeningBalance is the balance every provisioned profile starts with.
var DefaultOpeningBalance = decimal.RequireFromString("100000.00")

// Profile is the banking view of an identity. Its primary key is the identity id.
type Profile struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PhoneNumber         *string         `gorm:"uniqueIndex" json:"phone_number"`
	FullName            string          `gorm:"not null;default:''" json:"full_name"`
	Balance             decimal.Decimal `gorm:"type:numeric(15,2);not null;default:100000.00" json:"balance"`
	IsVerified          bool            `gorm:"not null;default:false" json:"is_verified"`
	HasPaidVerification bool            `gorm:"not null;default:false" json:"has_paid_verification"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	balanceBefore *decimal.Decimal
}

func (Profile) TableName() string { return "profiles" }

// GetUserID returns the owning identity.
func (p *Profile) GetUserID() uuid.UUID { return p.ID }

// MarshalJSON emits the balance as a string with two decimals.
func (p Profile) MarshalJSON() ([]byte, error) {
	type profile Profile
	return json.Marshal(struct {
		profile
		Balance string `json:"balance"`
	}{profile(p), p.Balance.StringFixed(2)})
}

// BeforeUpdate stamps updated_at and remembers the persisted balance. Balance
// updates must address a single profile by primary key so the change can be
// audited.
func (p *Profile) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("UpdatedAt", time.Now().UTC(), true)
	if p.ID == uuid.Nil {
		if updatesBalance(tx) {
			return apperrors.ErrInvalidRequest.WithMessage("balance updates must target a profile by id")
		}
		return nil
	}
	old, found, err := persistedBalance(tx, p.ID)
	if err != nil || !found {
		return err
	}
	// the native postgres trigger stands down while the hook audits
	if err := SetSessionSetting(tx, SettingHookAudit, "on"); err != nil {
		return err
	}
	p.balanceBefore = &old
	return nil
}

// AfterUpdate appends an audit entry when the balance changed.
func (p *Profile) AfterUpdate(tx *gorm.DB) error {
	if p.balanceBefore == nil {
		return nil
	}
	old := *p.balanceBefore
	p.balanceBefore = nil
	if err := auditBalanceChange(tx, p.ID, old); err != nil {
		return err
	}
	return SetSessionSetting(tx, SettingHookAudit, "off")
}
