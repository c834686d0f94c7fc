package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankAccount is an external account linked by its owner.
type BankAccount struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountNumber string    `gorm:"not null" json:"account_number"`
	AccountName   string    `gorm:"not null" json:"account_name"`
	BankName      string    `gorm:"not null" json:"bank_name"`
	BankCode      *string   `json:"bank_code,omitempty"`
	IsPrimary     bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (BankAccount) TableName() string { return "bank_accounts" }

// GetUserID returns the owning identity.
func (b *BankAccount) GetUserID() uuid.UUID { return b.UserID }

func (b *BankAccount) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BankAccountInput is the client-writable part of a bank account.
type BankAccountInput struct {
	AccountNumber string  `json:"account_number" validate:"required,numeric,min=6,max=20"`
	AccountName   string  `json:"account_name" validate:"required,max=100"`
	BankName      string  `json:"bank_name" validate:"required,max=100"`
	BankCode      *string `json:"bank_code" validate:"omitempty,max=20"`
	IsPrimary     bool    `json:"is_primary"`
}
