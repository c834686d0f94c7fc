package models

import (
	"encoding/json"
	"time"

	apperrors "kudi/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeDeposit             = "deposit"
	TransactionTypeWithdrawal          = "withdrawal"
	TransactionTypeTransfer            = "transfer"
	TransactionTypeVerificationPayment = "verification_payment"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// MaxTransactionAmount caps every ledger entry.
var MaxTransactionAmount = decimal.NewFromInt(100_000_000)

// Transaction is an append-mostly ledger entry owned by one identity.
type Transaction struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_user_created,priority:1" json:"user_id"`
	Type             string          `gorm:"not null;check:chk_transactions_type,type IN ('deposit','withdrawal','transfer','verification_payment')" json:"type"`
	Amount           decimal.Decimal `gorm:"type:numeric(15,2);not null;check:chk_transactions_amount,amount > 0 AND amount <= 100000000" json:"amount"`
	RecipientAccount *string         `json:"recipient_account,omitempty"`
	RecipientName    *string         `json:"recipient_name,omitempty"`
	RecipientBank    *string         `json:"recipient_bank,omitempty"`
	Status           string          `gorm:"not null;default:'pending';check:chk_transactions_status,status IN ('pending','completed','failed')" json:"status"`
	Reference        string          `gorm:"not null;uniqueIndex" json:"reference"`
	Description      *string         `json:"description,omitempty"`
	CreatedAt        time.Time       `gorm:"index:idx_transactions_user_created,priority:2,sort:desc" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }

// GetUserID returns the owning identity.
func (t *Transaction) GetUserID() uuid.UUID { return t.UserID }

// IsValidTransactionType reports whether s is one of the enumerated types.
func IsValidTransactionType(s string) bool {
	switch s {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer, TransactionTypeVerificationPayment:
		return true
	}
	return false
}

// IsValidTransactionStatus reports whether s is one of the enumerated statuses.
func IsValidTransactionStatus(s string) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// MarshalJSON emits the amount as a string with two decimals.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type transaction Transaction
	return json.Marshal(struct {
		transaction
		Amount string `json:"amount"`
	}{transaction(t), t.Amount.StringFixed(2)})
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if err := ValidateTransactionAmount(t.Amount); err != nil {
		return err
	}
	if !IsValidTransactionType(t.Type) {
		return apperrors.ErrInvalidRequest.WithMessage("unknown transaction type " + t.Type)
	}
	if t.Status != "" && !IsValidTransactionStatus(t.Status) {
		return apperrors.ErrInvalidRequest.WithMessage("unknown transaction status " + t.Status)
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Reference == "" {
		t.Reference = NewReference("TX")
	}
	if t.Status == "" {
		t.Status = TransactionStatusPending
	}
	return nil
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	amount, ok, err := updatedAmount(tx, t)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return ValidateTransactionAmount(amount)
}
