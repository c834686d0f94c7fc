package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "kudi/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Session settings read by the postgres row-level security policies.
const (
	SettingCurrentUser = "app.current_user_id"
	SettingSystemWrite = "app.system_write"
	// SettingHookAudit is "on" while a gorm update audits its own balance
	// change; the native balance trigger skips those rows.
	SettingHookAudit = "app.balance_hook_audit"
)

// SetSessionSetting sets a transaction-local setting. It is a no-op on
// dialects without set_config.
func SetSessionSetting(tx *gorm.DB, key, value string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT set_config(?, ?, true)", key, value).Error
}

// ProvisionProfile creates the single profile row of a new identity, copying
// its phone and full-name claim. It runs inside the identity's insert
// transaction so a failure leaves no identity behind.
func ProvisionProfile(tx *gorm.DB, identity *Identity) (*Profile, error) {
	if err := SetSessionSetting(tx, SettingCurrentUser, identity.ID.String()); err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}

	profile := &Profile{
		ID:          identity.ID,
		PhoneNumber: identity.Phone,
		FullName:    identity.FullName(),
		Balance:     DefaultOpeningBalance,
	}
	if err := tx.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}
	return profile, nil
}

// ValidateTransactionAmount rejects amounts outside (0, MaxTransactionAmount].
func ValidateTransactionAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrInvalidTransactionAmount.WithMessage("transaction amount must be greater than 0")
	}
	if amount.GreaterThan(MaxTransactionAmount) {
		return apperrors.ErrInvalidTransactionAmount.WithMessage("transaction amount must not exceed 100000000")
	}
	return nil
}

// NewReference returns a unique transaction reference token.
func NewReference(prefix string) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + token[:20]
}

// balanceQuery selects the stored balance of one profile and locks the row
// until the enclosing transaction ends. sqlite ignores the locking clause.
func balanceQuery(tx *gorm.DB, id uuid.UUID) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).
		Model(&Profile{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("balance").
		Where("id = ?", id)
}

func persistedBalance(tx *gorm.DB, id uuid.UUID) (decimal.Decimal, bool, error) {
	var balance decimal.Decimal
	err := balanceQuery(tx, id).Row().Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("read profile balance: %w", err)
	}
	return balance, true, nil
}

// auditBalanceChange appends one audit row when the persisted balance of the
// profile differs from old. An insert failure aborts the enclosing update.
func auditBalanceChange(tx *gorm.DB, profileID uuid.UUID, old decimal.Decimal) error {
	current, found, err := persistedBalance(tx, profileID)
	if err != nil || !found {
		return err
	}
	if current.Equal(old) {
		return nil
	}

	if err := SetSessionSetting(tx, SettingSystemWrite, "on"); err != nil {
		return err
	}
	entry := &AuditLog{
		UserID:  profileID,
		Action:  AuditActionUpdate,
		Table:   Profile{}.TableName(),
		OldData: JSON{"balance": old.StringFixed(2)},
		NewData: JSON{"balance": current.StringFixed(2)},
	}
	if err := tx.Session(&gorm.Session{NewDB: true}).Create(entry).Error; err != nil {
		return fmt.Errorf("write balance audit: %w", err)
	}
	return SetSessionSetting(tx, SettingSystemWrite, "off")
}

// updatesBalance reports whether the pending update writes the balance column.
func updatesBalance(tx *gorm.DB) bool {
	for _, col := range tx.Statement.Selects {
		if col == "*" || col == "balance" || col == "Balance" {
			return true
		}
	}
	switch dest := tx.Statement.Dest.(type) {
	case map[string]interface{}:
		_, lower := dest["balance"]
		_, upper := dest["Balance"]
		return lower || upper
	case *Profile:
		return !dest.Balance.IsZero()
	case Profile:
		return !dest.Balance.IsZero()
	}
	return false
}

// updatedAmount returns the amount a transaction update is about to persist.
// ok is false when the update does not touch the amount column.
func updatedAmount(tx *gorm.DB, t *Transaction) (decimal.Decimal, bool, error) {
	switch dest := tx.Statement.Dest.(type) {
	case map[string]interface{}:
		for _, key := range []string{"amount", "Amount"} {
			if v, ok := dest[key]; ok {
				return toDecimal(v)
			}
		}
		return decimal.Zero, false, nil
	case *Transaction:
		if dest == t || !dest.Amount.IsZero() {
			return dest.Amount, true, nil
		}
		return decimal.Zero, false, nil
	case Transaction:
		if !dest.Amount.IsZero() {
			return dest.Amount, true, nil
		}
		return decimal.Zero, false, nil
	}
	return decimal.Zero, false, nil
}

func toDecimal(v interface{}) (decimal.Decimal, bool, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true, nil
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero, true, nil
		}
		return *val, true, nil
	case float64:
		return decimal.NewFromFloat(val), true, nil
	case float32:
		return decimal.NewFromFloat32(val), true, nil
	case int:
		return decimal.NewFromInt(int64(val)), true, nil
	case int64:
		return decimal.NewFromInt(val), true, nil
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero, false, apperrors.ErrInvalidTransactionAmount.Wrap(err)
		}
		return d, true, nil
	case clause.Expr:
		// expressions are left to the column check constraint
		return decimal.Zero, false, nil
	}
	return decimal.Zero, false, nil
}

// cascadeIdentityDelete removes the identity's rows on dialects without the
// ON DELETE CASCADE foreign keys installed by the postgres migration.
func cascadeIdentityDelete(tx *gorm.DB, id uuid.UUID) error {
	if tx.Dialector.Name() == "postgres" {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	for _, model := range []interface{}{&AuditLog{}, &BankAccount{}, &Transaction{}} {
		if err := db.Where("user_id = ?", id).Delete(model).Error; err != nil {
			return fmt.Errorf("cascade identity delete: %w", err)
		}
	}
	if err := db.Where("id = ?", id).Delete(&Profile{}).Error; err != nil {
		return fmt.Errorf("cascade identity delete: %w", err)
	}
	return nil
}
