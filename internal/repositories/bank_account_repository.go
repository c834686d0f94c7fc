package repositories

import (
	"context"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"
	"kudi/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const bankAccountsTable = "bank_accounts"

// BankAccountRepository manages the linked accounts of an owner.
type BankAccountRepository interface {
	List(ctx context.Context, caller uuid.UUID) ([]models.BankAccount, error)
	GetByID(ctx context.Context, caller, id uuid.UUID) (*models.BankAccount, error)
	// Create links an account; a primary account demotes the caller's others
	Create(ctx context.Context, caller uuid.UUID, account *models.BankAccount) error
	// Update rewrites the client-writable fields of account
	Update(ctx context.Context, caller uuid.UUID, account *models.BankAccount) error
	Delete(ctx context.Context, caller, id uuid.UUID) error
}

type bankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) List(ctx context.Context, caller uuid.UUID) ([]models.BankAccount, error) {
	accounts := []models.BankAccount{}
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		return tx.Scopes(policy.Scope(bankAccountsTable, policy.Select, caller)).
			Order("is_primary DESC, created_at ASC, id ASC").
			Find(&accounts).Error
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *bankAccountRepository) GetByID(ctx context.Context, caller, id uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		return tx.Scopes(policy.Scope(bankAccountsTable, policy.Select, caller)).
			First(&account, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) Create(ctx context.Context, caller uuid.UUID, account *models.BankAccount) error {
	if err := policy.CheckWrite(bankAccountsTable, policy.Insert, caller, account); err != nil {
		return err
	}
	return WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		if account.IsPrimary {
			return demoteOthers(tx, caller, account.ID)
		}
		return nil
	})
}

func (r *bankAccountRepository) Update(ctx context.Context, caller uuid.UUID, account *models.BankAccount) error {
	if err := policy.CheckWrite(bankAccountsTable, policy.Update, caller, account); err != nil {
		return err
	}
	return WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		res := tx.Model(&models.BankAccount{}).
			Scopes(policy.Scope(bankAccountsTable, policy.Update, caller)).
			Where("id = ?", account.ID).
			Updates(map[string]interface{}{
				"account_number": account.AccountNumber,
				"account_name":   account.AccountName,
				"bank_name":      account.BankName,
				"bank_code":      account.BankCode,
				"is_primary":     account.IsPrimary,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if account.IsPrimary {
			if err := demoteOthers(tx, caller, account.ID); err != nil {
				return err
			}
		}
		return tx.Scopes(policy.Scope(bankAccountsTable, policy.Select, caller)).
			First(account, "id = ?", account.ID).Error
	})
}

func (r *bankAccountRepository) Delete(ctx context.Context, caller, id uuid.UUID) error {
	return WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		res := tx.Scopes(policy.Scope(bankAccountsTable, policy.Delete, caller)).
			Where("id = ?", id).
			Delete(&models.BankAccount{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// demoteOthers clears is_primary on every other account of caller.
func demoteOthers(tx *gorm.DB, caller, keep uuid.UUID) error {
	return tx.Model(&models.BankAccount{}).
		Scopes(policy.Scope(bankAccountsTable, policy.Update, caller)).
		Where("id <> ? AND is_primary = ?", keep, true).
		Update("is_primary", false).Error
}
