package repositories

import (
	"context"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"
	"kudi/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const transactionsTable = "transactions"

// newestFirst orders ledger rows deterministically.
const newestFirst = "created_at DESC, id DESC"

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, caller uuid.UUID, t *models.Transaction) error {
	if err := policy.CheckWrite(transactionsTable, policy.Insert, caller, t); err != nil {
		return err
	}
	return WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		return tx.Create(t).Error
	})
}

func (r *transactionRepository) ListRecent(ctx context.Context, caller uuid.UUID, limit int) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0, limit)
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		return tx.Scopes(policy.Scope(transactionsTable, policy.Select, caller)).
			Order(newestFirst).
			Limit(limit).
			Find(&transactions).Error
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) List(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	var (
		transactions = make([]models.Transaction, 0, limit)
		total        int64
	)
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		scoped := tx.Model(&models.Transaction{}).Scopes(policy.Scope(transactionsTable, policy.Select, caller))
		if err := scoped.Count(&total).Error; err != nil {
			return err
		}
		return tx.Scopes(policy.Scope(transactionsTable, policy.Select, caller)).
			Order(newestFirst).
			Offset(offset).
			Limit(limit).
			Find(&transactions).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, caller, id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		return tx.Scopes(policy.Scope(transactionsTable, policy.Select, caller)).
			First(&t, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) FindPending(ctx context.Context, caller uuid.UUID, txType string) (*models.Transaction, error) {
	var t models.Transaction
	err := WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		return tx.Scopes(policy.Scope(transactionsTable, policy.Select, caller)).
			Where("type = ? AND status = ?", txType, models.TransactionStatusPending).
			Order(newestFirst).
			First(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) Delete(ctx context.Context, caller, id uuid.UUID) error {
	return WithCaller(ctx, r.db, caller, func(tx *gorm.DB) error {
		res := tx.Scopes(policy.Scope(transactionsTable, policy.Delete, caller)).
			Where("id = ?", id).
			Delete(&models.Transaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
