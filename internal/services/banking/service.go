// Package banking is the data-access surface of the dashboard: the caller's
// profile, ledger, linked bank accounts and audit trail.
package banking

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"
	"kudi/internal/repositories"
	"kudi/internal/repositories/cache"
	"kudi/internal/services/notification"
	"kudi/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Locker serializes verification payment requests of one identity.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// Config holds the optional behaviors of the service.
type Config struct {
	// VerificationDedup returns the existing pending verification payment
	// instead of creating another one.
	VerificationDedup bool
}

type Service interface {
	ListRecentTransactions(ctx context.Context, caller uuid.UUID) ([]models.Transaction, error)
	ListTransactions(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
	CreateVerificationPayment(ctx context.Context, caller uuid.UUID) (uuid.UUID, error)
	DeleteTransaction(ctx context.Context, caller, id uuid.UUID) error

	GetProfile(ctx context.Context, caller uuid.UUID) (*models.Profile, error)
	RefreshProfile(ctx context.Context, caller uuid.UUID) (*models.Profile, error)

	ListBankAccounts(ctx context.Context, caller uuid.UUID) ([]models.BankAccount, error)
	CreateBankAccount(ctx context.Context, caller uuid.UUID, in models.BankAccountInput) (*models.BankAccount, error)
	UpdateBankAccount(ctx context.Context, caller, id uuid.UUID, in models.BankAccountInput) (*models.BankAccount, error)
	DeleteBankAccount(ctx context.Context, caller, id uuid.UUID) error

	ListAuditLogs(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.AuditLog, int64, error)

	Dashboard(ctx context.Context, caller uuid.UUID) (*models.Dashboard, error)
}

type service struct {
	profileRepo     repositories.ProfileRepository
	transactionRepo repositories.TransactionRepository
	bankAccountRepo repositories.BankAccountRepository
	auditLogRepo    repositories.AuditLogRepository
	publisher       notification.Publisher
	locker          Locker
	cfg             Config
}

// NewService wires the banking service. publisher and locker may be nil.
func NewService(
	profileRepo repositories.ProfileRepository,
	transactionRepo repositories.TransactionRepository,
	bankAccountRepo repositories.BankAccountRepository,
	auditLogRepo repositories.AuditLogRepository,
	publisher notification.Publisher,
	locker Locker,
	cfg Config,
) Service {
	if publisher == nil {
		publisher = notification.NewLogPublisher()
	}
	return &service{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		bankAccountRepo: bankAccountRepo,
		auditLogRepo:    auditLogRepo,
		publisher:       publisher,
		locker:          locker,
		cfg:             cfg,
	}
}

func (s *service) ListRecentTransactions(ctx context.Context, caller uuid.UUID) ([]models.Transaction, error) {
	return s.transactionRepo.ListRecent(ctx, caller, RecentTransactionsLimit)
}

func (s *service) ListTransactions(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	return s.transactionRepo.List(ctx, caller, offset, limit)
}

// CreateVerificationPayment records a pending verification fee payment and
// returns its id. Nothing confirms it or touches the balance.
func (s *service) CreateVerificationPayment(ctx context.Context, caller uuid.UUID) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, apperrors.ErrUnauthenticated
	}

	if s.cfg.VerificationDedup {
		if s.locker != nil {
			key := cache.GenerateKey(cache.EntityLock, cache.KeyVerificationPayment, caller)
			token, ok, err := s.locker.AcquireLock(ctx, key, verificationLockTTL)
			if err != nil {
				return uuid.Nil, apperrors.ErrDataAccess.Wrap(err)
			}
			if !ok {
				return uuid.Nil, apperrors.ErrConflict.WithMessage("a verification payment is already being created")
			}
			defer func() {
				if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
					log.Printf("Warning: failed to release %s: %v", key, err)
				}
			}()
		}

		existing, err := s.transactionRepo.FindPending(ctx, caller, models.TransactionTypeVerificationPayment)
		if err == nil {
			log.Printf("Reusing pending verification payment %s for %s", existing.ID, caller)
			return existing.ID, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return uuid.Nil, err
		}
	}

	account, name, bank, description := VerificationRecipientAccount, VerificationRecipientName, VerificationRecipientBank, VerificationDescription
	tx := &models.Transaction{
		UserID:           caller,
		Type:             models.TransactionTypeVerificationPayment,
		Amount:           VerificationFee,
		RecipientAccount: &account,
		RecipientName:    &name,
		RecipientBank:    &bank,
		Status:           models.TransactionStatusPending,
		Reference:        models.NewReference(VerificationReferencePrefix),
		Description:      &description,
	}
	if err := s.transactionRepo.Create(ctx, caller, tx); err != nil {
		return uuid.Nil, err
	}
	log.Printf("✅ Verification payment %s created for %s", tx.Reference, caller)

	s.publish(ctx, tx)
	return tx.ID, nil
}

func (s *service) DeleteTransaction(ctx context.Context, caller, id uuid.UUID) error {
	return s.transactionRepo.Delete(ctx, caller, id)
}

func (s *service) GetProfile(ctx context.Context, caller uuid.UUID) (*models.Profile, error) {
	return s.profileRepo.Get(ctx, caller, caller)
}

// RefreshProfile re-reads the profile. Profiles are never cached server-side,
// so this is the same fresh read as GetProfile.
func (s *service) RefreshProfile(ctx context.Context, caller uuid.UUID) (*models.Profile, error) {
	return s.profileRepo.Get(ctx, caller, caller)
}

func (s *service) ListBankAccounts(ctx context.Context, caller uuid.UUID) ([]models.BankAccount, error) {
	return s.bankAccountRepo.List(ctx, caller)
}

func (s *service) CreateBankAccount(ctx context.Context, caller uuid.UUID, in models.BankAccountInput) (*models.BankAccount, error) {
	v := validation.New()
	v.Struct(in)
	if err := v.Err(); err != nil {
		return nil, err
	}

	account := &models.BankAccount{
		UserID:        caller,
		AccountNumber: in.AccountNumber,
		AccountName:   in.AccountName,
		BankName:      in.BankName,
		BankCode:      in.BankCode,
		IsPrimary:     in.IsPrimary,
	}
	if err := s.bankAccountRepo.Create(ctx, caller, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) UpdateBankAccount(ctx context.Context, caller, id uuid.UUID, in models.BankAccountInput) (*models.BankAccount, error) {
	v := validation.New()
	v.Struct(in)
	if err := v.Err(); err != nil {
		return nil, err
	}

	account := &models.BankAccount{
		ID:            id,
		UserID:        caller,
		AccountNumber: in.AccountNumber,
		AccountName:   in.AccountName,
		BankName:      in.BankName,
		BankCode:      in.BankCode,
		IsPrimary:     in.IsPrimary,
	}
	if err := s.bankAccountRepo.Update(ctx, caller, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) DeleteBankAccount(ctx context.Context, caller, id uuid.UUID) error {
	return s.bankAccountRepo.Delete(ctx, caller, id)
}

func (s *service) ListAuditLogs(ctx context.Context, caller uuid.UUID, offset, limit int) ([]models.AuditLog, int64, error) {
	return s.auditLogRepo.List(ctx, caller, offset, limit)
}

// Dashboard loads everything the dashboard renders on mount.
func (s *service) Dashboard(ctx context.Context, caller uuid.UUID) (*models.Dashboard, error) {
	var d models.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.profileRepo.Get(gctx, caller, caller)
		d.Profile = profile
		return err
	})
	g.Go(func() error {
		recent, err := s.transactionRepo.ListRecent(gctx, caller, RecentTransactionsLimit)
		d.RecentTransactions = recent
		return err
	})
	g.Go(func() error {
		accounts, err := s.bankAccountRepo.List(gctx, caller)
		d.BankAccounts = accounts
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.CanWithdraw = d.Profile.HasPaidVerification
	return &d, nil
}

func (s *service) publish(ctx context.Context, tx *models.Transaction) {
	if err := s.publisher.PublishTransactionCreated(ctx, notification.EventFromTransaction(tx)); err != nil {
		log.Printf("Warning: failed to publish transaction %s: %v", tx.Reference, err)
	}
}
