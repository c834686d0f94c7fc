package banking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"kudi/internal/config"
	apperrors "kudi/internal/errors"
	"kudi/internal/models"
	"kudi/internal/repositories"
	"kudi/internal/services/notification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransactionCreated(ctx context.Context, event notification.TransactionCreatedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockLocker) ReleaseLock(ctx context.Context, key, token string) error {
	return m.Called(ctx, key, token).Error(0)
}

type fixture struct {
	db        *gorm.DB
	svc       Service
	publisher *MockPublisher
	locker    *MockLocker
}

func setup(t *testing.T, cfg Config) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbCfg := config.DatabaseConfig{Driver: "sqlite", SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name)}
	db, err := repositories.Open(dbCfg)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db, dbCfg))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{db: db, publisher: new(MockPublisher), locker: new(MockLocker)}
	f.svc = NewService(
		repositories.NewProfileRepository(db),
		repositories.NewTransactionRepository(db),
		repositories.NewBankAccountRepository(db),
		repositories.NewAuditLogRepository(db),
		f.publisher,
		f.locker,
		cfg,
	)
	return f
}

func (f *fixture) identity(t *testing.T, phone, fullName string) uuid.UUID {
	t.Helper()
	identity := &models.Identity{Phone: &phone, PasswordHash: "hash", Metadata: models.JSON{models.MetadataFullName: fullName}}
	require.NoError(t, repositories.NewIdentityRepository(f.db, nil).Create(context.Background(), identity))
	return identity.ID
}

func TestCreateVerificationPayment(t *testing.T) {
	f := setup(t, Config{})
	ctx := context.Background()
	caller := f.identity(t, "+2348090000001", "Ada Obi")
	f.publisher.On("PublishTransactionCreated", mock.Anything, mock.MatchedBy(func(ev notification.TransactionCreatedEvent) bool {
		return ev.Type == models.TransactionTypeVerificationPayment && ev.Amount == "6000.00"
	})).Return(nil)

	id, err := f.svc.CreateVerificationPayment(ctx, caller)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	recent, err := f.svc.ListRecentTransactions(ctx, caller)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	tx := recent[0]
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, models.TransactionTypeVerificationPayment, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, "9163110673", *tx.RecipientAccount)
	assert.Equal(t, "Abdullahi", *tx.RecipientName)
	assert.Equal(t, "Opay", *tx.RecipientBank)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.True(t, strings.HasPrefix(tx.Reference, "VP-"))

	// the payment is recorded only; balance and flags are untouched
	profile, err := f.svc.GetProfile(ctx, caller)
	require.NoError(t, err)
	assert.True(t, profile.Balance.Equal(models.DefaultOpeningBalance))
	assert.False(t, profile.HasPaidVerification)

	f.publisher.AssertExpectations(t)
	f.locker.AssertNotCalled(t, "AcquireLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateVerificationPaymentTwiceCreatesTwoRows(t *testing.T) {
	f := setup(t, Config{})
	ctx := context.Background()
	caller := f.identity(t, "+2348090000002", "")
	f.publisher.On("PublishTransactionCreated", mock.Anything, mock.Anything).Return(nil)

	first, err := f.svc.CreateVerificationPayment(ctx, caller)
	require.NoError(t, err)
	second, err := f.svc.CreateVerificationPayment(ctx, caller)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCreateVerificationPaymentDedup(t *testing.T) {
	f := setup(t, Config{VerificationDedup: true})
	ctx := context.Background()
	caller := f.identity(t, "+2348090000003", "")
	f.publisher.On("PublishTransactionCreated", mock.Anything, mock.Anything).Return(nil).Once()
	f.locker.On("AcquireLock", mock.Anything, "lock:verification_payment:"+caller.String(), verificationLockTTL).Return("lock-token", true, nil)
	f.locker.On("ReleaseLock", mock.Anything, "lock:verification_payment:"+caller.String(), "lock-token").Return(nil)

	first, err := f.svc.CreateVerificationPayment(ctx, caller)
	require.NoError(t, err)
	second, err := f.svc.CreateVerificationPayment(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f.publisher.AssertExpectations(t)
	f.locker.AssertNumberOfCalls(t, "AcquireLock", 2)
	f.locker.AssertNumberOfCalls(t, "ReleaseLock", 2)
}

func TestCreateVerificationPaymentLockHeld(t *testing.T) {
	f := setup(t, Config{VerificationDedup: true})
	caller := f.identity(t, "+2348090000004", "")
	f.locker.On("AcquireLock", mock.Anything, mock.Anything, mock.Anything).Return("", false, nil)

	_, err := f.svc.CreateVerificationPayment(context.Background(), caller)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.publisher.AssertNotCalled(t, "PublishTransactionCreated", mock.Anything, mock.Anything)
	f.locker.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := setup(t, Config{})
	caller := f.identity(t, "+2348090000005", "")
	f.publisher.On("PublishTransactionCreated", mock.Anything, mock.Anything).Return(assert.AnError)

	id, err := f.svc.CreateVerificationPayment(context.Background(), caller)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestListRecentTransactionsIsOwnerScoped(t *testing.T) {
	f := setup(t, Config{})
	ctx := context.Background()
	alice := f.identity(t, "+2348090000006", "")
	bob := f.identity(t, "+2348090000007", "")
	txRepo := repositories.NewTransactionRepository(f.db)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 11; i++ {
		require.NoError(t, txRepo.Create(ctx, alice, &models.Transaction{
			UserID: alice, Type: models.TransactionTypeDeposit, Amount: decimal.NewFromInt(int64(i + 1)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	recent, err := f.svc.ListRecentTransactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, recent, RecentTransactionsLimit)
	assert.True(t, recent[0].Amount.Equal(decimal.NewFromInt(11)))

	none, err := f.svc.ListRecentTransactions(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetAndRefreshProfileReadFreshState(t *testing.T) {
	f := setup(t, Config{})
	ctx := context.Background()
	caller := f.identity(t, "+2348090000008", "Ada Obi")

	profile, err := f.svc.GetProfile(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", profile.FullName)

	require.NoError(t, repositories.NewProfileRepository(f.db).SetBalance(ctx, caller, decimal.NewFromInt(94000)))

	refreshed, err := f.svc.RefreshProfile(ctx, caller)
	require.NoError(t, err)
	assert.True(t, refreshed.Balance.Equal(decimal.NewFromInt(94000)))

	logs, total, err := f.svc.ListAuditLogs(ctx, caller, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "100000.00", logs[0].OldData["balance"])
}

func TestBankAccounts(t *testing.T) {
	f := setup(t, Config{})
	ctx := context.Background()
	caller := f.identity(t, "+2348090000009", "")

	_, err := f.svc.CreateBankAccount(ctx, caller, models.BankAccountInput{AccountNumber: "12ab"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	account, err := f.svc.CreateBankAccount(ctx, caller, models.BankAccountInput{
		AccountNumber: "0123456789", AccountName: "Ada Obi", BankName: "GTBank", IsPrimary: true,
	})
	require.NoError(t, err)
	assert.Equal(t, caller, account.UserID)

	updated, err := f.svc.UpdateBankAccount(ctx, caller, account.ID, models.BankAccountInput{
		AccountNumber: "0123456789", AccountName: "Ada O.", BankName: "GTBank",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada O.", updated.AccountName)
	assert.False(t, updated.IsPrimary)

	accounts, err := f.svc.ListBankAccounts(ctx, caller)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, f.svc.DeleteBankAccount(ctx, caller, account.ID))
	assert.ErrorIs(t, f.svc.DeleteBankAccount(ctx, caller, account.ID), apperrors.ErrNotFound)
}

func TestDashboard(t *testing.T) {
	f := setup(t, Config{})
	ctx := context.Background()
	caller := f.identity(t, "+2348090000010", "Ada Obi")
	f.publisher.On("PublishTransactionCreated", mock.Anything, mock.Anything).Return(nil)
	_, err := f.svc.CreateVerificationPayment(ctx, caller)
	require.NoError(t, err)

	d, err := f.svc.Dashboard(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", d.Profile.FullName)
	assert.Len(t, d.RecentTransactions, 1)
	assert.Empty(t, d.BankAccounts)
	assert.False(t, d.CanWithdraw)
}

func TestDeleteTransactionOfOtherIdentity(t *testing.T) {
	f := setup(t, Config{})
	ctx := context.Background()
	alice := f.identity(t, "+2348090000011", "")
	bob := f.identity(t, "+2348090000012", "")
	f.publisher.On("PublishTransactionCreated", mock.Anything, mock.Anything).Return(nil)
	id, err := f.svc.CreateVerificationPayment(ctx, alice)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteTransaction(ctx, bob, id), apperrors.ErrNotFound)
	require.NoError(t, f.svc.DeleteTransaction(ctx, alice, id))
}
