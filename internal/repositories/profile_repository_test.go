package repositories

import (
	"context"
	"testing"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileIsInvisibleToOtherIdentities(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	alice := seedIdentity(t, db, "+2348060000001", "Alice")
	bob := seedIdentity(t, db, "+2348060000002", "Bob")

	_, err := repo.Get(context.Background(), bob.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetBalanceIsAudited(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	alice := seedIdentity(t, db, "+2348060000003", "")

	require.NoError(t, repo.SetBalance(ctx, alice.ID, decimal.RequireFromString("94000.00")))
	require.NoError(t, repo.SetVerification(ctx, alice.ID, true, true))

	profile, err := repo.Get(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.Balance.Equal(decimal.NewFromInt(94000)))
	assert.True(t, profile.IsVerified)
	assert.True(t, profile.HasPaidVerification)

	logs, total, err := NewAuditLogRepository(db).List(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionUpdate, logs[0].Action)
	assert.Equal(t, "94000.00", logs[0].NewData["balance"])
}

func TestAuditLogsAreScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := seedIdentity(t, db, "+2348060000004", "")
	bob := seedIdentity(t, db, "+2348060000005", "")
	require.NoError(t, NewProfileRepository(db).SetBalance(ctx, alice.ID, decimal.NewFromInt(1)))

	logs, total, err := NewAuditLogRepository(db).List(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, logs)
}

func TestSetBalanceUnknownProfile(t *testing.T) {
	db := setupTestDB(t)
	alice := seedIdentity(t, db, "+2348060000006", "")
	require.NoError(t, NewIdentityRepository(db, nil).Delete(context.Background(), alice.ID))

	err := NewProfileRepository(db).SetBalance(context.Background(), alice.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
