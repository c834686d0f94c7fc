package repositories

import (
	"context"
	"testing"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityCreateProvisionsProfile(t *testing.T) {
	db := setupTestDB(t)
	identity := seedIdentity(t, db, "+2348011111111", "Ada Obi")
	require.NotNil(t, identity.Profile)

	profile, err := NewProfileRepository(db).Get(context.Background(), identity.ID, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", profile.FullName)
	assert.True(t, profile.Balance.Equal(models.DefaultOpeningBalance))
}

func TestIdentityLookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdentityRepository(db, nil)
	ctx := context.Background()
	identity := &models.Identity{Phone: strPtr("+2348022222222"), Email: strPtr("ada@example.com"), PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, identity))

	byPhone, err := repo.GetByPhone(ctx, "+2348022222222")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, byPhone.ID)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, byEmail.ID)

	_, err = repo.GetByPhone(ctx, "+2340000000000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	dup := &models.Identity{Phone: strPtr("+2348022222222"), PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), apperrors.ErrConflict)
}

func TestIncrementTokenVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdentityRepository(db, nil)
	ctx := context.Background()
	identity := seedIdentity(t, db, "+2348033333333", "")

	v, err := repo.GetTokenVersion(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = repo.IncrementTokenVersion(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = repo.GetTokenVersion(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestIdentityDeleteRemovesOwnedRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdentityRepository(db, nil)
	ctx := context.Background()
	identity := seedIdentity(t, db, "+2348044444444", "")

	require.NoError(t, repo.Delete(ctx, identity.ID))

	_, err := NewProfileRepository(db).Get(ctx, identity.ID, identity.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, identity.ID), apperrors.ErrNotFound)
}
