package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"kudi/internal/config"
	"kudi/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}
	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db, cfg))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func seedIdentity(t *testing.T, db *gorm.DB, phone, fullName string) *models.Identity {
	t.Helper()
	identity := &models.Identity{
		Phone:        strPtr(phone),
		PasswordHash: "hash",
		Metadata:     models.JSON{models.MetadataFullName: fullName},
	}
	require.NoError(t, NewIdentityRepository(db, nil).Create(context.Background(), identity))
	return identity
}

// at returns a fixed timestamp offset by minutes, for deterministic ordering.
func at(minutes int) time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}
