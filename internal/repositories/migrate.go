package repositories

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// registers the postgres database driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunSQLMigrations applies the embedded migrations to the database at url.
func RunSQLMigrations(url string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

const balanceAuditMigration = "migrations/000002_profile_balance_audit.up.sql"

// installBalanceAuditTrigger installs the native balance audit trigger on a
// schema created by AutoMigrate. It covers updates issued outside gorm.
func installBalanceAuditTrigger(db *gorm.DB) error {
	stmt, err := migrationFiles.ReadFile(balanceAuditMigration)
	if err != nil {
		return err
	}
	if err := db.Exec(string(stmt)).Error; err != nil {
		return fmt.Errorf("install balance audit trigger: %w", err)
	}
	return nil
}
