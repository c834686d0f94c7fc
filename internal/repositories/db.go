// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"kudi/internal/config"
	"kudi/internal/models"
	"kudi/internal/policy"
	"kudi/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB
var CacheService *cache.CacheService

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.Identity{},
		&models.Profile{},
		&models.Transaction{},
		&models.BankAccount{},
		&models.AuditLog{},
	}
}

// InitDB initializes the database connection and the cache.
// It sets up the connection pool, performs migrations,
// and installs the row-level security policies when enabled.
func InitDB(cfg config.Config) error {
	db, err := Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := Migrate(db, cfg.Database); err != nil {
		return err
	}
	DB = db

	redisCfg := &cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	svc := cache.NewCacheService(cache.NewRedisClient(redisCfg), 24*time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := svc.HealthCheck(ctx); err != nil {
		log.Printf("⚠️ Redis unavailable, running without cache: %v", err)
		_ = svc.Close()
		return nil
	}
	CacheService = svc
	log.Println("✅ Connected to Redis")
	return nil
}

// Open connects to the configured driver and applies the pool settings.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// Configure GORM logger to ignore "record not found" errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(),
		},
	)
	gormCfg := &gorm.Config{Logger: newLogger}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if cfg.Driver == "sqlite" {
		// sqlite serializes writers; one long-lived connection avoids
		// "database is locked" and keeps in-memory databases alive
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	log.Printf("✅ %s connected", cfg.Driver)
	return db, nil
}

// Migrate brings the schema up to date and, on postgres, installs the foreign
// keys, the balance audit trigger and row-level security policies.
func Migrate(db *gorm.DB, cfg config.DatabaseConfig) error {
	isPostgres := db.Dialector.Name() == "postgres"

	if isPostgres && cfg.SQLMigrations {
		if err := RunSQLMigrations(cfg.URL()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := db.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		if isPostgres {
			if err := installForeignKeys(db); err != nil {
				return err
			}
			if err := installBalanceAuditTrigger(db); err != nil {
				return err
			}
		}
	}

	if isPostgres && cfg.EnforceRLS {
		if err := ApplyRowLevelSecurity(db); err != nil {
			return err
		}
		log.Println("🔒 Row-level security policies installed")
	}
	log.Println("✅ Migrations applied successfully!")
	return nil
}

// ownedTables maps each table to the column referencing identities(id).
var ownedTables = []struct{ table, column string }{
	{"profiles", "id"},
	{"transactions", "user_id"},
	{"bank_accounts", "user_id"},
	{"audit_logs", "user_id"},
}

func installForeignKeys(db *gorm.DB) error {
	for _, t := range ownedTables {
		name := fmt.Sprintf("fk_%s_identity", t.table)
		stmt := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
		ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES identities (id) ON DELETE CASCADE;
	END IF;
END $$;`, name, t.table, name, t.column)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install foreign key %s: %w", name, err)
		}
	}
	return nil
}

// ApplyRowLevelSecurity installs the policies declared in the policy package.
func ApplyRowLevelSecurity(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range policy.PostgresStatements() {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("apply row-level security: %w", err)
			}
		}
		return nil
	})
}

// DropAllTables removes every table, owned tables first.
func DropAllTables(db *gorm.DB) error {
	m := Models()
	for i := len(m) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(m[i]); err != nil {
			return err
		}
	}
	return nil
}

// ResetDatabase drops and recreates the schema.
func ResetDatabase(db *gorm.DB, cfg config.DatabaseConfig) error {
	if err := DropAllTables(db); err != nil {
		return err
	}
	return Migrate(db, cfg)
}
