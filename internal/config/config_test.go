package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallsBackOnEmpty(t *testing.T) {
	t.Setenv("KUDI_TEST_EMPTY", "")
	assert.Equal(t, "fallback", GetEnv("KUDI_TEST_EMPTY", "fallback"))

	t.Setenv("KUDI_TEST_SET", "value")
	assert.Equal(t, "value", GetEnv("KUDI_TEST_SET", "fallback"))
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("KUDI_TEST_INT", "42")
	t.Setenv("KUDI_TEST_BAD_INT", "forty-two")
	t.Setenv("KUDI_TEST_BOOL", "true")
	t.Setenv("KUDI_TEST_DURATION", "90s")

	assert.Equal(t, 42, GetIntEnv("KUDI_TEST_INT", 1))
	assert.Equal(t, 1, GetIntEnv("KUDI_TEST_BAD_INT", 1))
	assert.True(t, GetBoolEnv("KUDI_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, GetDurationEnv("KUDI_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetDurationEnv("KUDI_TEST_MISSING_DURATION", time.Minute))
}

func TestLoadDefaultsRLSPerDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	cfg := Load()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Database.EnforceRLS)

	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_NAME", "kudi_test")
	cfg = Load()
	assert.True(t, cfg.Database.EnforceRLS)
	assert.Contains(t, cfg.Database.DSN(), "dbname=kudi_test")
	assert.False(t, cfg.VerificationDedup)
	assert.False(t, cfg.Database.SQLMigrations)
}

func TestDatabaseURLEscapesCredentials(t *testing.T) {
	c := DatabaseConfig{User: "kudi", Password: "p@ss word", Host: "db", Port: "5432", Name: "kudi", SSLMode: "disable"}
	assert.Equal(t, "postgres://kudi:p%40ss%20word@db:5432/kudi?sslmode=disable", c.URL())
}
