package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("Invalid %s, using default: %s", key, defaultVal)
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// RefreshSecret returns REFRESH_SECRET, falling back to JWT_SECRET.
func RefreshSecret() string {
	return GetEnv("REFRESH_SECRET", GetEnv("JWT_SECRET", ""))
}

// DatabaseConfig holds the relational store settings.
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	EnforceRLS      bool
	SQLMigrations   bool // run the embedded SQL migrations instead of AutoMigrate
}

// DSN builds the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}

// URL builds the postgres connection URL used by the SQL migrator.
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig holds the cache connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Config aggregates every setting the server needs.
type Config struct {
	Port              string
	Database          DatabaseConfig
	Redis             RedisConfig
	JWTSecret         string
	RefreshSecret     string
	AMQPURL           string
	CORSOrigins       string
	VerificationDedup bool
}

// Load reads the configuration from the environment.
func Load() Config {
	driver := GetEnv("DB_DRIVER", "postgres")
	return Config{
		Port: GetEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Driver:          driver,
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "kudi"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			SQLitePath:      GetEnv("DB_SQLITE_PATH", "kudi.db"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
			EnforceRLS:      GetBoolEnv("DB_ENFORCE_RLS", driver == "postgres"),
			SQLMigrations:   GetBoolEnv("DB_SQL_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		JWTSecret:         GetEnv("JWT_SECRET", ""),
		RefreshSecret:     RefreshSecret(),
		AMQPURL:           GetEnv("AMQP_URL", ""),
		CORSOrigins:       GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		VerificationDedup: GetBoolEnv("VERIFICATION_DEDUP", false),
	}
}
