// Command identity_seed creates a demo identity, optionally with a custom
// balance and verification state.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"kudi/internal/config"
	apperrors "kudi/internal/errors"
	"kudi/internal/repositories"
	"kudi/internal/services/auth"

	"github.com/shopspring/decimal"
)

func main() {
	balance := flag.String("balance", "", "set the profile balance, e.g. 250000.00")
	verified := flag.Bool("verified", false, "mark the profile verified and paid")
	reset := flag.Bool("reset", false, "drop and recreate every table first")
	flag.Parse()

	config.LoadEnv()
	cfg := config.Load()

	phone := os.Getenv("SEED_PHONE")
	password := os.Getenv("SEED_PASSWORD")
	if phone == "" || password == "" {
		log.Fatal("SEED_PHONE and SEED_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close database connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	if *reset {
		if err := repositories.ResetDatabase(repositories.DB, cfg.Database); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
		log.Println("✅ Database reset")
	}

	ctx := context.Background()
	identityRepo := repositories.NewIdentityRepository(repositories.DB, repositories.CacheService)
	authService := auth.NewService(identityRepo)

	identity, _, err := authService.Register(ctx, auth.RegisterInput{
		Phone:    phone,
		Email:    os.Getenv("SEED_EMAIL"),
		Password: password,
		FullName: os.Getenv("SEED_FULL_NAME"),
	})
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		log.Println("Identity already exists")
		if identity, err = identityRepo.GetByPhone(ctx, phone); err != nil {
			log.Fatalf("Failed to load identity: %v", err)
		}
	case err != nil:
		log.Fatalf("Failed to create identity: %v", err)
	default:
		log.Printf("✅ Identity %s created", identity.ID)
	}

	profiles := repositories.NewProfileRepository(repositories.DB)
	if *balance != "" {
		amount, err := decimal.NewFromString(*balance)
		if err != nil {
			log.Fatalf("Invalid balance %q: %v", *balance, err)
		}
		if err := profiles.SetBalance(ctx, identity.ID, amount); err != nil {
			log.Fatalf("Failed to set balance: %v", err)
		}
		log.Printf("✅ Balance set to %s", amount.StringFixed(2))
	}
	if *verified {
		if err := profiles.SetVerification(ctx, identity.ID, true, true); err != nil {
			log.Fatalf("Failed to set verification: %v", err)
		}
		log.Println("✅ Profile marked verified")
	}
}
