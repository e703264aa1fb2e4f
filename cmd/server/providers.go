// File: cmd/server/providers.go
package main

import (
	"log"
	"time"

	"fintrack_backend/internal/auth"
	"fintrack_backend/internal/config"
	"fintrack_backend/internal/platform/database"
	"fintrack_backend/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}

// provideBlocklistConfig sizes the in-memory JTI blocklist. Entries only
// need to outlive the access tokens they revoke.
func provideBlocklistConfig(cfg *config.Config) auth.InMemoryBlocklistConfig {
	return auth.InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTAccessTokenExpiry,
		CleanupInterval:   10 * time.Minute,
	}
}

func provideRefreshTokenStore(repo user.Repository) auth.RefreshTokenStore {
	return repo
}
