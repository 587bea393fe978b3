package main

import (
	"context"
	"log"
	"os"
	"time"

	"vidstream/internal/database"
	"vidstream/internal/domain"
	"vidstream/internal/pkg/token"
	"vidstream/internal/repository"
)

// Clears persisted refresh tokens that no longer verify (expired or
// signed with a rotated secret). Meant to run from cron.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	refreshSecret := os.Getenv("REFRESH_TOKEN_SECRET")
	if refreshSecret == "" {
		log.Fatal("REFRESH_TOKEN_SECRET is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	tokens := token.NewManager("", refreshSecret, time.Minute, time.Minute)
	users := repository.NewUserRepository(db)

	var stale []domain.User
	if err := db.Where("refresh_token IS NOT NULL").Find(&stale).Error; err != nil {
		log.Fatalf("load users failed: %v", err)
	}

	ctx := context.Background()
	cleared := 0
	for _, u := range stale {
		if _, err := tokens.VerifyRefresh(*u.RefreshToken); err == nil {
			continue
		}
		if err := users.SetRefreshToken(ctx, u.ID, nil); err != nil {
			log.Fatalf("clear token for user %d failed: %v", u.ID, err)
		}
		cleared++
	}

	log.Printf("session cleanup completed: checked=%d cleared=%d", len(stale), cleared)
}
