package main

import (
	"log"

	"vidstream/internal/database"
	"vidstream/internal/domain"
	"vidstream/internal/pkg/password"
)

// Seeds a local database with demo accounts. Development only.
func main() {
	db, err := database.Connect("vidstream.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM watch_history")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	demo := []struct {
		username, email, fullName, plain string
	}{
		{"alice", "alice@example.com", "Alice Anderson", "alice123"},
		{"bob", "bob@example.com", "Bob Brown", "bob12345"},
	}

	for _, d := range demo {
		hash, err := password.Hash(d.plain)
		if err != nil {
			log.Fatal(err)
		}
		u := domain.User{
			Username:     d.username,
			Email:        d.email,
			FullName:     d.fullName,
			PasswordHash: hash,
			AvatarURL:    "http://localhost:9000/vidstream-media/seed-avatar.png",
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatal("seed user failed:", err)
		}
		log.Printf("created %s (id=%d)", u.Username, u.ID)
	}

	log.Println("Seed complete")
}
