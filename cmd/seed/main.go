// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev trainer (trainer@example.com) already exists.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"trainerhub/backend/internal/config"
	"trainerhub/backend/internal/db"
)

type seedUser struct {
	id    string
	email string
	role  string
}

var seedUsers = []seedUser{
	{"dev-admin-001", "admin@example.com", "admin"},
	{"dev-trainer-001", "trainer@example.com", "trainer"},
	{"dev-client-001", "client@example.com", "client"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("seed: DATABASE_URL is required")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("seed: database connect: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing string
	err = database.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, "trainer@example.com").Scan(&existing)
	if err == nil {
		log.Println("seed: dev users already present, nothing to do")
		return
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed: check existing: %v", err)
	}

	for _, u := range seedUsers {
		if _, err := database.ExecContext(ctx, `
			INSERT INTO users (id, email, role, is_active, created_at)
			VALUES ($1, $2, $3, TRUE, now())
			ON CONFLICT (id) DO NOTHING`,
			u.id, u.email, u.role,
		); err != nil {
			log.Fatalf("seed: insert user %s: %v", u.email, err)
		}
	}
	log.Printf("seed: inserted %d dev users", len(seedUsers))
}
