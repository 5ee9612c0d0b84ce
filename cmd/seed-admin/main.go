package main

import (
	"context"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shipnix/shipnix-express/internal/config"
	"github.com/shipnix/shipnix-express/internal/database"
	"github.com/shipnix/shipnix-express/internal/models"
)

// Provisions an admin account directly in the database. Intended for
// bootstrapping a fresh deployment before any user has registered.
func main() {
	if len(os.Args) < 4 {
		log.Fatal("Usage: seed-admin <email> <password> <name>")
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	name := os.Args[3]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	query := `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
		RETURNING id`
	var id string
	if err := db.QueryRow(ctx, query, email, string(hash), name, models.RoleAdmin).Scan(&id); err != nil {
		log.Fatalf("failed to upsert admin: %v", err)
	}
	log.Printf("admin %s ready (id %s)", email, id)
}
