package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/swiftbus/booking-backend/internal/config"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		dbURLFlag string
		email     string
		name      string
		password  string
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&email, "email", "admin@swiftbus.local", "Admin account email")
	flag.StringVar(&name, "name", "Admin", "Admin account display name")
	flag.StringVar(&password, "password", "", "Admin account password (or ADMIN_PASSWORD env)")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	// This avoids having to pass secrets on the command line.
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		log.Fatal("admin password is not set: pass -password or set ADMIN_PASSWORD")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := database.NewUserRepository(db)

	if existing, err := userRepo.GetByEmail(email); err == nil {
		fmt.Printf("Admin user already exists: %s (%s)\n", existing.Email, existing.ID)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("failed to check existing admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}

	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user created: %s (%s)\n", admin.Email, admin.ID)
}
