package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.IsAdmin,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, is_admin, created_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, is_admin, created_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *UserRepository) scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var phone sql.NullString

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&phone, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		user.Phone = &phone.String
	}

	return user, nil
}
