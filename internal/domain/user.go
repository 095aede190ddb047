package domain

import (
	"context"
	"time"
)

// User represents a registered company account. Every other record is scoped to a user.
type User struct {
	ID            string    `json:"id" bson:"id" db:"id"`
	FullName      string    `json:"full_name" bson:"full_name" db:"full_name"`
	PhoneNumber   string    `json:"phone_number" bson:"phone_number" db:"phone_number"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty" db:"email"`
	CompanyName   string    `json:"company_name" bson:"company_name" db:"company_name"`
	CompanyNumber string    `json:"company_number" bson:"company_number" db:"company_number"`
	Username      string    `json:"username" bson:"username" db:"username"`
	PasswordHash  string    `json:"password_hash" bson:"password_hash" db:"password_hash"` // bcrypt, never sent to clients
	CreatedAt     time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// UserRepository defines data access for users
type UserRepository interface {
	// Create stores a new user. It returns ErrConflict when the username or
	// non-empty email is already registered.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByLogin matches identifier against username first, then email.
	GetByLogin(ctx context.Context, identifier string) (*User, error)
	// Exists reports whether username, or email when non-empty, is taken.
	Exists(ctx context.Context, username, email string) (bool, error)
}
