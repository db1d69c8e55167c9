package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered dashboard account. Only the bcrypt hash of the
// password is stored.
type User struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	Email        string    `db:"email"         json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name"  json:"display_name"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// Session is an opaque bearer token tied to a user. Raw tokens are shown once
// at login; lookups go by token value and check expiry.
type Session struct {
	Token     string    `db:"token"      json:"token"`
	UserID    uuid.UUID `db:"user_id"    json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
