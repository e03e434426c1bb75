package models

import (
	"time"

	"github.com/google/uuid"
)

// Account holds the login credential of a profile.
type Account struct {
	ProfileID    uuid.UUID `db:"profile_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
