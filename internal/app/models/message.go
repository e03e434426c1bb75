package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is an immutable chat message on an accepted connection. Seq is
// gap-free and strictly increasing per connection, starting at 1.
type Message struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ConnectionID uuid.UUID `json:"connectionId" db:"connection_id"`
	SenderID     uuid.UUID `json:"senderId" db:"sender_id"`
	Content      string    `json:"content" db:"content"`
	Seq          int64     `json:"seq" db:"seq"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
