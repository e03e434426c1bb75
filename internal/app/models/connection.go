package models

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionStatus is the stored state of a connection request.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// IsValid reports whether s is one of the stored states.
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is an answer a receiver may give.
func (s ConnectionStatus) IsDecision() bool {
	return s == ConnectionAccepted || s == ConnectionRejected
}

// Connection links two profiles. At most one exists per unordered pair.
type Connection struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RequesterID uuid.UUID        `json:"requesterId" db:"requester_id"`
	ReceiverID  uuid.UUID        `json:"receiverId" db:"receiver_id"`
	Status      ConnectionStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}

// Involves reports whether userID is the requester or the receiver.
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}

// Other returns the party that is not userID.
func (c *Connection) Other(userID uuid.UUID) uuid.UUID {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}

// Links reports whether the connection joins a and b in either direction.
func (c *Connection) Links(a, b uuid.UUID) bool {
	return (c.RequesterID == a && c.ReceiverID == b) || (c.RequesterID == b && c.ReceiverID == a)
}

// RelationStatus is the relation between a viewer and another profile.
type RelationStatus string

const (
	RelationNone      RelationStatus = "none"
	RelationSent      RelationStatus = "sent"
	RelationReceived  RelationStatus = "received"
	RelationConnected RelationStatus = "connected"
	RelationRejected  RelationStatus = "rejected"
)

// ConnectionPartition splits a viewer's connections for display.
type ConnectionPartition struct {
	PendingReceived []Connection `json:"pendingReceived"`
	PendingSent     []Connection `json:"pendingSent"`
	Accepted        []Connection `json:"accepted"`
}

// ConnectionView is a connection together with the other party's profile.
type ConnectionView struct {
	Connection Connection `json:"connection"`
	Other      *Profile   `json:"other,omitempty"`
}

// ConnectionOverview is a ConnectionPartition with profiles attached.
type ConnectionOverview struct {
	PendingReceived []ConnectionView `json:"pendingReceived"`
	PendingSent     []ConnectionView `json:"pendingSent"`
	Accepted        []ConnectionView `json:"accepted"`
}
