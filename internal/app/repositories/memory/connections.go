package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
)

// ConnectionStore exposes the connection operations of a Store. Its method
// names collide with the profile ones, so it is a separate view.
type ConnectionStore struct{ s *Store }

// Connections returns the connection view of s.
func (s *Store) Connections() *ConnectionStore { return &ConnectionStore{s: s} }

// Create inserts a connection unless the pair already has one.
func (c *ConnectionStore) Create(ctx context.Context, conn *models.Connection) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if conn.RequesterID == conn.ReceiverID {
		return apperrors.ErrBadRequest
	}
	if _, ok := s.profiles[conn.RequesterID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	if _, ok := s.profiles[conn.ReceiverID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	key := keyFor(conn.RequesterID, conn.ReceiverID)
	if _, exists := s.pairs[key]; exists {
		return apperrors.ErrDuplicateConnection
	}

	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	if conn.Status == "" {
		conn.Status = models.ConnectionPending
	}
	now := s.now()
	conn.CreatedAt, conn.UpdatedAt = now, now

	s.connections[conn.ID] = *conn
	s.connOrder = append(s.connOrder, conn.ID)
	s.pairs[key] = conn.ID
	s.conversations[conn.ID] = &conversation{}
	return nil
}

// GetByID returns a copy of the connection.
func (c *ConnectionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.connections[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return &conn, nil
}

// GetByPair returns the connection between a and b in either direction.
func (c *ConnectionStore) GetByPair(ctx context.Context, a, b uuid.UUID) (*models.Connection, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.pairs[keyFor(a, b)]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	conn := s.connections[id]
	return &conn, nil
}

// UpdateStatus is a compare-and-swap on the status.
func (c *ConnectionStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ConnectionStatus) (*models.Connection, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.connections[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if conn.Status != from {
		return nil, apperrors.ErrInvalidTransition
	}
	conn.Status = to
	conn.UpdatedAt = s.now()
	s.connections[id] = conn
	return &conn, nil
}

// Reopen turns a rejected connection into a pending request in the given direction.
func (c *ConnectionStore) Reopen(ctx context.Context, id, requesterID, receiverID uuid.UUID) (*models.Connection, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.connections[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if conn.Status != models.ConnectionRejected || !conn.Links(requesterID, receiverID) {
		return nil, apperrors.ErrInvalidTransition
	}
	conn.Status = models.ConnectionPending
	conn.RequesterID, conn.ReceiverID = requesterID, receiverID
	conn.UpdatedAt = s.now()
	s.connections[id] = conn
	return &conn, nil
}

// ListByUser returns the user's connections in insertion order.
func (c *ConnectionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Connection{}
	for _, id := range s.connOrder {
		if conn := s.connections[id]; conn.Involves(userID) {
			out = append(out, conn)
		}
	}
	return out, nil
}
