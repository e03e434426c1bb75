package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
)

// MessageStore exposes the message operations of a Store.
type MessageStore struct{ s *Store }

// Messages returns the message view of s.
func (s *Store) Messages() *MessageStore { return &MessageStore{s: s} }

// Append stores a message on an accepted connection with the next seq.
func (m *MessageStore) Append(ctx context.Context, connectionID, senderID uuid.UUID, content string) (*models.Message, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.connections[connectionID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if conn.Status != models.ConnectionAccepted {
		return nil, apperrors.ErrNotAccepted
	}

	conv := s.conversations[connectionID]
	createdAt := s.now()
	if createdAt.Before(conv.lastAt) {
		createdAt = conv.lastAt
	}
	msg := models.Message{
		ID:           uuid.New(),
		ConnectionID: connectionID,
		SenderID:     senderID,
		Content:      content,
		Seq:          int64(len(conv.messages)) + 1,
		CreatedAt:    createdAt,
	}
	conv.messages = append(conv.messages, msg)
	conv.lastAt = createdAt
	return &msg, nil
}

// ListByConnection returns messages with seq > afterSeq, at most limit of them.
func (m *MessageStore) ListByConnection(ctx context.Context, connectionID uuid.UUID, afterSeq int64, limit int) ([]models.Message, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[connectionID]
	if !ok {
		return []models.Message{}, nil
	}
	out := []models.Message{}
	for _, msg := range conv.messages {
		if msg.Seq <= afterSeq {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, msg)
	}
	return out, nil
}

// LastSeq returns the newest seq on a connection.
func (m *MessageStore) LastSeq(ctx context.Context, connectionID uuid.UUID) (int64, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[connectionID]
	if !ok {
		return 0, apperrors.ErrResourceNotFound
	}
	return int64(len(conv.messages)), nil
}
