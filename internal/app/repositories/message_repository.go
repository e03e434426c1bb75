package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/db"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/dberrors"
)

// MessageRepository handles database operations for conversation messages
type MessageRepository struct {
	db db.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pool db.Pool) *MessageRepository {
	return &MessageRepository{db: pool}
}

// Append stores a message on an accepted connection. Bumping the
// connection's counter locks its row, so appends to one connection are
// serialised, get consecutive seq values and non-decreasing timestamps,
// and the accepted check cannot race a status change.
func (r *MessageRepository) Append(ctx context.Context, connectionID, senderID uuid.UUID, content string) (*models.Message, error) {
	msg := &models.Message{
		ID:           uuid.New(),
		ConnectionID: connectionID,
		SenderID:     senderID,
		Content:      content,
	}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE connections
			SET last_message_seq = last_message_seq + 1,
			    last_message_at = GREATEST(clock_timestamp(), COALESCE(last_message_at, '-infinity'::timestamptz))
			WHERE id = $1 AND status = 'accepted'
			RETURNING last_message_seq, last_message_at`,
			connectionID,
		).Scan(&msg.Seq, &msg.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.explainAppendMiss(ctx, tx, connectionID)
			}
			return fmt.Errorf("error reserving message sequence: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO messages (id, connection_id, sender_id, content, seq, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			msg.ID, msg.ConnectionID, msg.SenderID, msg.Content, msg.Seq, msg.CreatedAt,
		)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintMessageSeq) {
				return fmt.Errorf("message sequence %d already used: %w", msg.Seq, apperrors.ErrConflict)
			}
			return fmt.Errorf("error inserting message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}

func (r *MessageRepository) explainAppendMiss(ctx context.Context, tx pgx.Tx, connectionID uuid.UUID) error {
	var status models.ConnectionStatus
	err := tx.QueryRow(ctx, `SELECT status FROM connections WHERE id = $1`, connectionID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error checking connection status: %w", err)
	}
	return apperrors.ErrNotAccepted
}

// ListByConnection returns messages with seq > afterSeq in (created_at, seq)
// order, at most limit of them.
func (r *MessageRepository) ListByConnection(ctx context.Context, connectionID uuid.UUID, afterSeq int64, limit int) ([]models.Message, error) {
	builder := squirrel.Select("id", "connection_id", "sender_id", "content", "seq", "created_at").
		From("messages").
		Where("connection_id = ?", connectionID).
		OrderBy("created_at", "seq").
		PlaceholderFormat(squirrel.Dollar)

	if afterSeq > 0 {
		builder = builder.Where("seq > ?", afterSeq)
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building message query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		var createdAt time.Time
		if err := rows.Scan(&m.ID, &m.ConnectionID, &m.SenderID, &m.Content, &m.Seq, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		m.CreatedAt = createdAt.UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

// LastSeq returns the seq of the newest message on a connection, 0 if none.
func (r *MessageRepository) LastSeq(ctx context.Context, connectionID uuid.UUID) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `SELECT last_message_seq FROM connections WHERE id = $1`, connectionID).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrResourceNotFound
		}
		return 0, fmt.Errorf("error reading last message sequence: %w", err)
	}
	return seq, nil
}
