package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/db"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/dberrors"
)

const connectionColumns = "id, requester_id, receiver_id, status, created_at, updated_at"

// ConnectionRepository handles database operations for connections
type ConnectionRepository struct {
	db db.Pool
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(pool db.Pool) *ConnectionRepository {
	return &ConnectionRepository{db: pool}
}

// Create inserts a pending connection. The unordered-pair unique index makes
// this the only check for an existing connection between the two profiles.
func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	if conn.Status == "" {
		conn.Status = models.ConnectionPending
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO connections (id, requester_id, receiver_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		conn.ID, conn.RequesterID, conn.ReceiverID, conn.Status,
	).Scan(&conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintConnectionPair):
			return apperrors.ErrDuplicateConnection
		case dberrors.IsCheckConstraintError(err, constraintNotSelf):
			return apperrors.ErrBadRequest
		case dberrors.IsForeignKeyError(err):
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error creating connection: %w", err)
	}
	return nil
}

// GetByID retrieves a connection by its ID
func (r *ConnectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	conn, err := scanConnection(r.db.QueryRow(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving connection: %w", err)
	}
	return conn, nil
}

// GetByPair returns the connection between a and b in either direction.
func (r *ConnectionRepository) GetByPair(ctx context.Context, a, b uuid.UUID) (*models.Connection, error) {
	conn, err := scanConnection(r.db.QueryRow(ctx, `
		SELECT `+connectionColumns+` FROM connections
		WHERE LEAST(requester_id, receiver_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(requester_id, receiver_id) = GREATEST($1::uuid, $2::uuid)`, a, b))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving connection by pair: %w", err)
	}
	return conn, nil
}

// UpdateStatus moves a connection from one status to another in a single
// conditional update. ErrInvalidTransition means the stored status was not from.
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ConnectionStatus) (*models.Connection, error) {
	conn, err := scanConnection(r.db.QueryRow(ctx, `
		UPDATE connections SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+connectionColumns, id, from, to))
	if err == nil {
		return conn, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error updating connection status: %w", err)
	}
	return nil, r.explainMiss(ctx, id)
}

// Reopen turns a rejected connection back into a pending request from
// requesterID to receiverID.
func (r *ConnectionRepository) Reopen(ctx context.Context, id, requesterID, receiverID uuid.UUID) (*models.Connection, error) {
	conn, err := scanConnection(r.db.QueryRow(ctx, `
		UPDATE connections
		SET status = 'pending', requester_id = $2, receiver_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'rejected'
		RETURNING `+connectionColumns, id, requesterID, receiverID))
	if err == nil {
		return conn, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error reopening connection: %w", err)
	}
	return nil, r.explainMiss(ctx, id)
}

// explainMiss distinguishes a missing row from a failed status guard.
func (r *ConnectionRepository) explainMiss(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrInvalidTransition
}

// ListByUser returns every connection the user is part of, in insertion order.
func (r *ConnectionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	sql, args, err := squirrel.Select(connectionColumns).
		From("connections").
		Where(squirrel.Or{
			squirrel.Expr("requester_id = ?", userID),
			squirrel.Expr("receiver_id = ?", userID),
		}).
		OrderBy("created_at", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building connection list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing connections: %w", err)
	}
	defer rows.Close()

	connections := []models.Connection{}
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning connection: %w", err)
		}
		connections = append(connections, *conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}
	return connections, nil
}

func scanConnection(row pgx.Row) (*models.Connection, error) {
	var c models.Connection
	if err := row.Scan(&c.ID, &c.RequesterID, &c.ReceiverID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
