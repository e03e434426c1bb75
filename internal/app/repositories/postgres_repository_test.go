package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
)

var connectionCols = []string{"id", "requester_id", "receiver_id", "status", "created_at", "updated_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestConnectionCreateMapsConstraintErrors(t *testing.T) {
	tests := []struct {
		name  string
		pgErr *pgconn.PgError
		want  error
	}{
		{"pair exists", &pgconn.PgError{Code: "23505", ConstraintName: constraintConnectionPair}, apperrors.ErrDuplicateConnection},
		{"self request", &pgconn.PgError{Code: "23514", ConstraintName: constraintNotSelf}, apperrors.ErrBadRequest},
		{"unknown profile", &pgconn.PgError{Code: "23503"}, apperrors.ErrResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			mock.ExpectQuery(`INSERT INTO connections`).WillReturnError(tt.pgErr)

			repo := NewConnectionRepository(mock)
			err := repo.Create(context.Background(), &models.Connection{RequesterID: uuid.New(), ReceiverID: uuid.New()})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConnectionCreateFillsDefaults(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO connections`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	conn := &models.Connection{RequesterID: uuid.New(), ReceiverID: uuid.New()}
	require.NoError(t, NewConnectionRepository(mock).Create(context.Background(), conn))
	assert.NotEqual(t, uuid.Nil, conn.ID)
	assert.Equal(t, models.ConnectionPending, conn.Status)
	assert.Equal(t, now, conn.CreatedAt)
}

func TestConnectionUpdateStatus(t *testing.T) {
	id, requester, receiver := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	t.Run("applied", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE connections SET status`).
			WillReturnRows(pgxmock.NewRows(connectionCols).
				AddRow(id, requester, receiver, models.ConnectionAccepted, now, now))

		conn, err := NewConnectionRepository(mock).UpdateStatus(context.Background(), id, models.ConnectionPending, models.ConnectionAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionAccepted, conn.Status)
	})

	t.Run("already answered", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE connections SET status`).WillReturnRows(pgxmock.NewRows(connectionCols))
		mock.ExpectQuery(`FROM connections WHERE id = \$1`).
			WillReturnRows(pgxmock.NewRows(connectionCols).
				AddRow(id, requester, receiver, models.ConnectionRejected, now, now))

		_, err := NewConnectionRepository(mock).UpdateStatus(context.Background(), id, models.ConnectionPending, models.ConnectionAccepted)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE connections SET status`).WillReturnRows(pgxmock.NewRows(connectionCols))
		mock.ExpectQuery(`FROM connections WHERE id = \$1`).WillReturnRows(pgxmock.NewRows(connectionCols))

		_, err := NewConnectionRepository(mock).UpdateStatus(context.Background(), id, models.ConnectionPending, models.ConnectionAccepted)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestConnectionReopen(t *testing.T) {
	id, requester, receiver := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	t.Run("rejected pair", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE connections\s+SET status = 'pending'`).
			WithArgs(id, receiver, requester).
			WillReturnRows(pgxmock.NewRows(connectionCols).
				AddRow(id, receiver, requester, models.ConnectionPending, now, now))

		conn, err := NewConnectionRepository(mock).Reopen(context.Background(), id, receiver, requester)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionPending, conn.Status)
		assert.Equal(t, receiver, conn.RequesterID)
	})

	t.Run("not rejected", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE connections\s+SET status = 'pending'`).WillReturnRows(pgxmock.NewRows(connectionCols))
		mock.ExpectQuery(`FROM connections WHERE id = \$1`).
			WillReturnRows(pgxmock.NewRows(connectionCols).
				AddRow(id, requester, receiver, models.ConnectionPending, now, now))

		_, err := NewConnectionRepository(mock).Reopen(context.Background(), id, receiver, requester)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestMessageAppend(t *testing.T) {
	connID, sender := uuid.New(), uuid.New()
	now := time.Now()
	seqCols := []string{"last_message_seq", "last_message_at"}

	t.Run("reserves the next seq", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SET last_message_seq = last_message_seq \+ 1`).
			WithArgs(connID).
			WillReturnRows(pgxmock.NewRows(seqCols).AddRow(int64(3), now))
		mock.ExpectExec(`INSERT INTO messages`).
			WithArgs(pgxmock.AnyArg(), connID, sender, "hi", int64(3), now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		msg, err := NewMessageRepository(mock).Append(context.Background(), connID, sender, "hi")
		require.NoError(t, err)
		assert.Equal(t, int64(3), msg.Seq)
		assert.Equal(t, "hi", msg.Content)
		assert.True(t, msg.CreatedAt.Equal(now))
	})

	t.Run("connection not accepted", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SET last_message_seq`).WillReturnRows(pgxmock.NewRows(seqCols))
		mock.ExpectQuery(`SELECT status FROM connections`).
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.ConnectionPending))
		mock.ExpectRollback()

		_, err := NewMessageRepository(mock).Append(context.Background(), connID, sender, "hi")
		assert.ErrorIs(t, err, apperrors.ErrNotAccepted)
	})

	t.Run("connection missing", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SET last_message_seq`).WillReturnRows(pgxmock.NewRows(seqCols))
		mock.ExpectQuery(`SELECT status FROM connections`).WillReturnRows(pgxmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		_, err := NewMessageRepository(mock).Append(context.Background(), connID, sender, "hi")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("seq already used", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SET last_message_seq`).WillReturnRows(pgxmock.NewRows(seqCols).AddRow(int64(4), now))
		mock.ExpectExec(`INSERT INTO messages`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraintMessageSeq})
		mock.ExpectRollback()

		_, err := NewMessageRepository(mock).Append(context.Background(), connID, sender, "hi")
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}
