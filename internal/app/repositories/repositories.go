package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Unique constraints and indexes the repositories translate into domain errors.
const (
	constraintConnectionPair = "connections_pair_unique"
	constraintNotSelf        = "connections_not_self"
	constraintProfileEmail   = "profiles_email_key"
	constraintAccountEmail   = "accounts_email_key"
	constraintMessageSeq     = "messages_connection_seq_key"
)

// querier is satisfied by both db.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository    *ProfileRepository
	AccountRepository    *AccountRepository
	ConnectionRepository *ConnectionRepository
	MessageRepository    *MessageRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository:    NewProfileRepository(db),
		AccountRepository:    NewAccountRepository(db),
		ConnectionRepository: NewConnectionRepository(db),
		MessageRepository:    NewMessageRepository(db),
	}
}
