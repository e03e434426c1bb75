package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/skillswap/internal/app/models"
)

// Services defined in this package:
// - AuthService: registration and login
// - ProfileService: reading and editing profiles
// - MatchService: ranked matches, recomputed on every call
// - ConnectionService: connection requests and their answers
// - ConversationService: messages on accepted connections and live subscriptions
// - CampusService: the campus map
// - DashboardService: the signed-in summary

// ProfileStore persists profiles. Missing rows are reported as apperrors.ErrResourceNotFound.
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.Profile, error)
}

// AccountStore persists login credentials.
type AccountStore interface {
	// CreateAccount stores the profile and its credential atomically.
	CreateAccount(ctx context.Context, profile *models.Profile, passwordHash string) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// ConnectionStore persists connections.
//
// Create fails with apperrors.ErrDuplicateConnection when any connection
// already links the pair. UpdateStatus and Reopen are compare-and-swap
// operations failing with apperrors.ErrInvalidTransition when the stored
// status is not the expected one.
type ConnectionStore interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Connection, error)
	GetByPair(ctx context.Context, a, b uuid.UUID) (*models.Connection, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ConnectionStatus) (*models.Connection, error)
	Reopen(ctx context.Context, id, requesterID, receiverID uuid.UUID) (*models.Connection, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Connection, error)
}

// MessageStore persists conversation messages.
//
// Append serialises appends per connection, assigns the next seq and
// fails with apperrors.ErrNotAccepted unless the connection is accepted,
// all in one atomic step.
type MessageStore interface {
	Append(ctx context.Context, connectionID, senderID uuid.UUID, content string) (*models.Message, error)
	ListByConnection(ctx context.Context, connectionID uuid.UUID, afterSeq int64, limit int) ([]models.Message, error)
	LastSeq(ctx context.Context, connectionID uuid.UUID) (int64, error)
}
