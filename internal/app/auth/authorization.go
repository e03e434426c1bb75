// Package auth decides whether a signed-in profile may act on a connection.
package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
)

// ConnectionReader loads a connection by id.
type ConnectionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Connection, error)
}

// AuthorizationService handles authorization operations
type AuthorizationService struct {
	connections ConnectionReader
	logger      zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(connections ConnectionReader, logger zerolog.Logger) *AuthorizationService {
	return &AuthorizationService{connections: connections, logger: logger}
}

func (s *AuthorizationService) load(ctx context.Context, connectionID uuid.UUID) (*models.Connection, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Connection not found")
		}
		s.logger.Error().Err(err).Str("connectionID", connectionID.String()).Msg("Error loading connection for authorization")
		return nil, err
	}
	return conn, nil
}

// RequireParty returns the connection if userID is its requester or receiver.
func (s *AuthorizationService) RequireParty(ctx context.Context, connectionID, userID uuid.UUID) (*models.Connection, error) {
	conn, err := s.load(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.Involves(userID) {
		return nil, apperrors.NewForbiddenError("You are not part of this connection")
	}
	return conn, nil
}

// RequireReceiver returns the connection if userID is the one it was sent to.
func (s *AuthorizationService) RequireReceiver(ctx context.Context, connectionID, userID uuid.UUID) (*models.Connection, error) {
	conn, err := s.load(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.ReceiverID != userID {
		return nil, apperrors.NewForbiddenError("Only the receiver can answer this request")
	}
	return conn, nil
}
