package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/auth"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/config"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/metrics"
)

// ConnectionService manages connection requests between profiles.
//
// A pair of profiles has at most one connection whatever its direction.
// A pending connection is answered once by its receiver; accepted and
// rejected are final unless the reopen policy lets a rejected pair ask again.
type ConnectionService struct {
	connections ConnectionStore
	profiles    ProfileStore
	authz       *auth.AuthorizationService
	policy      string
	logger      zerolog.Logger
}

// NewConnectionService creates a new ConnectionService. policy is one of
// config.ReRequestBlocked or config.ReRequestReopen.
func NewConnectionService(connections ConnectionStore, profiles ProfileStore, authz *auth.AuthorizationService, policy string, logger zerolog.Logger) *ConnectionService {
	if policy != config.ReRequestReopen {
		policy = config.ReRequestBlocked
	}
	return &ConnectionService{
		connections: connections,
		profiles:    profiles,
		authz:       authz,
		policy:      policy,
		logger:      logger,
	}
}

// SendRequest creates a pending connection from requesterID to receiverID.
func (s *ConnectionService) SendRequest(ctx context.Context, requesterID, receiverID uuid.UUID) (*models.Connection, error) {
	if requesterID == receiverID {
		metrics.ConnectionRequests.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, apperrors.NewBadRequestError("You cannot connect with yourself")
	}

	if _, err := s.profiles.GetByID(ctx, receiverID); err != nil {
		return nil, wrapNotFound(err, "Student not found")
	}

	conn := &models.Connection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionPending,
	}
	err := s.connections.Create(ctx, conn)
	switch {
	case err == nil:
		metrics.ConnectionRequests.WithLabelValues(metrics.ResultOK).Inc()
		s.logger.Info().
			Str("connectionID", conn.ID.String()).
			Str("requesterID", requesterID.String()).
			Str("receiverID", receiverID.String()).
			Msg("Connection requested")
		return conn, nil
	case errors.Is(err, apperrors.ErrDuplicateConnection):
		if s.policy == config.ReRequestReopen {
			return s.reopen(ctx, requesterID, receiverID)
		}
		metrics.ConnectionRequests.WithLabelValues(metrics.ResultConflict).Inc()
		return nil, apperrors.NewCustomError(apperrors.ErrDuplicateConnection, "Connection already exists")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, apperrors.NewResourceNotFoundError("Student not found")
	case errors.Is(err, apperrors.ErrBadRequest):
		return nil, apperrors.NewBadRequestError("You cannot connect with yourself")
	default:
		metrics.ConnectionRequests.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error().Err(err).Msg("Failed to create connection")
		return nil, err
	}
}

// reopen turns the pair's rejected connection into a new pending request.
// Only a rejected connection can be reopened; anything else stays a duplicate.
func (s *ConnectionService) reopen(ctx context.Context, requesterID, receiverID uuid.UUID) (*models.Connection, error) {
	duplicate := apperrors.NewCustomError(apperrors.ErrDuplicateConnection, "Connection already exists")

	existing, err := s.connections.GetByPair(ctx, requesterID, receiverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			// Deleted between the insert and the lookup.
			return nil, duplicate
		}
		return nil, err
	}
	if existing.Status != models.ConnectionRejected {
		metrics.ConnectionRequests.WithLabelValues(metrics.ResultConflict).Inc()
		return nil, duplicate
	}

	conn, err := s.connections.Reopen(ctx, existing.ID, requesterID, receiverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			metrics.ConnectionRequests.WithLabelValues(metrics.ResultConflict).Inc()
			return nil, duplicate
		}
		return nil, err
	}

	metrics.ConnectionRequests.WithLabelValues(metrics.ResultOK).Inc()
	s.logger.Info().Str("connectionID", conn.ID.String()).Msg("Rejected connection reopened")
	return conn, nil
}

// Respond records the receiver's decision on a pending request.
func (s *ConnectionService) Respond(ctx context.Context, actorID, connectionID uuid.UUID, decision models.ConnectionStatus) (*models.Connection, error) {
	if !decision.IsDecision() {
		return nil, apperrors.NewBadRequestError("Decision must be accepted or rejected")
	}
	label := string(decision)

	if _, err := s.authz.RequireReceiver(ctx, connectionID, actorID); err != nil {
		metrics.ConnectionResponses.WithLabelValues(label, metrics.ResultRejected).Inc()
		return nil, err
	}

	conn, err := s.connections.UpdateStatus(ctx, connectionID, models.ConnectionPending, decision)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			metrics.ConnectionResponses.WithLabelValues(label, metrics.ResultConflict).Inc()
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition, "This request has already been answered")
		}
		metrics.ConnectionResponses.WithLabelValues(label, metrics.ResultError).Inc()
		return nil, wrapNotFound(err, "Connection not found")
	}

	metrics.ConnectionResponses.WithLabelValues(label, metrics.ResultOK).Inc()
	s.logger.Info().
		Str("connectionID", connectionID.String()).
		Str("decision", label).
		Msg("Connection request answered")
	return conn, nil
}

// ListFor returns every connection the user takes part in, oldest first.
func (s *ConnectionService) ListFor(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	conns, err := s.connections.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", userID.String()).Msg("Failed to list connections")
		return nil, err
	}
	return conns, nil
}

// StatusFor reports how userID relates to otherID, with the connection if any.
func (s *ConnectionService) StatusFor(ctx context.Context, userID, otherID uuid.UUID) (models.RelationStatus, *models.Connection, error) {
	conns, err := s.ListFor(ctx, userID)
	if err != nil {
		return models.RelationNone, nil, err
	}
	status, conn := RelationBetween(userID, otherID, conns)
	return status, conn, nil
}

// RelationBetween is the pure lookup behind StatusFor.
func RelationBetween(userID, otherID uuid.UUID, conns []models.Connection) (models.RelationStatus, *models.Connection) {
	for i := range conns {
		c := conns[i]
		if !c.Links(userID, otherID) {
			continue
		}
		switch c.Status {
		case models.ConnectionAccepted:
			return models.RelationConnected, &c
		case models.ConnectionRejected:
			return models.RelationRejected, &c
		default:
			if c.RequesterID == userID {
				return models.RelationSent, &c
			}
			return models.RelationReceived, &c
		}
	}
	return models.RelationNone, nil
}

// Partition splits connections into received requests, sent requests and
// accepted connections as seen by userID. A connection appears at most once.
// Rejected connections and ones userID is not part of are left out.
func Partition(userID uuid.UUID, conns []models.Connection) models.ConnectionPartition {
	part := models.ConnectionPartition{
		PendingReceived: []models.Connection{},
		PendingSent:     []models.Connection{},
		Accepted:        []models.Connection{},
	}
	seen := make(map[uuid.UUID]struct{}, len(conns))

	for _, c := range conns {
		if _, dup := seen[c.ID]; dup || !c.Involves(userID) {
			continue
		}
		seen[c.ID] = struct{}{}

		switch {
		case c.Status == models.ConnectionAccepted:
			part.Accepted = append(part.Accepted, c)
		case c.Status == models.ConnectionPending && c.ReceiverID == userID:
			part.PendingReceived = append(part.PendingReceived, c)
		case c.Status == models.ConnectionPending && c.RequesterID == userID:
			part.PendingSent = append(part.PendingSent, c)
		}
	}
	return part
}

// Overview is the user's partition with the other party's profile attached
// to every connection. It is built from a fresh read on every call.
func (s *ConnectionService) Overview(ctx context.Context, userID uuid.UUID) (*models.ConnectionOverview, error) {
	conns, err := s.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	part := Partition(userID, conns)

	others := make([]uuid.UUID, 0, len(conns))
	for _, c := range conns {
		others = append(others, c.Other(userID))
	}
	profiles, err := s.profiles.ListByIDs(ctx, others)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load connection profiles")
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	view := func(list []models.Connection) []models.ConnectionView {
		out := make([]models.ConnectionView, 0, len(list))
		for _, c := range list {
			v := models.ConnectionView{Connection: c}
			if p, ok := byID[c.Other(userID)]; ok {
				v.Other = &p
			}
			out = append(out, v)
		}
		return out
	}

	return &models.ConnectionOverview{
		PendingReceived: view(part.PendingReceived),
		PendingSent:     view(part.PendingSent),
		Accepted:        view(part.Accepted),
	}, nil
}
