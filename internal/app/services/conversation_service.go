package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/auth"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/helpers"
	"github.com/yigit/skillswap/internal/pkg/metrics"
	"github.com/yigit/skillswap/internal/pkg/realtime"
)

// DefaultMaxMessageLength bounds message content, in runes.
const DefaultMaxMessageLength = 4000

// ConversationService stores and streams the messages of accepted connections.
type ConversationService struct {
	messages         MessageStore
	authz            *auth.AuthorizationService
	bus              realtime.Bus
	maxMessageLength int
	logger           zerolog.Logger
}

// NewConversationService creates a new ConversationService
func NewConversationService(messages MessageStore, authz *auth.AuthorizationService, bus realtime.Bus, maxMessageLength int, logger zerolog.Logger) *ConversationService {
	if maxMessageLength <= 0 {
		maxMessageLength = DefaultMaxMessageLength
	}
	return &ConversationService{
		messages:         messages,
		authz:            authz,
		bus:              bus,
		maxMessageLength: maxMessageLength,
		logger:           logger,
	}
}

// Load returns the full history of a connection, oldest first.
func (s *ConversationService) Load(ctx context.Context, actorID, connectionID uuid.UUID) ([]models.Message, error) {
	return s.LoadPage(ctx, actorID, connectionID, 0, 0)
}

// LoadPage returns up to limit messages with seq > afterSeq, oldest first.
// A limit of 0 means no limit.
func (s *ConversationService) LoadPage(ctx context.Context, actorID, connectionID uuid.UUID, afterSeq int64, limit int) ([]models.Message, error) {
	if _, err := s.authz.RequireParty(ctx, connectionID, actorID); err != nil {
		return nil, err
	}
	if limit != 0 {
		limit = helpers.ClampLimit(limit)
	}

	msgs, err := s.messages.ListByConnection(ctx, connectionID, afterSeq, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("connectionID", connectionID.String()).Msg("Failed to load messages")
		return nil, err
	}
	return msgs, nil
}

// Append stores a message from senderID and publishes it to live subscribers.
func (s *ConversationService) Append(ctx context.Context, connectionID, senderID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrEmptyContent, "Message cannot be empty")
	}
	if utf8.RuneCountInString(content) > s.maxMessageLength {
		return nil, apperrors.NewBadRequestError("Message is too long")
	}

	if _, err := s.authz.RequireParty(ctx, connectionID, senderID); err != nil {
		return nil, err
	}

	msg, err := s.messages.Append(ctx, connectionID, senderID, content)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotAccepted):
			return nil, apperrors.NewCustomError(apperrors.ErrNotAccepted, "You can only message accepted connections")
		case errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, apperrors.NewResourceNotFoundError("Connection not found")
		}
		s.logger.Error().Err(err).Str("connectionID", connectionID.String()).Msg("Failed to append message")
		return nil, err
	}
	metrics.MessagesAppended.Inc()

	s.publish(ctx, msg)
	return msg, nil
}

// publish is best effort: the message is already durable and subscribers
// recover a lost publication from the store on the next gap.
func (s *ConversationService) publish(ctx context.Context, msg *models.Message) {
	payload, err := json.Marshal(msg)
	if err == nil {
		err = s.bus.Publish(context.WithoutCancel(ctx), realtime.ConversationTopic(msg.ConnectionID), payload)
	}
	if err != nil {
		metrics.PublishFailures.Inc()
		s.logger.Warn().Err(err).
			Str("connectionID", msg.ConnectionID.String()).
			Int64("seq", msg.Seq).
			Msg("Failed to publish message")
	}
}

// Subscribe follows new messages of an accepted connection. Every message
// appended after the subscription's baseline reaches handler exactly once,
// in seq order, until Close.
func (s *ConversationService) Subscribe(ctx context.Context, actorID, connectionID uuid.UUID, handler MessageHandler) (*Subscription, error) {
	conn, err := s.authz.RequireParty(ctx, connectionID, actorID)
	if err != nil {
		return nil, err
	}
	if conn.Status != models.ConnectionAccepted {
		return nil, apperrors.NewCustomError(apperrors.ErrNotAccepted, "You can only chat on accepted connections")
	}

	baseline, err := s.messages.LastSeq(ctx, connectionID)
	if err != nil {
		return nil, wrapNotFound(err, "Connection not found")
	}

	sub := newSubscription(connectionID, baseline, s.messages, handler,
		s.logger.With().Str("connectionID", connectionID.String()).Str("subscriberID", actorID.String()).Logger())

	unsubscribe, err := s.bus.Subscribe(realtime.ConversationTopic(connectionID), sub.onPayload)
	if err != nil {
		sub.cancel()
		return nil, err
	}
	sub.unsubscribe = unsubscribe
	metrics.LiveSubscriptions.Inc()

	go sub.run()
	return sub, nil
}
