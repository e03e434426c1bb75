package websocket

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/app/models/dto"
	"github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/middleware"
)

// Conversations is the chat surface a socket needs.
type Conversations interface {
	Subscribe(ctx context.Context, actorID, connectionID uuid.UUID, handler services.MessageHandler) (*services.Subscription, error)
	Append(ctx context.Context, connectionID, senderID uuid.UUID, content string) (*models.Message, error)
}

// handleFrame stores a message sent over the socket. The sender sees it
// come back through its own subscription, like every other message.
func (c *Client) handleFrame(ctx context.Context, raw []byte) {
	raw = bytes.TrimSpace(raw)

	var frame dto.WSClientMessage
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to unmarshal client frame")
		c.pushError(dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid frame"))
		return
	}

	switch frame.Type {
	case dto.WSTypeMessage:
		if _, err := c.chat.Append(ctx, c.connectionID, c.userID, frame.Content); err != nil {
			_, detail := middleware.MapError(err)
			c.pushError(detail)
		}
	default:
		c.pushError(dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Unknown frame type").WithDetails(frame.Type))
	}
}

// pushMessage is the subscription handler of the client.
func (c *Client) pushMessage(msg models.Message) {
	resp := dto.NewMessageResponse(msg)
	c.push(dto.WSServerMessage{Type: dto.WSTypeMessage, Message: &resp})
}

func (c *Client) pushError(detail *dto.ErrorDetail) {
	c.push(dto.WSServerMessage{Type: dto.WSTypeError, Error: detail})
}

func (c *Client) push(frame dto.WSServerMessage) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal frame")
		return
	}
	c.enqueue(data)
}
