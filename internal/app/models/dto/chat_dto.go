package dto

import (
	"time"

	"github.com/yigit/skillswap/internal/app/models"
)

// SendMessageRequest posts a chat message
type SendMessageRequest struct {
	Content string `json:"content" example:"hi"`
}

// MessageResponse is a chat message
type MessageResponse struct {
	ID           string    `json:"id"`
	ConnectionID string    `json:"connectionId"`
	SenderID     string    `json:"senderId"`
	Content      string    `json:"content" example:"hi"`
	Seq          int64     `json:"seq" example:"1"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ConversationResponse is an entry of the chat list
type ConversationResponse struct {
	ConnectionID string          `json:"connectionId"`
	Other        ProfileResponse `json:"other"`
	ConnectedAt  time.Time       `json:"connectedAt"`
}

// Websocket frame types
const (
	WSTypeMessage = "message"
	WSTypeError   = "error"
)

// WSClientMessage is a frame sent by the browser
type WSClientMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// WSServerMessage is a frame pushed to the browser
type WSServerMessage struct {
	Type    string           `json:"type"`
	Message *MessageResponse `json:"message,omitempty"`
	Error   *ErrorDetail     `json:"error,omitempty"`
}

// NewMessageResponse converts a message
func NewMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{
		ID:           m.ID.String(),
		ConnectionID: m.ConnectionID.String(),
		SenderID:     m.SenderID.String(),
		Content:      m.Content,
		Seq:          m.Seq,
		CreatedAt:    m.CreatedAt,
	}
}

// NewMessageResponses converts a page of messages
func NewMessageResponses(msgs []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

// NewConversationResponses builds the chat list from accepted connections
func NewConversationResponses(accepted []models.ConnectionView) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(accepted))
	for _, v := range accepted {
		item := ConversationResponse{ConnectionID: v.Connection.ID.String(), ConnectedAt: v.Connection.UpdatedAt}
		if v.Other != nil {
			item.Other = NewPublicProfileResponse(*v.Other)
		}
		out = append(out, item)
	}
	return out
}
