package dto

import (
	"time"

	"github.com/yigit/skillswap/internal/app/models"
)

// SendConnectionRequest asks another student to connect
type SendConnectionRequest struct {
	ReceiverID string `json:"receiverId" binding:"required,uuid" example:"7b0c0e7e-3b8e-4f0e-9a55-1f0c1c7a4a10"`
}

// RespondConnectionRequest answers a pending request
type RespondConnectionRequest struct {
	Status string `json:"status" binding:"required" example:"accepted" enums:"accepted,rejected"`
}

// ConnectionResponse is a connection row
type ConnectionResponse struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requesterId"`
	ReceiverID  string    `json:"receiverId"`
	Status      string    `json:"status" example:"pending"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ConnectionViewResponse is a connection with the other party attached
type ConnectionViewResponse struct {
	ConnectionResponse
	Other *ProfileResponse `json:"other,omitempty"`
}

// ConnectionOverviewResponse is the connections page
type ConnectionOverviewResponse struct {
	PendingReceived []ConnectionViewResponse `json:"pendingReceived"`
	PendingSent     []ConnectionViewResponse `json:"pendingSent"`
	Accepted        []ConnectionViewResponse `json:"accepted"`
}

// RelationResponse is the viewer's relation to another profile
type RelationResponse struct {
	Status       string  `json:"status" example:"sent" enums:"none,sent,received,connected,rejected"`
	ConnectionID *string `json:"connectionId,omitempty"`
}

// NewConnectionResponse converts a connection
func NewConnectionResponse(c models.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:          c.ID.String(),
		RequesterID: c.RequesterID.String(),
		ReceiverID:  c.ReceiverID.String(),
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewConnectionViewResponses converts connection views
func NewConnectionViewResponses(views []models.ConnectionView) []ConnectionViewResponse {
	out := make([]ConnectionViewResponse, 0, len(views))
	for _, v := range views {
		item := ConnectionViewResponse{ConnectionResponse: NewConnectionResponse(v.Connection)}
		if v.Other != nil {
			other := NewPublicProfileResponse(*v.Other)
			item.Other = &other
		}
		out = append(out, item)
	}
	return out
}

// NewConnectionOverviewResponse converts the partitioned connection list
func NewConnectionOverviewResponse(o *models.ConnectionOverview) ConnectionOverviewResponse {
	return ConnectionOverviewResponse{
		PendingReceived: NewConnectionViewResponses(o.PendingReceived),
		PendingSent:     NewConnectionViewResponses(o.PendingSent),
		Accepted:        NewConnectionViewResponses(o.Accepted),
	}
}

// NewRelationResponse converts a relation and its connection, if any
func NewRelationResponse(status models.RelationStatus, conn *models.Connection) RelationResponse {
	resp := RelationResponse{Status: string(status)}
	if conn != nil {
		id := conn.ID.String()
		resp.ConnectionID = &id
	}
	return resp
}
