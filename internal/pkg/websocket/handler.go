package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/middleware"
)

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	chat     Conversations
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, chat Conversations, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		chat:     chat,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Follow a conversation live
// @Description Upgrades to a WebSocket that pushes every new message of an accepted connection in seq order and accepts {"type":"message","content":"..."} frames
// @Tags conversations, websocket
// @Security BearerAuth
// @Param id path string true "Connection ID"
// @Param token query string false "Access token, for browsers that cannot set headers"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Not part of this connection"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Connection not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Connection not accepted"
// @Router /conversations/{id}/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	connectionID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	log := h.logger.With().
		Str("connectionID", connectionID.String()).
		Str("userID", userID.String()).
		Logger()
	client := newClient(h.hub, h.chat, userID, connectionID, log)

	// Subscribe before the upgrade so refusals are plain HTTP errors.
	sub, err := h.chat.Subscribe(c.Request.Context(), userID, connectionID, client.pushMessage)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	client.sub = sub

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sub.Close()
		log.Error().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}
	client.conn = conn
	h.hub.Register(client)

	go client.writePump()
	go client.readPump()

	log.Info().Str("remoteAddr", conn.RemoteAddr().String()).Msg("WebSocket connection established")
}
