package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models/dto"
	"github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/middleware"
	"github.com/yigit/skillswap/internal/pkg/helpers"
)

// ConversationController handles chat history and sending
type ConversationController struct {
	conversationService *services.ConversationService
	connectionService   *services.ConnectionService
	historyLimit        int
	logger              zerolog.Logger
}

// NewConversationController creates a new ConversationController
func NewConversationController(
	conversationService *services.ConversationService,
	connectionService *services.ConnectionService,
	historyLimit int,
	logger zerolog.Logger,
) *ConversationController {
	if historyLimit <= 0 {
		historyLimit = helpers.DefaultHistoryLimit
	}
	return &ConversationController{
		conversationService: conversationService,
		connectionService:   connectionService,
		historyLimit:        historyLimit,
		logger:              logger,
	}
}

// ListConversations godoc
// @Summary Chat list
// @Description Accepted connections with the other party attached
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConversationResponse}
// @Router /conversations [get]
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}

	overview, err := c.connectionService.Overview(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewConversationResponses(overview.Accepted)))
}

// GetMessages godoc
// @Summary Conversation history
// @Description Messages in seq order. Pass after_seq to fetch only newer messages.
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Connection ID"
// @Param after_seq query int false "Only messages with a greater seq"
// @Param limit query int false "Maximum number of messages"
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /conversations/{id}/messages [get]
func (c *ConversationController) GetMessages(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}
	connectionID, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	params := helpers.ParseHistoryParams(ctx, c.historyLimit)
	msgs, err := c.conversationService.LoadPage(ctx.Request.Context(), userID, connectionID, params.AfterSeq, params.Limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMessageResponses(msgs)))
}

// SendMessage godoc
// @Summary Send a message
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Connection ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Empty or too long"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Connection not accepted"
// @Router /conversations/{id}/messages [post]
func (c *ConversationController) SendMessage(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}
	connectionID, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	msg, err := c.conversationService.Append(ctx.Request.Context(), connectionID, userID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewMessageResponse(*msg)))
}
