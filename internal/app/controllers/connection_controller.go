package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/app/models/dto"
	"github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/middleware"
)

// ConnectionController handles connection requests and answers
type ConnectionController struct {
	connectionService *services.ConnectionService
	logger            zerolog.Logger
}

// NewConnectionController creates a new ConnectionController
func NewConnectionController(connectionService *services.ConnectionService, logger zerolog.Logger) *ConnectionController {
	return &ConnectionController{connectionService: connectionService, logger: logger}
}

// SendRequest godoc
// @Summary Send a connection request
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendConnectionRequest true "Receiver"
// @Success 201 {object} dto.APIResponse{data=dto.ConnectionResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid receiver or request to self"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Receiver not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Connection already exists"
// @Router /connections [post]
func (c *ConnectionController) SendRequest(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}

	var req dto.SendConnectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	receiverID, ok := middleware.UUIDField(ctx, req.ReceiverID, "receiverId")
	if !ok {
		return
	}

	conn, err := c.connectionService.SendRequest(ctx.Request.Context(), userID, receiverID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessMessageResponse(dto.NewConnectionResponse(*conn), "Connection request sent"))
}

// Respond godoc
// @Summary Accept or reject a request
// @Description Only the receiver of a pending request may answer it, once
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Connection ID"
// @Param request body dto.RespondConnectionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Decision is not accepted or rejected"
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Not the receiver"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Already answered"
// @Router /connections/{id} [put]
func (c *ConnectionController) Respond(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}
	connectionID, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RespondConnectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	conn, err := c.connectionService.Respond(ctx.Request.Context(), userID, connectionID, models.ConnectionStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewConnectionResponse(*conn)))
}

// ListConnections returns received, sent and accepted connections with the other party attached
// @Summary My connections
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionOverviewResponse}
// @Router /connections [get]
func (c *ConnectionController) ListConnections(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}

	overview, err := c.connectionService.Overview(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewConnectionOverviewResponse(overview)))
}

// GetStatus returns how the signed-in student relates to another profile
// @Summary Relation to a profile
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Other profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.RelationResponse}
// @Router /connections/status/{userId} [get]
func (c *ConnectionController) GetStatus(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}
	otherID, ok := middleware.UUIDParam(ctx, "userId")
	if !ok {
		return
	}

	status, conn, err := c.connectionService.StatusFor(ctx.Request.Context(), userID, otherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRelationResponse(status, conn)))
}
