package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models/dto"
	"github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/middleware"
)

// MatchController serves ranked skill-swap matches
type MatchController struct {
	matchService *services.MatchService
	logger       zerolog.Logger
}

// NewMatchController creates a new MatchController
func NewMatchController(matchService *services.MatchService, logger zerolog.Logger) *MatchController {
	return &MatchController{matchService: matchService, logger: logger}
}

// GetMatches godoc
// @Summary Ranked matches
// @Description Every other profile with a non-zero compatibility, best first
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MatchResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /matches [get]
func (c *MatchController) GetMatches(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}

	results, err := c.matchService.MatchesFor(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMatchResponses(results)))
}
