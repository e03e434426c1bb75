package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/skillswap/internal/app/models/dto"
	"github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/middleware"
)

// CampusController serves the campus map
type CampusController struct {
	campusService *services.CampusService
}

// NewCampusController creates a new CampusController
func NewCampusController(campusService *services.CampusService) *CampusController {
	return &CampusController{campusService: campusService}
}

// GetLocations godoc
// @Summary Campus locations
// @Tags campus
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CampusLocationsResponse}
// @Router /campus/locations [get]
func (c *CampusController) GetLocations(ctx *gin.Context) {
	center, locations := c.campusService.Locations()
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CampusLocationsResponse{Center: center, Locations: locations}))
}

// GetPeers godoc
// @Summary Connected students on the map
// @Tags campus
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CampusPeerResponse}
// @Router /campus/peers [get]
func (c *CampusController) GetPeers(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}

	peers, err := c.campusService.Peers(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCampusPeerResponses(peers)))
}
