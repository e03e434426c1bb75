package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models/dto"
	"github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/middleware"
)

// ProfileController handles profile reads and edits
type ProfileController struct {
	profileService *services.ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{profileService: profileService, logger: logger}
}

// GetMyProfile returns the signed-in profile
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /profile/me [get]
func (c *ProfileController) GetMyProfile(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.profileService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProfileResponse(*profile)))
}

// UpdateMyProfile applies a partial update to the signed-in profile
// @Summary Update my profile
// @Description Absent fields are left as they are. Skills are trimmed and de-duplicated; an empty list clears them.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /profile/me [patch]
func (c *ProfileController) UpdateMyProfile(ctx *gin.Context) {
	userID, ok := middleware.MustUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	in := services.UpdateProfileInput{
		FullName:       req.FullName,
		Department:     req.Department,
		YearOfStudy:    req.YearOfStudy,
		Bio:            req.Bio,
		CampusLocation: req.CampusLocation,
	}
	if req.SkillsTeach != nil {
		in.SkillsTeach, in.SetSkillsTeach = *req.SkillsTeach, true
	}
	if req.SkillsLearn != nil {
		in.SkillsLearn, in.SetSkillsLearn = *req.SkillsLearn, true
	}

	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), userID, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(dto.NewProfileResponse(*profile), "Profile updated"))
}

// GetProfileByID returns another student's public profile
// @Summary Get a profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /profiles/{id} [get]
func (c *ProfileController) GetProfileByID(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	profile, err := c.profileService.GetProfile(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewPublicProfileResponse(*profile)
	if viewer, ok := middleware.GetUserID(ctx); ok && viewer == id {
		resp = dto.NewProfileResponse(*profile)
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetProfileOptions lists departments, years of study and campus locations
// @Summary Profile form options
// @Tags profile
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProfileOptionsResponse}
// @Router /profile/options [get]
func (c *ProfileController) GetProfileOptions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProfileOptionsResponse()))
}
