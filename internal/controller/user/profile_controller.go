package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/internal/controller"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/service"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetProfile godoc
// @Summary Get a user profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Profile of another user"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	id, ok := ownerOrAdmin(ctx, "id", "You can only view your own profile")
	if !ok {
		return
	}
	profile, err := c.profileService.GetProfile(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetProfile", err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update a user profile
// @Description Updates the display name and avatar URL. Omitted fields are left unchanged.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param profile body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Profile of another user"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	id, ok := ownerOrAdmin(ctx, "id", "You can only edit your own profile")
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "UpdateProfile", err)
		return
	}
	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, "UpdateProfile", err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}
