package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contest-platform/contest-service/internal/services"
	"github.com/contest-platform/contest-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	service services.UserService
}

func NewUserHandler(service services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetProfile returns a user's public profile
// @Summary Get profile
// @Tags users
// @Produce json
// @Success 200 {object} models.ProfileResponse
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id}/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.Param("id")

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile edits the caller's own profile
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} models.ProfileResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Not your profile"
// @Router /users/{id}/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	pathID := c.Param("id")
	h.LogRequest(c, "Updating profile", "user_id", pathID)

	callerID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	if callerID != pathID {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "You can only update your own profile",
		})
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), callerID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
