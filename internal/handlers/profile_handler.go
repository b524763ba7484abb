package handlers

import (
	"net/http"
	"strconv"

	"github.com/junkcaptain/crm/backend/internal/middleware"
	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ProfileHandler serves the signed-in operator's own account.
type ProfileHandler struct {
	userRepository repositories.UserRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers the profile route (mounted at /me)
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("", h.GetProfile)
}

// GetProfile returns the operator named by the bearer token.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err, "User profile not found", "Failed to load profile")
	}
	return c.JSON(http.StatusOK, models.UserResponse{
		ID:    strconv.FormatUint(uint64(user.ID), 10),
		Name:  user.Name,
		Email: user.Email,
	})
}
