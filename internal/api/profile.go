package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signbridge/internal/middleware"
	"signbridge/internal/models"
	"signbridge/internal/repository"
)

// ProfileHandler serves the authenticated user's own profile. There is no id
// parameter and no ownership check: the principal from the auth gate is the
// only row reachable.
type ProfileHandler struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewProfileHandler(users repository.UserRepository, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, logger: logger}
}

// profileResponse is the field subset exposed to clients. The raw row
// (external subject id, timestamps) stays internal.
type profileResponse struct {
	ID              int64          `json:"id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	FirstName       *string        `json:"firstName"`
	LastName        *string        `json:"lastName"`
	ProfilePhotoURL *string        `json:"profilePhotoUrl"`
	Preferences     models.JSONMap `json:"preferences"`
}

func toProfileResponse(u *models.User) profileResponse {
	return profileResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfilePhotoURL: u.ProfilePhotoURL,
		Preferences:     u.Preferences,
	}
}

// Get handles GET /api/user-settings/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	row, err := h.users.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to get user profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching user profile"})
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(row))
}

// Update handles PATCH /api/user-settings/profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var patch models.UserPatch
	if !decodePatch(c, &patch) {
		return
	}

	if patch.ProfilePhotoURL != nil {
		if err := fieldValidator.Var(*patch.ProfilePhotoURL, "url"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation error",
				"details": map[string]string{"profilePhotoUrl": "must be a valid URL"},
			})
			return
		}
	}

	updated, err := h.users.Update(c.Request.Context(), user.ID, patch)
	if err != nil {
		h.logger.Error("failed to update user profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while updating user profile"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(updated))
}
