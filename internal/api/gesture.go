package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signbridge/internal/middleware"
	"signbridge/internal/models"
	"signbridge/internal/repository"
)

// GestureHandler serves the custom-gestures family. gestureData is opaque:
// stored and returned verbatim, never interpreted here.
type GestureHandler struct {
	gestures repository.GestureRepository
	logger   *zap.Logger
}

func NewGestureHandler(gestures repository.GestureRepository, logger *zap.Logger) *GestureHandler {
	return &GestureHandler{gestures: gestures, logger: logger}
}

type createGestureRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description"`
	GestureData models.JSONMap `json:"gestureData" binding:"required"`
}

func (h *GestureHandler) loadOwned(c *gin.Context, user *middleware.AuthUser) (*models.CustomGesture, bool) {
	id, ok := parseIDParam(c, "gesture")
	if !ok {
		return nil, false
	}

	gesture, err := h.gestures.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get gesture", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching gesture"})
		return nil, false
	}
	if gesture == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gesture not found"})
		return nil, false
	}
	if gesture.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return gesture, true
}

// Create handles POST /api/custom-gestures.
func (h *GestureHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req createGestureRequest
	if !bindJSON(c, &req) {
		return
	}

	gesture, err := h.gestures.Create(c.Request.Context(), user.ID, req.Name, req.Description, req.GestureData)
	if err != nil {
		h.logger.Error("failed to create gesture", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while creating gesture"})
		return
	}

	c.JSON(http.StatusCreated, gesture)
}

// List handles GET /api/custom-gestures.
func (h *GestureHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	gestures, err := h.gestures.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list gestures", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching gestures"})
		return
	}

	c.JSON(http.StatusOK, gestures)
}

// GetByID handles GET /api/custom-gestures/:id.
func (h *GestureHandler) GetByID(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	gesture, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gesture)
}

// Update handles PATCH /api/custom-gestures/:id.
func (h *GestureHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	gesture, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var patch models.CustomGesturePatch
	if !decodePatch(c, &patch) {
		return
	}

	updated, err := h.gestures.Update(c.Request.Context(), gesture.ID, patch)
	if err != nil {
		h.logger.Error("failed to update gesture", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while updating gesture"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gesture not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/custom-gestures/:id.
func (h *GestureHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	gesture, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	if err := h.gestures.Delete(c.Request.Context(), gesture.ID); err != nil {
		h.logger.Error("failed to delete gesture", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while deleting gesture"})
		return
	}

	c.Status(http.StatusNoContent)
}
