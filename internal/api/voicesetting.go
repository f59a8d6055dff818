package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signbridge/internal/middleware"
	"signbridge/internal/models"
	"signbridge/internal/repository"
)

// VoiceSettingHandler serves voice-synthesis presets. Rate and pitch are
// string-encoded by contract; this layer checks presence, not numeric range.
type VoiceSettingHandler struct {
	settings repository.VoiceSettingRepository
	logger   *zap.Logger
}

func NewVoiceSettingHandler(settings repository.VoiceSettingRepository, logger *zap.Logger) *VoiceSettingHandler {
	return &VoiceSettingHandler{settings: settings, logger: logger}
}

type createVoiceSettingRequest struct {
	Name      string  `json:"name" binding:"required"`
	VoiceType string  `json:"voiceType" binding:"required"`
	Language  string  `json:"language" binding:"required"`
	Rate      string  `json:"rate" binding:"required"`
	Pitch     string  `json:"pitch" binding:"required"`
	Style     *string `json:"style"`
}

func (h *VoiceSettingHandler) loadOwned(c *gin.Context, user *middleware.AuthUser) (*models.VoiceSetting, bool) {
	id, ok := parseIDParam(c, "setting")
	if !ok {
		return nil, false
	}

	setting, err := h.settings.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get voice setting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching voice setting"})
		return nil, false
	}
	if setting == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Voice setting not found"})
		return nil, false
	}
	if setting.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return setting, true
}

// Create handles POST /api/user-settings/voice-settings.
func (h *VoiceSettingHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req createVoiceSettingRequest
	if !bindJSON(c, &req) {
		return
	}

	setting, err := h.settings.Create(c.Request.Context(), user.ID, models.NewVoiceSetting{
		Name:      req.Name,
		VoiceType: req.VoiceType,
		Language:  req.Language,
		Rate:      req.Rate,
		Pitch:     req.Pitch,
		Style:     req.Style,
	})
	if err != nil {
		h.logger.Error("failed to create voice setting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while creating voice setting"})
		return
	}

	c.JSON(http.StatusCreated, setting)
}

// List handles GET /api/user-settings/voice-settings.
func (h *VoiceSettingHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	settings, err := h.settings.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list voice settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching voice settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// GetByID handles GET /api/user-settings/voice-settings/:id.
func (h *VoiceSettingHandler) GetByID(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	setting, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, setting)
}

// Update handles PATCH /api/user-settings/voice-settings/:id.
func (h *VoiceSettingHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	setting, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var patch models.VoiceSettingPatch
	if !decodePatch(c, &patch) {
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), setting.ID, patch)
	if err != nil {
		h.logger.Error("failed to update voice setting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while updating voice setting"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Voice setting not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/user-settings/voice-settings/:id. Deleting an
// id that no longer exists reports 404 from the load phase, consistently.
func (h *VoiceSettingHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	setting, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	if err := h.settings.Delete(c.Request.Context(), setting.ID); err != nil {
		h.logger.Error("failed to delete voice setting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while deleting voice setting"})
		return
	}

	c.Status(http.StatusNoContent)
}
