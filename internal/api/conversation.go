package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signbridge/internal/middleware"
	"signbridge/internal/models"
	"signbridge/internal/repository"
)

// ConversationHandler serves the conversations family, including message
// creation (a message is authorized through its parent conversation, never
// on its own).
type ConversationHandler struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	logger        *zap.Logger
}

func NewConversationHandler(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	logger *zap.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		messages:      messages,
		logger:        logger,
	}
}

type createConversationRequest struct {
	Title string `json:"title" binding:"required"`
	Type  string `json:"type" binding:"required,oneof=speech-to-text text-to-speech sign-language"`
}

type createMessageRequest struct {
	Content  string         `json:"content" binding:"required"`
	Sender   string         `json:"sender" binding:"required,oneof=user assistant"`
	Metadata models.JSONMap `json:"metadata"`
}

// conversationWithMessages is the GET /:id response shape: the conversation
// row with its messages inlined.
type conversationWithMessages struct {
	models.Conversation
	Messages []models.Message `json:"messages"`
}

// loadOwned runs phases 2–3 of the handler pattern for an existing
// conversation: parse the id, confirm existence (404), confirm ownership
// (403). Existence is checked before ownership, so absent ids are never
// reported as access-denied.
func (h *ConversationHandler) loadOwned(c *gin.Context, user *middleware.AuthUser) (*models.Conversation, bool) {
	id, ok := parseIDParam(c, "conversation")
	if !ok {
		return nil, false
	}

	conv, err := h.conversations.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching conversation"})
		return nil, false
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return nil, false
	}
	if conv.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return conv, true
}

// Create handles POST /api/conversations.
//
// Ownership cannot be spoofed: userId always comes from the authenticated
// principal, and a client-supplied userId never reaches the store (the
// request struct has no such field, so it is dropped at decode time).
func (h *ConversationHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req createConversationRequest
	if !bindJSON(c, &req) {
		return
	}

	conv, err := h.conversations.Create(c.Request.Context(), user.ID, req.Title, req.Type)
	if err != nil {
		h.logger.Error("failed to create conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while creating conversation"})
		return
	}

	c.JSON(http.StatusCreated, conv)
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conversations, err := h.conversations.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching conversations"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// GetByID handles GET /api/conversations/:id and inlines the conversation's
// messages in the response.
func (h *ConversationHandler) GetByID(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conv, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	messages, err := h.messages.ListByConversation(c.Request.Context(), conv.ID)
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching conversation"})
		return
	}

	c.JSON(http.StatusOK, conversationWithMessages{
		Conversation: *conv,
		Messages:     messages,
	})
}

// Update handles PATCH /api/conversations/:id.
func (h *ConversationHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conv, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var patch models.ConversationPatch
	if !decodePatch(c, &patch) {
		return
	}

	updated, err := h.conversations.Update(c.Request.Context(), conv.ID, patch)
	if err != nil {
		h.logger.Error("failed to update conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while updating conversation"})
		return
	}
	if updated == nil {
		// Deleted between the ownership check and the write.
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/conversations/:id. Messages are removed by the
// store's cascade.
func (h *ConversationHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conv, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	if err := h.conversations.Delete(c.Request.Context(), conv.ID); err != nil {
		h.logger.Error("failed to delete conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while deleting conversation"})
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMessage handles POST /api/conversations/:id/messages. Authorization runs
// against the parent conversation; after the insert the parent's updated_at
// is bumped so the conversation reads as recently active.
func (h *ConversationHandler) AddMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conv, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var req createMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), conv.ID, req.Content, req.Sender, req.Metadata)
	if err != nil {
		h.logger.Error("failed to create message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while adding message"})
		return
	}

	if err := h.conversations.TouchUpdatedAt(c.Request.Context(), conv.ID); err != nil {
		// The message is already persisted; log and keep the success.
		h.logger.Error("failed to touch conversation", zap.Error(err))
	}

	c.JSON(http.StatusCreated, msg)
}
