package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signbridge/internal/models"
	"signbridge/internal/repository"
)

// AuthHandler serves the public signup/login endpoints. The identity
// provider has already authenticated the caller by the time these run; they
// only bind a verified external subject to a local user row.
type AuthHandler struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewAuthHandler(users repository.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

type signupRequest struct {
	ExternalSubjectID string  `json:"externalSubjectId" binding:"required"`
	Email             string  `json:"email" binding:"required,email"`
	Username          string  `json:"username" binding:"required,min=3,max=30"`
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	ProfilePhotoURL   *string `json:"profilePhotoUrl" binding:"omitempty,url"`
}

type loginRequest struct {
	ExternalSubjectID string `json:"externalSubjectId" binding:"required"`
}

// Signup handles POST /api/auth/signup: creates the local user record on
// first sign-in after identity verification.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	existing, err := h.users.GetBySubject(ctx, req.ExternalSubjectID)
	if err != nil {
		h.logger.Error("failed to check existing user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during sign up"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	}

	taken, err := h.users.GetByUsername(ctx, req.Username)
	if err != nil {
		h.logger.Error("failed to check username", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during sign up"})
		return
	}
	if taken != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		return
	}

	user, err := h.users.Create(ctx, models.NewUser{
		ExternalSubjectID: req.ExternalSubjectID,
		Username:          req.Username,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		ProfilePhotoURL:   req.ProfilePhotoURL,
	})
	if err != nil {
		// The pre-checks race against concurrent signups; the unique
		// constraints are the source of truth.
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during sign up"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Login handles POST /api/auth/login: confirms a verified subject has a
// registered account and returns its profile fields.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.GetBySubject(c.Request.Context(), req.ExternalSubjectID)
	if err != nil {
		h.logger.Error("failed to look up user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during login"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"email":           user.Email,
			"firstName":       user.FirstName,
			"lastName":        user.LastName,
			"profilePhotoUrl": user.ProfilePhotoURL,
		},
	})
}
