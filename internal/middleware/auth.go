package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signbridge/internal/identity"
	"signbridge/internal/repository"
)

const contextKeyUser = "current_user"

// AuthUser is the principal attached to the request context after the gate
// admits a request: the internal user id plus the verified external subject.
type AuthUser struct {
	ID      int64
	Subject string
	Email   string
}

// resolveUser runs the shared pipeline: extract the bearer credential,
// verify it, and map the verified subject to a registered user.
// Returns nil (never an HTTP response) when any step fails; the caller
// decides whether that is fatal.
func resolveUser(c *gin.Context, verifier identity.Verifier, users repository.UserRepository, logger *zap.Logger) *AuthUser {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	ident, err := verifier.Verify(c.Request.Context(), parts[1])
	if err != nil {
		logger.Debug("credential verification failed", zap.Error(err))
		return nil
	}

	user, err := users.GetBySubject(c.Request.Context(), ident.Subject)
	if err != nil {
		logger.Error("failed to look up user by subject", zap.Error(err))
		return nil
	}
	if user == nil {
		// Verified identity, but nobody signed up with it.
		return nil
	}

	return &AuthUser{
		ID:      user.ID,
		Subject: user.ExternalSubjectID,
		Email:   user.Email,
	}
}

// RequireAuth rejects any request that does not carry a credential resolving
// to a registered user. The response never says which step failed beyond the
// broad category; 401 bodies are deliberately terse.
func RequireAuth(verifier identity.Verifier, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: No token provided",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: No token provided",
			})
			return
		}

		ident, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: Invalid token",
			})
			return
		}

		user, err := users.GetBySubject(c.Request.Context(), ident.Subject)
		if err != nil {
			logger.Error("failed to look up user by subject", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Server error during authentication",
			})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: User not found",
			})
			return
		}

		c.Set(contextKeyUser, &AuthUser{
			ID:      user.ID,
			Subject: user.ExternalSubjectID,
			Email:   user.Email,
		})
		c.Next()
	}
}

// OptionalAuth runs the same pipeline but never rejects: a missing header,
// a bad token, or an unregistered subject all continue anonymously. Routes
// behind it branch on CurrentUser returning nil.
func OptionalAuth(verifier identity.Verifier, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, verifier, users, logger); user != nil {
			c.Set(contextKeyUser, user)
		}
		c.Next()
	}
}

// CurrentUser returns the principal the auth gate attached, or nil for an
// anonymous request.
func CurrentUser(c *gin.Context) *AuthUser {
	val, exists := c.Get(contextKeyUser)
	if !exists {
		return nil
	}
	user, ok := val.(*AuthUser)
	if !ok {
		return nil
	}
	return user
}
