package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/jeswinthayil/Lostandfound/internal/token"
)

const (
	errUnauthorized = "Unauthorized"
	errRevoked      = "Token is revoked, please log in again"
	errAdminOnly    = "Admin only access"

	identityKey = "identity"
	rawTokenKey = "rawToken"
)

// Identity is the authenticated caller, attached to the request by Auth.
type Identity struct {
	Email string
	Role  domain.Role
}

// IdentityFrom extracts the caller identity set by Auth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RawTokenFrom returns the bearer credential Auth validated, for logout.
func RawTokenFrom(c *gin.Context) string {
	return c.GetString(rawTokenKey)
}

// Auth validates a Bearer credential, rejects revoked ones, and
// attaches the caller Identity to the gin context. Revocation always
// wins: a blacklisted token is unauthorized no matter how valid its
// signature still is.
func Auth(tokens *token.Service, revocations repository.RevocationRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		email, role, err := tokens.Claims(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		revoked, err := revocations.IsRevoked(c.Request.Context(), token.ID(raw))
		if err != nil {
			// Fail closed: an unreachable denylist must not admit
			// potentially revoked credentials.
			logger.ErrorContext(c.Request.Context(), "revocation check", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errRevoked})
			return
		}

		c.Set(identityKey, Identity{Email: email, Role: role})
		c.Set(rawTokenKey, raw)
		c.Next()
	}
}

// RequireAdmin runs after Auth and rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		if id.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errAdminOnly})
			return
		}
		c.Next()
	}
}
