package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"

	"github.com/gin-gonic/gin"
)

const contextKeyUser = "current_user"

// UserFinder resolves a token subject to a stored user.
type UserFinder interface {
	GetByAddress(ctx context.Context, address string) (dom.User, error)
}

// CurrentUser returns the user set by RequireToken. ok is false if the
// request did not pass the middleware.
func CurrentUser(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// RequireToken returns a middleware that validates the Bearer token and sets
// the current user in context. Every failure is a 401 with WWW-Authenticate;
// the concrete cause only reaches the log.
func RequireToken(tokens *TokenService, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}
		address, err := tokens.Validate(raw)
		if err != nil {
			log.Printf("auth: token rejected: %v", err)
			unauthorized(c)
			return
		}
		user, err := users.GetByAddress(c.Request.Context(), address)
		if err != nil {
			log.Printf("auth: subject %s has no user record: %v", address, err)
			unauthorized(c)
			return
		}
		if !user.IsActive {
			log.Printf("auth: user %d is deactivated", user.ID)
			unauthorized(c)
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
}
