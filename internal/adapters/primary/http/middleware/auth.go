package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/core/domain"
)

const (
	ContextUser     = "user"
	ContextUsername = "username"
)

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// BasicAuth rejects requests without valid HTTP Basic credentials. The
// authenticated user is stored in the context under ContextUser.
func BasicAuth(auth Authenticator, realm string) gin.HandlerFunc {
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			log.WithError(err).WithField("username", username).Warn("authentication failed")
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUsername, user.Username)

		c.Next()
	}
}
