package middleware

import (
	"strings"

	"github.com/avolkov/task-manager-api/internal/auth"
	"github.com/avolkov/task-manager-api/internal/constants"
	apierrors "github.com/avolkov/task-manager-api/internal/errors"
	"github.com/gin-gonic/gin"
)

// RequireAuth verifies the bearer token and stores the resolved principal in
// the request context for the handlers.
func RequireAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		principal, err := auth.ParseToken(token, jwtSecret)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return auth.Principal{}, false
	}

	principal, ok := value.(auth.Principal)
	return principal, ok
}
