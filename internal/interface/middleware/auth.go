package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserNameKey = "userName"
)

// IdentityReader exposes the current identity.
type IdentityReader interface {
	Current() (entity.User, bool)
}

// RequireIdentity rejects the request unless an identity is current.
// It sets userID and userName in the Gin context on success.
func RequireIdentity(identity IdentityReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := identity.Current()
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "sign in required", nil)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserNameKey, u.Name)
		c.Next()
	}
}
