package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/modules/identity"
)

// RequireAdmin:
// - no session: 401
// - session without the admin role: 403
// The role comes from user_roles resolved by the session middleware; admin
// services re-check it against the Caller value as a second gate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := Caller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}

		if !caller.HasRole(identity.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
