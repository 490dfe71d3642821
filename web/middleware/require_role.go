package middleware

import (
	"net/http"

	"github.com/Kagamine/InternEvaluate/web/entity"
	"github.com/Kagamine/InternEvaluate/web/session"

	"github.com/gin-gonic/gin"
)

// RequireRole guards a route group: the session identity must hold at least
// one of the given roles. Unauthenticated requests get 401, authenticated
// ones without a matching role get 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := session.GetLoginIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
				Success: false,
				Msg:     "login required",
			})
			return
		}
		for _, role := range roles {
			if identity.HasRole(role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, entity.Msg{
			Success: false,
			Msg:     "permission denied",
		})
	}
}
