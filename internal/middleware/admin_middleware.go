package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/models"
)

// RequireAdmin gates a route on admin accounts. With no roles given any
// admin passes; otherwise the account needs one of the listed roles. Super
// admins always pass.
func RequireAdmin(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required.")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			helpers.RespondWithError(c, http.StatusForbidden, "Admin access required.")
			c.Abort()
			return
		}
		if len(roles) > 0 && !user.HasAdminRole(models.AdminRoleSuper) && !user.HasAdminRole(roles...) {
			helpers.RespondWithError(c, http.StatusForbidden, "Your admin role does not permit this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}
