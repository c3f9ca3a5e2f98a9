package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// RequireRoles lets the request through when the caller has one of roles.
// Admins always pass.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles)+1)
	allowed[models.RoleAdmin] = struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
			return
		}
		if _, ok := allowed[role]; !ok {
			utils.AbortWithError(c, http.StatusForbidden, utils.CodeForbidden, "insufficient role")
			return
		}
		c.Next()
	}
}

// RoleCheck matches the :role path parameter against the caller's role.
func RoleCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.Param("role")
		userRole := c.GetString(ContextRole)

		if userRole == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
			return
		}

		// Validasi role
		switch role {
		case models.RoleAdmin:
			if userRole != models.RoleAdmin {
				utils.AbortWithError(c, http.StatusForbidden, utils.CodeForbidden, "admin access required")
				return
			}
		case models.RoleStaff, models.RoleCleaner:
			if userRole != role && userRole != models.RoleAdmin {
				utils.AbortWithError(c, http.StatusForbidden, utils.CodeForbidden, role+" access required")
				return
			}
		default:
			utils.AbortWithError(c, http.StatusNotFound, utils.CodeNotFound, "unknown role channel")
			return
		}

		c.Next()
	}
}
