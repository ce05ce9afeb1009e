package middleware

import (
	"net/http"

	"crowdsight/internal/model"
	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles.
// Anonymous callers get 401, authenticated callers without a listed role 403.
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		if !id.IsAuthenticated() {
			utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, "Authentication required")
			return
		}

		for _, allowedRole := range allowedRoles {
			if id.Role == allowedRole {
				c.Next()
				return
			}
		}

		utils.AbortWithError(c, http.StatusForbidden, utils.CodeForbidden, "You do not have permission to access this resource")
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
