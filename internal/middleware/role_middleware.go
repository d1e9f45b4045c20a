package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/utils"
)

// RequireSuper allows only super admins through. Role spellings from legacy
// accounts ("Super Admin", "super-admin") are accepted by the normalizer.
func RequireSuper() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if !utils.IsSuperRole(role) {
			utils.Error(c, 403, "FORBIDDEN", "Super admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
