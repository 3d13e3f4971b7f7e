package middleware

import (
	"academy/internal/app/role"

	"github.com/gin-gonic/gin"
)

// CurrentUser is what WithAuthCheck leaves in the gin context
type CurrentUser struct {
	ID   uint
	Role role.Role
}

// GetUserFromContext returns false on routes without auth
func GetUserFromContext(c *gin.Context) (CurrentUser, bool) {
	rawID, ok := c.Get(ctxUserID)
	if !ok {
		return CurrentUser{}, false
	}
	id, ok := rawID.(uint)
	if !ok {
		return CurrentUser{}, false
	}

	r, _ := c.Get(ctxUserRole)
	userRole, _ := r.(role.Role)
	return CurrentUser{ID: id, Role: userRole}, true
}
