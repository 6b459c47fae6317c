package auth

import (
	"github.com/gin-gonic/gin"
)

// currentUserKey is the gin context key under which the guard stores the
// resolved user.
const currentUserKey = "auth.currentUser"

// SetCurrentUser stores the authenticated user in the request context.
func SetCurrentUser(c *gin.Context, user *User) {
	c.Set(currentUserKey, user)
}

// CurrentUser retrieves the authenticated user from the request context.
func CurrentUser(c *gin.Context) (*User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*User)
	return user, ok
}
