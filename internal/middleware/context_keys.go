package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// userRolesKey is the key used to store the authenticated user's roles.
const userRolesKey = contextKey("userRoles")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context, checking the request context as well. It returns the user ID and
// a boolean indicating whether it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		if userID, ok := v.(string); ok {
			return userID, true
		}
		return "", false
	}
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// GetUserRolesFromContext retrieves the authenticated user's roles.
func GetUserRolesFromContext(c *gin.Context) []string {
	if v := c.Request.Context().Value(userRolesKey); v != nil {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}
