// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetCompanyID gets the tenant ID from context
func GetCompanyID(c *gin.Context) (string, bool) {
	v, exists := c.Get("company_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetUserID gets the authenticated user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetRoles gets user roles from context
func GetRoles(c *gin.Context) []string {
	v, exists := c.Get("roles")
	if !exists {
		return []string{}
	}
	roles, ok := v.([]string)
	if !ok {
		return []string{}
	}
	return roles
}

// HasRole checks if user has a role
func HasRole(c *gin.Context, role string) bool {
	for _, r := range GetRoles(c) {
		if r == role {
			return true
		}
	}
	return false
}
