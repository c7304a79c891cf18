package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/services"
)

// SessionAuthMiddleware authenticates requests through the session
// service. Both service-issued session tokens and provider JWTs are
// accepted; the session service resolves either into a profile document.
type SessionAuthMiddleware struct {
	sessionService services.SessionService
}

func NewSessionAuthMiddleware(sessionService services.SessionService) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{sessionService: sessionService}
}

// AuthMiddleware rejects requests without a resolvable bearer token.
func (sam *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "authorization header missing or malformed",
			})
			c.Abort()
			return
		}

		user, err := sam.sessionService.Resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "invalid or expired credentials",
			})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Set("user_email", user.Email)
		c.Set("auth_token", token)

		c.Next()
	}
}

// RequireRoleMiddleware checks that the authenticated user holds one of
// the required roles. Admin always passes.
func (sam *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "user role not found in context"})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "invalid user role format"})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required || role == models.RoleAdmin {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
		})
		c.Abort()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// sessionIDFrom returns the client session identifier. Anonymous callers
// get one assigned per request so the tracker always has a slot.
func sessionIDFrom(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	return c.GetString("request_id")
}

// GetUserFromContext extracts the authenticated profile from the Gin
// context.
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}
	return userModel, nil
}

// GetUserIDFromContext extracts the authenticated user ID from the Gin
// context.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}
	return id, nil
}
