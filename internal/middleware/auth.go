package middleware

import (
	"strings"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/services"
)

const CurrentUserKey = "current_user"

// Auth validates the bearer token and loads the full user record into the
// request context. Deleted and deactivated accounts are rejected even when
// their token is still valid.
func Auth(jwtService *services.JWTService, userService *services.UserService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		user, err := userService.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}
		if user.IsDeleted || !user.IsActive {
			c.Unauthorized("account disabled")
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// GetCurrentUser returns the authenticated user, or nil outside the Auth
// middleware.
func GetCurrentUser(c *drift.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
