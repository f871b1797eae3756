package testutil

import (
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/internal/models"
)

// AuthenticatedAs short-circuits the auth middleware in handler tests: it
// injects the given user the same way middleware.Auth does after a valid
// token.
func AuthenticatedAs(user *models.User) drift.HandlerFunc {
	return func(c *drift.Context) {
		c.Set(middleware.CurrentUserKey, user)
		c.Next()
	}
}
