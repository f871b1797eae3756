package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/pkg/dto"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(200, dto.UserResponseFrom(user))
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req struct {
		PublicName string `json:"public_name"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	updated, err := h.userService.UpdatePublicName(c.Request.Context(), user.ID, req.PublicName)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.UserResponseFrom(updated))
}
