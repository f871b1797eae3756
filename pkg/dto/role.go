package dto

import "github.com/tracim/tracim-api/internal/models"

// CreateRoleRequest targets a user by id, email or public name; when more
// than one is given the id wins, then the email.
type CreateRoleRequest struct {
	UserID         int64  `json:"user_id"`
	UserEmail      string `json:"user_email"`
	UserPublicName string `json:"user_public_name"`
	Role           string `json:"role"`
	DoNotify       bool   `json:"do_notify"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type RoleResponse struct {
	UserID      int64         `json:"user_id"`
	WorkspaceID int64         `json:"workspace_id"`
	Role        string        `json:"role"`
	DoNotify    bool          `json:"do_notify"`
	User        *UserResponse `json:"user,omitempty"`
}

func RoleResponseFrom(r *models.UserRoleInWorkspace) RoleResponse {
	resp := RoleResponse{
		UserID:      r.UserID,
		WorkspaceID: r.WorkspaceID,
		Role:        r.Role.Slug(),
		DoNotify:    r.DoNotify,
	}
	if r.User != nil {
		u := UserResponseFrom(r.User)
		resp.User = &u
	}
	return resp
}
