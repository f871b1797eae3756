package dto

import "github.com/tracim/tracim-api/internal/models"

type CreateWorkspaceRequest struct {
	Label         string `json:"label"`
	Description   string `json:"description"`
	AgendaEnabled bool   `json:"agenda_enabled"`
}

// UpdateWorkspaceRequest carries partial updates; absent fields stay
// untouched.
type UpdateWorkspaceRequest struct {
	Label         *string `json:"label"`
	Description   *string `json:"description"`
	AgendaEnabled *bool   `json:"agenda_enabled"`
}

type WorkspaceResponse struct {
	WorkspaceID   int64  `json:"workspace_id"`
	Label         string `json:"label"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	AgendaEnabled bool   `json:"agenda_enabled"`
	IsDeleted     bool   `json:"is_deleted"`
}

func WorkspaceResponseFrom(w *models.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		WorkspaceID:   w.ID,
		Label:         w.Label,
		Slug:          w.Slug,
		Description:   w.Description,
		AgendaEnabled: w.AgendaEnabled,
		IsDeleted:     w.IsDeleted,
	}
}
