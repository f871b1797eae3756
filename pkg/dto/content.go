package dto

import "github.com/tracim/tracim-api/internal/models"

type CreateContentRequest struct {
	ParentID    *int64 `json:"parent_id"`
	ContentType string `json:"content_type"`
	Label       string `json:"label"`
}

type MoveContentRequest struct {
	NewParentID    *int64 `json:"new_parent_id"`
	NewWorkspaceID int64  `json:"new_workspace_id"`
}

type SetAllowedTypesRequest struct {
	AllowedTypes []string `json:"allowed_content_types"`
}

type ContentResponse struct {
	ContentID       int64    `json:"content_id"`
	WorkspaceID     int64    `json:"workspace_id"`
	ParentID        *int64   `json:"parent_id"`
	ContentType     string   `json:"content_type"`
	Label           string   `json:"label"`
	Slug            string   `json:"slug"`
	Status          string   `json:"status"`
	SubContentTypes []string `json:"sub_content_types"`
	IsDeleted       bool     `json:"is_deleted"`
	IsArchived      bool     `json:"is_archived"`
	ShowInUI        bool     `json:"show_in_ui"`
}

func ContentResponseFrom(c *models.Content) ContentResponse {
	return ContentResponse{
		ContentID:       c.ID,
		WorkspaceID:     c.WorkspaceID,
		ParentID:        c.ParentID,
		ContentType:     string(c.Type),
		Label:           c.Label,
		Slug:            c.Slug,
		Status:          string(c.Status),
		SubContentTypes: c.SubContentTypes(),
		IsDeleted:       c.IsDeleted,
		IsArchived:      c.IsArchived,
		ShowInUI:        c.ShowInUI,
	}
}

func ContentResponsesFrom(contents []models.Content) []ContentResponse {
	out := make([]ContentResponse, len(contents))
	for i := range contents {
		out[i] = ContentResponseFrom(&contents[i])
	}
	return out
}
