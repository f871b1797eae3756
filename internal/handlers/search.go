package handlers

import (
	"strconv"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/search"
	"github.com/tracim/tracim-api/internal/services"
	"github.com/tracim/tracim-api/pkg/dto"
)

type SearchHandler struct {
	search SearchInterface
	authz  AuthorizationInterface
}

func NewSearchHandler(searchService SearchInterface, authz AuthorizationInterface) *SearchHandler {
	return &SearchHandler{search: searchService, authz: authz}
}

// Search runs a full-text query over indexed contents. Non-admin callers
// must scope the query to a workspace they can read; admins may search
// across all workspaces.
func (h *SearchHandler) Search(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	text := c.QueryParam("search_string")
	if text == "" {
		respondValidation(c, "search_string is required")
		return
	}

	q := search.Query{
		Text:        text,
		ContentType: c.QueryParam("content_type"),
		ShowDeleted: c.QueryParam("show_deleted") == "1",
	}

	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondValidation(c, "invalid limit")
			return
		}
		q.Limit = n
	}
	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondValidation(c, "invalid offset")
			return
		}
		q.Offset = n
	}

	if raw := c.QueryParam("workspace_id"); raw != "" {
		workspaceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || workspaceID <= 0 {
			respondValidation(c, "invalid workspace_id")
			return
		}
		if err := h.authz.CheckWorkspaceAction(c.Request.Context(), user, workspaceID, services.ActionRead); err != nil {
			respondError(c, err)
			return
		}
		q.WorkspaceID = workspaceID
	} else if user.Profile != models.ProfileAdmin {
		respondValidation(c, "workspace_id is required")
		return
	}

	resp := h.search.Search(q)

	_ = c.JSON(200, dto.SearchResponse{
		Results: resp.Results,
		Total:   resp.Total,
		Query:   resp.Query,
	})
}
