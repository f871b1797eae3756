package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/search"
	"github.com/tracim/tracim-api/internal/services"
	"github.com/tracim/tracim-api/pkg/dto"
)

type ContentHandler struct {
	contentService ContentServiceInterface
	authz          AuthorizationInterface
	hub            HubInterface
	search         SearchInterface
}

func NewContentHandler(contentService ContentServiceInterface, authz AuthorizationInterface, hub HubInterface, searchService SearchInterface) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		authz:          authz,
		hub:            hub,
		search:         searchService,
	}
}

// parseContentFilter builds the listing filter from query parameters.
// parent_ids is a comma separated list where 0 means the workspace root;
// show_* flags take "1"/"0" with active-only as the default view.
func parseContentFilter(c *drift.Context) (services.ContentFilter, bool) {
	filter := services.DefaultContentFilter()

	if raw := c.QueryParam("parent_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id < 0 {
				respondValidation(c, "invalid parent_ids")
				return filter, false
			}
			filter.ParentIDs = append(filter.ParentIDs, id)
		}
	}

	filter.ContentType = c.QueryParam("content_type")
	filter.Label = c.QueryParam("label")

	parseFlag := func(name string, target *bool) bool {
		raw := c.QueryParam(name)
		switch raw {
		case "":
		case "1":
			*target = true
		case "0":
			*target = false
		default:
			respondValidation(c, "invalid "+name)
			return false
		}
		return true
	}
	if !parseFlag("show_active", &filter.ShowActive) {
		return filter, false
	}
	if !parseFlag("show_archived", &filter.ShowArchived) {
		return filter, false
	}
	if !parseFlag("show_deleted", &filter.ShowDeleted) {
		return filter, false
	}

	if raw := c.QueryParam("complete_path_to_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondValidation(c, "invalid complete_path_to_id")
			return filter, false
		}
		filter.CompletePathToID = id
	}

	return filter, true
}

func (h *ContentHandler) List(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	filter, ok := parseContentFilter(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionRead); err != nil {
		respondError(c, err)
		return
	}

	contents, err := h.contentService.ResolveContents(ctx, workspaceID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.ContentResponsesFrom(contents))
}

func (h *ContentHandler) Get(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}
	contentID, ok := paramID(c, "contentId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionRead); err != nil {
		respondError(c, err)
		return
	}

	content, err := h.contentService.GetByID(ctx, workspaceID, contentID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.ContentResponseFrom(content))
}

// Create adds a content under an optional parent. Creating folders is a
// structural change and needs the content-manager role; everything else
// only needs contributor.
func (h *ContentHandler) Create(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	var req dto.CreateContentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.ParentID != nil && *req.ParentID == 0 {
		respondValidation(c, "parent_id must be a positive content id")
		return
	}

	contentType := models.ContentType(req.ContentType)

	action := services.ActionContribute
	if contentType == models.ContentTypeFolder {
		action = services.ActionManageContent
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, action); err != nil {
		respondError(c, err)
		return
	}

	content, err := h.contentService.Create(ctx, workspaceID, req.ParentID, contentType, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastContentCreated(content.WorkspaceID, content.ID, user.ID, string(content.Type), content.Label)
	h.search.IndexContent(search.RecordOf(content))

	_ = c.JSON(201, dto.ContentResponseFrom(content))
}

// Move requires content-manager on both the source and the destination
// workspace.
func (h *ContentHandler) Move(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}
	contentID, ok := paramID(c, "contentId")
	if !ok {
		return
	}

	var req dto.MoveContentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.NewWorkspaceID <= 0 {
		respondValidation(c, "new_workspace_id is required")
		return
	}
	if req.NewParentID != nil && *req.NewParentID == 0 {
		respondValidation(c, "new_parent_id must be a positive content id")
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageContent); err != nil {
		respondError(c, err)
		return
	}
	if req.NewWorkspaceID != workspaceID {
		if err := h.authz.CheckWorkspaceAction(ctx, user, req.NewWorkspaceID, services.ActionManageContent); err != nil {
			respondError(c, err)
			return
		}
	}

	content, err := h.contentService.Move(ctx, workspaceID, contentID, req.NewParentID, req.NewWorkspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastContentUpdated(content.WorkspaceID, content.ID, user.ID, string(content.Type), content.Label)
	h.search.IndexContent(search.RecordOf(content))

	_ = c.JSON(200, dto.ContentResponseFrom(content))
}

func (h *ContentHandler) Trash(c *drift.Context) {
	h.setState(c, h.contentService.Trash)
}

func (h *ContentHandler) RestoreFromTrash(c *drift.Context) {
	h.setState(c, h.contentService.RestoreFromTrash)
}

func (h *ContentHandler) Archive(c *drift.Context) {
	h.setState(c, h.contentService.Archive)
}

func (h *ContentHandler) Unarchive(c *drift.Context) {
	h.setState(c, h.contentService.Unarchive)
}

func (h *ContentHandler) setState(c *drift.Context, op func(ctx context.Context, workspaceID, contentID int64) (*models.Content, error)) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}
	contentID, ok := paramID(c, "contentId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageContent); err != nil {
		respondError(c, err)
		return
	}

	content, err := op(ctx, workspaceID, contentID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastContentUpdated(content.WorkspaceID, content.ID, user.ID, string(content.Type), content.Label)
	h.search.IndexContent(search.RecordOf(content))

	_ = c.JSON(200, dto.ContentResponseFrom(content))
}

// SetAllowedTypes restricts which content types a folder accepts.
func (h *ContentHandler) SetAllowedTypes(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}
	contentID, ok := paramID(c, "contentId")
	if !ok {
		return
	}

	var req dto.SetAllowedTypesRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageContent); err != nil {
		respondError(c, err)
		return
	}

	content, err := h.contentService.SetAllowedTypes(ctx, workspaceID, contentID, req.AllowedTypes)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastContentUpdated(content.WorkspaceID, content.ID, user.ID, string(content.Type), content.Label)

	_ = c.JSON(200, dto.ContentResponseFrom(content))
}
