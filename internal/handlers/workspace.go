package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/services"
	"github.com/tracim/tracim-api/pkg/dto"
)

type WorkspaceHandler struct {
	workspaceService WorkspaceServiceInterface
	roleService      RoleServiceInterface
	authz            AuthorizationInterface
}

func NewWorkspaceHandler(workspaceService WorkspaceServiceInterface, roleService RoleServiceInterface, authz AuthorizationInterface) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		roleService:      roleService,
		authz:            authz,
	}
}

// List returns every workspace the caller belongs to. Admins see all
// workspaces, deleted ones included.
func (h *WorkspaceHandler) List(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := c.Request.Context()

	var (
		workspaces []models.Workspace
		err        error
	)
	if user.Profile == models.ProfileAdmin {
		workspaces, err = h.workspaceService.GetAll(ctx)
	} else {
		workspaces, err = h.workspaceService.GetUserWorkspaces(ctx, user.ID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		response[i] = dto.WorkspaceResponseFrom(&workspaces[i])
	}

	_ = c.JSON(200, response)
}

// Create requires at least the trusted-user profile. The creator is granted
// the workspace-manager role on the new workspace.
func (h *WorkspaceHandler) Create(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	if user.Profile < models.ProfileTrustedUser {
		respondError(c, apperrors.InsufficientUserProfile())
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()

	workspace, err := h.workspaceService.Create(ctx, req.Label, req.Description, req.AgendaEnabled)
	if err != nil {
		respondError(c, err)
		return
	}

	ref := services.UserReference{UserID: user.ID}
	if _, err := h.roleService.Create(ctx, workspace.ID, ref, models.RoleWorkspaceManager, false); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(201, dto.WorkspaceResponseFrom(workspace))
}

func (h *WorkspaceHandler) Get(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionRead); err != nil {
		respondError(c, err)
		return
	}

	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.WorkspaceResponseFrom(workspace))
}

func (h *WorkspaceHandler) Update(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageWorkspace); err != nil {
		respondError(c, err)
		return
	}

	workspace, err := h.workspaceService.Update(ctx, workspaceID, req.Label, req.Description, req.AgendaEnabled)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.WorkspaceResponseFrom(workspace))
}

// Trash soft-deletes a workspace. Its label stays reserved until the
// workspace is restored or purged.
func (h *WorkspaceHandler) Trash(c *drift.Context) {
	h.setTrashed(c, true)
}

func (h *WorkspaceHandler) Restore(c *drift.Context) {
	h.setTrashed(c, false)
}

func (h *WorkspaceHandler) setTrashed(c *drift.Context, trashed bool) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageWorkspace); err != nil {
		respondError(c, err)
		return
	}

	var (
		workspace *models.Workspace
		err       error
	)
	if trashed {
		workspace, err = h.workspaceService.Delete(ctx, workspaceID)
	} else {
		workspace, err = h.workspaceService.Restore(ctx, workspaceID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.WorkspaceResponseFrom(workspace))
}
