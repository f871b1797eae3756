package handlers

import (
	"log"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/services"
	"github.com/tracim/tracim-api/pkg/dto"
)

type RoleHandler struct {
	roleService      RoleServiceInterface
	workspaceService WorkspaceServiceInterface
	authz            AuthorizationInterface
	hub              HubInterface
	email            EmailServiceInterface
}

func NewRoleHandler(roleService RoleServiceInterface, workspaceService WorkspaceServiceInterface, authz AuthorizationInterface, hub HubInterface, email EmailServiceInterface) *RoleHandler {
	return &RoleHandler{
		roleService:      roleService,
		workspaceService: workspaceService,
		authz:            authz,
		hub:              hub,
		email:            email,
	}
}

func (h *RoleHandler) List(c *drift.Context) {
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

	members, err := h.roleService.GetMembers(ctx, workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.RoleResponse, len(members))
	for i := range members {
		response[i] = dto.RoleResponseFrom(&members[i])
	}

	_ = c.JSON(200, response)
}

// Create grants a role to a user identified by id, email or public name.
func (h *RoleHandler) Create(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	var req dto.CreateRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	role := models.ParseRole(req.Role)
	if role == models.RoleNotApplicable {
		respondValidation(c, "unknown role "+req.Role)
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageRoles); err != nil {
		respondError(c, err)
		return
	}

	ref := services.UserReference{
		UserID:     req.UserID,
		Email:      req.UserEmail,
		PublicName: req.UserPublicName,
	}

	created, err := h.roleService.Create(ctx, workspaceID, ref, role, req.DoNotify)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastRoleGranted(workspaceID, created.UserID, created.Role.Slug())
	h.notifyRoleGranted(c, workspaceID, created)

	_ = c.JSON(200, dto.RoleResponseFrom(created))
}

// notifyRoleGranted sends the invite mail in the background so a slow SMTP
// server never delays the response.
func (h *RoleHandler) notifyRoleGranted(c *drift.Context, workspaceID int64, role *models.UserRoleInWorkspace) {
	if !role.DoNotify || !h.email.IsConfigured() || role.User == nil {
		return
	}

	workspace, err := h.workspaceService.GetByID(c.Request.Context(), workspaceID)
	if err != nil {
		log.Printf("role notification: workspace %d lookup failed: %v", workspaceID, err)
		return
	}

	to := role.User.Email
	label := workspace.Label
	slug := role.Role.Slug()
	go func() {
		if err := h.email.SendRoleGrantedNotification(to, label, slug); err != nil {
			log.Printf("role notification to %s failed: %v", to, err)
		}
	}()
}

func (h *RoleHandler) Update(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	role := models.ParseRole(req.Role)
	if role == models.RoleNotApplicable {
		respondValidation(c, "unknown role "+req.Role)
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageRoles); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.roleService.Update(ctx, workspaceID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.RoleResponseFrom(updated))
}

func (h *RoleHandler) Delete(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.CheckWorkspaceAction(ctx, user, workspaceID, services.ActionManageRoles); err != nil {
		respondError(c, err)
		return
	}

	if err := h.roleService.Delete(ctx, workspaceID, userID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "role removed"})
}
