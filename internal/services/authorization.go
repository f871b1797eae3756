package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
)

// Action is a workspace-scoped capability checked against the caller's role.
type Action int

const (
	ActionRead Action = iota
	ActionContribute
	ActionManageContent
	ActionManageWorkspace
	ActionManageRoles
)

// minimumRole maps each action to the weakest role allowed to perform it.
func minimumRole(action Action) models.Role {
	switch action {
	case ActionRead:
		return models.RoleReader
	case ActionContribute:
		return models.RoleContributor
	case ActionManageContent:
		return models.RoleContentManager
	default:
		return models.RoleWorkspaceManager
	}
}

type AuthorizationService struct {
	db *database.DB
}

func NewAuthorizationService(db *database.DB) *AuthorizationService {
	return &AuthorizationService{db: db}
}

// RoleInWorkspace returns the user's role in the workspace, or
// RoleNotApplicable when the user holds none.
func (s *AuthorizationService) RoleInWorkspace(ctx context.Context, userID, workspaceID int64) (models.Role, error) {
	var role models.Role
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM user_roles WHERE user_id = $1 AND workspace_id = $2
	`, userID, workspaceID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RoleNotApplicable, nil
	}
	if err != nil {
		return models.RoleNotApplicable, err
	}
	return role, nil
}

// CheckWorkspaceAction authorizes action for user in the workspace.
//
// Administrators pass every check. A caller without any role is told the
// workspace does not exist rather than that access is denied. Workspace
// management additionally requires the trusted-user profile, and that
// profile check happens before the role check.
func (s *AuthorizationService) CheckWorkspaceAction(ctx context.Context, user *models.User, workspaceID int64, action Action) error {
	if user.Profile == models.ProfileAdmin {
		return nil
	}

	if action == ActionManageWorkspace && user.Profile < models.ProfileTrustedUser {
		return apperrors.InsufficientUserProfile()
	}

	role, err := s.RoleInWorkspace(ctx, user.ID, workspaceID)
	if err != nil {
		return err
	}
	if role == models.RoleNotApplicable {
		return apperrors.WorkspaceNotFound(workspaceID)
	}
	if !role.Meets(minimumRole(action)) {
		return apperrors.InsufficientUserRole(workspaceID)
	}
	return nil
}
