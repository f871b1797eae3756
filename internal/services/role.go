package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
)

type RoleService struct {
	db    *database.DB
	users *UserService
}

func NewRoleService(db *database.DB, users *UserService) *RoleService {
	return &RoleService{db: db, users: users}
}

// UserReference identifies the user a role targets. Resolution priority is
// id, then email, then public name.
type UserReference struct {
	UserID     int64
	Email      string
	PublicName string
}

func (s *RoleService) resolveUser(ctx context.Context, ref UserReference) (*models.User, error) {
	switch {
	case ref.UserID != 0:
		return s.users.GetByID(ctx, ref.UserID)
	case ref.Email != "":
		return s.users.GetByEmail(ctx, ref.Email)
	case ref.PublicName != "":
		return s.users.GetByPublicName(ctx, ref.PublicName)
	default:
		return nil, apperrors.Validation("user_id, user_email or user_public_name is required")
	}
}

func (s *RoleService) GetOne(ctx context.Context, workspaceID, userID int64) (*models.UserRoleInWorkspace, error) {
	var role models.UserRoleInWorkspace
	err := s.db.Pool.QueryRow(ctx, `
		SELECT user_id, workspace_id, role, do_notify, created_at
		FROM user_roles
		WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID).Scan(
		&role.UserID, &role.WorkspaceID, &role.Role, &role.DoNotify, &role.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.UserRoleNotFound(userID, workspaceID)
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RoleService) GetMembers(ctx context.Context, workspaceID int64) ([]models.UserRoleInWorkspace, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT ur.user_id, ur.workspace_id, ur.role, ur.do_notify, ur.created_at,
		       u.id, u.email, u.public_name, u.profile, u.is_active, u.is_deleted, u.created_at, u.updated_at
		FROM user_roles ur
		JOIN users u ON ur.user_id = u.id
		WHERE ur.workspace_id = $1
		ORDER BY ur.created_at
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.UserRoleInWorkspace
	for rows.Next() {
		var role models.UserRoleInWorkspace
		var user models.User
		if err := rows.Scan(
			&role.UserID, &role.WorkspaceID, &role.Role, &role.DoNotify, &role.CreatedAt,
			&user.ID, &user.Email, &user.PublicName, &user.Profile,
			&user.IsActive, &user.IsDeleted, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		role.User = &user
		members = append(members, role)
	}
	return members, rows.Err()
}

// Create grants a role in the workspace to the referenced user. The
// resolved user must be active and not deleted, and must not already hold
// a role there.
func (s *RoleService) Create(ctx context.Context, workspaceID int64, ref UserReference, role models.Role, doNotify bool) (*models.UserRoleInWorkspace, error) {
	if role == models.RoleNotApplicable {
		return nil, apperrors.Validation("role is required")
	}

	user, err := s.resolveUser(ctx, ref)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, apperrors.UserDeleted(user.ID)
	}
	if !user.IsActive {
		return nil, apperrors.UserNotActive(user.ID)
	}

	var exists bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_roles WHERE workspace_id = $1 AND user_id = $2)
	`, workspaceID, user.ID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing role: %w", err)
	}
	if exists {
		return nil, apperrors.UserRoleAlreadyExist(user.ID, workspaceID)
	}

	var created models.UserRoleInWorkspace
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO user_roles (user_id, workspace_id, role, do_notify)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, workspace_id, role, do_notify, created_at
	`, user.ID, workspaceID, role, doNotify).Scan(
		&created.UserID, &created.WorkspaceID, &created.Role, &created.DoNotify, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	created.User = user
	return &created, nil
}

func (s *RoleService) Update(ctx context.Context, workspaceID, userID int64, newRole models.Role) (*models.UserRoleInWorkspace, error) {
	var updated models.UserRoleInWorkspace
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE user_roles SET role = $1
		WHERE workspace_id = $2 AND user_id = $3
		RETURNING user_id, workspace_id, role, do_notify, created_at
	`, newRole, workspaceID, userID).Scan(
		&updated.UserID, &updated.WorkspaceID, &updated.Role, &updated.DoNotify, &updated.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.UserRoleNotFound(userID, workspaceID)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete revokes a role. A workspace-manager cannot revoke their own role
// through this path, whether or not other managers remain.
func (s *RoleService) Delete(ctx context.Context, workspaceID, userID, actingUserID int64) error {
	role, err := s.GetOne(ctx, workspaceID, userID)
	if err != nil {
		return err
	}

	if userID == actingUserID && role.Role == models.RoleWorkspaceManager {
		return apperrors.CantRemoveOwnRole(workspaceID)
	}

	_, err = s.db.Pool.Exec(ctx, `
		DELETE FROM user_roles WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID)
	return err
}
