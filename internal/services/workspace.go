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

const workspaceColumns = `id, label, slug, description, agenda_enabled, is_deleted, created_at, updated_at`

type WorkspaceService struct {
	db *database.DB
}

func NewWorkspaceService(db *database.DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

func scanWorkspace(row pgx.Row) (*models.Workspace, error) {
	var w models.Workspace
	err := row.Scan(
		&w.ID, &w.Label, &w.Slug, &w.Description,
		&w.AgendaEnabled, &w.IsDeleted, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// labelInUse reports whether a non-deleted workspace other than excludeID
// already carries the label. Deleted workspaces never block a label.
func (s *WorkspaceService) labelInUse(ctx context.Context, label string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM workspaces
			WHERE label = $1 AND is_deleted = FALSE AND id != $2
		)
	`, label, excludeID).Scan(&exists)
	return exists, err
}

func (s *WorkspaceService) Create(ctx context.Context, label, description string, agendaEnabled bool) (*models.Workspace, error) {
	if label == "" {
		return nil, apperrors.Validation("label must not be empty")
	}

	inUse, err := s.labelInUse(ctx, label, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check workspace label: %w", err)
	}
	if inUse {
		return nil, apperrors.WorkspaceLabelAlreadyUsed(label)
	}

	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		INSERT INTO workspaces (label, slug, description, agenda_enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING `+workspaceColumns+`
	`, label, models.Slugify(label), description, agendaEnabled))
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return workspace, nil
}

func (s *WorkspaceService) GetByID(ctx context.Context, workspaceID int64) (*models.Workspace, error) {
	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1
	`, workspaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.WorkspaceNotFound(workspaceID)
	}
	return workspace, err
}

// GetUserWorkspaces lists non-deleted workspaces where the user holds a
// role, most recently created first.
func (s *WorkspaceService) GetUserWorkspaces(ctx context.Context, userID int64) ([]models.Workspace, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT w.id, w.label, w.slug, w.description, w.agenda_enabled, w.is_deleted, w.created_at, w.updated_at
		FROM workspaces w
		JOIN user_roles ur ON w.id = ur.workspace_id
		WHERE ur.user_id = $1 AND w.is_deleted = FALSE
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []models.Workspace
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(
			&w.ID, &w.Label, &w.Slug, &w.Description,
			&w.AgendaEnabled, &w.IsDeleted, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

// GetAll lists every workspace including deleted ones. Administrator-only
// at the HTTP layer.
func (s *WorkspaceService) GetAll(ctx context.Context) ([]models.Workspace, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+workspaceColumns+` FROM workspaces ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []models.Workspace
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(
			&w.ID, &w.Label, &w.Slug, &w.Description,
			&w.AgendaEnabled, &w.IsDeleted, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

// Update mutates label, description or the agenda flag. Renaming a
// workspace to its own current label is allowed.
func (s *WorkspaceService) Update(ctx context.Context, workspaceID int64, label, description *string, agendaEnabled *bool) (*models.Workspace, error) {
	workspace, err := s.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if label != nil {
		if *label == "" {
			return nil, apperrors.Validation("label must not be empty")
		}
		inUse, err := s.labelInUse(ctx, *label, workspaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to check workspace label: %w", err)
		}
		if inUse {
			return nil, apperrors.WorkspaceLabelAlreadyUsed(*label)
		}
		workspace.Label = *label
		workspace.Slug = models.Slugify(*label)
	}
	if description != nil {
		workspace.Description = *description
	}
	if agendaEnabled != nil {
		workspace.AgendaEnabled = *agendaEnabled
	}

	return scanWorkspace(s.db.Pool.QueryRow(ctx, `
		UPDATE workspaces
		SET label = $1, slug = $2, description = $3, agenda_enabled = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+workspaceColumns+`
	`, workspace.Label, workspace.Slug, workspace.Description, workspace.AgendaEnabled, workspaceID))
}

// Delete soft-deletes the workspace. Idempotent: deleting a deleted
// workspace has no further effect.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID int64) (*models.Workspace, error) {
	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		UPDATE workspaces SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING `+workspaceColumns+`
	`, workspaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.WorkspaceNotFound(workspaceID)
	}
	return workspace, err
}

// Restore clears the deleted flag. Label collisions with workspaces created
// in the meantime are not re-checked here.
func (s *WorkspaceService) Restore(ctx context.Context, workspaceID int64) (*models.Workspace, error) {
	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		UPDATE workspaces SET is_deleted = FALSE, updated_at = NOW()
		WHERE id = $1
		RETURNING `+workspaceColumns+`
	`, workspaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.WorkspaceNotFound(workspaceID)
	}
	return workspace, err
}
