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

const contentColumns = `id, workspace_id, parent_id, content_type, label, slug, status, allowed_types, is_deleted, is_archived, show_in_ui, created_at, updated_at`

type ContentService struct {
	db *database.DB
}

func NewContentService(db *database.DB) *ContentService {
	return &ContentService{db: db}
}

func scanContent(row pgx.Row) (*models.Content, error) {
	var c models.Content
	err := row.Scan(
		&c.ID, &c.WorkspaceID, &c.ParentID, &c.Type, &c.Label, &c.Slug,
		&c.Status, &c.AllowedTypes, &c.IsDeleted, &c.IsArchived, &c.ShowInUI,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContentService) getWorkspaceContents(ctx context.Context, workspaceID int64) ([]models.Content, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE workspace_id = $1
		ORDER BY id
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []models.Content
	for rows.Next() {
		var c models.Content
		if err := rows.Scan(
			&c.ID, &c.WorkspaceID, &c.ParentID, &c.Type, &c.Label, &c.Slug,
			&c.Status, &c.AllowedTypes, &c.IsDeleted, &c.IsArchived, &c.ShowInUI,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// ResolveContents returns the content nodes of the workspace matching the
// filter, extended with the ancestor path of CompletePathToID when set.
func (s *ContentService) ResolveContents(ctx context.Context, workspaceID int64, filter ContentFilter) ([]models.Content, error) {
	contents, err := s.getWorkspaceContents(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace contents: %w", err)
	}
	return resolveFilter(contents, filter), nil
}

func (s *ContentService) GetByID(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	content, err := scanContent(s.db.Pool.QueryRow(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE id = $1 AND workspace_id = $2
	`, contentID, workspaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ContentNotFound(contentID)
	}
	return content, err
}

// filenameInUse reports whether an active (neither deleted nor archived)
// sibling with the same label and type already exists under the parent.
func (s *ContentService) filenameInUse(ctx context.Context, workspaceID int64, parentID *int64, label string, contentType models.ContentType, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM contents
			WHERE workspace_id = $1
			  AND parent_id IS NOT DISTINCT FROM $2
			  AND label = $3
			  AND content_type = $4
			  AND is_deleted = FALSE
			  AND is_archived = FALSE
			  AND id != $5
		)
	`, workspaceID, parentID, label, contentType, excludeID).Scan(&exists)
	return exists, err
}

// parentChainContains reports whether contentID appears in the ancestor
// chain starting at startID, startID included. Reparenting under one's own
// descendant would orphan the subtree into a parent cycle, so Move refuses
// it. UNION keeps the walk finite even over an already corrupted chain.
func (s *ContentService) parentChainContains(ctx context.Context, startID, contentID int64) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id FROM contents WHERE id = $1
			UNION
			SELECT c.id, c.parent_id FROM contents c
			JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)
	`, startID, contentID).Scan(&exists)
	return exists, err
}

// Create adds a content node under the given parent, or at the workspace
// root when parentID is nil.
func (s *ContentService) Create(ctx context.Context, workspaceID int64, parentID *int64, contentType models.ContentType, label string) (*models.Content, error) {
	if !models.KnownContentType(string(contentType)) {
		return nil, apperrors.ContentTypeNotExist(string(contentType))
	}
	if label == "" {
		return nil, apperrors.Validation("label must not be empty")
	}

	if parentID != nil {
		parent, err := scanContent(s.db.Pool.QueryRow(ctx, `
			SELECT `+contentColumns+` FROM contents
			WHERE id = $1 AND workspace_id = $2
		`, *parentID, workspaceID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ParentNotFound(*parentID)
		}
		if err != nil {
			return nil, err
		}
		if !parent.AllowsSubContent(contentType) {
			return nil, apperrors.UnallowedSubContent(string(contentType))
		}
	} else {
		// A parent lookup is workspace scoped, so only root creations still
		// need the workspace checked before the insert hits its foreign key.
		var wsExists bool
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM workspaces WHERE id = $1 AND is_deleted = FALSE)
		`, workspaceID).Scan(&wsExists)
		if err != nil {
			return nil, fmt.Errorf("failed to check workspace: %w", err)
		}
		if !wsExists {
			return nil, apperrors.WorkspaceNotFound(workspaceID)
		}
	}

	inUse, err := s.filenameInUse(ctx, workspaceID, parentID, label, contentType, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check content label: %w", err)
	}
	if inUse {
		return nil, apperrors.FilenameAlreadyUsed(label)
	}

	content, err := scanContent(s.db.Pool.QueryRow(ctx, `
		INSERT INTO contents (workspace_id, parent_id, content_type, label, slug, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contentColumns+`
	`, workspaceID, parentID, contentType, label, models.Slugify(label), models.StatusOpen))
	if err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}
	return content, nil
}

// Move reparents a content node, possibly across workspaces. A folder moves
// with its whole subtree in one transaction. The allowed-children check is
// bypassed only when the move changes nothing structurally (same parent,
// same workspace), matching the rename case.
func (s *ContentService) Move(ctx context.Context, workspaceID, contentID int64, newParentID *int64, newWorkspaceID int64) (*models.Content, error) {
	content, err := s.GetByID(ctx, workspaceID, contentID)
	if err != nil {
		return nil, err
	}

	var parent *models.Content
	if newParentID != nil {
		parent, err = scanContent(s.db.Pool.QueryRow(ctx, `
			SELECT `+contentColumns+` FROM contents WHERE id = $1
		`, *newParentID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ParentNotFound(*newParentID)
		}
		if err != nil {
			return nil, err
		}
		if parent.WorkspaceID != newWorkspaceID {
			return nil, apperrors.WorkspaceDoNotMatch()
		}
	}

	sameParent := content.WorkspaceID == newWorkspaceID && equalParent(content.ParentID, newParentID)
	if !sameParent {
		if parent != nil {
			if !parent.AllowsSubContent(content.Type) {
				return nil, apperrors.UnallowedSubContent(string(content.Type))
			}
			inSubtree, err := s.parentChainContains(ctx, parent.ID, contentID)
			if err != nil {
				return nil, fmt.Errorf("failed to check content ancestry: %w", err)
			}
			if inSubtree {
				return nil, apperrors.Validation("cannot move a content into its own subtree")
			}
		}
		inUse, err := s.filenameInUse(ctx, newWorkspaceID, newParentID, content.Label, content.Type, contentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check content label: %w", err)
		}
		if inUse {
			return nil, apperrors.FilenameAlreadyUsed(content.Label)
		}
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	moved, err := scanContent(tx.QueryRow(ctx, `
		UPDATE contents
		SET parent_id = $1, workspace_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+contentColumns+`
	`, newParentID, newWorkspaceID, contentID))
	if err != nil {
		return nil, fmt.Errorf("failed to move content: %w", err)
	}

	if content.WorkspaceID != newWorkspaceID {
		// The whole subtree follows the moved node into the new workspace.
		_, err = tx.Exec(ctx, `
			WITH RECURSIVE subtree AS (
				SELECT id FROM contents WHERE parent_id = $1
				UNION ALL
				SELECT c.id FROM contents c JOIN subtree s ON c.parent_id = s.id
			)
			UPDATE contents SET workspace_id = $2, updated_at = NOW()
			WHERE id IN (SELECT id FROM subtree)
		`, contentID, newWorkspaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to move content subtree: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return moved, nil
}

func equalParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *ContentService) setFlag(ctx context.Context, workspaceID, contentID int64, column string, value bool) (*models.Content, error) {
	// column is one of the two fixed flag names, never caller input.
	content, err := scanContent(s.db.Pool.QueryRow(ctx, `
		UPDATE contents SET `+column+` = $1, updated_at = NOW()
		WHERE id = $2 AND workspace_id = $3
		RETURNING `+contentColumns+`
	`, value, contentID, workspaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ContentNotFound(contentID)
	}
	return content, err
}

// Trash and the three toggles below are idempotent and independent: the
// deleted and archived flags never affect each other.
func (s *ContentService) Trash(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	return s.setFlag(ctx, workspaceID, contentID, "is_deleted", true)
}

func (s *ContentService) RestoreFromTrash(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	return s.setFlag(ctx, workspaceID, contentID, "is_deleted", false)
}

func (s *ContentService) Archive(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	return s.setFlag(ctx, workspaceID, contentID, "is_archived", true)
}

func (s *ContentService) Unarchive(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	return s.setFlag(ctx, workspaceID, contentID, "is_archived", false)
}

// SetAllowedTypes restricts which content types may be created under a
// folder. nil clears the restriction.
func (s *ContentService) SetAllowedTypes(ctx context.Context, workspaceID, contentID int64, allowed []string) (*models.Content, error) {
	content, err := scanContent(s.db.Pool.QueryRow(ctx, `
		UPDATE contents SET allowed_types = $1, updated_at = NOW()
		WHERE id = $2 AND workspace_id = $3 AND content_type = $4
		RETURNING `+contentColumns+`
	`, allowed, contentID, workspaceID, models.ContentTypeFolder))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ContentNotFound(contentID)
	}
	return content, err
}
