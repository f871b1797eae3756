package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
)

func setupContentService(t *testing.T) (*ContentService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewContentService(db), mock
}

func contentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "workspace_id", "parent_id", "content_type", "label", "slug",
		"status", "allowed_types", "is_deleted", "is_archived", "show_in_ui",
		"created_at", "updated_at",
	})
}

func addContentRow(rows *pgxmock.Rows, c models.Content) *pgxmock.Rows {
	return rows.AddRow(
		c.ID, c.WorkspaceID, c.ParentID, c.Type, c.Label, c.Slug,
		c.Status, c.AllowedTypes, c.IsDeleted, c.IsArchived, c.ShowInUI,
		c.CreatedAt, c.UpdatedAt,
	)
}

func TestContentService_Create_AtRoot(t *testing.T) {
	svc, mock := setupContentService(t)
	now := time.Now()

	mock.ExpectQuery(`FROM workspaces`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(1), (*int64)(nil), "Notes", models.ContentTypeHTMLDocument, int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectQuery(`INSERT INTO contents`).
		WithArgs(int64(1), (*int64)(nil), models.ContentTypeHTMLDocument, "Notes", "notes", models.StatusOpen).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, Type: models.ContentTypeHTMLDocument,
			Label: "Notes", Slug: "notes", Status: models.StatusOpen,
			ShowInUI: true, CreatedAt: now, UpdatedAt: now,
		}))

	content, err := svc.Create(context.Background(), 1, nil, models.ContentTypeHTMLDocument, "Notes")

	require.NoError(t, err)
	assert.Equal(t, int64(10), content.ID)
	assert.Equal(t, models.StatusOpen, content.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Create_UnknownType(t *testing.T) {
	svc, _ := setupContentService(t)

	_, err := svc.Create(context.Background(), 1, nil, "spreadsheet", "Budget")

	assert.Equal(t, apperrors.CodeContentTypeNotExist, apperrors.CodeOf(err))
}

func TestContentService_Create_ParentNotFound(t *testing.T) {
	svc, mock := setupContentService(t)
	parentID := int64(99)

	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(parentID, int64(1)).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Create(context.Background(), 1, &parentID, models.ContentTypeFile, "report.pdf")

	assert.Equal(t, apperrors.CodeParentNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Create_UnallowedSubContent(t *testing.T) {
	svc, mock := setupContentService(t)
	parentID := int64(5)

	// A thread only accepts comments underneath.
	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(parentID, int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 5, WorkspaceID: 1, Type: models.ContentTypeThread,
			Label: "Discussion", Slug: "discussion", Status: models.StatusOpen,
		}))

	_, err := svc.Create(context.Background(), 1, &parentID, models.ContentTypeFolder, "Sub")

	assert.Equal(t, apperrors.CodeUnallowedSubContent, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Create_RestrictedFolder(t *testing.T) {
	svc, mock := setupContentService(t)
	parentID := int64(5)

	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(parentID, int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 5, WorkspaceID: 1, Type: models.ContentTypeFolder,
			Label: "Threads only", Slug: "threads-only", Status: models.StatusOpen,
			AllowedTypes: []string{"thread"},
		}))

	_, err := svc.Create(context.Background(), 1, &parentID, models.ContentTypeFile, "report.pdf")

	assert.Equal(t, apperrors.CodeUnallowedSubContent, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Create_WorkspaceNotFound(t *testing.T) {
	svc, mock := setupContentService(t)

	// Root creation in a workspace that never existed must surface the
	// domain error, not the insert's foreign key violation.
	mock.ExpectQuery(`FROM workspaces`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := svc.Create(context.Background(), 99, nil, models.ContentTypeHTMLDocument, "Notes")

	assert.Equal(t, apperrors.CodeWorkspaceNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Create_FilenameAlreadyUsed(t *testing.T) {
	svc, mock := setupContentService(t)

	mock.ExpectQuery(`FROM workspaces`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(1), (*int64)(nil), "Notes", models.ContentTypeHTMLDocument, int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(context.Background(), 1, nil, models.ContentTypeHTMLDocument, "Notes")

	assert.Equal(t, apperrors.CodeFilenameAlreadyUsed, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Move_WorkspaceDoNotMatch(t *testing.T) {
	svc, mock := setupContentService(t)
	newParentID := int64(20)

	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, Type: models.ContentTypeFile,
			Label: "report.pdf", Slug: "report-pdf", Status: models.StatusOpen,
		}))

	// The requested parent lives in workspace 3, not the declared 2.
	mock.ExpectQuery(`SELECT .+ FROM contents WHERE id`).
		WithArgs(newParentID).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 20, WorkspaceID: 3, Type: models.ContentTypeFolder,
			Label: "Elsewhere", Slug: "elsewhere", Status: models.StatusOpen,
		}))

	_, err := svc.Move(context.Background(), 1, 10, &newParentID, 2)

	assert.Equal(t, apperrors.CodeWorkspaceDoNotMatch, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Move_AcrossWorkspacesMovesSubtree(t *testing.T) {
	svc, mock := setupContentService(t)
	newParentID := int64(20)

	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, Type: models.ContentTypeFolder,
			Label: "Reports", Slug: "reports", Status: models.StatusOpen,
		}))

	mock.ExpectQuery(`SELECT .+ FROM contents WHERE id`).
		WithArgs(newParentID).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 20, WorkspaceID: 2, Type: models.ContentTypeFolder,
			Label: "Archive", Slug: "archive", Status: models.StatusOpen,
		}))

	mock.ExpectQuery(`WITH RECURSIVE ancestors`).
		WithArgs(int64(20), int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2), &newParentID, "Reports", models.ContentTypeFolder, int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE contents`).
		WithArgs(&newParentID, int64(2), int64(10)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 2, ParentID: &newParentID,
			Type: models.ContentTypeFolder, Label: "Reports", Slug: "reports",
			Status: models.StatusOpen,
		}))
	mock.ExpectExec(`WITH RECURSIVE subtree`).
		WithArgs(int64(10), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectCommit()

	moved, err := svc.Move(context.Background(), 1, 10, &newParentID, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(2), moved.WorkspaceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Move_IntoOwnSubtreeRejected(t *testing.T) {
	svc, mock := setupContentService(t)
	newParentID := int64(30)

	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, Type: models.ContentTypeFolder,
			Label: "Reports", Slug: "reports", Status: models.StatusOpen,
		}))

	// The requested parent is a grandchild of the moved folder.
	mock.ExpectQuery(`SELECT .+ FROM contents WHERE id`).
		WithArgs(newParentID).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 30, WorkspaceID: 1, ParentID: ptr(20),
			Type: models.ContentTypeFolder, Label: "Deep",
			Slug: "deep", Status: models.StatusOpen,
		}))

	mock.ExpectQuery(`WITH RECURSIVE ancestors`).
		WithArgs(int64(30), int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Move(context.Background(), 1, 10, &newParentID, 1)

	assert.Equal(t, apperrors.CodeGenericValidationError, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Move_SameParentSkipsChecks(t *testing.T) {
	svc, mock := setupContentService(t)
	parentID := int64(20)

	// A no-op structural move never runs the allowed-children or the
	// sibling collision checks.
	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, ParentID: &parentID,
			Type: models.ContentTypeFile, Label: "report.pdf",
			Slug: "report-pdf", Status: models.StatusOpen,
		}))

	mock.ExpectQuery(`SELECT .+ FROM contents WHERE id`).
		WithArgs(parentID).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 20, WorkspaceID: 1, Type: models.ContentTypeThread,
			Label: "Discussion", Slug: "discussion", Status: models.StatusOpen,
		}))

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE contents`).
		WithArgs(&parentID, int64(1), int64(10)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, ParentID: &parentID,
			Type: models.ContentTypeFile, Label: "report.pdf",
			Slug: "report-pdf", Status: models.StatusOpen,
		}))
	mock.ExpectCommit()

	_, err := svc.Move(context.Background(), 1, 10, &parentID, 1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_TrashAndRestore(t *testing.T) {
	svc, mock := setupContentService(t)

	mock.ExpectQuery(`UPDATE contents SET is_deleted`).
		WithArgs(true, int64(10), int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, Type: models.ContentTypeFile,
			Label: "report.pdf", Slug: "report-pdf", Status: models.StatusOpen,
			IsDeleted: true,
		}))

	trashed, err := svc.Trash(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, trashed.IsDeleted)

	mock.ExpectQuery(`UPDATE contents SET is_deleted`).
		WithArgs(false, int64(10), int64(1)).
		WillReturnRows(addContentRow(contentRows(), models.Content{
			ID: 10, WorkspaceID: 1, Type: models.ContentTypeFile,
			Label: "report.pdf", Slug: "report-pdf", Status: models.StatusOpen,
		}))

	restored, err := svc.RestoreFromTrash(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_Archive_NotFound(t *testing.T) {
	svc, mock := setupContentService(t)

	mock.ExpectQuery(`UPDATE contents SET is_archived`).
		WithArgs(true, int64(77), int64(1)).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Archive(context.Background(), 1, 77)

	assert.Equal(t, apperrors.CodeContentNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentService_ResolveContents(t *testing.T) {
	svc, mock := setupContentService(t)
	folderID := int64(1)

	rows := contentRows()
	addContentRow(rows, models.Content{
		ID: 1, WorkspaceID: 1, Type: models.ContentTypeFolder,
		Label: "Projects", Slug: "projects", Status: models.StatusOpen,
	})
	addContentRow(rows, models.Content{
		ID: 2, WorkspaceID: 1, ParentID: &folderID,
		Type: models.ContentTypeHTMLDocument, Label: "Notes", Slug: "notes",
		Status: models.StatusOpen,
	})
	addContentRow(rows, models.Content{
		ID: 3, WorkspaceID: 1, Type: models.ContentTypeThread,
		Label: "Old", Slug: "old", Status: models.StatusOpen, IsDeleted: true,
	})

	mock.ExpectQuery(`SELECT .+ FROM contents`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	contents, err := svc.ResolveContents(context.Background(), 1, DefaultContentFilter())

	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, int64(1), contents[0].ID)
	assert.Equal(t, int64(2), contents[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
