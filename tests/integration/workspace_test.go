package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/services"
	"github.com/tracim/tracim-api/tests/testutil"
)

func TestWorkspaceService_Integration_LabelUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	first, err := svc.Create(ctx, "Recipes", "", true)
	require.NoError(t, err)
	assert.Equal(t, "recipes", first.Slug)

	// Same label again is a conflict while the workspace is active.
	_, err = svc.Create(ctx, "Recipes", "", true)
	assert.Equal(t, apperrors.CodeWorkspaceLabelAlreadyUsed, apperrors.CodeOf(err))

	// A trashed workspace keeps its label reserved.
	_, err = svc.Delete(ctx, first.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Recipes", "", true)
	assert.Equal(t, apperrors.CodeWorkspaceLabelAlreadyUsed, apperrors.CodeOf(err))

	// Restore never fails on its own label.
	restored, err := svc.Restore(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
}

func TestWorkspaceService_Integration_UpdateRename(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	ws, err := svc.Create(ctx, "Old Label", "", true)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Taken", "", true)
	require.NoError(t, err)

	taken := "Taken"
	_, err = svc.Update(ctx, ws.ID, &taken, nil, nil)
	assert.Equal(t, apperrors.CodeWorkspaceLabelAlreadyUsed, apperrors.CodeOf(err))

	fresh := "New Label"
	updated, err := svc.Update(ctx, ws.ID, &fresh, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "New Label", updated.Label)
	assert.Equal(t, "new-label", updated.Slug)
}

func TestWorkspaceService_Integration_GetUserWorkspaces(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	mine := fixtures.CreateWorkspace(t, "Mine")
	fixtures.CreateWorkspace(t, "Not Mine")
	fixtures.GrantRole(t, user.ID, mine.ID, models.RoleReader)

	workspaces, err := svc.GetUserWorkspaces(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, workspaces, 1)
	assert.Equal(t, mine.ID, workspaces[0].ID)
}
