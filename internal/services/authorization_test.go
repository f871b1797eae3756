package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
)

func setupAuthorizationService(t *testing.T) (*AuthorizationService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewAuthorizationService(db), mock
}

func expectRole(mock pgxmock.PgxPoolIface, userID, workspaceID int64, role models.Role) {
	mock.ExpectQuery(`SELECT role FROM user_roles`).
		WithArgs(userID, workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(role))
}

func expectNoRole(mock pgxmock.PgxPoolIface, userID, workspaceID int64) {
	mock.ExpectQuery(`SELECT role FROM user_roles`).
		WithArgs(userID, workspaceID).
		WillReturnError(pgx.ErrNoRows)
}

func TestAuthorization_AdminBypassesEverything(t *testing.T) {
	svc, mock := setupAuthorizationService(t)
	admin := &models.User{ID: 1, Profile: models.ProfileAdmin}

	// No role lookup happens at all for administrators.
	for _, action := range []Action{ActionRead, ActionContribute, ActionManageContent, ActionManageWorkspace, ActionManageRoles} {
		assert.NoError(t, svc.CheckWorkspaceAction(context.Background(), admin, 1, action))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorization_ReaderCanReadNothingMore(t *testing.T) {
	svc, mock := setupAuthorizationService(t)
	user := &models.User{ID: 2, Profile: models.ProfileUser}

	expectRole(mock, 2, 1, models.RoleReader)
	assert.NoError(t, svc.CheckWorkspaceAction(context.Background(), user, 1, ActionRead))

	expectRole(mock, 2, 1, models.RoleReader)
	err := svc.CheckWorkspaceAction(context.Background(), user, 1, ActionContribute)
	assert.Equal(t, apperrors.CodeInsufficientUserRole, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorization_NoRoleHidesWorkspaceExistence(t *testing.T) {
	svc, mock := setupAuthorizationService(t)
	user := &models.User{ID: 2, Profile: models.ProfileUser}

	expectNoRole(mock, 2, 1)
	err := svc.CheckWorkspaceAction(context.Background(), user, 1, ActionRead)

	var ae *apperrors.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperrors.CodeWorkspaceNotFound, ae.Code)
	assert.Equal(t, 400, ae.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorization_ManageWorkspaceChecksProfileFirst(t *testing.T) {
	svc, mock := setupAuthorizationService(t)

	// A plain user with a workspace-manager role still fails on profile,
	// before any role row is consulted.
	user := &models.User{ID: 2, Profile: models.ProfileUser}
	err := svc.CheckWorkspaceAction(context.Background(), user, 1, ActionManageWorkspace)
	assert.Equal(t, apperrors.CodeInsufficientUserProfile, apperrors.CodeOf(err))

	trusted := &models.User{ID: 3, Profile: models.ProfileTrustedUser}
	expectRole(mock, 3, 1, models.RoleWorkspaceManager)
	assert.NoError(t, svc.CheckWorkspaceAction(context.Background(), trusted, 1, ActionManageWorkspace))

	expectRole(mock, 3, 1, models.RoleContentManager)
	err = svc.CheckWorkspaceAction(context.Background(), trusted, 1, ActionManageWorkspace)
	assert.Equal(t, apperrors.CodeInsufficientUserRole, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorization_ContentManagerLadder(t *testing.T) {
	svc, mock := setupAuthorizationService(t)
	user := &models.User{ID: 2, Profile: models.ProfileUser}

	expectRole(mock, 2, 1, models.RoleContentManager)
	assert.NoError(t, svc.CheckWorkspaceAction(context.Background(), user, 1, ActionManageContent))

	expectRole(mock, 2, 1, models.RoleContributor)
	err := svc.CheckWorkspaceAction(context.Background(), user, 1, ActionManageContent)
	assert.Equal(t, apperrors.CodeInsufficientUserRole, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorization_ManageRolesRequiresWorkspaceManager(t *testing.T) {
	svc, mock := setupAuthorizationService(t)
	user := &models.User{ID: 2, Profile: models.ProfileUser}

	expectRole(mock, 2, 1, models.RoleWorkspaceManager)
	assert.NoError(t, svc.CheckWorkspaceAction(context.Background(), user, 1, ActionManageRoles))

	expectRole(mock, 2, 1, models.RoleContentManager)
	err := svc.CheckWorkspaceAction(context.Background(), user, 1, ActionManageRoles)
	assert.Equal(t, apperrors.CodeInsufficientUserRole, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorization_RoleInWorkspace(t *testing.T) {
	svc, mock := setupAuthorizationService(t)

	expectRole(mock, 2, 1, models.RoleContributor)
	role, err := svc.RoleInWorkspace(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RoleContributor, role)

	expectNoRole(mock, 2, 9)
	role, err = svc.RoleInWorkspace(context.Background(), 2, 9)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNotApplicable, role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
