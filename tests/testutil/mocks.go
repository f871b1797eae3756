package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/search"
	"github.com/tracim/tracim-api/internal/services"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdatePublicName(ctx context.Context, id int64, publicName string) (*models.User, error) {
	args := m.Called(ctx, id, publicName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockWorkspaceService mocks the WorkspaceService
type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, label, description string, agendaEnabled bool) (*models.Workspace, error) {
	args := m.Called(ctx, label, description, agendaEnabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetByID(ctx context.Context, workspaceID int64) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetUserWorkspaces(ctx context.Context, userID int64) ([]models.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetAll(ctx context.Context) ([]models.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Update(ctx context.Context, workspaceID int64, label, description *string, agendaEnabled *bool) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID, label, description, agendaEnabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, workspaceID int64) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Restore(ctx context.Context, workspaceID int64) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

// MockContentService mocks the ContentService
type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) ResolveContents(ctx context.Context, workspaceID int64, filter services.ContentFilter) ([]models.Content, error) {
	args := m.Called(ctx, workspaceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Content), args.Error(1)
}

func (m *MockContentService) GetByID(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) Create(ctx context.Context, workspaceID int64, parentID *int64, contentType models.ContentType, label string) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, parentID, contentType, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) Move(ctx context.Context, workspaceID, contentID int64, newParentID *int64, newWorkspaceID int64) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, contentID, newParentID, newWorkspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) Trash(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) RestoreFromTrash(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) Archive(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) Unarchive(ctx context.Context, workspaceID, contentID int64) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) SetAllowedTypes(ctx context.Context, workspaceID, contentID int64, allowed []string) (*models.Content, error) {
	args := m.Called(ctx, workspaceID, contentID, allowed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

// MockRoleService mocks the RoleService
type MockRoleService struct {
	mock.Mock
}

func (m *MockRoleService) GetMembers(ctx context.Context, workspaceID int64) ([]models.UserRoleInWorkspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserRoleInWorkspace), args.Error(1)
}

func (m *MockRoleService) Create(ctx context.Context, workspaceID int64, ref services.UserReference, role models.Role, doNotify bool) (*models.UserRoleInWorkspace, error) {
	args := m.Called(ctx, workspaceID, ref, role, doNotify)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRoleInWorkspace), args.Error(1)
}

func (m *MockRoleService) Update(ctx context.Context, workspaceID, userID int64, newRole models.Role) (*models.UserRoleInWorkspace, error) {
	args := m.Called(ctx, workspaceID, userID, newRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRoleInWorkspace), args.Error(1)
}

func (m *MockRoleService) Delete(ctx context.Context, workspaceID, userID, actingUserID int64) error {
	args := m.Called(ctx, workspaceID, userID, actingUserID)
	return args.Error(0)
}

// MockAuthorization mocks the workspace permission checks
type MockAuthorization struct {
	mock.Mock
}

func (m *MockAuthorization) CheckWorkspaceAction(ctx context.Context, user *models.User, workspaceID int64, action services.Action) error {
	args := m.Called(ctx, user, workspaceID, action)
	return args.Error(0)
}

// MockTokenService mocks the refresh token store
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (int64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService mocks token generation for auth handler tests
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID int64, email string) (*services.TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(tokenString string) (int64, error) {
	args := m.Called(tokenString)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockHub mocks the SSE broadcast hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) BroadcastContentCreated(workspaceID, contentID, authorID int64, contentType, label string) {
	m.Called(workspaceID, contentID, authorID, contentType, label)
}

func (m *MockHub) BroadcastContentUpdated(workspaceID, contentID, authorID int64, contentType, label string) {
	m.Called(workspaceID, contentID, authorID, contentType, label)
}

func (m *MockHub) BroadcastRoleGranted(workspaceID, userID int64, roleSlug string) {
	m.Called(workspaceID, userID, roleSlug)
}

// MockSearch mocks the search bridge
type MockSearch struct {
	mock.Mock
}

func (m *MockSearch) Search(q search.Query) search.Response {
	args := m.Called(q)
	return args.Get(0).(search.Response)
}

func (m *MockSearch) IndexContent(record search.ContentRecord) {
	m.Called(record)
}

func (m *MockSearch) DeleteContent(contentID int64) {
	m.Called(contentID)
}

// MockEmailService mocks the notification mailer
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockEmailService) SendRoleGrantedNotification(to, workspaceLabel, roleSlug string) error {
	args := m.Called(to, workspaceLabel, roleSlug)
	return args.Error(0)
}
