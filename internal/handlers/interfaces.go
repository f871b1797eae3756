package handlers

import (
	"context"
	"time"

	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/search"
	"github.com/tracim/tracim-api/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	UpdatePublicName(ctx context.Context, id int64, publicName string) (*models.User, error)
}

// WorkspaceServiceInterface defines the methods used by handlers from WorkspaceService
type WorkspaceServiceInterface interface {
	Create(ctx context.Context, label, description string, agendaEnabled bool) (*models.Workspace, error)
	GetByID(ctx context.Context, workspaceID int64) (*models.Workspace, error)
	GetUserWorkspaces(ctx context.Context, userID int64) ([]models.Workspace, error)
	GetAll(ctx context.Context) ([]models.Workspace, error)
	Update(ctx context.Context, workspaceID int64, label, description *string, agendaEnabled *bool) (*models.Workspace, error)
	Delete(ctx context.Context, workspaceID int64) (*models.Workspace, error)
	Restore(ctx context.Context, workspaceID int64) (*models.Workspace, error)
}

// ContentServiceInterface defines the methods used by handlers from ContentService
type ContentServiceInterface interface {
	ResolveContents(ctx context.Context, workspaceID int64, filter services.ContentFilter) ([]models.Content, error)
	GetByID(ctx context.Context, workspaceID, contentID int64) (*models.Content, error)
	Create(ctx context.Context, workspaceID int64, parentID *int64, contentType models.ContentType, label string) (*models.Content, error)
	Move(ctx context.Context, workspaceID, contentID int64, newParentID *int64, newWorkspaceID int64) (*models.Content, error)
	Trash(ctx context.Context, workspaceID, contentID int64) (*models.Content, error)
	RestoreFromTrash(ctx context.Context, workspaceID, contentID int64) (*models.Content, error)
	Archive(ctx context.Context, workspaceID, contentID int64) (*models.Content, error)
	Unarchive(ctx context.Context, workspaceID, contentID int64) (*models.Content, error)
	SetAllowedTypes(ctx context.Context, workspaceID, contentID int64, allowed []string) (*models.Content, error)
}

// RoleServiceInterface defines the methods used by handlers from RoleService
type RoleServiceInterface interface {
	GetMembers(ctx context.Context, workspaceID int64) ([]models.UserRoleInWorkspace, error)
	Create(ctx context.Context, workspaceID int64, ref services.UserReference, role models.Role, doNotify bool) (*models.UserRoleInWorkspace, error)
	Update(ctx context.Context, workspaceID, userID int64, newRole models.Role) (*models.UserRoleInWorkspace, error)
	Delete(ctx context.Context, workspaceID, userID, actingUserID int64) error
}

// AuthorizationInterface defines the workspace access checks handlers run
// before touching any service.
type AuthorizationInterface interface {
	CheckWorkspaceAction(ctx context.Context, user *models.User, workspaceID int64, action services.Action) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (int64, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID int64, email string) (*services.TokenPair, error)
	ValidateRefreshToken(tokenString string) (int64, error)
	RefreshExpiry() time.Duration
}

// HubInterface defines the live-event broadcasts handlers emit
type HubInterface interface {
	BroadcastContentCreated(workspaceID, contentID, authorID int64, contentType, label string)
	BroadcastContentUpdated(workspaceID, contentID, authorID int64, contentType, label string)
	BroadcastRoleGranted(workspaceID, userID int64, roleSlug string)
}

// SearchInterface defines the search-index operations handlers trigger
type SearchInterface interface {
	Search(q search.Query) search.Response
	IndexContent(record search.ContentRecord)
	DeleteContent(contentID int64)
}

// EmailServiceInterface defines the notification mails handlers send
type EmailServiceInterface interface {
	IsConfigured() bool
	SendRoleGrantedNotification(to, workspaceLabel, roleSlug string) error
}
