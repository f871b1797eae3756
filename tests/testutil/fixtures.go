package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}

	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", f.counter),
		PublicName:   fmt.Sprintf("Test User %d", f.counter),
		PasswordHash: string(hash),
		Profile:      models.ProfileUser,
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, public_name, password_hash, profile, is_active, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, user.Email, user.PublicName, user.PasswordHash, user.Profile, user.IsActive, user.IsDeleted).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user fixture: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

func WithProfile(profile models.Profile) UserOption {
	return func(u *models.User) {
		u.Profile = profile
	}
}

func Deactivated() UserOption {
	return func(u *models.User) {
		u.IsActive = false
	}
}

// CreateWorkspace creates a test workspace
func (f *Fixtures) CreateWorkspace(t *testing.T, label string) *models.Workspace {
	t.Helper()

	workspace := &models.Workspace{
		Label:         label,
		Slug:          models.Slugify(label),
		AgendaEnabled: true,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO workspaces (label, slug, description, agenda_enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, workspace.Label, workspace.Slug, workspace.Description, workspace.AgendaEnabled).Scan(
		&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create workspace fixture: %v", err)
	}

	return workspace
}

// CreateContent creates a test content node. parentID nil puts it at the
// workspace root.
func (f *Fixtures) CreateContent(t *testing.T, workspaceID int64, parentID *int64, contentType models.ContentType, label string) *models.Content {
	t.Helper()

	content := &models.Content{
		WorkspaceID: workspaceID,
		ParentID:    parentID,
		Type:        contentType,
		Label:       label,
		Slug:        models.Slugify(label),
		Status:      models.StatusOpen,
		ShowInUI:    true,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO contents (workspace_id, parent_id, content_type, label, slug, status, show_in_ui)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, content.WorkspaceID, content.ParentID, content.Type, content.Label, content.Slug, content.Status, content.ShowInUI).Scan(
		&content.ID, &content.CreatedAt, &content.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create content fixture: %v", err)
	}

	return content
}

// GrantRole adds a membership row for the user in the workspace
func (f *Fixtures) GrantRole(t *testing.T, userID, workspaceID int64, role models.Role) {
	t.Helper()

	ctx := context.Background()
	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, workspace_id, role, do_notify)
		VALUES ($1, $2, $3, FALSE)
	`, userID, workspaceID, role)
	if err != nil {
		t.Fatalf("failed to grant role fixture: %v", err)
	}
}
