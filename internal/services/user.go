package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, email, public_name, password_hash, profile, is_active, is_deleted, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PublicName, &user.PasswordHash,
		&user.Profile, &user.IsActive, &user.IsDeleted,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, email, publicName, password string, profile models.Profile) (*models.User, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	if publicName == "" {
		publicName = email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, public_name, password_hash, profile)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns+`
	`, email, publicName, string(hash), profile))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.UserNotFound()
	}
	return user, err
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.UserNotFound()
	}
	return user, err
}

func (s *UserService) GetByPublicName(ctx context.Context, publicName string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE public_name = $1
	`, publicName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.UserNotFound()
	}
	return user, err
}

// Authenticate checks email and password against the store. Failures are
// indistinguishable to the caller so credentials cannot be probed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.AuthenticationFailed()
	}
	if user.IsDeleted || !user.IsActive {
		return nil, apperrors.AuthenticationFailed()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.AuthenticationFailed()
	}
	return user, nil
}

func (s *UserService) UpdatePublicName(ctx context.Context, id int64, publicName string) (*models.User, error) {
	if publicName == "" {
		return nil, apperrors.Validation("public_name must not be empty")
	}
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET public_name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns+`
	`, publicName, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.UserNotFound()
	}
	return user, err
}
