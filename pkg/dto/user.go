package dto

import "github.com/tracim/tracim-api/internal/models"

type UserResponse struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	PublicName string `json:"public_name"`
	Profile    string `json:"profile"`
	IsActive   bool   `json:"is_active"`
	IsDeleted  bool   `json:"is_deleted"`
}

func UserResponseFrom(u *models.User) UserResponse {
	return UserResponse{
		UserID:     u.ID,
		Email:      u.Email,
		PublicName: u.PublicName,
		Profile:    u.Profile.Slug(),
		IsActive:   u.IsActive,
		IsDeleted:  u.IsDeleted,
	}
}
