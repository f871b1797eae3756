package models

import (
	"time"
)

// Profile is the system-wide permission level of a user, independent of any
// workspace role. Higher values grant everything lower values do.
type Profile int

const (
	ProfileUser        Profile = 1
	ProfileTrustedUser Profile = 2
	ProfileAdmin       Profile = 3
)

func (p Profile) Slug() string {
	switch p {
	case ProfileAdmin:
		return "administrators"
	case ProfileTrustedUser:
		return "trusted-users"
	default:
		return "users"
	}
}

func ParseProfile(slug string) Profile {
	switch slug {
	case "administrators":
		return ProfileAdmin
	case "trusted-users":
		return ProfileTrustedUser
	default:
		return ProfileUser
	}
}

type User struct {
	ID           int64     `json:"user_id"`
	Email        string    `json:"email"`
	PublicName   string    `json:"public_name"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
