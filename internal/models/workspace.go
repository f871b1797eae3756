package models

import (
	"regexp"
	"strings"
	"time"
)

type Workspace struct {
	ID            int64     `json:"workspace_id"`
	Label         string    `json:"label"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	AgendaEnabled bool      `json:"agenda_enabled"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a filename-safe slug from a label: lowercased, runs of
// non-alphanumeric characters collapsed to a single dash.
func Slugify(label string) string {
	slug := strings.ToLower(label)
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
