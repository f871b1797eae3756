package models

import (
	"time"
)

type ContentType string

const (
	ContentTypeFolder       ContentType = "folder"
	ContentTypeHTMLDocument ContentType = "html-document"
	ContentTypeFile         ContentType = "file"
	ContentTypeThread       ContentType = "thread"
	ContentTypeComment      ContentType = "comment"

	// ContentTypeAny is the wildcard accepted by content listing filters.
	ContentTypeAny ContentType = "any"
)

// AllContentTypes lists every creatable content type, in display order.
var AllContentTypes = []ContentType{
	ContentTypeFolder,
	ContentTypeHTMLDocument,
	ContentTypeFile,
	ContentTypeThread,
	ContentTypeComment,
}

func KnownContentType(slug string) bool {
	for _, t := range AllContentTypes {
		if ContentType(slug) == t {
			return true
		}
	}
	return false
}

type ContentStatus string

const (
	StatusOpen              ContentStatus = "open"
	StatusClosedValidated   ContentStatus = "closed-validated"
	StatusClosedUnvalidated ContentStatus = "closed-unvalidated"
	StatusClosedDeprecated  ContentStatus = "closed-deprecated"
)

// Content is a node in a workspace's hierarchy. ParentID nil means the node
// sits at the workspace root.
type Content struct {
	ID          int64         `json:"content_id"`
	WorkspaceID int64         `json:"workspace_id"`
	ParentID    *int64        `json:"parent_id"`
	Type        ContentType   `json:"content_type"`
	Label       string        `json:"label"`
	Slug        string        `json:"slug"`
	Status      ContentStatus `json:"status"`
	// AllowedTypes restricts what can be created under a folder. nil means
	// unrestricted (every known type). Meaningless for non-folders.
	AllowedTypes []string  `json:"-"`
	IsDeleted    bool      `json:"is_deleted"`
	IsArchived   bool      `json:"is_archived"`
	ShowInUI     bool      `json:"show_in_ui"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"modified"`
}

// SubContentTypes is the set of content type slugs that may be created
// directly under this node.
func (c *Content) SubContentTypes() []string {
	switch c.Type {
	case ContentTypeFolder:
		if c.AllowedTypes != nil {
			return c.AllowedTypes
		}
		all := make([]string, len(AllContentTypes))
		for i, t := range AllContentTypes {
			all[i] = string(t)
		}
		return all
	case ContentTypeHTMLDocument, ContentTypeFile, ContentTypeThread:
		return []string{string(ContentTypeComment)}
	default:
		return []string{}
	}
}

// AllowsSubContent reports whether a child of the given type may be created
// under this node.
func (c *Content) AllowsSubContent(childType ContentType) bool {
	for _, slug := range c.SubContentTypes() {
		if slug == string(childType) {
			return true
		}
	}
	return false
}
