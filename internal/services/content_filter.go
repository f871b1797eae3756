package services

import (
	"strings"

	"github.com/tracim/tracim-api/internal/models"
)

// ContentFilter selects a subset of a workspace's content nodes.
// ParentIDs may contain 0 to mean the workspace root (parent is null).
type ContentFilter struct {
	ParentIDs        []int64
	ContentType      string
	Label            string
	ShowActive       bool
	ShowArchived     bool
	ShowDeleted      bool
	CompletePathToID int64
}

// DefaultContentFilter matches active root-level listing defaults: active
// contents only, any type, no parent restriction.
func DefaultContentFilter() ContentFilter {
	return ContentFilter{ShowActive: true}
}

// matchesState categorizes a node into exactly one of deleted, archived or
// active, deleted taking precedence, and checks it against the show flags.
func (f ContentFilter) matchesState(c *models.Content) bool {
	switch {
	case c.IsDeleted:
		return f.ShowDeleted
	case c.IsArchived:
		return f.ShowArchived
	default:
		return f.ShowActive
	}
}

func (f ContentFilter) matchesParent(c *models.Content) bool {
	if len(f.ParentIDs) == 0 {
		return true
	}
	for _, id := range f.ParentIDs {
		if id == 0 {
			if c.ParentID == nil {
				return true
			}
			continue
		}
		if c.ParentID != nil && *c.ParentID == id {
			return true
		}
	}
	return false
}

func (f ContentFilter) matchesType(c *models.Content) bool {
	if f.ContentType == "" || f.ContentType == string(models.ContentTypeAny) {
		return true
	}
	return string(c.Type) == f.ContentType
}

func (f ContentFilter) matchesLabel(c *models.Content) bool {
	if f.Label == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Label), strings.ToLower(f.Label))
}

func (f ContentFilter) matches(c *models.Content) bool {
	return f.matchesParent(c) && f.matchesType(c) && f.matchesLabel(c) && f.matchesState(c)
}

// filterContents applies the primary filter to contents, preserving input
// order. With all three show flags unset nothing matches.
func filterContents(contents []models.Content, f ContentFilter) []models.Content {
	var out []models.Content
	for i := range contents {
		if f.matches(&contents[i]) {
			out = append(out, contents[i])
		}
	}
	return out
}

// completePathTo walks the parent chain of the target node. The target
// itself stays subject to the state flags; its ancestors bypass every
// filter so a breadcrumb path can always be rendered. Walk order is target
// first, then each parent up to the root.
func completePathTo(byID map[int64]*models.Content, targetID int64, f ContentFilter) []models.Content {
	var path []models.Content

	node, ok := byID[targetID]
	if !ok {
		return nil
	}
	if f.matchesState(node) {
		path = append(path, *node)
	}

	// A corrupted parent chain must not spin the walk forever, so every
	// visited node terminates the loop on a second encounter.
	visited := map[int64]bool{node.ID: true}
	for node.ParentID != nil {
		parent, ok := byID[*node.ParentID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		path = append(path, *parent)
		node = parent
	}
	return path
}

// resolveFilter composes the primary filter result with the path-completion
// walk, deduplicating by content id. Result order is deterministic for a
// fixed input: primary matches in input order, then path nodes not already
// present in walk order.
func resolveFilter(contents []models.Content, f ContentFilter) []models.Content {
	// All state flags off means nothing is visible, path completion included.
	if !f.ShowActive && !f.ShowArchived && !f.ShowDeleted {
		return nil
	}

	result := filterContents(contents, f)

	if f.CompletePathToID == 0 {
		return result
	}

	byID := make(map[int64]*models.Content, len(contents))
	for i := range contents {
		byID[contents[i].ID] = &contents[i]
	}
	seen := make(map[int64]bool, len(result))
	for i := range result {
		seen[result[i].ID] = true
	}

	for _, node := range completePathTo(byID, f.CompletePathToID, f) {
		if !seen[node.ID] {
			seen[node.ID] = true
			result = append(result, node)
		}
	}
	return result
}
