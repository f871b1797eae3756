package search

import (
	"log"
	"strconv"

	"github.com/tracim/tracim-api/internal/models"
)

// ContentRecord is the indexed shape of a content node.
type ContentRecord struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspaceId"`
	ParentID    int64  `json:"parentId"`
	Type        string `json:"contentType"`
	Label       string `json:"label"`
	Slug        string `json:"slug"`
	Status      string `json:"status"`
	IsDeleted   bool   `json:"isDeleted"`
	IsArchived  bool   `json:"isArchived"`
}

// RecordOf maps a content node to its indexed form.
func RecordOf(c *models.Content) ContentRecord {
	var parentID int64
	if c.ParentID != nil {
		parentID = *c.ParentID
	}
	return ContentRecord{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		ParentID:    parentID,
		Type:        string(c.Type),
		Label:       c.Label,
		Slug:        c.Slug,
		Status:      string(c.Status),
		IsDeleted:   c.IsDeleted,
		IsArchived:  c.IsArchived,
	}
}

type Query struct {
	Text        string
	WorkspaceID int64
	ContentType string
	ShowDeleted bool
	Limit       int
	Offset      int
}

type Result struct {
	ContentID   int64  `json:"content_id"`
	WorkspaceID int64  `json:"workspace_id"`
	Type        string `json:"content_type"`
	Label       string `json:"label"`
	Slug        string `json:"slug"`
	Status      string `json:"status"`
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Service fronts the Meilisearch index. meili may be nil when search is not
// configured; every operation then degrades to a no-op.
type Service struct {
	meili *Meili
}

func NewService(meili *Meili) *Service {
	return &Service{meili: meili}
}

func (s *Service) Enabled() bool {
	return s.meili != nil && s.meili.Healthy()
}

func (s *Service) Search(q Query) Response {
	if !s.Enabled() {
		return Response{Results: []Result{}, Query: q.Text}
	}
	results, total, err := s.meili.Search(q)
	if err != nil {
		log.Printf("search: meilisearch error: %v", err)
		return Response{Results: []Result{}, Query: q.Text}
	}
	if results == nil {
		results = []Result{}
	}
	return Response{Results: results, Total: total, Query: q.Text}
}

// IndexContent pushes one content node to the index, fire-and-forget. A
// failed or disabled index never affects the content mutation.
func (s *Service) IndexContent(record ContentRecord) {
	if !s.Enabled() {
		return
	}
	go func() {
		if err := s.meili.IndexContent(record); err != nil {
			log.Printf("search: index content %d: %v", record.ID, err)
		}
	}()
}

// DeleteContent removes a content node from the index, fire-and-forget.
func (s *Service) DeleteContent(contentID int64) {
	if !s.Enabled() {
		return
	}
	go func() {
		if err := s.meili.DeleteContent(strconv.FormatInt(contentID, 10)); err != nil {
			log.Printf("search: delete content %d: %v", contentID, err)
		}
	}()
}

// IndexContents bulk-indexes content nodes, synchronously. Used by the
// reindex command.
func (s *Service) IndexContents(records []ContentRecord) error {
	if s.meili == nil {
		return nil
	}
	return s.meili.IndexContents(records)
}

// DropIndex deletes the whole content index.
func (s *Service) DropIndex() error {
	if s.meili == nil {
		return nil
	}
	return s.meili.DropIndex()
}

// CreateIndex creates and configures the content index.
func (s *Service) CreateIndex() error {
	if s.meili == nil {
		return nil
	}
	return s.meili.CreateIndex()
}
