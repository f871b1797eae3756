package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxContents = "tracim_contents"

// Meili talks to a Meilisearch instance holding the content index.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the content index.
// An unreachable server is tolerated; the health monitor reconfigures the
// index once the server comes back.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		if err := m.CreateIndex(); err != nil {
			log.Printf("search: configure index: %v", err)
		}
	}

	go m.healthLoop()
	return m
}

// CreateIndex creates the content index and sets its attributes. Safe to
// call when the index already exists.
func (m *Meili) CreateIndex() error {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxContents,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxContents, err)
	}

	index := m.client.Index(idxContents)
	filterable := []interface{}{"workspaceId", "parentId", "contentType", "status", "isDeleted", "isArchived"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}
	searchable := []string{"label", "slug"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}
	return nil
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				if cerr := m.CreateIndex(); cerr != nil {
					log.Printf("search: reconfigure index: %v", cerr)
				}
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 20
	}

	sr := &meili.SearchRequest{
		Limit:  limit,
		Offset: int64(q.Offset),
	}

	var filters []string
	if q.WorkspaceID != 0 {
		filters = append(filters, fmt.Sprintf("workspaceId = %d", q.WorkspaceID))
	}
	if q.ContentType != "" && q.ContentType != "any" {
		filters = append(filters, fmt.Sprintf("contentType = %q", q.ContentType))
	}
	if !q.ShowDeleted {
		filters = append(filters, "isDeleted = false")
	}
	if len(filters) > 0 {
		sr.Filter = filters
	}

	resp, err := m.client.Index(idxContents).Search(q.Text, sr)
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, hitToResult(hit))
	}
	return results, int(resp.EstimatedTotalHits), nil
}

func hitToResult(hit meili.Hit) Result {
	return Result{
		ContentID:   decodeInt64(hit, "id"),
		WorkspaceID: decodeInt64(hit, "workspaceId"),
		Type:        decodeString(hit, "contentType"),
		Label:       decodeString(hit, "label"),
		Slug:        decodeString(hit, "slug"),
		Status:      decodeString(hit, "status"),
	}
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeInt64(hit meili.Hit, key string) int64 {
	raw, ok := hit[key]
	if !ok {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// IndexContent adds or updates one content node in the index.
func (m *Meili) IndexContent(record ContentRecord) error {
	_, err := m.client.Index(idxContents).AddDocuments([]ContentRecord{record}, nil)
	return err
}

// IndexContents bulk-indexes content nodes.
func (m *Meili) IndexContents(records []ContentRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := m.client.Index(idxContents).AddDocuments(records, nil)
	return err
}

// DeleteContent removes one content node from the index.
func (m *Meili) DeleteContent(id string) error {
	_, err := m.client.Index(idxContents).DeleteDocument(id, nil)
	return err
}

// DropIndex deletes the whole content index.
func (m *Meili) DropIndex() error {
	_, err := m.client.DeleteIndex(idxContents)
	return err
}
