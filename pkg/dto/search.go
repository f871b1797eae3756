package dto

import "github.com/tracim/tracim-api/internal/search"

type SearchResponse struct {
	Results []search.Result `json:"contents"`
	Total   int             `json:"total_hits"`
	Query   string          `json:"search_string"`
}
