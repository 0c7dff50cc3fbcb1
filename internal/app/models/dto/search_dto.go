package dto

import "encoding/json"

// SearchRequest carries the query string parameters of a course search.
type SearchRequest struct {
	Network string `form:"network"`
	Session string `form:"session"`
	Query   string `form:"q"`
	Offset  int    `form:"offset"`
	Limit   int    `form:"limit"`
}

// SearchResponse is the paging envelope around matched course documents.
// Documents are pre-rendered at index time, so they pass through verbatim.
type SearchResponse struct {
	Offset         int               `json:"offset"`
	Page           int               `json:"page"`
	ResultsPerPage int               `json:"results_per_page"`
	Total          int               `json:"total"`
	Num            int               `json:"num"`
	More           bool              `json:"more"`
	Results        []json.RawMessage `json:"results"`
}

// SessionResponse is the catalog view of a session.
type SessionResponse struct {
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	StartDate string          `json:"start_date,omitempty"`
	EndDate   string          `json:"end_date,omitempty"`
	Active    bool            `json:"active"`
	Document  json.RawMessage `json:"document,omitempty"`
}

// NetworkResponse describes one catalog network.
type NetworkResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}
