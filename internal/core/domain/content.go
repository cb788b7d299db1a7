package domain

import (
	"strings"
	"time"
)

// ContentItem is a persisted text item. Items are append-only: once
// committed they are never updated or deleted.
type ContentItem struct {
	// ID is assigned by the content store on insert. It is strictly
	// increasing within one store lifetime and shared with the vector index.
	ID int64

	// Title is the human-readable title.
	Title string

	// Text is the body that was embedded and is searched.
	Text string

	// Source is a free-form origin tag (e.g. "web-clipper").
	Source string

	// URL is the optional origin location.
	URL *string

	// CreatedAt is the UTC insert time.
	CreatedAt time.Time
}

// IngestItem is one item of an ingest request, before it has an id.
type IngestItem struct {
	Title  string
	Text   string
	Source string
	URL    *string
}

// Validate checks the fields required for ingest.
func (it IngestItem) Validate() error {
	if strings.TrimSpace(it.Title) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(it.Text) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(it.Source) == "" {
		return ErrInvalidInput
	}
	return nil
}

// SearchHit is a raw vector index match, before content rows are joined.
type SearchHit struct {
	// ID is the content item id.
	ID int64

	// Distance is the cosine distance to the query. Lower is more similar.
	Distance float32
}

// SearchResult is a search hit joined with its content row.
type SearchResult struct {
	// ID is the content item id.
	ID int64

	// Title is the item title.
	Title string

	// Text is the item body.
	Text string

	// URL is the optional origin location.
	URL *string

	// Distance is the cosine distance to the query. Lower is more similar.
	Distance float32
}
