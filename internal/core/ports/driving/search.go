package driving

import (
	"context"

	"github.com/semdesk/semdesk/internal/core/domain"
)

// Searcher answers natural-language queries against committed items.
type Searcher interface {
	// Search returns the most similar items, ascending by cosine
	// distance, ties broken by ascending id.
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}
