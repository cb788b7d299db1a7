package driven

import (
	"context"

	"github.com/semdesk/semdesk/internal/core/domain"
)

// ContentStore is the durable source of truth for ingested items.
// Ids are assigned by the store on insert and are strictly increasing
// within one store lifetime.
type ContentStore interface {
	// Insert persists a new item and returns its assigned id.
	Insert(ctx context.Context, item domain.IngestItem) (int64, error)

	// FetchByIDs returns the items whose id is in ids, in unspecified
	// order. Ids without a row are silently absent, not an error.
	FetchByIDs(ctx context.Context, ids []int64) ([]domain.ContentItem, error)

	// ListIDs returns every committed id, ascending.
	ListIDs(ctx context.Context) ([]int64, error)

	// Count returns the number of committed items.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
