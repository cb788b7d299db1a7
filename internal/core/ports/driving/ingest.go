package driving

import (
	"context"

	"github.com/semdesk/semdesk/internal/core/domain"
)

// Ingester accepts items for storage and indexing.
type Ingester interface {
	// Ingest commits items in input order and returns how many were
	// fully ingested. A returned item count smaller than len(items)
	// means the error aborted the request partway through; the committed
	// prefix stays committed.
	Ingest(ctx context.Context, items []domain.IngestItem) (int, error)
}
