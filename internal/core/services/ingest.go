package services

import (
	"context"
	"fmt"

	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/logger"
)

// Ingest commits items in input order: insert into the content store to
// obtain the id, then embed and index, awaiting the durable vector commit
// before moving to the next item.
//
// If indexing fails after the insert, the content row stays in place and
// the error aborts the request; startup reconciliation repairs the index
// entry on the next run. The returned count is how many items were fully
// ingested.
func (c *Coordinator) Ingest(ctx context.Context, items []domain.IngestItem) (int, error) {
	// Validate the whole batch before touching storage, so a malformed
	// item cannot leave earlier rows without index entries for no reason.
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
	}

	count := 0
	for i := range items {
		id, err := c.store.Insert(ctx, items[i])
		if err != nil {
			return count, fmt.Errorf("insert item %d: %w", i, err)
		}

		// From here the item must reach the vector index. The background
		// context means a caller timeout no longer aborts the await: the
		// row exists, so giving up now would just leave repair work for
		// the next startup reconciliation.
		if err := c.indexer.Index(context.Background(), id, items[i].Text); err != nil {
			logger.Warn("ingest: id=%d committed to content store but not indexed: %v", id, err)
			return count, fmt.Errorf("index item %d (id %d): %w", i, id, err)
		}

		count++
	}

	logger.Info("ingested %d items", count)
	return count, nil
}
