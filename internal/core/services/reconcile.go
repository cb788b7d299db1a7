package services

import (
	"context"
	"fmt"

	"github.com/semdesk/semdesk/internal/logger"
)

// Reconcile restores the key-equality contract between the content store
// and the vector index at startup. Content rows missing from the index
// (an ingest that crashed between the insert and the vector commit) are
// re-embedded through the normal indexer path. Index entries without a
// content row cannot be surfaced anyway and are only logged.
func (c *Coordinator) Reconcile(ctx context.Context) error {
	storeIDs, err := c.store.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: list content ids: %w", err)
	}

	indexIDs, err := c.searcher.IndexIDs(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: list index ids: %w", err)
	}

	indexed := make(map[int64]bool, len(indexIDs))
	for _, id := range indexIDs {
		indexed[id] = true
	}

	inStore := make(map[int64]bool, len(storeIDs))
	var missing []int64
	for _, id := range storeIDs {
		inStore[id] = true
		if !indexed[id] {
			missing = append(missing, id)
		}
	}

	for _, id := range indexIDs {
		if !inStore[id] {
			logger.Warn("reconcile: index holds id=%d with no content row, ignoring", id)
		}
	}

	if len(missing) == 0 {
		logger.Debug("reconcile: content store and vector index agree (%d items)", len(storeIDs))
		return nil
	}

	logger.Info("reconcile: re-embedding %d content rows missing from the index", len(missing))

	rows, err := c.store.FetchByIDs(ctx, missing)
	if err != nil {
		return fmt.Errorf("reconcile: fetch missing rows: %w", err)
	}

	for _, row := range rows {
		if err := c.indexer.Index(ctx, row.ID, row.Text); err != nil {
			return fmt.Errorf("reconcile: re-index id %d: %w", row.ID, err)
		}
	}

	return nil
}
