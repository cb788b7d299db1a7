package services

import (
	"github.com/semdesk/semdesk/internal/core/ports/driven"
	"github.com/semdesk/semdesk/internal/core/ports/driving"
)

// Ensure Coordinator implements the driving ports.
var (
	_ driving.Ingester = (*Coordinator)(nil)
	_ driving.Searcher = (*Coordinator)(nil)
)

// Coordinator fronts the ingest/search pipeline. It owns the consistency
// contract between the content store and the vector index: every id it
// hands to the indexer came from the content store, and an ingest is only
// acknowledged once the vector entry is durable.
type Coordinator struct {
	store    driven.ContentStore
	indexer  *IndexerWorker
	searcher *SearcherWorker
}

// NewCoordinator creates a coordinator over the given store and workers.
func NewCoordinator(store driven.ContentStore, indexer *IndexerWorker, searcher *SearcherWorker) *Coordinator {
	return &Coordinator{
		store:    store,
		indexer:  indexer,
		searcher: searcher,
	}
}
