// Package memory provides in-memory store implementations for testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore is an in-memory implementation of driven.ContentStore.
// Ids are assigned from a monotonic counter, matching the SQLite store's
// auto-increment contract.
type ContentStore struct {
	mu     sync.RWMutex
	items  map[int64]domain.ContentItem
	nextID int64
}

// NewContentStore creates an empty in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		items: make(map[int64]domain.ContentItem),
	}
}

// Insert persists a new item and returns its assigned id.
func (s *ContentStore) Insert(_ context.Context, item domain.IngestItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.items[s.nextID] = domain.ContentItem{
		ID:        s.nextID,
		Title:     item.Title,
		Text:      item.Text,
		Source:    item.Source,
		URL:       item.URL,
		CreatedAt: time.Now().UTC(),
	}

	return s.nextID, nil
}

// FetchByIDs returns the items whose id is in ids. Missing ids are
// silently absent.
func (s *ContentStore) FetchByIDs(_ context.Context, ids []int64) ([]domain.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []domain.ContentItem //nolint:prealloc // some ids may be absent
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			items = append(items, item)
		}
	}

	return items, nil
}

// ListIDs returns every committed id, ascending.
func (s *ContentStore) ListIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

// Count returns the number of committed items.
func (s *ContentStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

// Close is a no-op for the in-memory store.
func (s *ContentStore) Close() error {
	return nil
}
