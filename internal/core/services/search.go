package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/logger"
)

// Search embeds the query, asks the vector index for the top-k nearest
// ids, joins them with their content rows and returns results ascending by
// distance, ties broken by ascending id.
func (c *Coordinator) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	hits, err := c.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(hits) == 0 {
		return []domain.SearchResult{}, nil
	}

	ids := make([]int64, len(hits))
	distanceByID := make(map[int64]float32, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ID
		distanceByID[hit.ID] = hit.Distance
	}

	rows, err := c.store.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch content rows: %w", err)
	}

	// An index id without a content row is a consistency anomaly: the
	// store is the source of truth, so the hit is dropped, not failed.
	if len(rows) < len(hits) {
		present := make(map[int64]bool, len(rows))
		for _, row := range rows {
			present[row.ID] = true
		}
		for _, hit := range hits {
			if !present[hit.ID] {
				logger.Warn("search: index returned id=%d with no content row, dropping", hit.ID)
			}
		}
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.SearchResult{
			ID:       row.ID,
			Title:    row.Title,
			Text:     row.Text,
			URL:      row.URL,
			Distance: distanceByID[row.ID],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}
