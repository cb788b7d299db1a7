package driven

import "github.com/semdesk/semdesk/internal/core/domain"

// VectorIndex provides persistent vector storage with cosine top-k search.
//
// Implementations are NOT required to be safe for concurrent mutation.
// The searcher worker is the single owner of the handle: it serialises all
// Add and Search calls, which is what keeps the on-disk file consistent.
// A successful Add is durable before it returns.
type VectorIndex interface {
	// Add inserts a vector under the given content id. The vector must
	// have the index dimension (domain.ErrDimensionMismatch otherwise)
	// and is expected to be L2-normalised.
	Add(id int64, vector []float32) error

	// Search returns up to k nearest entries by cosine distance,
	// closest first. Ties are broken by ascending id.
	Search(query []float32, k int) ([]domain.SearchHit, error)

	// IDs returns every id present in the index, ascending.
	IDs() []int64

	// Len returns the number of stored vectors.
	Len() int

	// Close releases the underlying file handle.
	Close() error
}
