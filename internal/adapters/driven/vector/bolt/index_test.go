package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semdesk/semdesk/internal/core/domain"
)

func newTestIndex(t *testing.T, dim int) (*Index, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "index.bolt")
	idx, err := Open(Options{Path: path, Dimension: dim, Model: "all-minilm"})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	return idx, path
}

func TestIndex_AddAndSearch(t *testing.T) {
	idx, _ := newTestIndex(t, 3)

	require.NoError(t, idx.Add(1, []float32{1, 0, 0}))
	require.NoError(t, idx.Add(2, []float32{0, 1, 0}))
	require.NoError(t, idx.Add(3, []float32{0.9998, 0.02, 0}))

	hits, err := idx.Search([]float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Exact match first, near match second, orthogonal last.
	assert.Equal(t, int64(1), hits[0].ID)
	assert.InDelta(t, 0, hits[0].Distance, 1e-5)
	assert.Equal(t, int64(3), hits[1].ID)
	assert.Equal(t, int64(2), hits[2].ID)

	// Distances are non-decreasing.
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i].Distance, hits[i-1].Distance)
	}
}

func TestIndex_SearchLimitsToK(t *testing.T) {
	idx, _ := newTestIndex(t, 2)

	require.NoError(t, idx.Add(1, []float32{1, 0}))
	require.NoError(t, idx.Add(2, []float32{0, 1}))

	hits, err := idx.Search([]float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(1), hits[0].ID)
}

func TestIndex_SearchEmptyIndex(t *testing.T) {
	idx, _ := newTestIndex(t, 2)

	hits, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_TiesBrokenByAscendingID(t *testing.T) {
	idx, _ := newTestIndex(t, 2)

	// Same vector under several ids: identical distances.
	require.NoError(t, idx.Add(5, []float32{1, 0}))
	require.NoError(t, idx.Add(2, []float32{1, 0}))
	require.NoError(t, idx.Add(9, []float32{1, 0}))

	hits, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, int64(2), hits[0].ID)
	assert.Equal(t, int64(5), hits[1].ID)
	assert.Equal(t, int64(9), hits[2].ID)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	idx, _ := newTestIndex(t, 3)

	err := idx.Add(1, []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = idx.Search([]float32{1, 0}, 10)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bolt")

	idx, err := Open(Options{Path: path, Dimension: 2, Model: "all-minilm"})
	require.NoError(t, err)
	require.NoError(t, idx.Add(1, []float32{1, 0}))
	require.NoError(t, idx.Add(2, []float32{0, 1}))
	require.NoError(t, idx.Close())

	idx, err = Open(Options{Path: path, Dimension: 2, Model: "all-minilm"})
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []int64{1, 2}, idx.IDs())

	hits, err := idx.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(2), hits[0].ID)
}

func TestIndex_RejectsModelMismatchOnReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bolt")

	idx, err := Open(Options{Path: path, Dimension: 2, Model: "all-minilm"})
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	_, err = Open(Options{Path: path, Dimension: 2, Model: "nomic-embed-text"})
	assert.Error(t, err)

	_, err = Open(Options{Path: path, Dimension: 4, Model: "all-minilm"})
	assert.Error(t, err)
}

func TestIndex_ReAddOverwritesInPlace(t *testing.T) {
	idx, _ := newTestIndex(t, 2)

	require.NoError(t, idx.Add(1, []float32{1, 0}))
	require.NoError(t, idx.Add(1, []float32{0, 1}))

	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0, hits[0].Distance, 1e-5)
}

func TestIndex_GrowsPastInitialCapacity(t *testing.T) {
	idx, _ := newTestIndex(t, 2)

	for i := 1; i <= minCapacity+10; i++ {
		require.NoError(t, idx.Add(int64(i), []float32{1, 0}))
	}

	assert.Equal(t, minCapacity+10, idx.Len())
	assert.GreaterOrEqual(t, cap(idx.entries), 2*minCapacity)
}
