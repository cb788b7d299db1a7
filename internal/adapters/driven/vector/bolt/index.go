// Package bolt implements the persistent vector index on bbolt.
//
// Vectors live in a single bucket keyed by big-endian id, so on-disk
// iteration order matches ascending id order. A meta bucket records the
// embedding model name and dimension; opening the file with a different
// model or dimension fails rather than mixing incompatible vectors.
// Every insert commits its own transaction, so a successful Add is
// durable before it returns.
package bolt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

var (
	bucketVectors = []byte("vectors")
	bucketMeta    = []byte("meta")

	metaDimension = []byte("dimension")
	metaModel     = []byte("model")
)

// minCapacity is the smallest in-memory table reservation.
const minCapacity = 100

// Options configures an Index.
type Options struct {
	// Path is the index file location.
	Path string

	// Dimension is the vector length. All stored vectors share it.
	Dimension int

	// Model names the embedding model the vectors came from.
	Model string
}

type entry struct {
	id  int64
	vec []float32
}

// Index is a bbolt-backed vector index with an in-memory table for search.
// It is owned by a single worker; methods are not safe for concurrent use.
type Index struct {
	db        *bbolt.DB
	dimension int
	model     string
	entries   []entry
}

// Open loads the index file at opts.Path, creating it if absent.
func Open(opts Options) (*Index, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("bolt: path cannot be empty")
	}
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("bolt: dimension must be positive")
	}

	db, err := bbolt.Open(opts.Path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: opening index file: %w", err)
	}

	idx := &Index{
		db:        db,
		dimension: opts.Dimension,
		model:     opts.Model,
		entries:   make([]entry, 0, minCapacity),
	}

	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	if err := idx.load(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// init creates the buckets and verifies the model/dimension sidecar.
func (idx *Index) init() error {
	return idx.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketVectors); err != nil {
			return fmt.Errorf("bolt: creating vectors bucket: %w", err)
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("bolt: creating meta bucket: %w", err)
		}

		if stored := meta.Get(metaDimension); stored != nil {
			dim := int(binary.LittleEndian.Uint32(stored))
			if dim != idx.dimension {
				return fmt.Errorf("bolt: index dimension %d does not match configured %d", dim, idx.dimension)
			}
		} else {
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, uint32(idx.dimension))
			if err := meta.Put(metaDimension, buf); err != nil {
				return fmt.Errorf("bolt: writing dimension: %w", err)
			}
		}

		if stored := meta.Get(metaModel); stored != nil {
			if !bytes.Equal(stored, []byte(idx.model)) {
				return fmt.Errorf("bolt: index model %q does not match configured %q", stored, idx.model)
			}
		} else if err := meta.Put(metaModel, []byte(idx.model)); err != nil {
			return fmt.Errorf("bolt: writing model: %w", err)
		}

		return nil
	})
}

// load reads all vectors into the in-memory table.
func (idx *Index) load() error {
	return idx.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)

		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 || len(v) != idx.dimension*4 {
				// Skip malformed entries rather than refusing to start.
				return nil
			}
			idx.reserve()
			idx.entries = append(idx.entries, entry{
				id:  int64(binary.BigEndian.Uint64(k)),
				vec: bytesToFloat32(v),
			})
			return nil
		})
	})
}

// reserve grows the in-memory table when capacity is exhausted.
func (idx *Index) reserve() {
	if len(idx.entries) < cap(idx.entries) {
		return
	}
	next := 2 * cap(idx.entries)
	if next < minCapacity {
		next = minCapacity
	}
	grown := make([]entry, len(idx.entries), next)
	copy(grown, idx.entries)
	idx.entries = grown
}

// Add inserts a vector under the given content id.
func (idx *Index) Add(id int64, vector []float32) error {
	if len(vector) != idx.dimension {
		return fmt.Errorf("bolt: got length %d, want %d: %w",
			len(vector), idx.dimension, domain.ErrDimensionMismatch)
	}

	err := idx.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).Put(idKey(id), float32ToBytes(vector))
	})
	if err != nil {
		return fmt.Errorf("bolt: storing vector %d: %w", id, err)
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)

	// Keep the table sorted by id; reconciliation can add out of order.
	pos := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].id >= id
	})
	if pos < len(idx.entries) && idx.entries[pos].id == id {
		idx.entries[pos].vec = stored
		return nil
	}

	idx.reserve()
	idx.entries = append(idx.entries, entry{})
	copy(idx.entries[pos+1:], idx.entries[pos:])
	idx.entries[pos] = entry{id: id, vec: stored}

	return nil
}

// Search returns up to k nearest entries by cosine distance.
func (idx *Index) Search(query []float32, k int) ([]domain.SearchHit, error) {
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("bolt: got length %d, want %d: %w",
			len(query), idx.dimension, domain.ErrDimensionMismatch)
	}
	if k <= 0 || len(idx.entries) == 0 {
		return nil, nil
	}

	hits := make([]domain.SearchHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		hits = append(hits, domain.SearchHit{
			ID:       e.id,
			Distance: cosineDistance(query, e.vec),
		})
	}

	// Ascending distance; ties broken by ascending id for determinism.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// IDs returns every id present in the index, ascending.
func (idx *Index) IDs() []int64 {
	ids := make([]int64, len(idx.entries))
	for i, e := range idx.entries {
		ids[i] = e.id
	}
	return ids
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Close releases the underlying file handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// cosineDistance computes 1 - cos(a, b). For unit vectors this reduces
// to 1 - dot, but the norms are computed anyway so a denormalised vector
// degrades gracefully instead of corrupting the ranking.
func cosineDistance(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}

// idKey encodes an id as a big-endian bucket key.
func idKey(id int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// float32ToBytes converts a vector to its stored byte form.
func float32ToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32 converts stored bytes back to a vector.
func bytesToFloat32(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
