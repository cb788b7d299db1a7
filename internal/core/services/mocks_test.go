package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sync"
)

// fakeEmbedder is a deterministic stand-in for the embedding model. The
// same text always produces the same unit vector, and distinct texts are
// very unlikely to collide, which is all the pipeline tests need. Known
// texts can be pinned to hand-chosen vectors to exercise ranking.
type fakeEmbedder struct {
	dim    int
	pinned map[string][]float32

	mu       sync.Mutex
	failNext int
	calls    int
}

var errFakeEmbed = errors.New("embedding backend failed")

func newFakeEmbedder(dim int) *fakeEmbedder {
	return &fakeEmbedder{dim: dim, pinned: make(map[string][]float32)}
}

// pin fixes the vector returned for text (normalised copy).
func (f *fakeEmbedder) pin(text string, v []float32) {
	f.pinned[text] = normalize(append([]float32(nil), v...))
}

// failNextCalls makes the next n embed calls return an error.
func (f *fakeEmbedder) failNextCalls(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = n
}

func (f *fakeEmbedder) vector(text string) []float32 {
	if v, ok := f.pinned[text]; ok {
		return append([]float32(nil), v...)
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	v := make([]float32, f.dim)
	for i := range v {
		state = state*6364136223846793005 + 1442695040888963407
		v[i] = float32(int64(state>>33))/float32(1<<31) - 0.5
	}
	return normalize(v)
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(context.Background(), []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	if f.failNext > 0 {
		f.failNext--
		f.mu.Unlock()
		return nil, errFakeEmbed
	}
	f.mu.Unlock()

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = f.vector(text)
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dim }

func (f *fakeEmbedder) ModelName() string { return "fake" }

func (f *fakeEmbedder) Ping(context.Context) error { return nil }

func (f *fakeEmbedder) Close() error { return nil }

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}
