package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semdesk/semdesk/internal/adapters/driven/embedding"
	"github.com/semdesk/semdesk/internal/core/domain"
)

func TestEmbedBatch(t *testing.T) {
	var gotReq embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := embedResponse{
			Embeddings: [][]float32{{3, 4, 0}, {0, 0, 5}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{
		BaseURL:    server.URL,
		Model:      "all-minilm",
		Dimensions: 3,
	})

	vectors, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	assert.Equal(t, "all-minilm", gotReq.Model)
	assert.Equal(t, []string{"a", "b"}, gotReq.Input)

	// Output is L2-normalised.
	assert.InDelta(t, 1.0, embedding.Norm(vectors[0]), 1e-5)
	assert.InDelta(t, 1.0, embedding.Norm(vectors[1]), 1e-5)
	assert.InDelta(t, 0.6, vectors[0][0], 1e-6)
}

func TestEmbed_SingleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1, 0}}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 2})

	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 2)
}

func TestEmbedBatch_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1, 0}}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 3})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1, 0}}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 2})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbedBatch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrEmbeddingUnavailable)
}

func TestDefaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}
