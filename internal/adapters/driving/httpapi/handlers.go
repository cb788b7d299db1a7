package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/logger"
)

// ingestRequest is the wire shape of POST /ingest.
type ingestRequest struct {
	Items []ingestItem `json:"items"`
}

type ingestItem struct {
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Source  ingestSource `json:"source"`
}

type ingestSource struct {
	Name string  `json:"name"`
	URL  *string `json:"url,omitempty"`
}

// searchResponse is the wire shape of GET /search.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Key      int64   `json:"key"`
	Title    string  `json:"title"`
	Text     string  `json:"text"`
	URL      *string `json:"url"`
	Distance float32 `json:"distance"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "semdesk")
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decode request body: %w: %v", domain.ErrInvalidInput, err))
		return
	}

	items := make([]domain.IngestItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.IngestItem{
			Title:  it.Title,
			Text:   it.Content,
			Source: it.Source.Name,
			URL:    it.Source.URL,
		}
	}

	count, err := s.ingester.Ingest(r.Context(), items)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ingested %d", count)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, fmt.Errorf("missing query parameter: %w", domain.ErrInvalidInput))
		return
	}

	results, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := searchResponse{Results: make([]searchResult, len(results))}
	for i, res := range results {
		resp.Results[i] = searchResult{
			Key:      res.ID,
			Title:    res.Title,
			Text:     res.Text,
			URL:      res.URL,
			Distance: res.Distance,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("http: encode response: %v", err)
	}
}

// writeError maps domain errors to status codes: invalid input is the
// client's fault, everything else is ours.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	if status >= 500 {
		logger.Error("http: %v", err)
	} else {
		logger.Debug("http: %v", err)
	}
	http.Error(w, err.Error(), status)
}
