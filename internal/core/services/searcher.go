package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/core/ports/driven"
	"github.com/semdesk/semdesk/internal/logger"
)

// DefaultTopK is the number of hits a search returns.
const DefaultTopK = 10

// searcherMsg is the tagged union delivered to the searcher mailbox.
type searcherMsg interface {
	isSearcherMsg()
}

// indexVectorMsg asks the searcher to insert a vector and make it durable.
type indexVectorMsg struct {
	id     int64
	vector []float32
	reply  chan error
}

// searchMsg asks the searcher to embed a query and run top-k.
type searchMsg struct {
	query string
	k     int
	reply chan searchReply
}

type searchReply struct {
	hits []domain.SearchHit
	err  error
}

// listIDsMsg asks the searcher for every id in the index.
type listIDsMsg struct {
	reply chan []int64
}

func (indexVectorMsg) isSearcherMsg() {}
func (searchMsg) isSearcherMsg()      {}
func (listIDsMsg) isSearcherMsg()     {}

// SearcherWorker is the single owner of the vector index handle. One
// goroutine drains its mailbox, so index mutation, persistence and queries
// are serialised without a mutex. The worker holds its own embedding
// service for query-side embedding; the indexer worker holds a separate
// instance for ingest.
type SearcherWorker struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	topK     int

	mu      sync.Mutex
	running bool
	mailbox chan searcherMsg
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewSearcherWorker creates a searcher worker. topK <= 0 means DefaultTopK.
func NewSearcherWorker(index driven.VectorIndex, embedder driven.EmbeddingService, topK int) *SearcherWorker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &SearcherWorker{
		index:    index,
		embedder: embedder,
		topK:     topK,
	}
}

// Start launches the worker goroutine. Starting twice is a no-op.
func (w *SearcherWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.mailbox = make(chan searcherMsg)
	w.stopCh = make(chan struct{})

	w.wg.Add(1)
	go w.run()
}

// Stop shuts the worker down after the in-flight message completes.
func (w *SearcherWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
}

// run drains the mailbox. One message at a time, in arrival order: an
// Index is durable before the next message is looked at.
func (w *SearcherWorker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case msg := <-w.mailbox:
			switch m := msg.(type) {
			case indexVectorMsg:
				m.reply <- w.handleIndex(m.id, m.vector)
			case searchMsg:
				m.reply <- w.handleSearch(m.query, m.k)
			case listIDsMsg:
				m.reply <- w.index.IDs()
			}
		}
	}
}

func (w *SearcherWorker) handleIndex(id int64, vector []float32) error {
	if err := w.index.Add(id, vector); err != nil {
		return fmt.Errorf("index add %d: %w", id, err)
	}
	logger.Debug("searcher: indexed id=%d (size=%d)", id, w.index.Len())
	return nil
}

func (w *SearcherWorker) handleSearch(query string, k int) searchReply {
	// Workers never observe caller cancellation: the worker's own work is
	// not rolled back mid-flight. Cancellation is handled on the await side.
	vector, err := w.embedder.Embed(context.Background(), query)
	if err != nil {
		return searchReply{err: fmt.Errorf("embed query: %w", err)}
	}

	hits, err := w.index.Search(vector, k)
	if err != nil {
		return searchReply{err: fmt.Errorf("index search: %w", err)}
	}

	logger.Debug("searcher: query %q returned %d hits", query, len(hits))
	return searchReply{hits: hits}
}

// send delivers a message unless the worker is stopped or ctx expires.
func (w *SearcherWorker) send(ctx context.Context, msg searcherMsg) error {
	select {
	case w.mailbox <- msg:
		return nil
	case <-w.stopCh:
		return domain.ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Index inserts (id, vector) into the index and waits until the entry is
// durable. The ctx bounds only the hand-off and the await; once accepted
// the insert always runs to completion.
func (w *SearcherWorker) Index(ctx context.Context, id int64, vector []float32) error {
	reply := make(chan error, 1)
	if err := w.send(ctx, indexVectorMsg{id: id, vector: vector, reply: reply}); err != nil {
		return err
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Search embeds the query with the worker's own embedder and returns the
// top-k nearest entries.
func (w *SearcherWorker) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	reply := make(chan searchReply, 1)
	if err := w.send(ctx, searchMsg{query: query, k: w.topK, reply: reply}); err != nil {
		return nil, err
	}

	select {
	case r := <-reply:
		return r.hits, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IndexIDs returns every id present in the vector index.
func (w *SearcherWorker) IndexIDs(ctx context.Context) ([]int64, error) {
	reply := make(chan []int64, 1)
	if err := w.send(ctx, listIDsMsg{reply: reply}); err != nil {
		return nil, err
	}

	select {
	case ids := <-reply:
		return ids, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
