package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/core/ports/driven"
	"github.com/semdesk/semdesk/internal/logger"
)

// indexTextMsg asks the indexer to embed text and forward the vector.
type indexTextMsg struct {
	id    int64
	text  string
	reply chan error
}

// IndexerWorker owns the ingest-side embedding model. It embeds item text
// and forwards (id, vector) to the searcher worker, awaiting the searcher's
// durable commit before acknowledging. It is stateless with respect to the
// vector index, so additional instances could drain a shared mailbox
// without breaking the single-writer contract.
type IndexerWorker struct {
	embedder driven.EmbeddingService
	searcher *SearcherWorker

	mu      sync.Mutex
	running bool
	mailbox chan indexTextMsg
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewIndexerWorker creates an indexer worker forwarding to searcher.
func NewIndexerWorker(embedder driven.EmbeddingService, searcher *SearcherWorker) *IndexerWorker {
	return &IndexerWorker{
		embedder: embedder,
		searcher: searcher,
	}
}

// Start launches the worker goroutine. Starting twice is a no-op.
func (w *IndexerWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.mailbox = make(chan indexTextMsg)
	w.stopCh = make(chan struct{})

	w.wg.Add(1)
	go w.run()
}

// Stop shuts the worker down after the in-flight message completes.
func (w *IndexerWorker) Stop() {
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

func (w *IndexerWorker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case msg := <-w.mailbox:
			msg.reply <- w.handleIndex(msg.id, msg.text)
		}
	}
}

func (w *IndexerWorker) handleIndex(id int64, text string) error {
	// Embedding runs on the worker's own thread with its own model
	// instance, so ingest embedding never contends with query embedding.
	vectors, err := w.embedder.EmbedBatch(context.Background(), []string{text})
	if err != nil {
		return fmt.Errorf("embed text for id %d: %w", id, err)
	}

	if err := w.searcher.Index(context.Background(), id, vectors[0]); err != nil {
		return err
	}

	logger.Debug("indexer: embedded and forwarded id=%d", id)
	return nil
}

// Index embeds text and forwards it to the searcher, waiting until the
// vector index entry is durable.
func (w *IndexerWorker) Index(ctx context.Context, id int64, text string) error {
	reply := make(chan error, 1)

	select {
	case w.mailbox <- indexTextMsg{id: id, text: text, reply: reply}:
	case <-w.stopCh:
		return domain.ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
