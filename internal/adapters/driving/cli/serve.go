package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/semdesk/semdesk/internal/adapters/driven/config/file"
	"github.com/semdesk/semdesk/internal/adapters/driven/embedding/ollama"
	"github.com/semdesk/semdesk/internal/adapters/driven/embedding/openai"
	"github.com/semdesk/semdesk/internal/adapters/driven/storage/sqlite"
	"github.com/semdesk/semdesk/internal/adapters/driven/vector/bolt"
	"github.com/semdesk/semdesk/internal/adapters/driving/httpapi"
	"github.com/semdesk/semdesk/internal/core/ports/driven"
	"github.com/semdesk/semdesk/internal/core/services"
	"github.com/semdesk/semdesk/internal/logger"
)

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the semdesk HTTP service",
	Long: `Starts the ingest and search pipeline and serves the HTTP API.
The index and content database live in the data directory (default ~/.semdesk).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default 127.0.0.1:8080)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "data directory (default ~/.semdesk)")
	rootCmd.AddCommand(serveCmd)
}

// newEmbedder builds one embedding service instance for the configured
// backend. Called twice: the indexer and the searcher each own their own
// instance.
func newEmbedder(cfg configfile.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedder {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Ollama.URL,
			Model:   cfg.Ollama.Model,
		}), nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai embedder selected but no api key configured")
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey: cfg.OpenAI.APIKey,
			Model:  cfg.OpenAI.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", cfg.Embedder)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := configfile.Load(serveDataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	logger.Info("semdesk %s starting (data dir %s)", version, cfg.DataDir)

	indexEmbedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	defer indexEmbedder.Close()

	queryEmbedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	defer queryEmbedder.Close()

	if err := indexEmbedder.Ping(cmd.Context()); err != nil {
		// Not fatal: the backend may come up later. Requests fail with a
		// clear error until it does.
		logger.Warn("embedding backend unreachable: %v", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	index, err := bolt.Open(bolt.Options{
		Path:      filepath.Join(cfg.DataDir, "vectors.db"),
		Dimension: indexEmbedder.Dimensions(),
		Model:     indexEmbedder.ModelName(),
	})
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	defer index.Close()

	searcher := services.NewSearcherWorker(index, queryEmbedder, 0)
	searcher.Start()
	defer searcher.Stop()

	indexer := services.NewIndexerWorker(indexEmbedder, searcher)
	indexer.Start()
	defer indexer.Stop()

	coordinator := services.NewCoordinator(store, indexer, searcher)

	// Repair the vector index before taking traffic: rows committed
	// without an index entry (a crash mid-ingest, an embedder outage)
	// get re-embedded here.
	if err := coordinator.Reconcile(cmd.Context()); err != nil {
		logger.Warn("startup reconciliation incomplete: %v", err)
	}

	server := httpapi.NewServer(cfg.Addr, coordinator, coordinator)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-server.Err():
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown: %v", err)
	}

	// Workers, index and stores are closed by the deferred calls in
	// reverse order: HTTP first, then indexer, searcher, index, store.
	return nil
}
