package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultEmbedder, cfg.Embedder)
	assert.Equal(t, DefaultOllamaURL, cfg.Ollama.URL)
	assert.Equal(t, DefaultOllamaModel, cfg.Ollama.Model)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
addr = "127.0.0.1:9090"
log_level = "debug"
embedder = "openai"

[openai]
api_key = "sk-test"
model = "text-embedding-3-large"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "openai", cfg.Embedder)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "text-embedding-3-large", cfg.OpenAI.Model)
	// Unset sections keep their defaults.
	assert.Equal(t, DefaultOllamaURL, cfg.Ollama.URL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `addr = "127.0.0.1:9090"`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	t.Setenv("SEMDESK_ADDR", "127.0.0.1:7070")
	t.Setenv("SEMDESK_LOG", "warn")
	t.Setenv("SEMDESK_OLLAMA_URL", "http://embed-host:11434")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7070", cfg.Addr)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "http://embed-host:11434", cfg.Ollama.URL)
}

func TestLoadDataDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SEMDESK_DATA_DIR", dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoadRejectsUnknownEmbedder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SEMDESK_EMBEDDER", "cohere")

	_, err := Load(dir)
	assert.ErrorContains(t, err, "unknown embedder")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("addr = ["), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}
