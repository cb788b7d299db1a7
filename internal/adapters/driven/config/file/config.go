// Package file loads semdesk configuration from a TOML file, with
// environment variables taking precedence over file values.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when neither the config file nor the environment sets
// a value.
const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultLogLevel    = "info"
	DefaultEmbedder    = "ollama"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "all-minilm"
	DefaultOpenAIModel = "text-embedding-3-small"
)

// Config holds everything the serve command needs to wire the service.
type Config struct {
	// Addr is the listen address of the HTTP API.
	Addr string `toml:"addr"`

	// DataDir holds the content database and the vector index. Empty
	// means ~/.semdesk.
	DataDir string `toml:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Embedder selects the embedding backend: "ollama" or "openai".
	Embedder string `toml:"embedder"`

	Ollama OllamaConfig `toml:"ollama"`
	OpenAI OpenAIConfig `toml:"openai"`
}

// OllamaConfig configures the local Ollama embedding backend.
type OllamaConfig struct {
	URL   string `toml:"url"`
	Model string `toml:"model"`
}

// OpenAIConfig configures the OpenAI embedding backend.
type OpenAIConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Load reads config.toml from dataDir, fills in defaults and applies
// environment overrides. A missing file is not an error: the defaults
// make a fresh install work with a local Ollama.
//
// Environment variables override file values:
//
//	SEMDESK_ADDR, SEMDESK_DATA_DIR, SEMDESK_LOG, SEMDESK_EMBEDDER,
//	SEMDESK_OLLAMA_URL, SEMDESK_OPENAI_API_KEY
func Load(dataDir string) (Config, error) {
	if env := os.Getenv("SEMDESK_DATA_DIR"); env != "" {
		dataDir = env
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".semdesk")
	}

	cfg := Config{
		Addr:     DefaultAddr,
		DataDir:  dataDir,
		LogLevel: DefaultLogLevel,
		Embedder: DefaultEmbedder,
		Ollama: OllamaConfig{
			URL:   DefaultOllamaURL,
			Model: DefaultOllamaModel,
		},
		OpenAI: OpenAIConfig{
			Model: DefaultOpenAIModel,
		},
	}

	path := filepath.Join(dataDir, "config.toml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fresh install, defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		// DataDir in the file cannot move the file that was just read.
		cfg.DataDir = dataDir
	}

	applyEnv(&cfg)

	if cfg.Embedder != "ollama" && cfg.Embedder != "openai" {
		return Config{}, fmt.Errorf("unknown embedder %q (want ollama or openai)", cfg.Embedder)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SEMDESK_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SEMDESK_LOG"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SEMDESK_EMBEDDER"); v != "" {
		cfg.Embedder = v
	}
	if v := os.Getenv("SEMDESK_OLLAMA_URL"); v != "" {
		cfg.Ollama.URL = v
	}
	if v := os.Getenv("SEMDESK_OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
}
