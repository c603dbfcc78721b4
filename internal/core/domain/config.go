package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API (or any compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// Config is the runtime configuration. It is built once at startup and
// passed to every component that needs it.
type Config struct {
	Vault     VaultConfig     `toml:"vault"`
	Notes     NotesConfig     `toml:"notes"`
	Data      DataConfig      `toml:"data"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Query     QueryConfig     `toml:"query"`
	Index     IndexConfig     `toml:"index"`
}

// VaultConfig configures the markdown vault source.
type VaultConfig struct {
	Enabled bool     `toml:"enabled"`
	Path    string   `toml:"path"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// NotesConfig configures the Apple Notes source.
type NotesConfig struct {
	Enabled bool `toml:"enabled"`

	// DBPath overrides the platform location of NoteStore.sqlite.
	DBPath string `toml:"db_path"`
}

// DataConfig locates persisted state.
type DataConfig struct {
	// Dir holds the index database, fingerprint file and embedding cache.
	Dir string `toml:"dir"`
}

// IndexPath returns the vector index database path.
func (d DataConfig) IndexPath() string { return filepath.Join(d.Dir, "index.db") }

// FingerprintPath returns the change-tracker file path.
func (d DataConfig) FingerprintPath() string { return filepath.Join(d.Dir, "processed_files.json") }

// CachePath returns the embedding cache path.
func (d DataConfig) CachePath() string { return filepath.Join(d.Dir, "embeddings.bolt") }

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider AIProvider `toml:"provider"`
	Model    string     `toml:"model"`
	BaseURL  string     `toml:"base_url"`
	APIKey   string     `toml:"api_key"`

	// RequestsPerSecond throttles embedding calls. Zero disables throttling.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Cache enables the on-disk embedding cache.
	Cache bool `toml:"cache"`
}

// LLMConfig holds chat model configuration.
type LLMConfig struct {
	Provider    AIProvider `toml:"provider"`
	Model       string     `toml:"model"`
	BaseURL     string     `toml:"base_url"`
	APIKey      string     `toml:"api_key"`
	Temperature float64    `toml:"temperature"`
}

// QueryConfig configures retrieval and conversation.
type QueryConfig struct {
	// MaxChunks is the number of documents retrieved per question.
	MaxChunks int `toml:"max_chunks"`

	// HistoryLimit is the number of turns kept in a session.
	HistoryLimit int `toml:"history_limit"`

	// TimeoutSeconds bounds each network call made by the adapters.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the per-call network timeout.
func (q QueryConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// IndexConfig configures the indexing pipeline.
type IndexConfig struct {
	// Prune removes documents that disappeared from their source.
	Prune bool `toml:"prune"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
// home is the user's home directory.
func DefaultConfig(home string) Config {
	return Config{
		Vault: VaultConfig{
			Enabled: true,
			Path:    filepath.Join(home, "Library", "Mobile Documents", "iCloud~md~obsidian", "Documents"),
			Include: []string{"**/*.md"},
			Exclude: []string{".obsidian/**", ".trash/**"},
		},
		Notes: NotesConfig{
			Enabled: true,
		},
		Data: DataConfig{
			Dir: filepath.Join(home, ".noteqa", "data"),
		},
		Embedding: EmbeddingConfig{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			Cache:    true,
		},
		LLM: LLMConfig{
			Provider:    AIProviderOpenAI,
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
		},
		Query: QueryConfig{
			MaxChunks:      8,
			HistoryLimit:   DefaultHistoryLimit,
			TimeoutSeconds: 120,
		},
	}
}

// Validate checks the configuration for values no component can work with.
func (c Config) Validate() error {
	if !c.Vault.Enabled && !c.Notes.Enabled {
		return fmt.Errorf("%w: at least one of vault or notes must be enabled", ErrInvalidInput)
	}
	if c.Vault.Enabled && c.Vault.Path == "" {
		return fmt.Errorf("%w: vault.path is required when the vault is enabled", ErrInvalidInput)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("%w: data.dir is required", ErrInvalidInput)
	}
	if !c.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", ErrUnsupportedType, c.Embedding.Provider)
	}
	if !c.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", ErrUnsupportedType, c.LLM.Provider)
	}
	if c.Query.MaxChunks <= 0 {
		return fmt.Errorf("%w: query.max_chunks must be positive", ErrInvalidInput)
	}
	if c.Query.HistoryLimit < 0 {
		return fmt.Errorf("%w: query.history_limit must not be negative", ErrInvalidInput)
	}
	return nil
}
