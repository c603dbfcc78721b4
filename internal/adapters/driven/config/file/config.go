package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// Environment variables read after the config file.
const (
	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvVaultPath         = "NOTEQA_VAULT_PATH"
	EnvNotesDB           = "NOTEQA_NOTES_DB"
	EnvDataDir           = "NOTEQA_DATA_DIR"
	EnvEmbeddingProvider = "NOTEQA_EMBEDDING_PROVIDER"
	EnvEmbeddingModel    = "NOTEQA_EMBEDDING_MODEL"
	EnvLLMProvider       = "NOTEQA_LLM_PROVIDER"
	EnvLLMModel          = "NOTEQA_LLM_MODEL"
	EnvOllamaHost        = "OLLAMA_HOST"
	EnvMaxChunks         = "NOTEQA_MAX_CHUNKS"
	EnvTemperature       = "NOTEQA_TEMPERATURE"
)

// ConfigLoader builds a domain.Config from, in increasing precedence,
// built-in defaults, a TOML file, a .env file and the process environment.
type ConfigLoader struct {
	home     string
	path     string
	explicit bool
	dotenv   string
}

// NewConfigLoader creates a loader. If path is empty the file defaults to
// ~/.noteqa/config.toml and may be absent; an explicit path must exist.
func NewConfigLoader(path, home string) (*ConfigLoader, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
	}

	l := &ConfigLoader{home: home, path: path, explicit: path != "", dotenv: ".env"}
	if path == "" {
		l.path = filepath.Join(home, ".noteqa", "config.toml")
	}
	return l, nil
}

// SetDotenv overrides the .env file location. An empty path disables it.
func (l *ConfigLoader) SetDotenv(path string) {
	l.dotenv = path
}

// Path returns the configuration file path.
func (l *ConfigLoader) Path() string {
	return l.path
}

// Load reads every layer and validates the result.
func (l *ConfigLoader) Load() (domain.Config, error) {
	cfg := domain.DefaultConfig(l.home)

	data, err := os.ReadFile(l.path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: config %s: %w", domain.ErrInvalidInput, l.path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !l.explicit:
		// No config file yet - defaults apply
	default:
		return cfg, fmt.Errorf("read config %s: %w", l.path, err)
	}

	if l.dotenv != "" {
		// godotenv never overrides variables already set in the environment.
		if err := godotenv.Load(l.dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", l.dotenv, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	l.expandPaths(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the directory if needed.
// API keys are not written; they belong in the environment.
func (l *ConfigLoader) Save(cfg domain.Config) error {
	cfg.Embedding.APIKey = ""
	cfg.LLM.APIKey = ""

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(l.path, data, 0600)
}

func applyEnv(cfg *domain.Config) error {
	if key := os.Getenv(EnvOpenAIKey); key != "" {
		cfg.Embedding.APIKey = key
		cfg.LLM.APIKey = key
	}
	setString(&cfg.Vault.Path, EnvVaultPath)
	setString(&cfg.Notes.DBPath, EnvNotesDB)
	setString(&cfg.Data.Dir, EnvDataDir)
	setString(&cfg.Embedding.Model, EnvEmbeddingModel)
	setString(&cfg.LLM.Model, EnvLLMModel)

	if v := os.Getenv(EnvEmbeddingProvider); v != "" {
		cfg.Embedding.Provider = domain.AIProvider(strings.ToLower(v))
	}
	if v := os.Getenv(EnvLLMProvider); v != "" {
		cfg.LLM.Provider = domain.AIProvider(strings.ToLower(v))
	}
	if host := os.Getenv(EnvOllamaHost); host != "" {
		if cfg.Embedding.Provider == domain.AIProviderOllama && cfg.Embedding.BaseURL == "" {
			cfg.Embedding.BaseURL = host
		}
		if cfg.LLM.Provider == domain.AIProviderOllama && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = host
		}
	}

	if v := os.Getenv(EnvMaxChunks); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidInput, EnvMaxChunks, v)
		}
		cfg.Query.MaxChunks = n
	}
	if v := os.Getenv(EnvTemperature); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", domain.ErrInvalidInput, EnvTemperature, v)
		}
		cfg.LLM.Temperature = f
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// expandPaths resolves a leading ~ against the home directory.
func (l *ConfigLoader) expandPaths(cfg *domain.Config) {
	for _, p := range []*string{&cfg.Vault.Path, &cfg.Notes.DBPath, &cfg.Data.Dir} {
		switch {
		case *p == "~":
			*p = l.home
		case strings.HasPrefix(*p, "~/"):
			*p = filepath.Join(l.home, (*p)[2:])
		}
	}
}
