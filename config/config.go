package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document chat service.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	UploadsDir string `yaml:"uploads_dir"` // corpus directory scanned on reindex
	IndexDir   string `yaml:"index_dir"`   // persisted vector index artifact
}

// ChunkingConfig holds text splitting parameters.
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size"` // max characters per chunk
	Overlap   int `yaml:"overlap"`    // shared characters between neighbors
}

// EmbeddingConfig holds embedding service configuration.
type EmbeddingConfig struct {
	Provider  string        `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string        `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv string        `yaml:"api_key_env"` // environment variable for the API key
	BaseURL   string        `yaml:"base_url"`    // override for compatible endpoints
	Dimension int           `yaml:"dimension"`
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// GenerationConfig holds generation model configuration.
type GenerationConfig struct {
	Model       string        `yaml:"model"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// CacheConfig holds answer cache configuration.
type CacheConfig struct {
	MaxSize int           `yaml:"max_size"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			UploadsDir: "uploads",
			IndexDir:   "vectorstore",
		},
		Chunking: ChunkingConfig{
			ChunkSize: 800,
			Overlap:   100,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			BaseURL:   "https://api.openai.com/v1",
			Dimension: 1536,
			BatchSize: 100,
			Timeout:   60 * time.Second,
		},
		Generation: GenerationConfig{
			Model:       "mistralai/Mistral-7B-Instruct-v0.3",
			APIKeyEnv:   "HF_TOKEN",
			BaseURL:     "https://router.huggingface.co/v1",
			Temperature: 0.5,
			MaxTokens:   512,
			Timeout:     60 * time.Second,
		},
		Retrieve: RetrieveConfig{
			TopK: 3,
		},
		Cache: CacheConfig{
			MaxSize: 100,
			TTL:     5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docchat.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docchat.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docchat", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexFilePath returns the path of the index artifact inside the index
// directory.
func IndexFilePath(indexDir string) string {
	return filepath.Join(indexDir, "index.db")
}

// EnsureDirs creates the uploads and index directories if missing.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.Paths.UploadsDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.Paths.IndexDir, 0755)
}
