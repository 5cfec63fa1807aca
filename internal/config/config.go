package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted by the embedding and synthesis sections.
const (
	ProviderGenAI      = "genai"
	ProviderHashing    = "hashing"
	ProviderExtractive = "extractive"
)

// DefaultPath is where `frontdesk init` writes the config file.
const DefaultPath = "frontdesk.yaml"

// Config is the complete frontdesk configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Escalation EscalationConfig `yaml:"escalation"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Synthesis  SynthesisConfig  `yaml:"synthesis"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Persona    PersonaConfig    `yaml:"persona"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the supervisor HTTP surface.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPS      int           `yaml:"rate_limit_rps"`
	RateLimitBurst    int           `yaml:"rate_limit_burst"`
}

// DatabaseConfig selects the SQLite driver and file.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" (cgo) or "sqlite" (pure Go)
	Path   string `yaml:"path"`
}

// EscalationConfig holds the knobs of the escalation lifecycle.
type EscalationConfig struct {
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
	PendingTimeout      time.Duration `yaml:"pending_timeout"`
	SweepInterval       time.Duration `yaml:"sweep_interval"`
	PublishTimeout      time.Duration `yaml:"publish_timeout"`
}

// RetrievalConfig configures knowledge lookups.
type RetrievalConfig struct {
	TopK      int           `yaml:"top_k"`
	Namespace string        `yaml:"namespace"`
	Timeout   time.Duration `yaml:"timeout"`
}

// SynthesisConfig configures the answer phrasing model.
type SynthesisConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int32         `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// EmbeddingConfig configures the embedding engine.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	APIKey     string `yaml:"api_key,omitempty"`
	BatchSize  int    `yaml:"batch_size"`
}

// CorpusConfig points at the raw salon knowledge text.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// PersonaConfig holds the receptionist's customer-facing lines.
type PersonaConfig struct {
	Name     string `yaml:"name"`
	Business string `yaml:"business"`
	Greeting string `yaml:"greeting"`
	Fallback string `yaml:"fallback"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":5000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRPS:      20,
			RateLimitBurst:    40,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			Path:   "members.db",
		},
		Escalation: EscalationConfig{
			ConfidenceThreshold: 0.7,
			PendingTimeout:      60 * time.Second,
			SweepInterval:       time.Second,
			PublishTimeout:      30 * time.Second,
		},
		Retrieval: RetrievalConfig{
			TopK:      3,
			Namespace: "salon",
			Timeout:   5 * time.Second,
		},
		Synthesis: SynthesisConfig{
			Provider:    ProviderGenAI,
			Model:       "gemini-2.0-flash",
			Temperature: 0.7,
			MaxTokens:   150,
			Timeout:     8 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:   ProviderGenAI,
			Model:      "gemini-embedding-001",
			Dimensions: 768,
			BatchSize:  100,
		},
		Corpus: CorpusConfig{
			Path: "salon_data.txt",
		},
		Persona: PersonaConfig{
			Name:     "Freya",
			Business: "Bliss Salon",
			Greeting: "Hi my name is Freya, this is Bliss Salon, how may I help you?",
			Fallback: "I don't have specific information about that in our salon knowledge base. Let me check with my supervisor, I will get back to you over text message.",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML config at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if c.Escalation.ConfidenceThreshold < 0 || c.Escalation.ConfidenceThreshold > 1 {
		return fmt.Errorf("escalation.confidence_threshold must be within [0,1], got %v", c.Escalation.ConfidenceThreshold)
	}
	if c.Escalation.PendingTimeout <= 0 {
		return fmt.Errorf("escalation.pending_timeout must be positive")
	}
	if c.Escalation.SweepInterval <= 0 {
		return fmt.Errorf("escalation.sweep_interval must be positive")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.Timeout <= 0 || c.Synthesis.Timeout <= 0 {
		return fmt.Errorf("retrieval.timeout and synthesis.timeout must be positive")
	}
	switch c.Database.Driver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or sqlite, got %q", c.Database.Driver)
	}
	switch c.Embedding.Provider {
	case ProviderGenAI, ProviderHashing:
	default:
		return fmt.Errorf("embedding.provider must be %s or %s, got %q", ProviderGenAI, ProviderHashing, c.Embedding.Provider)
	}
	switch c.Synthesis.Provider {
	case ProviderGenAI, ProviderExtractive:
	default:
		return fmt.Errorf("synthesis.provider must be %s or %s, got %q", ProviderGenAI, ProviderExtractive, c.Synthesis.Provider)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("FRONTDESK_LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FRONTDESK_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FRONTDESK_NAMESPACE"); v != "" {
		cfg.Retrieval.Namespace = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("FRONTDESK_CONFIDENCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid FRONTDESK_CONFIDENCE_THRESHOLD: %w", err)
		}
		cfg.Escalation.ConfidenceThreshold = f
	}
	if v := os.Getenv("FRONTDESK_PENDING_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FRONTDESK_PENDING_TIMEOUT: %w", err)
		}
		cfg.Escalation.PendingTimeout = d
	}
	return nil
}
