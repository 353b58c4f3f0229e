package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"prox/internal/paths"
)

// Config represents the complete prox configuration (v2 schema)
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Scan      ScanConfig      `json:"scan" mapstructure:"scan"`
	Neighbors NeighborsConfig `json:"neighbors" mapstructure:"neighbors"`
	Context   ContextConfig   `json:"context" mapstructure:"context"`
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// ScanConfig contains filesystem scan configuration
type ScanConfig struct {
	Ignore           []string `json:"ignore" mapstructure:"ignore"`
	MaxFileSizeBytes int64    `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
	MaxFiles         int      `json:"maxFiles" mapstructure:"maxFiles"`
}

// NeighborsConfig contains neighbor-search configuration
type NeighborsConfig struct {
	// MaxHops is the default traversal distance for neighbor queries
	MaxHops int `json:"maxHops" mapstructure:"maxHops"`
	// FullPathIdentity dedupes neighbor files by full path instead of base name
	FullPathIdentity bool `json:"fullPathIdentity" mapstructure:"fullPathIdentity"`
}

// ContextConfig contains candidate-assembly configuration
type ContextConfig struct {
	MaxCandidates int           `json:"maxCandidates" mapstructure:"maxCandidates"`
	Weights       WeightsConfig `json:"weights" mapstructure:"weights"`
}

// WeightsConfig controls how proximity signals are fused
type WeightsConfig struct {
	Neighbors float64 `json:"neighbors" mapstructure:"neighbors"`
	OpenFiles float64 `json:"openFiles" mapstructure:"openFiles"`
}

// CacheConfig contains cache configuration
type CacheConfig struct {
	QueryTtlSeconds int `json:"queryTtlSeconds" mapstructure:"queryTtlSeconds"`
	LruSize         int `json:"lruSize" mapstructure:"lruSize"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  2,
		RepoRoot: ".",
		Scan: ScanConfig{
			Ignore:           []string{".git", "node_modules", "build", "dist", "vendor", ".dart_tool", paths.ProxDir},
			MaxFileSizeBytes: 1000000,
			MaxFiles:         200000,
		},
		Neighbors: NeighborsConfig{
			MaxHops:          1,
			FullPathIdentity: false,
		},
		Context: ContextConfig{
			MaxCandidates: 20,
			Weights: WeightsConfig{
				Neighbors: 0.6,
				OpenFiles: 0.4,
			},
		},
		Cache: CacheConfig{
			QueryTtlSeconds: 300,
			LruSize:         256,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .prox/config.json
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 2)
	v.SetDefault("repoRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, paths.ProxDir))

	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .prox/config.json
func (c *Config) Save(repoRoot string) error {
	proxDir := filepath.Join(repoRoot, paths.ProxDir)
	if err := os.MkdirAll(proxDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(proxDir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 2 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Neighbors.MaxHops < 0 {
		return &ConfigError{Field: "neighbors.maxHops", Message: "must be non-negative"}
	}
	if c.Context.MaxCandidates <= 0 {
		return &ConfigError{Field: "context.maxCandidates", Message: "must be positive"}
	}
	if c.Context.Weights.Neighbors < 0 || c.Context.Weights.OpenFiles < 0 {
		return &ConfigError{Field: "context.weights", Message: "weights must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
