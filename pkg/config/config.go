/*
Package config manages TOML config for correctserve services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server CorrectionConfig `toml:"server"`
	Dict   DictConfig       `toml:"dictionary"`
	Ngram  NgramConfig      `toml:"ngram"`
	Cache  CacheConfig      `toml:"cache"`
	Neural NeuralConfig     `toml:"neural"`
}

// CorrectionConfig has orchestrator related options.
type CorrectionConfig struct {
	// MinConfidence gates corrections: anything below it reverts to the
	// original text.
	MinConfidence      float64 `toml:"min_confidence"`
	DefaultSuggestions int     `toml:"default_suggestions"`
	MaxSuggestions     int     `toml:"max_suggestions"`
	MaxRequestSize     int     `toml:"max_request_size"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	WordsPath       string `toml:"words_path"`
	MaxEditDistance int    `toml:"max_edit_distance"`
}

// NgramConfig holds language model options.
type NgramConfig struct {
	Order     int     `toml:"order"`
	MinCount  int     `toml:"min_count"`
	Smoothing float64 `toml:"smoothing"`
	ModelPath string  `toml:"model_path"`
}

// CacheConfig holds result cache options.
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Backend    string `toml:"backend"` // "memory" or "redis"
	TTLSeconds int    `toml:"ttl_seconds"`
	MaxEntries int    `toml:"max_entries"`
	RedisAddr  string `toml:"redis_addr"`
	RedisDB    int    `toml:"redis_db"`
}

// NeuralConfig holds options for the external grammar corrector.
type NeuralConfig struct {
	Enabled bool `toml:"enabled"`
	// Client selects the collaborator implementation: "http" talks to an
	// inference sidecar, "openai" uses the chat completions API.
	Client         string `toml:"client"`
	Endpoint       string `toml:"endpoint"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: CorrectionConfig{
			MinConfidence:      0.95,
			DefaultSuggestions: 3,
			MaxSuggestions:     10,
			MaxRequestSize:     10000,
		},
		Dict: DictConfig{
			WordsPath:       "",
			MaxEditDistance: 2,
		},
		Ngram: NgramConfig{
			Order:     4,
			MinCount:  2,
			Smoothing: 0.01,
			ModelPath: "",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Backend:    "memory",
			TTLSeconds: 86400,
			MaxEntries: 1000,
			RedisAddr:  "localhost:6379",
			RedisDB:    0,
		},
		Neural: NeuralConfig{
			Enabled:        false,
			Client:         "http",
			Endpoint:       "http://localhost:8501",
			Model:          "",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 5,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/correctserve
// 2. Current working dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return os.Getwd()
	}
	return filepath.Join(homeDir, ".config", "correctserve"), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/correctserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(config)
}

// Validate checks value ranges the rest of the system relies on.
func (c *Config) Validate() error {
	if c.Ngram.Order < 1 || c.Ngram.Order > 4 {
		return fmt.Errorf("ngram order must be 1..4, got %d", c.Ngram.Order)
	}
	if c.Server.MinConfidence < 0 || c.Server.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0,1], got %g", c.Server.MinConfidence)
	}
	if c.Server.MaxSuggestions < 1 || c.Server.MaxSuggestions > 10 {
		return fmt.Errorf("max_suggestions must be 1..10, got %d", c.Server.MaxSuggestions)
	}
	if c.Dict.MaxEditDistance < 1 {
		return fmt.Errorf("max_edit_distance must be positive, got %d", c.Dict.MaxEditDistance)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
