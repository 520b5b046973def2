package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "http://localhost:8080/api/v1"
	DefaultOutputDir = "sentra-unittests"

	// BaseURLEnv overrides api.base_url when set.
	BaseURLEnv = "API_BASE_URL"
)

// Config holds all configuration for the generator.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Output    OutputConfig    `yaml:"output"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Session   SessionConfig   `yaml:"session"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig describes the remote generation service.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type OutputConfig struct {
	DirName string `yaml:"dir_name"`
}

// WorkspaceConfig limits which files are considered during ancestor lookup.
type WorkspaceConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

type SessionConfig struct {
	StorePath string `yaml:"store_path"` // empty = user config dir
}

// CacheConfig controls how long classifier answers are reused across runs.
// Answers live in the session store; zero disables the cache.
type CacheConfig struct {
	ClassifierTTL time.Duration `yaml:"classifier_ttl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 5 * time.Minute,
		},
		Output: OutputConfig{
			DirName: DefaultOutputDir,
		},
		Workspace: WorkspaceConfig{
			Includes: []string{"**/*.java", "**/*.cs", "**/*.py", "**/*.ts", "**/*.tsx"},
			Excludes: []string{"**/node_modules/**", "**/.git/**", "**/dist/**", "**/build/**", "**/target/**",
				"**/bin/**", "**/obj/**", "**/__pycache__/**", "**/" + DefaultOutputDir + "/**"},
		},
		Cache: CacheConfig{
			ClassifierTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFromDir looks for sentra.yaml, then .sentra/config.yaml.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "sentra.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".sentra", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(BaseURLEnv)); v != "" {
		c.API.BaseURL = v
	}
}

// Validate checks the values that the rest of the program relies on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is invalid: %q", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be http or https, got %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Cache.ClassifierTTL < 0 {
		return fmt.Errorf("cache.classifier_ttl must not be negative")
	}
	if strings.TrimSpace(c.Output.DirName) == "" || strings.ContainsAny(c.Output.DirName, `/\`) {
		return fmt.Errorf("output.dir_name must be a single directory name")
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SessionStorePath returns where credentials are persisted.
func (c *Config) SessionStorePath() (string, error) {
	if c.Session.StorePath != "" {
		return c.Session.StorePath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sentra", "session.db"), nil
}
