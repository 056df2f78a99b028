// Package config contains the loader and strongly typed model for planctl configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	envparse "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/issue-planner/planctl/internal/env"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	// DefaultModel is the model identifier used for planning.
	DefaultModel = "gpt-5.1-codex"
	// DefaultOutputDir is where generated plans are written.
	DefaultOutputDir = "output"
	// DefaultLogLevel is the textual default log level.
	DefaultLogLevel = "info"
)

// Config holds the runtime configuration of planctl. Values are resolved in
// three layers: built-in defaults, then the optional planctl.yaml file, then
// the process environment (env files listed in EnvFiles are loaded first and
// never override real environment variables).
type Config struct {
	// Model is the model identifier used for planning.
	Model string `yaml:"model" env:"PLANCTL_MODEL"`
	// OutputDir is the directory generated plans are written to.
	OutputDir string `yaml:"outputDir" env:"PLANCTL_OUTPUT_DIR"`
	// EnvFiles lists .env files to load before reading the environment.
	EnvFiles []string `yaml:"envFiles,omitempty"`
	// MaxRounds bounds the planner conversation; zero uses the built-in default.
	MaxRounds int `yaml:"maxRounds,omitempty" env:"PLANCTL_MAX_ROUNDS"`
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty" env:"PLANCTL_LOG_LEVEL"`
	// OpenAIAPIKey authenticates against the model provider. Required to run a plan.
	OpenAIAPIKey string `yaml:"-" env:"OPENAI_API_KEY"`
	// FirecrawlAPIKey authenticates research calls. Optional: its absence is
	// only an error once a research tool is actually invoked.
	FirecrawlAPIKey string `yaml:"-" env:"FIRECRAWL_API_KEY"`
}

// Load reads the optional config file at path and overlays the process
// environment. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Model:     DefaultModel,
		OutputDir: DefaultOutputDir,
		LogLevel:  DefaultLogLevel,
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	case os.IsNotExist(err):
		// Config file is optional; environment alone is enough.
	default:
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	vars, err := env.LoadEnvFiles(filepath.Dir(path), cfg.EnvFiles)
	if err != nil {
		return nil, err
	}
	env.Apply(vars)

	if err := envparse.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is sufficient to run a plan.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	return nil
}
