package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment keys read from the process or a .env file.
const (
	EnvAPIKey       = "API_KEY"
	EnvRiskFreeRate = "RISK_FREE_RATE"
)

// Config holds everything the CLI needs to fetch data and price options.
type Config struct {
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Pricing  PricingConfig  `json:"pricing" yaml:"pricing"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// ProviderConfig points at the quote provider.
type ProviderConfig struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string `json:"base_url" yaml:"base_url"`
	Timeout string `json:"timeout" yaml:"timeout"` // e.g. "30s"
}

// ParseTimeout converts the timeout string to a time.Duration.
func (pc ProviderConfig) ParseTimeout() (time.Duration, error) {
	if pc.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(pc.Timeout)
}

// PricingConfig contains model inputs that do not come from market data.
type PricingConfig struct {
	RiskFreeRate  float64 `json:"risk_free_rate" yaml:"risk_free_rate"` // decimal, 0.05 is 5%
	LookbackDays  int     `json:"lookback_days" yaml:"lookback_days"`
	InitialSigma  float64 `json:"initial_sigma" yaml:"initial_sigma"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
}

// OutputConfig selects the report format.
type OutputConfig struct {
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML or JSON based on the extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadEnv overlays API_KEY and RISK_FREE_RATE onto c. Non-empty values in
// the process environment win over the ones in the .env file at path. A
// missing file is not an error.
func (c *Config) LoadEnv(path string) error {
	vars := map[string]string{}
	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read env file: %w", err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, k := range []string{EnvAPIKey, EnvRiskFreeRate} {
		if v := os.Getenv(k); v != "" {
			vars[k] = v
		}
	}

	if v := vars[EnvAPIKey]; v != "" {
		c.Provider.APIKey = v
	}
	if v := vars[EnvRiskFreeRate]; v != "" {
		rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRiskFreeRate, err)
		}
		c.Pricing.RiskFreeRate = rate
	}
	return nil
}

// Validate checks if the configuration is valid. The API key is checked
// separately by RequireAPIKey since offline commands do not need it.
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if d, err := c.Provider.ParseTimeout(); err != nil {
		return fmt.Errorf("provider.timeout: %w", err)
	} else if d < 0 {
		return fmt.Errorf("provider.timeout must not be negative")
	}
	if c.Pricing.RiskFreeRate < -1 || c.Pricing.RiskFreeRate > 1 {
		return fmt.Errorf("pricing.risk_free_rate must be a decimal between -1 and 1")
	}
	if c.Pricing.LookbackDays < 2 {
		return fmt.Errorf("pricing.lookback_days must be at least 2")
	}
	if c.Pricing.InitialSigma <= 0 {
		return fmt.Errorf("pricing.initial_sigma must be positive")
	}
	if c.Pricing.MaxIterations <= 0 {
		return fmt.Errorf("pricing.max_iterations must be positive")
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("output.format must be 'text' or 'json'")
	}
	return nil
}

// RequireAPIKey fails when no provider key is configured.
func (c *Config) RequireAPIKey() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("missing API key: set %s in the environment, .env file, or provider.api_key", EnvAPIKey)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL: "https://api.polygon.io",
			Timeout: "30s",
		},
		Pricing: PricingConfig{
			RiskFreeRate:  0.05,
			LookbackDays:  30,
			InitialSigma:  0.2,
			MaxIterations: 100,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
