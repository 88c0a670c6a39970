package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/greeks/config"
	"github.com/rustyeddy/greeks/polygon"
	"github.com/rustyeddy/greeks/valuation"
)

var clock = time.Now

// today is the current time in UTC. Every command takes the valuation
// date from it so that calendar dates agree across commands.
func today() time.Time {
	return clock().UTC()
}

// loadConfig layers defaults, the config file, the env file and the
// --format flag, in that order.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		c, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newClient(cfg *config.Config) (*polygon.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	timeout, err := cfg.Provider.ParseTimeout()
	if err != nil {
		return nil, fmt.Errorf("provider timeout: %w", err)
	}

	opts := []polygon.Option{polygon.WithBaseURL(cfg.Provider.BaseURL)}
	if timeout > 0 {
		opts = append(opts, polygon.WithTimeout(timeout))
	}
	return polygon.NewClient(cfg.Provider.APIKey, opts...)
}

func writeReport(w io.Writer, rep *valuation.Report, format string) error {
	if format == "json" {
		return rep.WriteJSON(w)
	}
	return rep.WriteText(w)
}
