package cmd

import (
	"fmt"

	"github.com/rustyeddy/greeks/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

The API key is best left out of the file and supplied through API_KEY.

Examples:
  greeks config init --output greeks.yaml
  greeks config validate --file greeks.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  greeks config init --output greeks.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  greeks config validate --file greeks.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVar(&configInitOutput, "output", "greeks.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  greeks --config %s price <option_ticker>\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Provider: %s (timeout %s)\n", cfg.Provider.BaseURL, cfg.Provider.Timeout)
	fmt.Fprintf(out, "  Risk Free Rate: %.2f%%\n", cfg.Pricing.RiskFreeRate*100)
	fmt.Fprintf(out, "  Lookback: %d days\n", cfg.Pricing.LookbackDays)
	fmt.Fprintf(out, "  Solver: start %.2f, %d steps\n", cfg.Pricing.InitialSigma, cfg.Pricing.MaxIterations)
	fmt.Fprintf(out, "  Output: %s\n", cfg.Output.Format)
	return nil
}
