package cmd

import (
	"context"
	"flag"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "greeks",
	Short: "Black-Scholes option pricing, Greeks and implied volatility",
	Long: `Greeks prices European options with the Black-Scholes-Merton model.

It provides tools for:
  - Pricing a listed option from Polygon.io market data
  - Computing prices and Greeks from explicit inputs
  - Solving for implied volatility
  - Estimating historical volatility from daily closes
  - Exporting daily bars to CSV

The API key is read from API_KEY in the environment or a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog refuses to log until the go flag set has been parsed.
		return flag.CommandLine.Parse(nil)
	},
}

var (
	cfgFile      string
	envFile      string
	outputFormat string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	_ = flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file, YAML or JSON (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with API_KEY and RISK_FREE_RATE")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "", "report format: text or json (overrides config)")
}
