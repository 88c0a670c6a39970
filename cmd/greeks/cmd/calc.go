package cmd

import (
	"github.com/rustyeddy/greeks/valuation"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute price and Greeks from explicit inputs",
	Long: `Calc prices a European option without any market data.

Time to expiry comes from --years, or from --start and --expiry as
calendar days over 365.

Example:
  greeks calc --spot 100 --strike 100 --years 1 --rate 0.05 --sigma 0.2
  greeks calc --spot 450 --strike 440 --expiry 2025-06-20 --sigma 0.18 --put`,
	RunE: runCalc,
}

var (
	calcInputs modelInputs
	calcSigma  float64
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcInputs.bind(calcCmd)
	calcCmd.Flags().Float64Var(&calcSigma, "sigma", 0, "annualized volatility as a decimal (required)")
	calcCmd.MarkFlagRequired("sigma")
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := calcInputs.params(cmd, cfg)
	if err != nil {
		return err
	}

	rep, err := valuation.Price(p.WithSigma(calcSigma), valuation.SourceInput)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), rep, cfg.Output.Format)
}
