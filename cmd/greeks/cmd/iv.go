package cmd

import (
	"github.com/rustyeddy/greeks/valuation"
	"github.com/spf13/cobra"
)

var ivCmd = &cobra.Command{
	Use:   "iv",
	Short: "Solve for implied volatility",
	Long: `IV finds the volatility at which the model reproduces --market-price
using Newton-Raphson, then reports the price and Greeks at that volatility.

A search that runs out of steps or stalls on a flat vega still reports
its last estimate together with how it stopped.

Example:
  greeks iv --spot 100 --strike 100 --years 1 --rate 0.05 --market-price 10.45`,
	RunE: runIV,
}

var (
	ivInputs       modelInputs
	ivMarketPrice  float64
	ivInitialSigma float64
	ivMaxIter      int
)

func init() {
	rootCmd.AddCommand(ivCmd)

	ivInputs.bind(ivCmd)
	ivCmd.Flags().Float64Var(&ivMarketPrice, "market-price", 0, "observed option price (required)")
	ivCmd.Flags().Float64Var(&ivInitialSigma, "initial-sigma", 0, "starting guess (default from config)")
	ivCmd.Flags().IntVar(&ivMaxIter, "max-iter", 0, "maximum Newton steps (default from config)")
	ivCmd.MarkFlagRequired("market-price")
}

func runIV(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := ivInputs.params(cmd, cfg)
	if err != nil {
		return err
	}

	initial := cfg.Pricing.InitialSigma
	if ivInitialSigma > 0 {
		initial = ivInitialSigma
	}
	maxIter := cfg.Pricing.MaxIterations
	if ivMaxIter > 0 {
		maxIter = ivMaxIter
	}

	rep, err := valuation.Implied(p, ivMarketPrice, valuation.SolverOptions(initial, maxIter)...)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), rep, cfg.Output.Format)
}
