package cmd

import (
	"fmt"

	"github.com/rustyeddy/greeks/market"
	"github.com/rustyeddy/greeks/valuation"
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price <option_ticker>",
	Short: "Price a listed option from market data",
	Long: `Price fetches the contract, the underlying's recent daily closes and the
option's previous close from Polygon.io. It prices the option with
historical volatility and backs out the volatility implied by the
previous close.

Example:
  greeks price AAPL250117C00150000
  greeks price O:SPY241220P00450000 --days 60 --rate 0.043 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

var (
	priceRate float64
	priceDays int
	priceDate string
)

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().Float64Var(&priceRate, "rate", 0, "risk-free rate as a decimal (default from config)")
	priceCmd.Flags().IntVar(&priceDays, "days", 0, "calendar days of underlying history (default from config)")
	priceCmd.Flags().StringVar(&priceDate, "date", "", "valuation date YYYY-MM-DD (default today)")
}

func runPrice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	req := valuation.Request{
		OptionTicker:  args[0],
		RiskFreeRate:  cfg.Pricing.RiskFreeRate,
		LookbackDays:  cfg.Pricing.LookbackDays,
		Now:           today(),
		InitialSigma:  cfg.Pricing.InitialSigma,
		MaxIterations: cfg.Pricing.MaxIterations,
	}
	if cmd.Flags().Changed("rate") {
		req.RiskFreeRate = priceRate
	}
	if priceDays > 0 {
		req.LookbackDays = priceDays
	}
	if priceDate != "" {
		if req.Now, err = market.ParseDate(priceDate); err != nil {
			return err
		}
	}

	rep, err := valuation.Run(cmd.Context(), client, req)
	if err != nil {
		return fmt.Errorf("price %s: %w", args[0], err)
	}
	return writeReport(cmd.OutOrStdout(), rep, cfg.Output.Format)
}
