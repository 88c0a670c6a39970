package cmd

import (
	"fmt"

	"github.com/rustyeddy/greeks/blackscholes"
	"github.com/rustyeddy/greeks/config"
	"github.com/rustyeddy/greeks/market"
	"github.com/spf13/cobra"
)

// modelInputs are the contract and market flags shared by calc and iv.
type modelInputs struct {
	spot   float64
	strike float64
	years  float64
	start  string
	expiry string
	rate   float64
	put    bool
}

func (in *modelInputs) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&in.spot, "spot", 0, "underlying price (required)")
	fs.Float64Var(&in.strike, "strike", 0, "strike price (required)")
	fs.Float64Var(&in.years, "years", 0, "time to expiry in years (or use --expiry)")
	fs.StringVar(&in.start, "start", "", "valuation date YYYY-MM-DD (default today)")
	fs.StringVar(&in.expiry, "expiry", "", "expiration date YYYY-MM-DD")
	fs.Float64Var(&in.rate, "rate", 0, "risk-free rate as a decimal (default from config)")
	fs.BoolVar(&in.put, "put", false, "price a put instead of a call")

	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagsMutuallyExclusive("years", "expiry")
}

// params builds model parameters without sigma.
func (in *modelInputs) params(cmd *cobra.Command, cfg *config.Config) (blackscholes.Params, error) {
	years := in.years
	if !cmd.Flags().Changed("years") {
		if in.expiry == "" {
			return blackscholes.Params{}, fmt.Errorf("one of --years or --expiry is required")
		}
		start := in.start
		if start == "" {
			start = today().Format(market.DateLayout)
		}
		y, err := market.YearFraction(start, in.expiry)
		if err != nil {
			return blackscholes.Params{}, err
		}
		years = y
	}

	rate := cfg.Pricing.RiskFreeRate
	if cmd.Flags().Changed("rate") {
		rate = in.rate
	}

	typ := blackscholes.Call
	if in.put {
		typ = blackscholes.Put
	}

	return blackscholes.Params{
		Spot:   in.spot,
		Strike: in.strike,
		T:      years,
		Rate:   rate,
		Type:   typ,
	}, nil
}
