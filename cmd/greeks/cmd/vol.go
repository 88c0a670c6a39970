package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/rustyeddy/greeks/indicators"
	"github.com/rustyeddy/greeks/market"
	"github.com/rustyeddy/greeks/polygon"
	"github.com/spf13/cobra"
)

var volCmd = &cobra.Command{
	Use:   "vol",
	Short: "Estimate historical volatility from daily closes",
	Long: `Vol annualizes the population standard deviation of simple daily
returns by the square root of 252.

Closes come from CSV files written by "greeks history", or are fetched
for --ticker over the last --days calendar days. --csv accepts a glob
pattern, including ** for nested directories, and reports each file.

Example:
  greeks vol --csv aapl.csv
  greeks vol --csv 'data/**/*.csv'
  greeks vol --ticker AAPL --days 60`,
	RunE: runVol,
}

var (
	volCSV    string
	volTicker string
	volDays   int
)

type volResult struct {
	Source       string  `json:"source"`
	Observations int     `json:"observations"`
	From         string  `json:"from,omitempty"`
	To           string  `json:"to,omitempty"`
	Volatility   float64 `json:"volatility"`
}

func init() {
	rootCmd.AddCommand(volCmd)

	volCmd.Flags().StringVar(&volCSV, "csv", "", "bar CSV file or glob pattern")
	volCmd.Flags().StringVarP(&volTicker, "ticker", "t", "", "underlying ticker to fetch")
	volCmd.Flags().IntVar(&volDays, "days", 0, "calendar days of history (default from config)")
	volCmd.MarkFlagsMutuallyExclusive("csv", "ticker")
}

func runVol(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var results []volResult
	switch {
	case volCSV != "":
		paths, err := doublestar.FilepathGlob(volCSV)
		if err != nil {
			return fmt.Errorf("bad --csv pattern: %w", err)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files match %q", volCSV)
		}
		for _, path := range paths {
			bars, err := readBarsFile(path)
			if err != nil {
				return err
			}
			results = append(results, estimate(path, bars))
		}

	case volTicker != "":
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		days := cfg.Pricing.LookbackDays
		if volDays > 0 {
			days = volDays
		}
		from, to := market.LookbackWindow(today(), days)
		bars, err := client.GetDailyBars(cmd.Context(), polygon.BarsRequest{
			Ticker: volTicker,
			From:   from,
			To:     to,
			Sort:   polygon.Ascending,
		})
		if err != nil {
			return err
		}
		results = append(results, estimate(volTicker, bars))

	default:
		return fmt.Errorf("one of --csv or --ticker is required")
	}

	out := cmd.OutOrStdout()
	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		writeVolText(out, res)
	}
	return nil
}

func readBarsFile(path string) (market.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	bars, err := market.ReadBarsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

func estimate(source string, bars market.Series) volResult {
	if !bars.IsChronological() {
		glog.Warningf("%s: bars are not in date order; sorting oldest first", source)
		bars = bars.Chronological()
	}

	res := volResult{
		Source:       source,
		Observations: len(bars),
		Volatility:   indicators.HistoricalVolatility(bars.Closes()),
	}
	if first, ok := bars.First(); ok {
		last, _ := bars.Last()
		res.From = first.Format(market.DateLayout)
		res.To = last.Format(market.DateLayout)
	}
	return res
}

func writeVolText(w io.Writer, res volResult) {
	fmt.Fprintf(w, "Source: %s\n", res.Source)
	fmt.Fprintf(w, "Observations: %d\n", res.Observations)
	if res.From != "" {
		fmt.Fprintf(w, "Range: %s..%s\n", res.From, res.To)
	}
	fmt.Fprintf(w, "Historical Volatility: %.6f\n", res.Volatility)
}
