package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/rustyeddy/greeks/market"
	"github.com/rustyeddy/greeks/polygon"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <ticker>",
	Short: "Download daily bars to CSV",
	Long: `History downloads adjusted daily bars for a ticker from Polygon.io and
writes them oldest first as CSV (date,open,high,low,close,volume,vwap,trades).

The file can be fed back to "greeks vol --csv".

Example:
  greeks history AAPL --from 2024-01-01 --to 2024-06-30 --out aapl.csv
  greeks history SPY --days 90`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var (
	historyFrom string
	historyTo   string
	historyDays int
	historyOut  string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFrom, "from", "", "first date YYYY-MM-DD (default --days before --to)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "last date YYYY-MM-DD (default today)")
	historyCmd.Flags().IntVar(&historyDays, "days", 0, "calendar days when --from is not set (default from config)")
	historyCmd.Flags().StringVar(&historyOut, "out", "", "output CSV path (default stdout)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	end := today()
	if historyTo != "" {
		if end, err = market.ParseDate(historyTo); err != nil {
			return err
		}
	}
	days := cfg.Pricing.LookbackDays
	if historyDays > 0 {
		days = historyDays
	}
	from, to := market.LookbackWindow(end, days)
	if historyFrom != "" {
		if _, err := market.ParseDate(historyFrom); err != nil {
			return err
		}
		from = historyFrom
	}

	bars, err := client.GetDailyBars(cmd.Context(), polygon.BarsRequest{
		Ticker: args[0],
		From:   from,
		To:     to,
		Sort:   polygon.Ascending,
	})
	if err != nil {
		return err
	}
	bars = bars.Chronological()
	glog.V(1).Infof("%s: %d bars %s..%s", args[0], len(bars), from, to)

	var w io.Writer = cmd.OutOrStdout()
	if historyOut != "" {
		f, err := os.Create(historyOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := market.WriteBarsCSV(w, bars); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if historyOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d bars to %s\n", len(bars), historyOut)
	}
	return nil
}
