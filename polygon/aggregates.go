package polygon

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rustyeddy/greeks/market"
)

// aggBar is one aggregate in the API response.
type aggBar struct {
	C  float64 `json:"c"`  // close
	H  float64 `json:"h"`  // high
	L  float64 `json:"l"`  // low
	N  int     `json:"n"`  // number of transactions
	O  float64 `json:"o"`  // open
	T  int64   `json:"t"`  // unix ms at window start
	V  float64 `json:"v"`  // volume
	VW float64 `json:"vw"` // volume weighted average price
}

func (b aggBar) bar() market.Bar {
	return market.Bar{
		Open:   b.O,
		High:   b.H,
		Low:    b.L,
		Close:  b.C,
		VWAP:   b.VW,
		Volume: b.V,
		Trades: b.N,
		Time:   time.UnixMilli(b.T).UTC(),
	}
}

type aggsResponse struct {
	Adjusted     bool     `json:"adjusted"`
	QueryCount   int      `json:"queryCount"`
	RequestID    string   `json:"request_id"`
	Results      []aggBar `json:"results"`
	ResultsCount int      `json:"resultsCount"`
	Status       string   `json:"status"`
	Ticker       string   `json:"ticker"`
	Count        int      `json:"count"`
}

// Sort orders aggregate results by timestamp.
type Sort string

const (
	Ascending  Sort = "asc"
	Descending Sort = "desc"
)

// BarsRequest selects daily aggregates for a ticker.
type BarsRequest struct {
	Ticker string // Required
	From   string // YYYY-MM-DD, inclusive
	To     string // YYYY-MM-DD, inclusive
	Sort   Sort   // default Ascending
}

// GetDailyBars fetches split adjusted daily bars. Delayed data is accepted.
func (c *Client) GetDailyBars(ctx context.Context, req BarsRequest) (market.Series, error) {
	if req.Ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if _, err := market.ParseDate(req.From); err != nil {
		return nil, fmt.Errorf("bad from: %w", err)
	}
	if _, err := market.ParseDate(req.To); err != nil {
		return nil, fmt.Errorf("bad to: %w", err)
	}
	if req.Sort == "" {
		req.Sort = Ascending
	}

	params := url.Values{}
	params.Set("adjusted", "true")
	params.Set("sort", string(req.Sort))

	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s", url.PathEscape(req.Ticker), req.From, req.To)
	var resp aggsResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("daily bars %s: %w", req.Ticker, err)
	}
	if err := checkStatus(resp.Status, "OK", "DELAYED"); err != nil {
		return nil, fmt.Errorf("daily bars %s: %w", req.Ticker, err)
	}

	series := make(market.Series, 0, len(resp.Results))
	for _, r := range resp.Results {
		series = append(series, r.bar())
	}
	return series, nil
}

// GetPreviousClose returns the previous session's bar for ticker. Option
// tickers must carry the O: prefix; see OptionTicker.
func (c *Client) GetPreviousClose(ctx context.Context, ticker string) (market.Bar, error) {
	if ticker == "" {
		return market.Bar{}, fmt.Errorf("ticker is required")
	}

	params := url.Values{}
	params.Set("adjusted", "true")

	var resp aggsResponse
	path := fmt.Sprintf("/v2/aggs/ticker/%s/prev", url.PathEscape(ticker))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return market.Bar{}, fmt.Errorf("previous close %s: %w", ticker, err)
	}
	if err := checkStatus(resp.Status, "OK", "DELAYED"); err != nil {
		return market.Bar{}, fmt.Errorf("previous close %s: %w", ticker, err)
	}
	if len(resp.Results) == 0 {
		return market.Bar{}, fmt.Errorf("previous close %s: %w", ticker, ErrNoResults)
	}
	return resp.Results[0].bar(), nil
}
