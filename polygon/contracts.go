package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// OptionPrefix marks option tickers in Polygon symbology.
const OptionPrefix = "O:"

// AdditionalUnderlying is a deliverable beyond the standard shares,
// e.g. after a corporate action.
type AdditionalUnderlying struct {
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
	Underlying string  `json:"underlying"`
}

// OptionContract is the reference data of a listed option.
type OptionContract struct {
	CFI                   string                 `json:"cfi"`
	ContractType          string                 `json:"contract_type"`
	ExerciseStyle         string                 `json:"exercise_style"`
	ExpirationDate        string                 `json:"expiration_date"`
	PrimaryExchange       string                 `json:"primary_exchange"`
	SharesPerContract     int                    `json:"shares_per_contract"`
	StrikePrice           float64                `json:"strike_price"`
	Ticker                string                 `json:"ticker"`
	UnderlyingTicker      string                 `json:"underlying_ticker"`
	AdditionalUnderlyings []AdditionalUnderlying `json:"additional_underlyings,omitempty"`
}

// IsCall reports whether the contract is a call.
func (oc OptionContract) IsCall() bool {
	return strings.EqualFold(oc.ContractType, "call")
}

type contractResponse struct {
	RequestID string          `json:"request_id"`
	Status    string          `json:"status"`
	Results   *OptionContract `json:"results"`
}

// OptionTicker adds the option prefix when it is missing.
func OptionTicker(ticker string) string {
	if strings.HasPrefix(ticker, OptionPrefix) {
		return ticker
	}
	return OptionPrefix + ticker
}

// GetOptionContract fetches reference data for an option ticker such as
// "AAPL250117C00150000".
func (c *Client) GetOptionContract(ctx context.Context, ticker string) (OptionContract, error) {
	if ticker == "" {
		return OptionContract{}, fmt.Errorf("ticker is required")
	}

	var resp contractResponse
	path := "/v3/reference/options/contracts/" + url.PathEscape(OptionTicker(ticker))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return OptionContract{}, fmt.Errorf("option contract %s: %w", ticker, err)
	}
	if err := checkStatus(resp.Status, "OK"); err != nil {
		return OptionContract{}, fmt.Errorf("option contract %s: %w", ticker, err)
	}
	if resp.Results == nil {
		return OptionContract{}, fmt.Errorf("option contract %s: %w", ticker, ErrNoResults)
	}
	return *resp.Results, nil
}
