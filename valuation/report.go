package valuation

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rustyeddy/greeks/blackscholes"
	"github.com/rustyeddy/greeks/polygon"
	"github.com/shopspring/decimal"
)

// VolatilitySource says where a report's model volatility came from.
type VolatilitySource string

const (
	SourceHistorical VolatilitySource = "historical"
	SourceInput      VolatilitySource = "input"
	SourceImplied    VolatilitySource = "implied"
)

// Report is the result of one valuation.
type Report struct {
	ID       string                  `json:"id"`
	Ticker   string                  `json:"ticker,omitempty"`
	Contract *polygon.OptionContract `json:"contract,omitempty"`

	ValuationDate string                  `json:"valuation_date,omitempty"`
	Observations  int                     `json:"observations,omitempty"`
	Type          blackscholes.OptionType `json:"-"`

	Spot             float64          `json:"spot"`
	Strike           float64          `json:"strike"`
	YearsToExpiry    float64          `json:"years_to_expiry"`
	RiskFreeRate     float64          `json:"risk_free_rate"`
	Volatility       float64          `json:"volatility"`
	VolatilitySource VolatilitySource `json:"volatility_source"`

	TheoreticalPrice float64             `json:"theoretical_price"`
	CallPrice        float64             `json:"call_price"`
	PutPrice         float64             `json:"put_price"`
	Greeks           blackscholes.Greeks `json:"greeks"`

	MarketPrice *float64             `json:"market_price,omitempty"`
	Implied     *blackscholes.Result `json:"implied,omitempty"`
}

// MarshalJSON adds the option type by name.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	return json.Marshal(struct {
		plain
		OptionType string `json:"option_type"`
	}{plain(r), r.Type.String()})
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// round formats x with places decimals, half away from zero.
func round(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprint(x)
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}

// WriteText writes a human readable report.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", r.ID)
	if c := r.Contract; c != nil {
		fmt.Fprintf(&b, "Ticker: %s\n", c.Ticker)
		fmt.Fprintf(&b, "Underlying: %s\n", c.UnderlyingTicker)
		fmt.Fprintf(&b, "Contract Type: %s\n", c.ContractType)
		fmt.Fprintf(&b, "Exercise Style: %s\n", c.ExerciseStyle)
		fmt.Fprintf(&b, "Expiration Date: %s\n", c.ExpirationDate)
		fmt.Fprintf(&b, "Primary Exchange: %s\n", c.PrimaryExchange)
		fmt.Fprintf(&b, "Shares per Contract: %d\n", c.SharesPerContract)
		for _, au := range c.AdditionalUnderlyings {
			fmt.Fprintf(&b, "Additional Underlying: %s %s x%s\n", au.Underlying, au.Type, round(au.Amount, 2))
		}
		fmt.Fprintf(&b, "Valuation Date: %s (%d bars)\n", r.ValuationDate, r.Observations)
	} else {
		fmt.Fprintf(&b, "Option Type: %s\n", r.Type)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Spot: %s\n", round(r.Spot, 4))
	fmt.Fprintf(&b, "Strike: %s\n", round(r.Strike, 4))
	fmt.Fprintf(&b, "Years to Expiry: %s\n", round(r.YearsToExpiry, 6))
	fmt.Fprintf(&b, "Risk Free Rate: %s\n", round(r.RiskFreeRate, 6))
	fmt.Fprintf(&b, "Volatility (%s): %s\n", r.VolatilitySource, round(r.Volatility, 6))

	b.WriteString("\n")
	fmt.Fprintf(&b, "Call Price: %s\n", round(r.CallPrice, 4))
	fmt.Fprintf(&b, "Put Price: %s\n", round(r.PutPrice, 4))
	fmt.Fprintf(&b, "Delta: %s\n", round(r.Greeks.Delta, 6))
	fmt.Fprintf(&b, "Gamma: %s\n", round(r.Greeks.Gamma, 6))
	fmt.Fprintf(&b, "Theta: %s\n", round(r.Greeks.Theta, 6))
	fmt.Fprintf(&b, "Vega: %s\n", round(r.Greeks.Vega, 6))
	fmt.Fprintf(&b, "Rho: %s\n", round(r.Greeks.Rho, 6))

	if r.MarketPrice != nil && r.Implied != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Market Price: %s\n", round(*r.MarketPrice, 4))
		fmt.Fprintf(&b, "Implied Volatility: %s (%s, %d steps)\n",
			round(r.Implied.Sigma, 6), r.Implied.Status, r.Implied.Iterations)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
