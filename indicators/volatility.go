// Package indicators derives statistics from price series.
package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// DailyReturns returns the simple returns between consecutive closes.
// closes[i-1] must be the session immediately before closes[i].
// A zero close yields Inf or NaN in the following return.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		returns = append(returns, (closes[i]-prev)/prev)
	}
	return returns
}

// HistoricalVolatility returns the annualized standard deviation of the
// daily returns of closes. The variance is the population variance.
// Fewer than two closes give 0.
func HistoricalVolatility(closes []float64) float64 {
	returns := DailyReturns(closes)
	if len(returns) == 0 {
		return 0
	}
	_, variance := stat.PopMeanVariance(returns, nil)
	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear)
}
