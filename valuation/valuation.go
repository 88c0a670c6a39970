// Package valuation wires market data into the pricing model: it fetches a
// contract and its underlying, estimates volatility, prices the option and
// backs out the volatility implied by the last traded price.
package valuation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/rustyeddy/greeks/blackscholes"
	"github.com/rustyeddy/greeks/indicators"
	"github.com/rustyeddy/greeks/market"
	"github.com/rustyeddy/greeks/polygon"
)

// MarketData is the subset of the quote provider used by Run.
type MarketData interface {
	GetOptionContract(ctx context.Context, ticker string) (polygon.OptionContract, error)
	GetDailyBars(ctx context.Context, req polygon.BarsRequest) (market.Series, error)
	GetPreviousClose(ctx context.Context, ticker string) (market.Bar, error)
}

// Request describes one valuation.
type Request struct {
	OptionTicker  string
	RiskFreeRate  float64
	LookbackDays  int       // calendar days of underlying history, default 30
	Now           time.Time // valuation date, default now in UTC
	InitialSigma  float64   // implied volatility starting guess, default 0.2
	MaxIterations int       // implied volatility step budget, default 100
}

// SolverOptions builds implied volatility options that log each step at
// verbosity 2. Zero values keep the solver defaults.
func SolverOptions(initialSigma float64, maxIterations int) []blackscholes.SolverOption {
	opts := []blackscholes.SolverOption{
		blackscholes.WithObserver(func(i int, sigma float64) {
			glog.V(2).Infof("implied volatility step %d: sigma=%.6f", i, sigma)
		}),
	}
	if initialSigma > 0 {
		opts = append(opts, blackscholes.WithInitialSigma(initialSigma))
	}
	if maxIterations > 0 {
		opts = append(opts, blackscholes.WithMaxIterations(maxIterations))
	}
	return opts
}

// Run prices req.OptionTicker from provider data.
//
// Time to expiry runs from the valuation date to the contract's expiration
// date. The underlying history is sorted oldest first before volatility is
// estimated, and the spot is the most recent close.
func Run(ctx context.Context, md MarketData, req Request) (*Report, error) {
	if req.OptionTicker == "" {
		return nil, fmt.Errorf("option ticker is required")
	}
	if req.LookbackDays <= 0 {
		req.LookbackDays = 30
	}
	if req.Now.IsZero() {
		req.Now = time.Now().UTC()
	}

	contract, err := md.GetOptionContract(ctx, req.OptionTicker)
	if err != nil {
		return nil, err
	}
	typ, err := blackscholes.ParseOptionType(contract.ContractType)
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", contract.Ticker, err)
	}

	from, to := market.LookbackWindow(req.Now, req.LookbackDays)
	glog.V(1).Infof("fetching %s daily bars %s..%s", contract.UnderlyingTicker, from, to)
	bars, err := md.GetDailyBars(ctx, polygon.BarsRequest{
		Ticker: contract.UnderlyingTicker,
		From:   from,
		To:     to,
		Sort:   polygon.Ascending,
	})
	if err != nil {
		return nil, err
	}
	if !bars.IsChronological() {
		glog.Warningf("%s bars arrived out of order; sorting oldest first", contract.UnderlyingTicker)
		bars = bars.Chronological()
	}
	last, ok := bars.Last()
	if !ok {
		return nil, fmt.Errorf("daily bars %s %s..%s: %w", contract.UnderlyingTicker, from, to, polygon.ErrNoResults)
	}

	valuationDate := to
	years, err := market.YearFraction(valuationDate, contract.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("time to expiry: %w", err)
	}

	params := blackscholes.Params{
		Spot:   last.Close,
		Strike: contract.StrikePrice,
		T:      years,
		Rate:   req.RiskFreeRate,
		Sigma:  indicators.HistoricalVolatility(bars.Closes()),
		Type:   typ,
	}
	rep, err := Price(params, SourceHistorical)
	if err != nil {
		return nil, fmt.Errorf("price %s: %w", contract.Ticker, err)
	}
	rep.Ticker = polygon.OptionTicker(req.OptionTicker)
	rep.Contract = &contract
	rep.ValuationDate = valuationDate
	rep.Observations = len(bars)

	prev, err := md.GetPreviousClose(ctx, rep.Ticker)
	switch {
	case errors.Is(err, polygon.ErrNoResults):
		glog.Warningf("no previous close for %s; skipping implied volatility", rep.Ticker)
		return rep, nil
	case err != nil:
		return nil, err
	}

	if err := rep.SolveImplied(prev.Close, SolverOptions(req.InitialSigma, req.MaxIterations)...); err != nil {
		return nil, err
	}
	return rep, nil
}

// Implied solves for the volatility behind marketPrice and prices params at
// that volatility. params.Sigma is ignored. A search that stops without
// converging still yields a report; check Report.Implied.
func Implied(params blackscholes.Params, marketPrice float64, opts ...blackscholes.SolverOption) (*Report, error) {
	res, err := blackscholes.ImpliedVolatility(marketPrice, params, opts...)
	if err != nil {
		return nil, fmt.Errorf("implied volatility: %w", err)
	}
	rep, err := Price(params.WithSigma(res.Sigma), SourceImplied)
	if err != nil {
		return nil, err
	}
	rep.record(marketPrice, res)
	return rep, nil
}

// Price values params without any market data. source records where
// params.Sigma came from. The report carries no contract or implied
// volatility.
func Price(params blackscholes.Params, source VolatilitySource) (*Report, error) {
	m, err := blackscholes.New(params)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:               newRunID(time.Now()),
		Type:             params.Type,
		Spot:             params.Spot,
		Strike:           params.Strike,
		YearsToExpiry:    params.T,
		RiskFreeRate:     params.Rate,
		Volatility:       params.Sigma,
		VolatilitySource: source,
		TheoreticalPrice: m.Price(),
		CallPrice:        m.Call(),
		PutPrice:         m.Put(),
		Greeks:           m.Greeks(),
	}, nil
}

// SolveImplied backs out the volatility that reproduces marketPrice from
// the spot, strike, expiry and rate in r, and records it on the report.
func (r *Report) SolveImplied(marketPrice float64, opts ...blackscholes.SolverOption) error {
	params := blackscholes.Params{
		Spot:   r.Spot,
		Strike: r.Strike,
		T:      r.YearsToExpiry,
		Rate:   r.RiskFreeRate,
		Type:   r.Type,
	}
	res, err := blackscholes.ImpliedVolatility(marketPrice, params, opts...)
	if err != nil {
		return fmt.Errorf("implied volatility: %w", err)
	}
	r.record(marketPrice, res)
	return nil
}

func (r *Report) record(marketPrice float64, res blackscholes.Result) {
	if !res.Converged() {
		glog.Warningf("implied volatility %s after %d steps; last estimate %.6f", res.Status, res.Iterations, res.Sigma)
	}
	r.MarketPrice = &marketPrice
	r.Implied = &res
}
