package blackscholes

import (
	"fmt"
	"math"
)

const (
	DefaultInitialSigma  = 0.2
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-5
	MinSigma             = 1e-5
	MaxSigma             = 5.0
)

// Status tells how the solver stopped.
type Status int

const (
	// Converged means the model price matched the market price within tolerance.
	Converged Status = iota
	// FlatVega means vega fell below tolerance and the Newton step was abandoned.
	FlatVega
	// MaxIterationsExceeded means the iteration budget ran out.
	MaxIterationsExceeded
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case FlatVega:
		return "flat vega"
	case MaxIterationsExceeded:
		return "max iterations exceeded"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText renders the status by name in JSON reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of an implied volatility search. Sigma is always the
// last estimate, even when the search did not converge.
type Result struct {
	Sigma      float64 `json:"sigma"`
	Iterations int     `json:"iterations"`
	Status     Status  `json:"status"`
}

// Converged reports whether the search hit the price tolerance.
func (r Result) Converged() bool { return r.Status == Converged }

// Observer receives the clamped estimate after each Newton step.
type Observer func(iteration int, sigma float64)

type solver struct {
	initial   float64
	maxIter   int
	tolerance float64
	observe   Observer
}

// SolverOption customizes ImpliedVolatility.
type SolverOption func(*solver)

// WithInitialSigma sets the starting guess.
func WithInitialSigma(sigma float64) SolverOption {
	return func(s *solver) { s.initial = sigma }
}

// WithMaxIterations caps the number of Newton steps.
func WithMaxIterations(n int) SolverOption {
	return func(s *solver) { s.maxIter = n }
}

// WithObserver reports progress after every step.
func WithObserver(o Observer) SolverOption {
	return func(s *solver) { s.observe = o }
}

// ImpliedVolatility finds the sigma at which the model price of p equals
// marketPrice using Newton-Raphson on vega. p.Sigma is ignored.
//
// The search stops early when vega drops under the tolerance, since the
// Newton step is meaningless there. The starting guess and every later
// estimate are clamped to [MinSigma, MaxSigma].
func ImpliedVolatility(marketPrice float64, p Params, opts ...SolverOption) (Result, error) {
	s := solver{
		initial:   DefaultInitialSigma,
		maxIter:   DefaultMaxIterations,
		tolerance: DefaultTolerance,
	}
	for _, o := range opts {
		o(&s)
	}

	if err := p.validateMarket(); err != nil {
		return Result{}, err
	}
	if math.IsNaN(marketPrice) || math.IsInf(marketPrice, 0) || marketPrice < 0 {
		return Result{}, fmt.Errorf("%w: market price must be a non-negative number, got %v", ErrInvalidParams, marketPrice)
	}
	if !(s.initial > 0) || math.IsInf(s.initial, 0) {
		return Result{}, fmt.Errorf("%w: initial sigma must be positive, got %v", ErrInvalidParams, s.initial)
	}
	if s.maxIter <= 0 {
		return Result{}, fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidParams, s.maxIter)
	}

	sigma := clamp(s.initial, MinSigma, MaxSigma)
	for i := 0; i < s.maxIter; i++ {
		m := newModel(p.WithSigma(sigma))
		vega := m.Vega()
		if vega < s.tolerance {
			return Result{Sigma: sigma, Iterations: i, Status: FlatVega}, nil
		}

		diff := m.Price() - marketPrice
		if math.Abs(diff) < s.tolerance {
			return Result{Sigma: sigma, Iterations: i, Status: Converged}, nil
		}

		sigma = clamp(sigma-diff/vega, MinSigma, MaxSigma)
		if s.observe != nil {
			s.observe(i+1, sigma)
		}
	}

	return Result{Sigma: sigma, Iterations: s.maxIter, Status: MaxIterationsExceeded}, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
