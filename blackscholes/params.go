// Package blackscholes prices European options and their sensitivities with
// the Black-Scholes-Merton model and inverts market prices into implied
// volatility.
package blackscholes

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidParams is returned when option parameters fall outside the
// region where the closed form is defined.
var ErrInvalidParams = errors.New("invalid option parameters")

// OptionType selects the call or put formulas.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	if t == Put {
		return "put"
	}
	return "call"
}

// ParseOptionType accepts "call" or "put" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	}
	return Call, fmt.Errorf("unknown option type %q", s)
}

// Params are the inputs to a single pricing request.
type Params struct {
	Spot   float64 // S, underlying price
	Strike float64 // K
	T      float64 // years to expiry
	Rate   float64 // continuously compounded risk free rate
	Sigma  float64 // annualized volatility
	Type   OptionType
}

// IsCall reports whether p describes a call.
func (p Params) IsCall() bool { return p.Type == Call }

// WithSigma returns a copy of p with a different volatility.
func (p Params) WithSigma(sigma float64) Params {
	p.Sigma = sigma
	return p
}

// Validate checks that S, K, T and sigma are positive and finite.
func (p Params) Validate() error {
	if err := p.validateMarket(); err != nil {
		return err
	}
	if !(p.Sigma > 0) || math.IsInf(p.Sigma, 0) {
		return fmt.Errorf("%w: sigma must be positive, got %v", ErrInvalidParams, p.Sigma)
	}
	return nil
}

// validateMarket checks everything except sigma.
func (p Params) validateMarket() error {
	switch {
	case !(p.Spot > 0) || math.IsInf(p.Spot, 0):
		return fmt.Errorf("%w: spot must be positive, got %v", ErrInvalidParams, p.Spot)
	case !(p.Strike > 0) || math.IsInf(p.Strike, 0):
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidParams, p.Strike)
	case !(p.T > 0) || math.IsInf(p.T, 0):
		return fmt.Errorf("%w: time to expiry must be positive, got %v", ErrInvalidParams, p.T)
	case math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0):
		return fmt.Errorf("%w: rate must be finite, got %v", ErrInvalidParams, p.Rate)
	}
	return nil
}
