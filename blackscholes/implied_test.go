package blackscholes

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	sigmas := []float64{0.05, 0.1, 0.2, 0.35, 0.5, 0.8, 1.0, 1.5, 2.0}
	for _, typ := range []OptionType{Call, Put} {
		for _, want := range sigmas {
			t.Run(fmt.Sprintf("%s/%v", typ, want), func(t *testing.T) {
				p := Params{Spot: 100, Strike: 100, T: 1, Rate: 0.05, Sigma: want, Type: typ}
				price := mustModel(t, p).Price()

				res, err := ImpliedVolatility(price, p.WithSigma(0))
				require.NoError(t, err)
				assert.True(t, res.Converged(), "status %s", res.Status)
				assert.InDelta(t, want, res.Sigma, 1e-4)
			})
		}
	}
}

func TestImpliedVolatilityAwayFromMoney(t *testing.T) {
	cases := []Params{
		{Spot: 100, Strike: 110, T: 0.5, Rate: 0.05, Sigma: 0.25, Type: Call},
		{Spot: 100, Strike: 110, T: 0.5, Rate: 0.05, Sigma: 0.4, Type: Call},
		{Spot: 100, Strike: 90, T: 0.5, Rate: 0.05, Sigma: 0.25, Type: Put},
		{Spot: 100, Strike: 90, T: 0.5, Rate: 0.05, Sigma: 0.4, Type: Put},
	}
	for _, p := range cases {
		price := mustModel(t, p).Price()
		res, err := ImpliedVolatility(price, p)
		require.NoError(t, err)
		assert.Equal(t, Converged, res.Status)
		assert.InDelta(t, p.Sigma, res.Sigma, 1e-4)
	}
}

func TestImpliedVolatilityTextbookPrice(t *testing.T) {
	res, err := ImpliedVolatility(10.4506, atm(Call))
	require.NoError(t, err)
	assert.True(t, res.Converged())
	assert.InDelta(t, 0.2, res.Sigma, 1e-4)
}

func TestImpliedVolatilityFlatVega(t *testing.T) {
	// far out of the money with days left: vega is effectively zero
	p := Params{Spot: 100, Strike: 300, T: 0.01, Rate: 0.05, Type: Call}
	res, err := ImpliedVolatility(0, p)
	require.NoError(t, err)
	assert.Equal(t, FlatVega, res.Status)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, DefaultInitialSigma, res.Sigma)
	assert.False(t, res.Converged())
}

func TestImpliedVolatilityMaxIterations(t *testing.T) {
	// a call can never be worth more than the underlying
	res, err := ImpliedVolatility(150, atm(Call))
	require.NoError(t, err)
	assert.Equal(t, MaxIterationsExceeded, res.Status)
	assert.Equal(t, DefaultMaxIterations, res.Iterations)
	assert.Equal(t, MaxSigma, res.Sigma)
}

func TestImpliedVolatilityIterationCap(t *testing.T) {
	p := atm(Call).WithSigma(1.0)
	price := mustModel(t, p).Price()

	res, err := ImpliedVolatility(price, p, WithMaxIterations(1))
	require.NoError(t, err)
	assert.Equal(t, MaxIterationsExceeded, res.Status)
	assert.Equal(t, 1, res.Iterations)
	assert.GreaterOrEqual(t, res.Sigma, MinSigma)
	assert.LessOrEqual(t, res.Sigma, MaxSigma)
}

func TestImpliedVolatilityObserver(t *testing.T) {
	p := atm(Put).WithSigma(0.5)
	price := mustModel(t, p).Price()

	var seen []float64
	res, err := ImpliedVolatility(price, p, WithObserver(func(i int, sigma float64) {
		assert.Equal(t, len(seen)+1, i)
		seen = append(seen, sigma)
	}))
	require.NoError(t, err)
	require.True(t, res.Converged())
	assert.Len(t, seen, res.Iterations)
	assert.Equal(t, res.Sigma, seen[len(seen)-1])
}

func TestImpliedVolatilityInitialSigma(t *testing.T) {
	p := atm(Call).WithSigma(0.6)
	price := mustModel(t, p).Price()

	res, err := ImpliedVolatility(price, p, WithInitialSigma(0.6))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, 0.6, res.Sigma)
}

func TestImpliedVolatilityClampsInitialSigma(t *testing.T) {
	p := atm(Call)
	price := mustModel(t, p.WithSigma(MaxSigma)).Price()

	// a starting guess above the bound begins at MaxSigma, which already
	// reproduces the price
	res, err := ImpliedVolatility(price, p, WithInitialSigma(50))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, MaxSigma, res.Sigma)

	res, err = ImpliedVolatility(price, p, WithInitialSigma(50), WithMaxIterations(1))
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Sigma, MaxSigma)
	assert.GreaterOrEqual(t, res.Sigma, MinSigma)
}

func TestImpliedVolatilityInvalid(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		p     Params
		opts  []SolverOption
	}{
		{"zero spot", 5, Params{Strike: 100, T: 1, Rate: 0.05}, nil},
		{"expired", 5, Params{Spot: 100, Strike: 100, Rate: 0.05}, nil},
		{"negative price", -1, atm(Call), nil},
		{"nan price", math.NaN(), atm(Call), nil},
		{"bad initial sigma", 5, atm(Call), []SolverOption{WithInitialSigma(0)}},
		{"infinite initial sigma", 5, atm(Call), []SolverOption{WithInitialSigma(math.Inf(1))}},
		{"zero iterations", 5, atm(Call), []SolverOption{WithMaxIterations(0)}},
		{"negative iterations", 5, atm(Call), []SolverOption{WithMaxIterations(-3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImpliedVolatility(tt.price, tt.p, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParams))
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "converged", Converged.String())
	assert.Equal(t, "flat vega", FlatVega.String())
	assert.Equal(t, "max iterations exceeded", MaxIterationsExceeded.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
