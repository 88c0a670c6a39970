package blackscholes

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// normCDF is 0.5*erfc(-x/sqrt2).
func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// normPDF is exp(-x*x/2)/sqrt(2*pi).
func normPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

// Greeks holds the first order sensitivities plus gamma.
// Theta and rho are per unit of time (year) and rate, not per day or per 1%.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Model is an immutable priced option. The zero value is not usable; build
// one with New.
type Model struct {
	p        Params
	sqrtT    float64
	discount float64 // exp(-rT)
	d1, d2   float64
}

// New validates p and prepares the model.
func New(p Params) (Model, error) {
	if err := p.Validate(); err != nil {
		return Model{}, err
	}
	return newModel(p), nil
}

func newModel(p Params) Model {
	sqrtT := math.Sqrt(p.T)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Sigma*p.Sigma)*p.T) / (p.Sigma * sqrtT)
	return Model{
		p:        p,
		sqrtT:    sqrtT,
		discount: math.Exp(-p.Rate * p.T),
		d1:       d1,
		d2:       d1 - p.Sigma*sqrtT,
	}
}

// Params returns the inputs the model was built from.
func (m Model) Params() Params { return m.p }

// D1 and D2 are exposed for diagnostics.
func (m Model) D1() float64 { return m.d1 }
func (m Model) D2() float64 { return m.d2 }

// Price returns the call or put value depending on the option type.
func (m Model) Price() float64 {
	if m.p.IsCall() {
		return m.Call()
	}
	return m.Put()
}

// Call returns S*N(d1) - K*exp(-rT)*N(d2).
func (m Model) Call() float64 {
	return m.p.Spot*normCDF(m.d1) - m.p.Strike*m.discount*normCDF(m.d2)
}

// Put returns K*exp(-rT)*N(-d2) - S*N(-d1).
func (m Model) Put() float64 {
	return m.p.Strike*m.discount*normCDF(-m.d2) - m.p.Spot*normCDF(-m.d1)
}

func (m Model) Delta() float64 {
	if m.p.IsCall() {
		return normCDF(m.d1)
	}
	return normCDF(m.d1) - 1
}

// Gamma is the same for calls and puts.
func (m Model) Gamma() float64 {
	return normPDF(m.d1) / (m.p.Spot * m.p.Sigma * m.sqrtT)
}

// Theta is the annual decay; divide by 365 for a per day figure.
func (m Model) Theta() float64 {
	decay := -m.p.Spot * normPDF(m.d1) * m.p.Sigma / (2 * m.sqrtT)
	carry := m.p.Rate * m.p.Strike * m.discount
	if m.p.IsCall() {
		return decay - carry*normCDF(m.d2)
	}
	return decay + carry*normCDF(-m.d2)
}

// Vega is the same for calls and puts, per 1.0 of volatility.
func (m Model) Vega() float64 {
	return m.p.Spot * normPDF(m.d1) * m.sqrtT
}

func (m Model) Rho() float64 {
	kt := m.p.Strike * m.p.T * m.discount
	if m.p.IsCall() {
		return kt * normCDF(m.d2)
	}
	return -kt * normCDF(-m.d2)
}

// Greeks computes all sensitivities at once.
func (m Model) Greeks() Greeks {
	return Greeks{
		Delta: m.Delta(),
		Gamma: m.Gamma(),
		Theta: m.Theta(),
		Vega:  m.Vega(),
		Rho:   m.Rho(),
	}
}
