package market

import (
	"sort"
	"time"
)

// Bar is one daily aggregate of an instrument.
type Bar struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	VWAP   float64
	Volume float64
	Trades int
	time.Time
}

// Series is an ordered run of bars. Providers may hand it back newest first,
// so callers that care about direction should use Chronological.
type Series []Bar

// Closes returns the closing prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// First returns the opening bar and false when the series is empty.
func (s Series) First() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[0], true
}

// Last returns the final bar and false when the series is empty.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// IsChronological reports whether every bar is at or after the one before it.
func (s Series) IsChronological() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Time.Before(s[i-1].Time) {
			return false
		}
	}
	return true
}

// Chronological returns a copy of the series sorted oldest first.
// Bars with equal timestamps keep their relative order.
func (s Series) Chronological() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}
