// Package series provides float64 time series and the array operations the
// indicator formulas are written in: elementwise arithmetic, shifting,
// rolling-window statistics and exponentially weighted means.
//
// Missing values are NaN and propagate through arithmetic. Every operation
// returns a freshly allocated Series and never mutates its receiver.
package series

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series is an ordered sequence of values indexed by position.
type Series []float64

// NaNs returns a Series of length n filled with NaN.
func NaNs(n int) Series {
	if n < 0 {
		n = 0
	}
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// Len returns the number of values.
func (s Series) Len() int { return len(s) }

// Copy returns an independent copy of s.
func (s Series) Copy() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// CountNaN returns how many values are NaN.
func (s Series) CountNaN() int {
	n := 0
	for _, v := range s {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Pad returns a copy of s extended to length n with trailing NaN.
// If s is already at least n long the copy is returned unchanged.
func (s Series) Pad(n int) Series {
	if len(s) >= n {
		return s.Copy()
	}
	out := NaNs(n)
	copy(out, s)
	return out
}

// Align pads every series to the length of the longest one.
func Align(xs ...Series) []Series {
	n := 0
	for _, x := range xs {
		if len(x) > n {
			n = len(x)
		}
	}
	out := make([]Series, len(xs))
	for i, x := range xs {
		out[i] = x.Pad(n)
	}
	return out
}

// Shift moves values k positions later (k > 0) or earlier (k < 0).
// Vacated positions are NaN.
func (s Series) Shift(k int) Series {
	n := len(s)
	out := NaNs(n)
	for i := 0; i < n; i++ {
		j := i - k
		if j >= 0 && j < n {
			out[i] = s[j]
		}
	}
	return out
}

// Diff returns s[i] - s[i-1], NaN at index 0.
func (s Series) Diff() Series {
	return s.Sub(s.Shift(1))
}

// Abs returns |s[i]|.
func (s Series) Abs() Series {
	out := make(Series, len(s))
	for i, v := range s {
		out[i] = math.Abs(v)
	}
	return out
}

// Add returns s + t.
func (s Series) Add(t Series) Series {
	a := Align(s, t)
	return floats.AddTo(make(Series, len(a[0])), a[0], a[1])
}

// Sub returns s - t.
func (s Series) Sub(t Series) Series {
	a := Align(s, t)
	return floats.SubTo(make(Series, len(a[0])), a[0], a[1])
}

// Div returns s / t with IEEE semantics (x/0 is ±Inf, 0/0 is NaN).
func (s Series) Div(t Series) Series {
	a := Align(s, t)
	return floats.DivTo(make(Series, len(a[0])), a[0], a[1])
}

// AddScaled returns s + alpha*t.
func (s Series) AddScaled(alpha float64, t Series) Series {
	a := Align(s, t)
	return floats.AddScaledTo(make(Series, len(a[0])), a[0], alpha, a[1])
}

// Round rounds every value to the given number of decimal places, ties to
// even. NaN and ±Inf are passed through.
func (s Series) Round(places int32) Series {
	out := make(Series, len(s))
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = v
			continue
		}
		out[i] = decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
	}
	return out
}

// NanMax returns the row-wise maximum across xs, skipping NaN.
// A row where every value is NaN yields NaN.
func NanMax(xs ...Series) Series {
	a := Align(xs...)
	if len(a) == 0 {
		return Series{}
	}
	out := NaNs(len(a[0]))
	for i := range out {
		for _, x := range a {
			v := x[i]
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(out[i]) || v > out[i] {
				out[i] = v
			}
		}
	}
	return out
}

// NanMean returns the mean of the non-NaN values of s, NaN if there are none.
func NanMean(s Series) float64 {
	vals := make([]float64, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}
