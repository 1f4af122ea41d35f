package series

import (
	"math"

	"finance4go/internal/ringbuf"
)

// Rolling is a trailing fixed-size window over a Series.
// A position yields a value only when the full window is available and
// contains no NaN; otherwise it is NaN.
type Rolling struct {
	s      Series
	window int
}

// Rolling returns a trailing window of the given size over s.
func (s Series) Rolling(window int) Rolling {
	return Rolling{s: s, window: window}
}

// Mean returns the rolling arithmetic mean.
// The running sum is Kahan-compensated so long series do not drift.
func (r Rolling) Mean() Series {
	out := NaNs(len(r.s))
	if !r.fits() {
		return out
	}

	var sum, comp float64
	nobs := 0
	add := func(v float64) {
		y := v - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}

	r.slide(func(v float64) {
		nobs++
		add(v)
	}, func(v float64) {
		nobs--
		add(-v)
	}, func(i int) {
		if nobs == r.window {
			out[i] = sum / float64(nobs)
		}
	})
	return out
}

// Var returns the rolling sample variance (n-1 denominator).
// Samples are added and removed with Welford's update so the result stays
// stable for large price levels.
func (r Rolling) Var() Series {
	out := NaNs(len(r.s))
	if !r.fits() {
		return out
	}

	var mean, ssq float64
	nobs := 0

	r.slide(func(v float64) {
		nobs++
		delta := v - mean
		mean += delta / float64(nobs)
		ssq += delta * (v - mean)
	}, func(v float64) {
		if nobs == 1 {
			nobs, mean, ssq = 0, 0, 0
			return
		}
		nobs--
		delta := v - mean
		mean -= delta / float64(nobs)
		ssq -= delta * (v - mean)
	}, func(i int) {
		if nobs == r.window && nobs > 1 {
			out[i] = math.Max(ssq/float64(nobs-1), 0)
		}
	})
	return out
}

// Std returns the rolling sample standard deviation.
func (r Rolling) Std() Series {
	v := r.Var()
	for i, x := range v {
		v[i] = math.Sqrt(x)
	}
	return v
}

// fits reports whether at least one full window exists.
func (r Rolling) fits() bool {
	return r.window >= 1 && r.window <= len(r.s)
}

// slide walks the series once. Non-NaN samples entering the window are passed
// to add, non-NaN samples leaving it to remove, and emit is called for every
// position after the window has been updated.
//
// The ring holds window+1 samples, so callers must check fits first.
func (r Rolling) slide(add, remove func(float64), emit func(int)) {
	ring := ringbuf.New(r.window + 1)
	for i, v := range r.s {
		if !ring.Push(v) {
			panic("series: rolling window ring full")
		}
		if !math.IsNaN(v) {
			add(v)
		}
		if ring.Len() > r.window {
			old, _ := ring.Pop()
			if !math.IsNaN(old) {
				remove(old)
			}
		}
		emit(i)
	}
}
