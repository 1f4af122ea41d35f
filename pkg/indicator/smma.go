package indicator

import "finance4go/pkg/series"

// smma applies Wilder's smoothing to x.
//
// The seed is the mean of x[0..window-1] (NaN skipped) and it is written at
// index window, one row after the samples it averages. From there on
//
//	out[i] = (out[i-1]*(window-1) + x[i]) / window
//
// Rows before the seed stay NaN, as does everything when window < 1 or the
// series has no row at index window.
func smma(x series.Series, window int) series.Series {
	out := series.NaNs(len(x))
	if window < 1 || window >= len(x) {
		return out
	}

	out[window] = series.NanMean(x[:window])

	w := float64(window)
	for i := window + 1; i < len(x); i++ {
		out[i] = (out[i-1]*(w-1) + x[i]) / w
	}
	return out
}
