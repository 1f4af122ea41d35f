package indicator

import "finance4go/pkg/series"

// RSI computes the Relative Strength Index of close.
//
// Gains and losses are smoothed with an exponentially weighted mean whose
// center of mass is window (not a simple lookback). A zero change counts as
// zero in both the gain and the loss series. When there are no losses RSI is
// 100; when there is no movement at all it is NaN. Row 0 is always NaN.
func RSI(close series.Series, window int) series.Column {
	delta := close.Diff()

	up := make(series.Series, len(delta))
	down := make(series.Series, len(delta))
	for i, d := range delta {
		up[i], down[i] = d, d
		if d < 0 {
			up[i] = 0
		}
		if d > 0 {
			down[i] = 0
		}
	}

	com := float64(window)
	rollUp := up.EWM(com, 0)
	rollDown := down.Abs().EWM(com, 0)
	rs := rollUp.Div(rollDown)

	out := make(series.Series, len(rs))
	for i, v := range rs {
		// RS of +Inf (no losses) gives 100.
		out[i] = 100 - 100/(1+v)
	}
	return series.Column{Name: ColRSI, Values: out}
}
