package indicator

import "finance4go/pkg/series"

// TrueRange computes the True Range, the greatest of
//
//	|high - low|
//	|high - previous close|
//	|low  - previous close|
//
// The three candidates are kept as TR1..TR3 next to TR. Row 0 has no
// previous close, so TR2 and TR3 are NaN there and TR equals TR1.
// Inputs of different length are aligned to the longest with trailing NaN.
func TrueRange(high, low, close series.Series) *series.Frame {
	a := series.Align(high, low, close)
	high, low, close = a[0], a[1], a[2]

	prevClose := close.Shift(1)
	tr1 := high.Sub(low).Abs()
	tr2 := high.Sub(prevClose).Abs()
	tr3 := low.Sub(prevClose).Abs()

	return series.MustFrameOf(
		series.Column{Name: ColTR1, Values: tr1},
		series.Column{Name: ColTR2, Values: tr2},
		series.Column{Name: ColTR3, Values: tr3},
		series.Column{Name: ColTR, Values: series.NanMax(tr1, tr2, tr3)},
	)
}
