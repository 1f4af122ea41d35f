package indicator

import "finance4go/pkg/series"

// BBands computes Bollinger Bands over close.
//
// The middle band is the rolling mean over window samples; the bands sit
// numStd sample standard deviations above and below it. All three columns
// are rounded to 3 decimals. The first window-1 rows are NaN, and a window
// longer than the series (or below 1) leaves every row NaN.
func BBands(close series.Series, window int, numStd float64) *series.Frame {
	roll := close.Rolling(window)
	average := roll.Mean()
	std := roll.Std()

	upper := average.AddScaled(numStd, std)
	lower := average.AddScaled(-numStd, std)

	return series.MustFrameOf(
		series.Column{Name: ColCloseAverage, Values: average.Round(bbandsPrecision)},
		series.Column{Name: ColBBUpper, Values: upper.Round(bbandsPrecision)},
		series.Column{Name: ColBBLower, Values: lower.Round(bbandsPrecision)},
	)
}
