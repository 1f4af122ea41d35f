package indicator

import "finance4go/pkg/series"

// AverageTrueRange computes Wilder's Average True Range.
//
// The result holds the TrueRange columns plus ATR. ATR is NaN before row
// window; see smma for where the seed lands.
func AverageTrueRange(high, low, close series.Series, window int) *series.Frame {
	tr := TrueRange(high, low, close)
	trValues, _ := tr.Column(ColTR)

	out, err := tr.With(ColATR, smma(trValues, window))
	if err != nil {
		panic(err)
	}
	return out
}
