package indicator

import (
	"fmt"

	"finance4go/pkg/series"
)

// MACDColumns returns the MACD, signal and histogram column names for the
// given periods, e.g. MACD_12_26, MACDsign_12_26, MACDdiff_12_26.
func MACDColumns(fast, slow int) (macd, sign, diff string) {
	suffix := fmt.Sprintf("%d_%d", fast, slow)
	return "MACD_" + suffix, "MACDsign_" + suffix, "MACDdiff_" + suffix
}

// MACD computes Moving Average Convergence/Divergence.
//
// Both averages are exponentially weighted means with center of mass fast
// and slow, and both need slow-1 observations before they produce a value.
// The signal line is the weighted mean of MACD with center of mass 9 once 8
// MACD values exist. fast >= slow is computed as given.
func MACD(close series.Series, fast, slow int) *series.Frame {
	emaFast := close.EWM(float64(fast), slow-1)
	emaSlow := close.EWM(float64(slow), slow-1)

	macd := emaFast.Sub(emaSlow)
	sign := macd.EWM(macdSignalCom, macdSignalMinPeriods)
	diff := macd.Sub(sign)

	macdName, signName, diffName := MACDColumns(fast, slow)
	return series.MustFrameOf(
		series.Column{Name: macdName, Values: macd},
		series.Column{Name: signName, Values: sign},
		series.Column{Name: diffName, Values: diff},
	)
}
