// Package indicator provides technical indicator calculations over price
// series.
//
// Every formula is a pure function: it reads its input series, allocates
// fresh outputs of the same length and never fails. Degenerate input
// (short series, window larger than the data, division by zero) shows up as
// NaN or ±Inf in the output rather than as an error. Engine wraps the
// formulas with configured defaults, input validation, logging and metrics
// for use inside a service.
package indicator

// Default parameters.
const (
	DefaultBBandsWindow = 30
	DefaultBBandsNumStd = 2.0
	DefaultATRWindow    = 14
	DefaultRSIWindow    = 14
	DefaultMACDFast     = 12
	DefaultMACDSlow     = 26
)

// MACD signal line smoothing.
const (
	macdSignalCom        = 9
	macdSignalMinPeriods = 8
)

// Output column names.
const (
	ColCloseAverage = "close_average"
	ColBBUpper      = "bb_upper"
	ColBBLower      = "bb_lower"

	ColTR1 = "TR1"
	ColTR2 = "TR2"
	ColTR3 = "TR3"
	ColTR  = "TR"
	ColATR = "ATR"

	ColRSI = "RSI"
)

// bbandsPrecision is the number of decimals Bollinger outputs are rounded to.
const bbandsPrecision = 3
