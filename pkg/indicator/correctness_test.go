package indicator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"finance4go/pkg/series"
)

// ────────────────────────────────────────────────────────────
// Helper
// ────────────────────────────────────────────────────────────

var nan = math.NaN()

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("%s: got %.6f, want NaN", label, got)
		}
		return
	}
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}

func column(t *testing.T, f *series.Frame, name string) series.Series {
	t.Helper()
	c, ok := f.Column(name)
	if !ok {
		t.Fatalf("missing column %q (have %v)", name, f.Names())
	}
	return c
}

func assertNames(t *testing.T, f *series.Frame, want ...string) {
	t.Helper()
	got := f.Names()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columns = %v, want %v", got, want)
		}
	}
}

// randomWalk returns n bars with low <= close <= high.
func randomWalk(seed int64, n int) (high, low, close series.Series) {
	rng := rand.New(rand.NewSource(seed))
	high = make(series.Series, n)
	low = make(series.Series, n)
	close = make(series.Series, n)
	price := 100.0
	for i := 0; i < n; i++ {
		price += rng.NormFloat64()
		spread := 0.5 + rng.Float64()*2
		low[i] = price - spread*rng.Float64()
		high[i] = low[i] + spread
		close[i] = low[i] + spread*rng.Float64()
	}
	return high, low, close
}

// ────────────────────────────────────────────────────────────
// Bollinger Bands
// ────────────────────────────────────────────────────────────

func TestBBands_Correctness_Window3(t *testing.T) {
	// Prices: 1..10, window 3
	// average[2] = (1+2+3)/3 = 2
	// average[9] = (8+9+10)/3 = 9, std = 1
	// upper[9] = 9 + 2*1 = 11, lower[9] = 9 - 2*1 = 7
	close := series.Series{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bb := BBands(close, 3, 2)

	assertNames(t, bb, ColCloseAverage, ColBBUpper, ColBBLower)
	if bb.Len() != len(close) {
		t.Fatalf("rows = %d, want %d", bb.Len(), len(close))
	}

	avg := column(t, bb, ColCloseAverage)
	upper := column(t, bb, ColBBUpper)
	lower := column(t, bb, ColBBLower)

	assertClose(t, "average[2]", avg[2], 2.0, 0)
	assertClose(t, "average[9]", avg[9], 9.0, 0)
	assertClose(t, "upper[9]", upper[9], 11.0, 0)
	assertClose(t, "lower[9]", lower[9], 7.0, 0)

	for i := 0; i < 2; i++ {
		assertClose(t, "average warmup", avg[i], nan, 0)
		assertClose(t, "upper warmup", upper[i], nan, 0)
		assertClose(t, "lower warmup", lower[i], nan, 0)
	}
}

func TestBBands_RoundsTo3Places(t *testing.T) {
	// Prices: 1, 2, 4 → mean 7/3, sample std sqrt(7/3) = 1.527525
	// upper = 2.333333 + 3.055050 = 5.388384 → 5.388
	// lower = 2.333333 - 3.055050 = -0.721717 → -0.722
	bb := BBands(series.Series{1, 2, 4}, 3, 2)

	if got := column(t, bb, ColCloseAverage)[2]; got != 2.333 {
		t.Errorf("average = %v, want 2.333", got)
	}
	if got := column(t, bb, ColBBUpper)[2]; got != 5.388 {
		t.Errorf("upper = %v, want 5.388", got)
	}
	if got := column(t, bb, ColBBLower)[2]; got != -0.722 {
		t.Errorf("lower = %v, want -0.722", got)
	}
}

func TestBBands_ShortSeriesIsAllNaN(t *testing.T) {
	close := series.Series{1, 2, 3, 4, 5}
	bb := BBands(close, DefaultBBandsWindow, DefaultBBandsNumStd)
	for _, c := range bb.Columns() {
		if n := c.Values.CountNaN(); n != len(close) {
			t.Errorf("%s: %d NaN, want %d", c.Name, n, len(close))
		}
	}
}

func TestBBands_HugeWindowIsAllNaN(t *testing.T) {
	close := series.Series{1, 2, 3}
	bb := BBands(close, 1<<40, 2)
	for _, c := range bb.Columns() {
		if n := c.Values.CountNaN(); n != len(close) {
			t.Errorf("%s: %d NaN, want %d", c.Name, n, len(close))
		}
	}
}

func TestBBands_Empty(t *testing.T) {
	bb := BBands(series.Series{}, 3, 2)
	if bb.Len() != 0 || bb.Width() != 3 {
		t.Fatalf("empty input: rows=%d cols=%d", bb.Len(), bb.Width())
	}
}

func TestBBands_BandsAreSymmetric(t *testing.T) {
	_, _, close := randomWalk(3, 120)
	bb := BBands(close, 20, 2)
	avg := column(t, bb, ColCloseAverage)
	upper := column(t, bb, ColBBUpper)
	lower := column(t, bb, ColBBLower)

	for i := 19; i < len(close); i++ {
		if !(upper[i] >= avg[i] && avg[i] >= lower[i]) {
			t.Fatalf("index %d: bands out of order %v/%v/%v", i, lower[i], avg[i], upper[i])
		}
		// each side is rounded independently, so allow one unit in the last place
		assertClose(t, "symmetry", upper[i]-avg[i], avg[i]-lower[i], 0.0021)
	}
}

// ────────────────────────────────────────────────────────────
// True Range
// ────────────────────────────────────────────────────────────

func TestTrueRange_Correctness(t *testing.T) {
	// high=[10,11,12], low=[8,9,10], close=[9,10,11]
	// TR1 = 2 on every row
	// row 1: |11-9|=2, |9-9|=0  → TR 2
	// row 2: |12-10|=2, |10-10|=0 → TR 2
	tr := TrueRange(
		series.Series{10, 11, 12},
		series.Series{8, 9, 10},
		series.Series{9, 10, 11},
	)
	assertNames(t, tr, ColTR1, ColTR2, ColTR3, ColTR)

	got := column(t, tr, ColTR)
	for i, want := range []float64{2, 2, 2} {
		assertClose(t, "TR", got[i], want, 0)
	}
	assertClose(t, "TR2[0]", column(t, tr, ColTR2)[0], nan, 0)
	assertClose(t, "TR3[0]", column(t, tr, ColTR3)[0], nan, 0)
	assertClose(t, "TR2[1]", column(t, tr, ColTR2)[1], 2, 0)
	assertClose(t, "TR3[1]", column(t, tr, ColTR3)[1], 0, 0)
}

func TestTrueRange_FirstRowIsHighLow(t *testing.T) {
	high, low, close := randomWalk(11, 50)
	tr := TrueRange(high, low, close)
	if got, want := column(t, tr, ColTR)[0], math.Abs(high[0]-low[0]); got != want {
		t.Errorf("TR[0] = %v, want %v", got, want)
	}
}

func TestTrueRange_GapUsesPreviousClose(t *testing.T) {
	// Gap up: previous close 10, today's range 14..15 → TR = |15-10| = 5
	tr := TrueRange(series.Series{11, 15}, series.Series{9, 14}, series.Series{10, 14.5})
	assertClose(t, "gap TR", column(t, tr, ColTR)[1], 5, 0)
}

func TestTrueRange_MatchesTalib(t *testing.T) {
	high, low, close := randomWalk(5, 300)
	got := column(t, TrueRange(high, low, close), ColTR)
	want := talib.TRange(high, low, close)

	for i := 1; i < len(close); i++ {
		assertClose(t, "TR vs talib", got[i], want[i], 1e-12)
	}
}

func TestTrueRange_AlignsShorterInputs(t *testing.T) {
	tr := TrueRange(series.Series{10, 11, 12}, series.Series{8, 9, 10}, series.Series{9, 10})
	if tr.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tr.Len())
	}
	// row 2 still has a previous close
	assertClose(t, "TR[2]", column(t, tr, ColTR)[2], 2, 0)
}

// ────────────────────────────────────────────────────────────
// Average True Range (Wilder's Smoothing)
// ────────────────────────────────────────────────────────────

func TestATR_Correctness_Window3(t *testing.T) {
	// TR: 2, 2, 2, 1.5, 2.5, 1.5
	//
	// ATR[3] = mean(2, 2, 2)          = 2
	// ATR[4] = (2*2 + 2.5) / 3        = 13/6 = 2.1667
	// ATR[5] = (13/6*2 + 1.5) / 3     = 35/18 = 1.9444
	high := series.Series{10, 11, 12, 11.5, 13, 12.5}
	low := series.Series{8, 9, 10, 10, 11, 11}
	close := series.Series{9, 10, 11, 10.5, 12.5, 11.5}

	atrFrame := AverageTrueRange(high, low, close, 3)
	assertNames(t, atrFrame, ColTR1, ColTR2, ColTR3, ColTR, ColATR)

	tr := column(t, atrFrame, ColTR)
	for i, want := range []float64{2, 2, 2, 1.5, 2.5, 1.5} {
		assertClose(t, "TR", tr[i], want, 1e-12)
	}

	atr := column(t, atrFrame, ColATR)
	expected := []float64{nan, nan, nan, 2, 13.0 / 6, 35.0 / 18}
	for i, want := range expected {
		assertClose(t, "ATR(3)", atr[i], want, 1e-12)
	}
}

func TestATR_SeedAndRecurrence(t *testing.T) {
	high, low, close := randomWalk(21, 200)
	const window = DefaultATRWindow

	f := AverageTrueRange(high, low, close, window)
	tr := column(t, f, ColTR)
	atr := column(t, f, ColATR)

	if atr[window] != stat.Mean(tr[:window], nil) {
		t.Fatalf("seed: ATR[%d] = %v, want mean(TR[0:%d]) = %v", window, atr[window], window, stat.Mean(tr[:window], nil))
	}
	for i := 0; i < window; i++ {
		assertClose(t, "ATR warmup", atr[i], nan, 0)
	}
	for i := window + 1; i < len(atr); i++ {
		want := (atr[i-1]*(window-1) + tr[i]) / window
		assertClose(t, "ATR recurrence", atr[i], want, 1e-9)
	}
}

func TestATR_WindowNotSmallerThanSeries(t *testing.T) {
	high, low, close := randomWalk(2, 6)
	for _, w := range []int{6, 10, 0, -1} {
		atr := column(t, AverageTrueRange(high, low, close, w), ColATR)
		if n := atr.CountNaN(); n != 6 {
			t.Errorf("window %d: %d NaN, want 6", w, n)
		}
	}
}

// ────────────────────────────────────────────────────────────
// RSI (exponentially weighted)
// ────────────────────────────────────────────────────────────

func TestRSI_Correctness_Com1(t *testing.T) {
	// window 1 → alpha 0.5
	// close: 1, 2, 2, 1   delta: NaN, +1, 0, -1
	// up:   NaN, 1, 0, 0   down: NaN, 0, 0, 1
	//
	// row 1: up=1, down=0                    → RSI 100
	// row 2: up=(0.5*1)/1.5=1/3, down=0      → RSI 100
	// row 3: up=(0.25*1)/1.75, down=1/1.75   → RS 0.25 → RSI 20
	got := RSI(series.Series{1, 2, 2, 1}, 1)
	if got.Name != ColRSI {
		t.Errorf("name = %q, want RSI", got.Name)
	}
	expected := []float64{nan, 100, 100, 20}
	for i, want := range expected {
		assertClose(t, "RSI(1)", got.Values[i], want, 1e-9)
	}
}

func TestRSI_MixedMoves(t *testing.T) {
	// close 1, 2, 1 → row 2: up=1/3, down=2/3 → RS 0.5 → RSI 33.333
	got := RSI(series.Series{1, 2, 1}, 1)
	assertClose(t, "RSI row 2", got.Values[2], 100.0/3, 1e-9)
}

func TestRSI_AllUp_Is100(t *testing.T) {
	close := make(series.Series, 30)
	for i := range close {
		close[i] = 100 + float64(i)
	}
	got := RSI(close, DefaultRSIWindow).Values

	assertClose(t, "RSI[0]", got[0], nan, 0)
	for i := 1; i < len(got); i++ {
		if got[i] > 100 {
			t.Fatalf("RSI[%d] = %v exceeds 100", i, got[i])
		}
		assertClose(t, "RSI all up", got[i], 100, 1e-9)
	}
}

func TestRSI_AllDown_Is0(t *testing.T) {
	close := make(series.Series, 30)
	for i := range close {
		close[i] = 200 - float64(i)
	}
	got := RSI(close, DefaultRSIWindow).Values
	for i := 1; i < len(got); i++ {
		assertClose(t, "RSI all down", got[i], 0, 1e-9)
	}
}

func TestRSI_Flat_IsNaN(t *testing.T) {
	// No movement: both averages are 0 and 0/0 is NaN.
	close := series.Series{10, 10, 10, 10, 10, 10}
	got := RSI(close, 3).Values
	if n := got.CountNaN(); n != len(close) {
		t.Errorf("flat RSI: %d NaN, want %d (%v)", n, len(close), got)
	}
}

func TestRSI_StaysInRange(t *testing.T) {
	_, _, close := randomWalk(8, 400)
	for i, v := range RSI(close, DefaultRSIWindow).Values[1:] {
		if v < 0 || v > 100 {
			t.Fatalf("RSI[%d] = %v out of [0, 100]", i+1, v)
		}
	}
}

// ────────────────────────────────────────────────────────────
// MACD
// ────────────────────────────────────────────────────────────

func TestMACD_ColumnNames(t *testing.T) {
	_, _, close := randomWalk(1, 60)
	assertNames(t, MACD(close, 12, 26), "MACD_12_26", "MACDsign_12_26", "MACDdiff_12_26")
	assertNames(t, MACD(close, 5, 35), "MACD_5_35", "MACDsign_5_35", "MACDdiff_5_35")
}

func TestMACD_WarmupLayout(t *testing.T) {
	// slow=5 → both averages need 4 observations: first MACD at row 3.
	// The signal needs 8 MACD values: first at row 3+7 = 10.
	_, _, close := randomWalk(4, 20)
	f := MACD(close, 3, 5)
	macdName, signName, diffName := MACDColumns(3, 5)
	macd := column(t, f, macdName)
	sign := column(t, f, signName)
	diff := column(t, f, diffName)

	for i := range close {
		if (i < 3) != math.IsNaN(macd[i]) {
			t.Errorf("MACD[%d] = %v", i, macd[i])
		}
		if (i < 10) != math.IsNaN(sign[i]) {
			t.Errorf("MACDsign[%d] = %v", i, sign[i])
		}
		if (i < 10) != math.IsNaN(diff[i]) {
			t.Errorf("MACDdiff[%d] = %v", i, diff[i])
		}
	}
	for i := 10; i < len(close); i++ {
		assertClose(t, "diff = macd - sign", diff[i], macd[i]-sign[i], 1e-12)
	}
}

func TestMACD_MatchesDirectWeights(t *testing.T) {
	_, _, close := randomWalk(9, 40)
	const fast, slow = 4, 9

	ewm := func(i int, com float64) float64 {
		decay := com / (1 + com)
		var num, den float64
		w := 1.0
		for j := i; j >= 0; j-- {
			num += w * close[j]
			den += w
			w *= decay
		}
		return num / den
	}

	macdName, _, _ := MACDColumns(fast, slow)
	macd := column(t, MACD(close, fast, slow), macdName)
	for i := slow - 2; i < len(close); i++ {
		assertClose(t, "MACD direct", macd[i], ewm(i, fast)-ewm(i, slow), 1e-9)
	}
}

func TestMACD_ConstantIsZero(t *testing.T) {
	close := make(series.Series, 50)
	for i := range close {
		close[i] = 42
	}
	f := MACD(close, DefaultMACDFast, DefaultMACDSlow)
	for _, c := range f.Columns() {
		for i, v := range c.Values {
			if !math.IsNaN(v) && v != 0 {
				t.Fatalf("%s[%d] = %v, want 0", c.Name, i, v)
			}
		}
	}
}

func TestMACD_FastNotBelowSlow(t *testing.T) {
	_, _, close := randomWalk(6, 60)
	f := MACD(close, 26, 12)
	assertNames(t, f, "MACD_26_12", "MACDsign_26_12", "MACDdiff_26_12")
	if f.Len() != len(close) {
		t.Fatalf("rows = %d, want %d", f.Len(), len(close))
	}
}

// ────────────────────────────────────────────────────────────
// Purity
// ────────────────────────────────────────────────────────────

func TestIndicators_DoNotMutateInputs(t *testing.T) {
	high, low, close := randomWalk(12, 80)
	h, l, c := high.Copy(), low.Copy(), close.Copy()

	BBands(close, 20, 2)
	AverageTrueRange(high, low, close, 14)
	RSI(close, 14)
	MACD(close, 12, 26)

	for i := range close {
		if h[i] != high[i] || l[i] != low[i] || c[i] != close[i] {
			t.Fatalf("input mutated at row %d", i)
		}
	}
}
