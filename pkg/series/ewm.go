package series

import "math"

// EWM returns the exponentially weighted mean of s with decay given by the
// center of mass com (alpha = 1/(1+com)).
//
// Weights are adjusted for the finite history: the value at i is
// sum(w_j*x_{i-j}) / sum(w_j) with w_j = (1-alpha)^j. NaN samples are left
// out of both sums, but they still age the older weights. Positions with
// fewer than max(minPeriods, 1) non-NaN samples so far are NaN.
func (s Series) EWM(com float64, minPeriods int) Series {
	out := NaNs(len(s))
	if len(s) == 0 {
		return out
	}

	alpha := 1 / (1 + com)
	decay := 1 - alpha
	const newWt = 1.0

	minp := minPeriods
	if minp < 1 {
		minp = 1
	}

	weighted := s[0]
	nobs := 0
	if !math.IsNaN(weighted) {
		nobs = 1
	}
	if nobs >= minp {
		out[0] = weighted
	}

	oldWt := 1.0
	for i := 1; i < len(s); i++ {
		cur := s[i]
		isObs := !math.IsNaN(cur)
		if isObs {
			nobs++
		}

		if !math.IsNaN(weighted) {
			oldWt *= decay
			if isObs {
				if weighted != cur {
					weighted = (oldWt*weighted + newWt*cur) / (oldWt + newWt)
				}
				oldWt += newWt
			}
		} else if isObs {
			weighted = cur
		}

		if nobs >= minp {
			out[i] = weighted
		}
	}
	return out
}
