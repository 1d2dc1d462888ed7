package schedule

import "math"

// AllocateDays splits a total day budget across an ordered list of weighted
// buckets. Every bucket gets at least 1 day and the allocations sum exactly
// to total (whenever total >= len(weights)).
//
// basis is the scaling denominator: phases pass 100 (percentage-of-total);
// basis <= 0 falls back to the actual weight sum (raw-weight proportions).
// Each bucket except the last receives max(1, round(total*weight/basis));
// the last declared bucket absorbs all rounding drift, floored at 1 day.
// The last-declared absorber is a deliberate tie-break: ordering-dependent,
// not largest-weight.
func AllocateDays(weights []float64, total int, basis float64) []int {
	if len(weights) == 0 {
		return nil
	}

	if basis <= 0 {
		for _, w := range weights {
			basis += w
		}
	}
	if basis <= 0 {
		// Degenerate all-zero weights: even split via equal proportions.
		basis = float64(len(weights))
		weights = make([]float64, len(weights))
		for i := range weights {
			weights[i] = 1
		}
	}

	days := make([]int, len(weights))
	allocated := 0
	for i, w := range weights[:len(weights)-1] {
		d := int(math.Round(float64(total) * w / basis))
		if d < 1 {
			d = 1
		}
		days[i] = d
		allocated += d
	}

	last := total - allocated
	if last < 1 {
		last = 1
	}
	days[len(days)-1] = last
	return days
}
