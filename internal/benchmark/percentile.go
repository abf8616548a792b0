package benchmark

import "sort"

// Percentile returns the value at percentile p (0-100) of values, using
// linear interpolation between closest ranks. Returns 0 for an empty input;
// callers that need a neutral default use the documented fallbacks instead.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Median is Percentile at 50.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// NeutralRank is returned when a percentile rank has no cohort to rank
// against.
const NeutralRank = 50.0

// PercentileRank returns the percentile rank of v within cohort: 100 times
// the fraction of cohort values at or below v (inclusive, so the cohort
// maximum ranks 100). An empty cohort yields NeutralRank.
func PercentileRank(cohort []float64, v float64) float64 {
	if len(cohort) == 0 {
		return NeutralRank
	}
	atOrBelow := 0
	for _, s := range cohort {
		if s <= v {
			atOrBelow++
		}
	}
	return 100 * float64(atOrBelow) / float64(len(cohort))
}
