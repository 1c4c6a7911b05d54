package quant

import (
	"math"
	"sort"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// balanceScore maps two non-negative counts to [0,100]: 100 at a perfect
// 50/50 split, 0 when one side owns everything, 50 when there is nothing
// to split.
func balanceScore(a, b float64) float64 {
	total := a + b
	if total <= 0 {
		return 50
	}
	share := a / total
	return clamp100(100 * (1 - 2*math.Abs(share-0.5)))
}

// symmetryScore is the min/max ratio of two non-negative values scaled to
// [0,100], 50 when both are zero.
func symmetryScore(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi <= 0 {
		return 50
	}
	return clamp100(100 * math.Min(a, b) / hi)
}

// safeRate divides with a zero-denominator fallback of 0.
func safeRate(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// medianMs sorts a copy of the samples and returns the middle element, or
// the mean of the two middle elements for even counts. Zero for no samples.
func medianMs(samples []int64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	sorted := make([]int64, n)
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
