package quant

// olsSlope is the ordinary-least-squares slope of values against their
// indices 0..k-1, the closed form
//
//	slope = (k*sum(xy) - sum(x)*sum(y)) / (k*sum(x^2) - sum(x)^2)
//
// It returns 0 for fewer than two points or a vanishing denominator, so a
// flat or unmeasurable series never reads as a trend.
func olsSlope(values []float64) float64 {
	k := len(values)
	if k < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := float64(k)*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (float64(k)*sumXY - sumX*sumY) / denom
}
