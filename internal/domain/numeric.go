package domain

import "math"

// Round2 rounds half away from zero to two decimals. Weights, volumes,
// percentages and minutes all go through it so totals are reproducible.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds half away from zero to one decimal (average RPE).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percentage(actual, target float64) float64 {
	return Round2(actual / target * 100)
}
