package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Effect-size calculators. All are pure functions over test statistics
// and group data; each pairs with exactly one test family.

// CohensD computes the standardized mean difference between two groups,
// using the quadratic-mean pooled standard deviation. Returns NaN when
// both groups have zero variance.
func CohensD(group1, group2 []float64) float64 {
	mean1 := stat.Mean(group1, nil)
	mean2 := stat.Mean(group2, nil)
	std1 := math.Sqrt(stat.Variance(group1, nil))
	std2 := math.Sqrt(stat.Variance(group2, nil))

	pooled := math.Sqrt((std1*std1 + std2*std2) / 2)
	if pooled == 0 {
		return math.NaN()
	}
	return (mean1 - mean2) / pooled
}

// EtaSquared converts a one-way ANOVA F statistic into the proportion of
// variance explained by group membership.
func EtaSquared(f float64, dfBetween, dfWithin int) float64 {
	num := f * float64(dfBetween)
	den := num + float64(dfWithin)
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// CramersV computes the chi-square effect size for an r x c contingency
// table with n total observations.
func CramersV(chi2 float64, n, rows, cols int) float64 {
	minDim := math.Min(float64(rows-1), float64(cols-1))
	if n == 0 || minDim <= 0 {
		return math.NaN()
	}
	phi2 := chi2 / float64(n)
	return math.Sqrt(phi2 / minDim)
}
