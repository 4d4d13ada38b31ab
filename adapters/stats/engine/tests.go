package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Statistical procedures. Each returns (statistic, two-sided p-value).
// P-values come from gonum's distributions rather than hand-rolled CDF
// approximations.

// pooledTTest runs Student's independent two-sample t-test with pooled
// variance.
func pooledTTest(group1, group2 []float64) (float64, float64) {
	n1 := float64(len(group1))
	n2 := float64(len(group2))

	mean1 := stat.Mean(group1, nil)
	mean2 := stat.Mean(group2, nil)
	var1 := stat.Variance(group1, nil)
	var2 := stat.Variance(group2, nil)

	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	se := math.Sqrt(pooledVar * (1/n1 + 1/n2))
	if se == 0 {
		if mean1 == mean2 {
			return 0, 1.0
		}
		return math.Inf(sign(mean1 - mean2)), 0.0
	}

	t := (mean1 - mean2) / se
	df := n1 + n2 - 2
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	return t, p
}

// oneWayANOVA runs the one-way fixed-effects F test across k groups.
func oneWayANOVA(groups [][]float64) (float64, float64) {
	k := len(groups)
	total := 0
	grandSum := 0.0
	for _, g := range groups {
		total += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(total)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, g := range groups {
		gm := stat.Mean(g, nil)
		ssBetween += float64(len(g)) * (gm - grandMean) * (gm - grandMean)
		for _, v := range g {
			ssWithin += (v - gm) * (v - gm)
		}
	}

	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	if dfWithin <= 0 {
		return 0, 1.0
	}

	msWithin := ssWithin / dfWithin
	if msWithin == 0 {
		if ssBetween == 0 {
			return 0, 1.0
		}
		return math.Inf(1), 0.0
	}

	f := (ssBetween / dfBetween) / msWithin
	dist := distuv.F{D1: dfBetween, D2: dfWithin}
	return f, 1 - dist.CDF(f)
}

// mannWhitneyU runs the two-sided Mann-Whitney U test using the normal
// approximation with tie correction and continuity correction. The
// reported statistic is U for the first group.
func mannWhitneyU(group1, group2 []float64) (float64, float64) {
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	n := n1 + n2

	combined := make([]float64, 0, int(n))
	combined = append(combined, group1...)
	combined = append(combined, group2...)
	ranks := tieAveragedRanks(combined)

	r1 := 0.0
	for i := 0; i < len(group1); i++ {
		r1 += ranks[i]
	}
	u1 := r1 - n1*(n1+1)/2

	mu := n1 * n2 / 2
	tieSum := tieCorrectionSum(combined)
	sigma2 := n1 * n2 / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if sigma2 <= 0 {
		// All values tied; no evidence either way.
		return u1, 1.0
	}
	sigma := math.Sqrt(sigma2)

	// Continuity correction toward the mean.
	var z float64
	if diff := math.Abs(u1 - mu); diff > 0.5 {
		z = (diff - 0.5) / sigma
	}

	norm := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * (1 - norm.CDF(z))
	if p > 1 {
		p = 1
	}
	return u1, p
}

// kruskalWallis runs the Kruskal-Wallis H test across k groups with the
// chi-squared approximation and tie correction.
func kruskalWallis(groups [][]float64) (float64, float64) {
	k := len(groups)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	n := float64(total)
	if n < 2 {
		return 0, 1.0
	}

	combined := make([]float64, 0, total)
	for _, g := range groups {
		combined = append(combined, g...)
	}
	ranks := tieAveragedRanks(combined)

	h := 0.0
	offset := 0
	for _, g := range groups {
		rSum := 0.0
		for i := range g {
			rSum += ranks[offset+i]
		}
		h += rSum * rSum / float64(len(g))
		offset += len(g)
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	// Tie correction.
	tieSum := tieCorrectionSum(combined)
	correction := 1 - tieSum/(n*n*n-n)
	if correction <= 0 {
		return 0, 1.0
	}
	h /= correction

	dist := distuv.ChiSquared{K: float64(k - 1)}
	return h, 1 - dist.CDF(h)
}

// chiSquareIndependence computes the Pearson chi-square statistic for a
// contingency table with expected counts from the marginals. No
// continuity correction is applied.
func chiSquareIndependence(table [][]int) (chi2, p float64, n int) {
	rows := len(table)
	cols := len(table[0])

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	total := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := float64(table[i][j])
			rowTotals[i] += v
			colTotals[j] += v
			total += v
		}
	}
	if total == 0 {
		return 0, 1.0, 0
	}

	chi2 = 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := rowTotals[i] * colTotals[j] / total
			if expected > 0 {
				observed := float64(table[i][j])
				chi2 += (observed - expected) * (observed - expected) / expected
			}
		}
	}

	df := float64((rows - 1) * (cols - 1))
	if df <= 0 {
		return chi2, 1.0, int(total)
	}
	dist := distuv.ChiSquared{K: df}
	return chi2, 1 - dist.CDF(chi2), int(total)
}

// pearsonCorrelation computes Pearson's r with a t-distribution p-value
// on n-2 degrees of freedom.
func pearsonCorrelation(x, y []float64) (float64, float64) {
	r := stat.Correlation(x, y, nil)
	return r, correlationP(r, len(x))
}

// spearmanCorrelation computes Spearman's rho as Pearson's r over
// tie-averaged ranks.
func spearmanCorrelation(x, y []float64) (float64, float64) {
	rho := stat.Correlation(tieAveragedRanks(x), tieAveragedRanks(y), nil)
	return rho, correlationP(rho, len(x))
}

func correlationP(r float64, n int) float64 {
	if n < 3 || math.IsNaN(r) {
		return 1.0
	}
	if math.Abs(r) >= 1 {
		return 0.0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
