package engine

import (
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"autostat/internal/profiling"
)

// DefaultNormalitySampleCap bounds the subsample a normality test sees.
// Full-sample tests get oversensitive and expensive at scale; capping
// keeps the cost O(cap) per column.
const DefaultNormalitySampleCap = 500

// NormalityOracle decides whether a numeric sample is plausibly normal.
// The verdict gates every parametric-vs-nonparametric branch in the test
// selector. The random subsample is drawn from an explicitly seeded
// source so repeated passes over the same dataset agree.
type NormalityOracle struct {
	seed      int64
	sampleCap int
	alpha     float64
}

// NewNormalityOracle creates an oracle with the given seed and defaults
// for cap and threshold.
func NewNormalityOracle(seed int64) *NormalityOracle {
	return &NormalityOracle{seed: seed, sampleCap: DefaultNormalitySampleCap, alpha: 0.05}
}

// WithSampleCap overrides the subsample cap.
func (o *NormalityOracle) WithSampleCap(cap int) *NormalityOracle {
	if cap > 0 {
		o.sampleCap = cap
	}
	return o
}

// IsNormal reports whether the sample plausibly came from a normal
// distribution. Samples with fewer than 3 observations cannot be tested
// and report false. Safe for concurrent use: each call derives its own
// RNG from the configured seed.
func (o *NormalityOracle) IsNormal(sample []float64) bool {
	normal, _ := o.Test(sample)
	return normal
}

// Test returns the verdict together with the p-value behind it.
func (o *NormalityOracle) Test(sample []float64) (bool, float64) {
	if len(sample) < 3 {
		return false, 1.0
	}

	data := o.subsample(sample)

	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	if stdDev == 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		// No variance, nothing to test against.
		return false, 1.0
	}

	var p float64
	if len(data) >= 8 {
		p = dagostinoK2(data, mean, stdDev)
	} else {
		p = momentApproxP(data, mean, stdDev)
	}
	return p > o.alpha, p
}

// subsample draws min(cap, n) values uniformly without replacement.
func (o *NormalityOracle) subsample(sample []float64) []float64 {
	if len(sample) <= o.sampleCap {
		out := make([]float64, len(sample))
		copy(out, sample)
		return out
	}
	rng := rand.New(rand.NewSource(o.seed))
	idx := rng.Perm(len(sample))[:o.sampleCap]
	out := make([]float64, o.sampleCap)
	for i, j := range idx {
		out[i] = sample[j]
	}
	return out
}

// dagostinoK2 runs D'Agostino's K² omnibus normality test, combining the
// skewness and kurtosis transforms into a chi-squared statistic with 2
// degrees of freedom.
func dagostinoK2(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))

	g1 := profiling.Skewness(data, mean, stdDev)
	g2 := profiling.Kurtosis(data, mean, stdDev)

	// Skewness transform to Z1 (D'Agostino).
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := (3 * (n*n + 27*n - 70) * (n + 1) * (n + 3)) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 0 {
		return 1.0
	}
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	// Kurtosis transform to Z2 (Anscombe-Glynn).
	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	if v <= 0 {
		return 1.0
	}
	x := (g2 - e) / math.Sqrt(v)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	if a <= 4 {
		return 1.0
	}

	term := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	if den <= 0 {
		// Invalid fractional power; treat as decisively non-normal.
		return 0.0
	}
	z2 := (term - math.Pow((1-2/a)/den, 1.0/3.0)) / math.Sqrt(2/(9*a))

	k2 := z1*z1 + z2*z2
	chi2 := distuv.ChiSquared{K: 2}
	return 1 - chi2.CDF(k2)
}

// momentApproxP is the small-sample fallback: a Jarque-Bera style
// statistic from skewness and excess kurtosis against chi-squared.
func momentApproxP(data []float64, mean, stdDev float64) float64 {
	skew := profiling.Skewness(data, mean, stdDev)
	excess := profiling.Kurtosis(data, mean, stdDev) - 3

	testStat := math.Abs(skew) + math.Abs(excess)/2
	chi2 := distuv.ChiSquared{K: 2}
	return 1 - chi2.CDF(testStat*testStat)
}
