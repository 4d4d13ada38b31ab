package engine

import (
	"math"
	"math/rand"
	"testing"
)

func normalSample(n int, mean, std float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + std*rng.NormFloat64()
	}
	return out
}

// TestPooledTTest_SeparatedGroups verifies a large mean gap yields a
// significant two-sided p-value.
func TestPooledTTest_SeparatedGroups(t *testing.T) {
	g1 := normalSample(50, 0, 1, 1)
	g2 := normalSample(50, 3, 1, 2)

	stat, p := pooledTTest(g1, g2)

	if math.Abs(stat) < 5 {
		t.Errorf("Expected large |t| for well separated groups, got %f", stat)
	}
	if p >= 0.001 {
		t.Errorf("Expected p < 0.001 for 3-sigma mean gap, got %f", p)
	}
}

func TestPooledTTest_IdenticalGroups(t *testing.T) {
	g := normalSample(40, 5, 2, 3)

	stat, p := pooledTTest(g, g)

	if stat != 0 {
		t.Errorf("Expected t = 0 for identical groups, got %f", stat)
	}
	if p < 0.99 {
		t.Errorf("Expected p near 1 for identical groups, got %f", p)
	}
}

func TestPooledTTest_ZeroVariance(t *testing.T) {
	same := []float64{2, 2, 2, 2}
	other := []float64{5, 5, 5, 5}

	stat, p := pooledTTest(same, other)
	if !math.IsInf(stat, -1) {
		t.Errorf("Expected -Inf statistic for separated constant groups, got %f", stat)
	}
	if p != 0 {
		t.Errorf("Expected p = 0 for separated constant groups, got %f", p)
	}

	stat, p = pooledTTest(same, same)
	if stat != 0 || p != 1 {
		t.Errorf("Expected (0, 1) for equal constant groups, got (%f, %f)", stat, p)
	}
}

func TestOneWayANOVA_ShiftedGroups(t *testing.T) {
	groups := [][]float64{
		normalSample(30, 0, 1, 10),
		normalSample(30, 2, 1, 11),
		normalSample(30, 4, 1, 12),
	}

	f, p := oneWayANOVA(groups)

	if f < 10 {
		t.Errorf("Expected large F for well separated groups, got %f", f)
	}
	if p >= 0.001 {
		t.Errorf("Expected p < 0.001, got %f", p)
	}
}

func TestOneWayANOVA_EqualGroups(t *testing.T) {
	g := normalSample(30, 1, 1, 13)
	_, p := oneWayANOVA([][]float64{g, g, g})

	if p < 0.9 {
		t.Errorf("Expected p near 1 for identical groups, got %f", p)
	}
}

func TestMannWhitneyU_ShiftedSkewedGroups(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	g1 := make([]float64, 60)
	g2 := make([]float64, 60)
	for i := range g1 {
		g1[i] = math.Exp(rng.NormFloat64())
		g2[i] = math.Exp(rng.NormFloat64()) + 5
	}

	u, p := mannWhitneyU(g1, g2)

	if u < 0 || u > float64(len(g1)*len(g2)) {
		t.Errorf("U out of range: %f", u)
	}
	if p >= 0.001 {
		t.Errorf("Expected significant shift, got p = %f", p)
	}
}

func TestMannWhitneyU_AllTied(t *testing.T) {
	g := []float64{7, 7, 7, 7, 7}
	_, p := mannWhitneyU(g, g)
	if p != 1 {
		t.Errorf("Expected p = 1 when every value is tied, got %f", p)
	}
}

func TestKruskalWallis_ShiftedGroups(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	groups := make([][]float64, 3)
	for k := range groups {
		groups[k] = make([]float64, 40)
		for i := range groups[k] {
			groups[k][i] = math.Exp(rng.NormFloat64()) + float64(k*4)
		}
	}

	h, p := kruskalWallis(groups)

	if h <= 0 {
		t.Errorf("Expected positive H, got %f", h)
	}
	if p >= 0.001 {
		t.Errorf("Expected significant shift, got p = %f", p)
	}
}

// TestChiSquareIndependence_StrongAssociation uses a diagonal-heavy 2x2
// table where the association is unambiguous.
func TestChiSquareIndependence_StrongAssociation(t *testing.T) {
	table := [][]int{{50, 10}, {10, 50}}

	chi2, p, n := chiSquareIndependence(table)

	if n != 120 {
		t.Fatalf("Expected n = 120, got %d", n)
	}
	if chi2 < 30 {
		t.Errorf("Expected large chi-square, got %f", chi2)
	}
	if p >= 0.001 {
		t.Errorf("Expected significant association, got p = %f", p)
	}

	v := CramersV(chi2, n, 2, 2)
	if v <= 0.5 {
		t.Errorf("Expected strong Cramer's V > 0.5, got %f", v)
	}
}

func TestChiSquareIndependence_IndependentTable(t *testing.T) {
	table := [][]int{{30, 30}, {30, 30}}
	chi2, p, _ := chiSquareIndependence(table)

	if chi2 != 0 {
		t.Errorf("Expected chi-square 0 for uniform table, got %f", chi2)
	}
	if p < 0.99 {
		t.Errorf("Expected p near 1, got %f", p)
	}
}

func TestPearsonCorrelation_PerfectLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2, 4, 6, 8, 10, 12}

	r, p := pearsonCorrelation(x, y)

	if math.Abs(r-1) > 1e-9 {
		t.Errorf("Expected r = 1, got %f", r)
	}
	if p != 0 {
		t.Errorf("Expected p = 0 for perfect correlation, got %f", p)
	}
}

func TestSpearmanCorrelation_MonotonicNonlinear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Exp(v)
	}

	rho, p := spearmanCorrelation(x, y)

	if math.Abs(rho-1) > 1e-9 {
		t.Errorf("Expected rho = 1 for monotonic data, got %f", rho)
	}
	if p != 0 {
		t.Errorf("Expected p = 0, got %f", p)
	}
}

func TestCorrelationP_EdgeCases(t *testing.T) {
	if p := correlationP(0.5, 2); p != 1 {
		t.Errorf("Expected p = 1 for n < 3, got %f", p)
	}
	if p := correlationP(math.NaN(), 50); p != 1 {
		t.Errorf("Expected p = 1 for NaN r, got %f", p)
	}
	if p := correlationP(0, 50); p < 0.99 {
		t.Errorf("Expected p near 1 for r = 0, got %f", p)
	}
}

func TestTieAveragedRanks(t *testing.T) {
	ranks := tieAveragedRanks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("rank[%d]: expected %f, got %f", i, want[i], ranks[i])
		}
	}
}

func TestTieCorrectionSum(t *testing.T) {
	// One tie group of size 3: 3^3 - 3 = 24.
	if got := tieCorrectionSum([]float64{1, 2, 2, 2, 5}); got != 24 {
		t.Errorf("Expected tie sum 24, got %f", got)
	}
	if got := tieCorrectionSum([]float64{1, 2, 3}); got != 0 {
		t.Errorf("Expected tie sum 0 without ties, got %f", got)
	}
}

func TestCohensD(t *testing.T) {
	d := CohensD([]float64{1, 2, 3, 4, 5}, []float64{3, 4, 5, 6, 7})
	if math.Abs(d - -2/math.Sqrt(2.5)) > 1e-9 {
		t.Errorf("Unexpected Cohen's d: %f", d)
	}

	if d := CohensD([]float64{2, 2, 2}, []float64{5, 5, 5}); !math.IsNaN(d) {
		t.Errorf("Expected NaN for zero pooled variance, got %f", d)
	}
}

func TestEtaSquared(t *testing.T) {
	// F = 10 with df (2, 27): eta2 = 20 / 47.
	got := EtaSquared(10, 2, 27)
	want := 20.0 / 47.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %f, got %f", want, got)
	}
}
