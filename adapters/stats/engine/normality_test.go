package engine

import (
	"math"
	"math/rand"
	"testing"
)

func TestNormalityOracle_NormalSample(t *testing.T) {
	oracle := NewNormalityOracle(42)
	sample := normalSample(200, 10, 2, 7)

	normal, p := oracle.Test(sample)
	if !normal {
		t.Errorf("Expected normal verdict for Gaussian sample, p = %f", p)
	}
}

func TestNormalityOracle_SkewedSample(t *testing.T) {
	oracle := NewNormalityOracle(42)
	rng := rand.New(rand.NewSource(8))
	sample := make([]float64, 200)
	for i := range sample {
		sample[i] = math.Exp(rng.NormFloat64() * 1.5)
	}

	normal, p := oracle.Test(sample)
	if normal {
		t.Errorf("Expected non-normal verdict for lognormal sample, p = %f", p)
	}
}

func TestNormalityOracle_TooFewObservations(t *testing.T) {
	oracle := NewNormalityOracle(42)
	if oracle.IsNormal([]float64{1, 2}) {
		t.Error("Samples below 3 observations cannot be judged normal")
	}
}

func TestNormalityOracle_ZeroVariance(t *testing.T) {
	oracle := NewNormalityOracle(42)
	if oracle.IsNormal([]float64{4, 4, 4, 4, 4, 4, 4, 4, 4, 4}) {
		t.Error("Constant samples must not be judged normal")
	}
}

// TestNormalityOracle_DeterministicSubsample verifies that two oracles
// with the same seed agree over a sample larger than the cap, and that
// repeated calls on one oracle agree with each other.
func TestNormalityOracle_DeterministicSubsample(t *testing.T) {
	sample := normalSample(5000, 0, 1, 9)

	a := NewNormalityOracle(42).WithSampleCap(100)
	b := NewNormalityOracle(42).WithSampleCap(100)

	_, p1 := a.Test(sample)
	_, p2 := a.Test(sample)
	_, p3 := b.Test(sample)

	if p1 != p2 {
		t.Errorf("Repeated calls diverged: %f vs %f", p1, p2)
	}
	if p1 != p3 {
		t.Errorf("Same-seed oracles diverged: %f vs %f", p1, p3)
	}
}

func TestNormalityOracle_SmallSampleFallback(t *testing.T) {
	oracle := NewNormalityOracle(42)

	// 5 observations route through the moment approximation.
	normal, p := oracle.Test([]float64{1.1, 2.0, 2.9, 4.2, 5.1})
	if p < 0 || p > 1 {
		t.Fatalf("p out of range: %f", p)
	}
	if !normal {
		t.Errorf("Expected near-symmetric small sample to pass, p = %f", p)
	}
}
