package profiling

import (
	"errors"
	"math"
	"testing"

	"autostat/domain/core"
)

func TestSummarize_KnownValues(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s.Count != 5 {
		t.Errorf("Expected count 5, got %d", s.Count)
	}
	if s.Mean != 3 {
		t.Errorf("Expected mean 3, got %f", s.Mean)
	}
	if s.Median != 3 {
		t.Errorf("Expected median 3, got %f", s.Median)
	}
	if s.Min != 1 || s.Max != 5 {
		t.Errorf("Expected range [1, 5], got [%f, %f]", s.Min, s.Max)
	}
	if math.Abs(s.Skewness) > 1e-9 {
		t.Errorf("Symmetric data must have zero skew, got %f", s.Skewness)
	}
}

func TestSummarize_DropsMissing(t *testing.T) {
	s, err := Summarize([]float64{1, math.NaN(), 3, math.NaN()})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Count != 2 {
		t.Errorf("Expected NaN entries dropped, count = %d", s.Count)
	}
	if s.Mean != 2 {
		t.Errorf("Expected mean 2, got %f", s.Mean)
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}

	_, err = Summarize([]float64{math.NaN(), math.NaN()})
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for all-missing input, got %v", err)
	}
}

func TestSummarize_OutlierCount(t *testing.T) {
	data := []float64{10, 11, 12, 11, 10, 12, 11, 10, 11, 100}
	s, err := Summarize(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.OutlierCount != 1 {
		t.Errorf("Expected 1 IQR outlier, got %d", s.OutlierCount)
	}
	if s.IQRUpper >= 100 {
		t.Errorf("Upper fence must exclude the outlier, got %f", s.IQRUpper)
	}
}

// TestSummarize_ZeroVariance pins the degenerate-column contract: no
// division by zero, neutral shape statistics, no outliers.
func TestSummarize_ZeroVariance(t *testing.T) {
	s, err := Summarize([]float64{5, 5, 5, 5, 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Skewness != 0 {
		t.Errorf("Expected skew 0 for constant data, got %f", s.Skewness)
	}
	if s.Kurtosis != 3 {
		t.Errorf("Expected baseline kurtosis 3 for constant data, got %f", s.Kurtosis)
	}
	if s.OutlierCount != 0 {
		t.Errorf("Expected no outliers, got %d", s.OutlierCount)
	}
}

func TestSkewness_RightSkewed(t *testing.T) {
	data := []float64{1, 1, 1, 1, 2, 2, 3, 10, 50}
	mean, std := meanStd(data)
	if got := Skewness(data, mean, std); got <= 1 {
		t.Errorf("Expected strong positive skew, got %f", got)
	}
}

func TestSkewness_ZeroVariance(t *testing.T) {
	data := []float64{5, 5, 5, 5}
	if got := Skewness(data, 5, 0); got != 0 {
		t.Errorf("Expected skew 0 for constant data, got %f", got)
	}
}

// TestKurtosis_NormalBaseline checks the total-kurtosis convention: a
// near-normal sample sits close to 3, not 0.
func TestKurtosis_NormalBaseline(t *testing.T) {
	data := make([]float64, 2000)
	for i := range data {
		// Deterministic near-normal via sum of uniforms.
		u := 0.0
		for k := 1; k <= 12; k++ {
			u += math.Mod(float64(i*k)*0.6180339887, 1)
		}
		data[i] = u - 6
	}
	mean, std := meanStd(data)
	got := Kurtosis(data, mean, std)
	if got < 2 || got > 4 {
		t.Errorf("Expected kurtosis near 3, got %f", got)
	}
}

func TestKurtosis_HeavyTails(t *testing.T) {
	data := []float64{0, 0, 0, 0, 0, 0, 0, 0, -20, 20}
	mean, std := meanStd(data)
	if got := Kurtosis(data, mean, std); got <= 3 {
		t.Errorf("Expected leptokurtic sample above 3, got %f", got)
	}
}

func meanStd(data []float64) (float64, float64) {
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))
	ss := 0.0
	for _, v := range data {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / float64(len(data)-1))
}
