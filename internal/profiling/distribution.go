package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	"autostat/domain/core"
)

// DistributionSummary holds the per-column statistics every downstream
// decision reads: moments, quantiles, IQR bounds and the outlier count.
// Summaries are derived values, recomputed per analysis pass.
type DistributionSummary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	P10      float64 `json:"p10"`
	P90      float64 `json:"p90"`
	Skewness float64 `json:"skewness"`
	// Kurtosis is total (Pearson) kurtosis: 3 for a normal distribution.
	Kurtosis     float64 `json:"kurtosis"`
	IQRLower     float64 `json:"iqr_lower"`
	IQRUpper     float64 `json:"iqr_upper"`
	OutlierCount int     `json:"outlier_count"`
}

// Summarize computes a DistributionSummary over non-missing values.
func Summarize(values []float64) (DistributionSummary, error) {
	data := dropMissing(values)
	if len(data) == 0 {
		return DistributionSummary{}, core.ErrInsufficientData
	}

	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q1, _ := stats.Percentile(data, 25)
	q3, _ := stats.Percentile(data, 75)
	p10, _ := stats.Percentile(data, 10)
	p90, _ := stats.Percentile(data, 90)

	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	return DistributionSummary{
		Count:        len(data),
		Mean:         mean,
		StdDev:       stdDev,
		Min:          min,
		Max:          max,
		Median:       median,
		Q1:           q1,
		Q3:           q3,
		P10:          p10,
		P90:          p90,
		Skewness:     Skewness(data, mean, stdDev),
		Kurtosis:     Kurtosis(data, mean, stdDev),
		IQRLower:     lower,
		IQRUpper:     upper,
		OutlierCount: countOutliers(data, lower, upper),
	}, nil
}

// Skewness computes the adjusted Fisher-Pearson coefficient of skewness.
// Zero-variance samples report 0.
func Skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}

	skew := sumCubed / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skew * correction
}

// Kurtosis computes bias-corrected total kurtosis. Zero-variance and tiny
// samples report the normal baseline of 3.
func Kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 3.0
	}

	n := float64(len(data))
	sumFourth := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumFourth += d * d * d * d
	}

	excess := n*(n+1)/((n-1)*(n-2)*(n-3))*sumFourth -
		3*(n-1)*(n-1)/((n-2)*(n-3))
	return excess + 3
}

func countOutliers(data []float64, lower, upper float64) int {
	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}

func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
