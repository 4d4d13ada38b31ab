// Package testkit builds seeded synthetic datasets for tests. Every
// generator takes an explicit seed so assertions stay deterministic.
package testkit

import (
	"math"
	"math/rand"

	"autostat/domain/core"
	"autostat/domain/dataset"
)

// NormalColumn returns a numeric column sampled from N(mean, std).
func NormalColumn(name string, n int, mean, std float64, seed int64) dataset.Column {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = mean + std*rng.NormFloat64()
	}
	return dataset.Column{Name: core.ColumnName(name), Kind: dataset.KindNumeric, Numeric: values}
}

// SkewedColumn returns a heavily right-skewed numeric column, built by
// exponentiating normal draws.
func SkewedColumn(name string, n int, seed int64) dataset.Column {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Exp(rng.NormFloat64() * 1.5)
	}
	return dataset.Column{Name: core.ColumnName(name), Kind: dataset.KindNumeric, Numeric: values}
}

// LinearColumn returns a column that tracks base with additive noise, so
// the pair correlates strongly.
func LinearColumn(name string, base []float64, slope, noise float64, seed int64) dataset.Column {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, len(base))
	for i, v := range base {
		values[i] = slope*v + noise*rng.NormFloat64()
	}
	return dataset.Column{Name: core.ColumnName(name), Kind: dataset.KindNumeric, Numeric: values}
}

// GroupColumn returns a categorical column cycling through the given
// levels in order.
func GroupColumn(name string, n int, levels ...string) dataset.Column {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = levels[i%len(levels)]
	}
	return dataset.Column{Name: core.ColumnName(name), Kind: dataset.KindCategorical, Labels: labels}
}

// ShiftedByGroup returns a numeric column whose mean depends on the
// group label, producing a real group difference.
func ShiftedByGroup(name string, groups dataset.Column, means map[string]float64, std float64, seed int64) dataset.Column {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, len(groups.Labels))
	for i, label := range groups.Labels {
		values[i] = means[label] + std*rng.NormFloat64()
	}
	return dataset.Column{Name: core.ColumnName(name), Kind: dataset.KindNumeric, Numeric: values}
}

// WithMissing returns a copy of a numeric column with every k-th value
// replaced by NaN.
func WithMissing(col dataset.Column, every int) dataset.Column {
	values := make([]float64, len(col.Numeric))
	copy(values, col.Numeric)
	for i := every - 1; i < len(values); i += every {
		values[i] = math.NaN()
	}
	out := col
	out.Numeric = values
	return out
}

// MustDataset wraps dataset.New and panics on invalid shape. Test-only.
func MustDataset(columns ...dataset.Column) *dataset.Dataset {
	ds, err := dataset.New(columns)
	if err != nil {
		panic(err)
	}
	return ds
}

// AssociatedPair returns two categorical columns with a strong
// dependency between their levels, suitable for chi-square fixtures.
func AssociatedPair(nameA, nameB string, n int, seed int64) (dataset.Column, dataset.Column) {
	rng := rand.New(rand.NewSource(seed))
	a := make([]string, n)
	b := make([]string, n)
	for i := 0; i < n; i++ {
		if rng.Float64() < 0.5 {
			a[i] = "left"
			b[i] = pick(rng, 0.85, "up", "down")
		} else {
			a[i] = "right"
			b[i] = pick(rng, 0.15, "up", "down")
		}
	}
	colA := dataset.Column{Name: core.ColumnName(nameA), Kind: dataset.KindCategorical, Labels: a}
	colB := dataset.Column{Name: core.ColumnName(nameB), Kind: dataset.KindCategorical, Labels: b}
	return colA, colB
}

func pick(rng *rand.Rand, p float64, hit, miss string) string {
	if rng.Float64() < p {
		return hit
	}
	return miss
}
