package engine

import "sort"

// tieAveragedRanks converts values to 1-based ranks, assigning tied
// values the average of the ranks they span.
func tieAveragedRanks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, v := range data {
		pairs[i] = pair{value: v, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avg
		}
		i = j
	}
	return ranks
}

// tieCorrectionSum returns Σ(t³−t) over tie groups of the sorted combined
// sample, used by the Mann-Whitney and Kruskal-Wallis approximations.
func tieCorrectionSum(data []float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	sum := 0.0
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		t := float64(j - i)
		if t > 1 {
			sum += t*t*t - t
		}
		i = j
	}
	return sum
}
