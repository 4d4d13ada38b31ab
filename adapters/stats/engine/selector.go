package engine

import (
	"math"

	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
)

// TestSelector pairs column types with the statistically appropriate
// procedure: parametric when every group passes the normality oracle,
// rank-based otherwise. One invocation produces one immutable TestResult.
type TestSelector struct {
	oracle *NormalityOracle
}

// NewTestSelector creates a selector backed by the given oracle.
func NewTestSelector(oracle *NormalityOracle) *TestSelector {
	return &TestSelector{oracle: oracle}
}

// Oracle exposes the underlying normality oracle for callers that gate
// other decisions on the same verdicts.
func (s *TestSelector) Oracle() *NormalityOracle { return s.oracle }

// TestNumericCategorical compares a numeric column across the groups of
// a categorical column. Two groups get a t-test or Mann-Whitney; three or
// more get ANOVA or Kruskal-Wallis. Normality must hold for every group
// simultaneously to take the parametric branch.
func (s *TestSelector) TestNumericCategorical(ds *dataset.Dataset, catCol, numCol core.ColumnName, alpha float64) (stats.TestResult, error) {
	_, groups, err := ds.GroupNumericBy(catCol, numCol)
	if err != nil {
		return stats.TestResult{}, err
	}
	if len(groups) < 2 {
		return stats.TestResult{}, core.ErrInsufficientData
	}

	allNormal := true
	for _, g := range groups {
		if !s.oracle.IsNormal(g) {
			allNormal = false
			break
		}
	}

	var (
		kind       stats.TestKind
		statistic  float64
		p          float64
		effect     float64
		hasEffect  bool
		effectKind stats.EffectSizeKind
	)

	if len(groups) == 2 {
		if allNormal {
			kind = stats.TestTTest
			statistic, p = pooledTTest(groups[0], groups[1])
			effect = CohensD(groups[0], groups[1])
			hasEffect = !math.IsNaN(effect)
			effectKind = stats.EffectCohensD
		} else {
			kind = stats.TestMannWhitney
			statistic, p = mannWhitneyU(groups[0], groups[1])
		}
	} else {
		if allNormal {
			kind = stats.TestANOVA
			statistic, p = oneWayANOVA(groups)
			// Within degrees of freedom count all dataset rows, not just
			// the rows that landed in a group.
			effect = EtaSquared(statistic, len(groups)-1, ds.RowCount()-len(groups))
			hasEffect = !math.IsNaN(effect)
			effectKind = stats.EffectEtaSquared
		} else {
			kind = stats.TestKruskal
			statistic, p = kruskalWallis(groups)
		}
	}

	h0, h1 := stats.HypothesisText(kind, numCol, catCol)
	result := stats.TestResult{
		Kind:         kind,
		Columns:      []core.ColumnName{numCol, catCol},
		H0:           h0,
		H1:           h1,
		Statistic:    statistic,
		PValue:       p,
		Alpha:        alpha,
		Significance: stats.SignificanceLabel(p, alpha),
	}
	if hasEffect {
		result.HasEffectSize = true
		result.EffectSize = effect
		result.EffectKind = effectKind
	}
	return result, nil
}

// TestCategoricalCategorical runs a chi-square test of independence over
// the cross-tabulation of two categorical columns.
func (s *TestSelector) TestCategoricalCategorical(ds *dataset.Dataset, colA, colB core.ColumnName, alpha float64) (stats.TestResult, error) {
	table, err := ds.CrossTab(colA, colB)
	if err != nil {
		return stats.TestResult{}, err
	}

	chi2, p, n := chiSquareIndependence(table)
	effect := CramersV(chi2, n, len(table), len(table[0]))

	h0, h1 := stats.HypothesisText(stats.TestChiSquare, colA, colB)
	result := stats.TestResult{
		Kind:         stats.TestChiSquare,
		Columns:      []core.ColumnName{colA, colB},
		H0:           h0,
		H1:           h1,
		Statistic:    chi2,
		PValue:       p,
		Alpha:        alpha,
		Significance: stats.SignificanceLabel(p, alpha),
	}
	if !math.IsNaN(effect) {
		result.HasEffectSize = true
		result.EffectSize = effect
		result.EffectKind = stats.EffectCramersV
	}
	return result, nil
}

// TestNumericNumeric correlates two numeric columns: Pearson when both
// pass the normality oracle, Spearman otherwise. Rows missing either
// value are dropped pairwise so the two series stay aligned.
func (s *TestSelector) TestNumericNumeric(ds *dataset.Dataset, colA, colB core.ColumnName, alpha float64) (stats.TestResult, error) {
	xs, ys, err := ds.PairedNumeric(colA, colB)
	if err != nil {
		return stats.TestResult{}, err
	}
	if len(xs) < 3 {
		return stats.TestResult{}, core.ErrInsufficientData
	}

	var (
		kind      stats.TestKind
		statistic float64
		p         float64
	)
	if s.oracle.IsNormal(xs) && s.oracle.IsNormal(ys) {
		kind = stats.TestPearson
		statistic, p = pearsonCorrelation(xs, ys)
	} else {
		kind = stats.TestSpearman
		statistic, p = spearmanCorrelation(xs, ys)
	}

	h0, h1 := stats.HypothesisText(kind, colA, colB)
	return stats.TestResult{
		Kind:         kind,
		Columns:      []core.ColumnName{colA, colB},
		H0:           h0,
		H1:           h1,
		Statistic:    statistic,
		PValue:       p,
		Alpha:        alpha,
		Significance: stats.SignificanceLabel(p, alpha),
		Strength:     stats.CorrelationStrength(statistic),
	}, nil
}
