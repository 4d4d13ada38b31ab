// Package questions synthesizes analytical questions from heuristic
// triggers over a profiled dataset. Every question references its columns
// in single quotes; that quoting convention is the contract the answer
// orchestrator's extraction step consumes.
package questions

import (
	"fmt"
	"math"

	"autostat/adapters/stats/engine"
	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal/profiling"
)

// Config bounds question generation.
type Config struct {
	// MaxCorrQuestions caps emitted correlation questions; first pairs
	// above threshold win, iterated in column order.
	MaxCorrQuestions int
	// MaxCategoryLevels is the cardinality ceiling for categorical
	// columns to participate in group and association questions.
	MaxCategoryLevels int
	// CorrThreshold is the minimum |r| that makes a pair interesting.
	CorrThreshold float64
}

// DefaultConfig mirrors the published defaults.
func DefaultConfig() Config {
	return Config{MaxCorrQuestions: 5, MaxCategoryLevels: 10, CorrThreshold: 0.3}
}

// Generator scans a classified dataset and emits tagged questions.
type Generator struct {
	cfg      Config
	selector *engine.TestSelector
}

// NewGenerator creates a generator that shares the selector's normality
// oracle for Pearson-vs-Spearman decisions.
func NewGenerator(cfg Config, selector *engine.TestSelector) *Generator {
	if cfg.MaxCorrQuestions <= 0 {
		cfg.MaxCorrQuestions = 5
	}
	if cfg.MaxCategoryLevels <= 0 {
		cfg.MaxCategoryLevels = 10
	}
	if cfg.CorrThreshold <= 0 {
		cfg.CorrThreshold = 0.3
	}
	return &Generator{cfg: cfg, selector: selector}
}

// Generate runs every rule in a fixed order and returns the triggered
// questions. The dataset is read-only for the duration of the pass.
func (g *Generator) Generate(ds *dataset.Dataset, profile profiling.DatasetProfile) []stats.Question {
	var out []stats.Question

	numericCols := ds.ColumnsOfKind(dataset.KindNumeric)
	catCols := ds.ColumnsOfKind(dataset.KindCategorical)
	dateCols := ds.ColumnsOfKind(dataset.KindDatetime)

	out = append(out, g.correlationQuestions(ds, numericCols)...)
	out = append(out, g.distributionQuestions(profile, numericCols)...)
	out = append(out, g.groupDifferenceQuestions(ds, catCols, numericCols)...)
	out = append(out, g.associationQuestions(ds, catCols)...)
	out = append(out, g.trendQuestions(dateCols, numericCols)...)
	out = append(out, g.outlierQuestions(profile, numericCols)...)
	out = append(out, g.missingQuestions(profile)...)
	out = append(out, g.duplicateQuestions(profile)...)

	return out
}

func (g *Generator) correlationQuestions(ds *dataset.Dataset, numericCols []core.ColumnName) []stats.Question {
	var out []stats.Question
	added := 0
	for i := 0; i < len(numericCols) && added < g.cfg.MaxCorrQuestions; i++ {
		for j := i + 1; j < len(numericCols) && added < g.cfg.MaxCorrQuestions; j++ {
			col1, col2 := numericCols[i], numericCols[j]
			result, err := g.selector.TestNumericNumeric(ds, col1, col2, 0.05)
			if err != nil {
				continue
			}
			r := result.Statistic
			if math.IsNaN(r) || math.Abs(r) <= g.cfg.CorrThreshold {
				continue
			}
			strength := "moderate"
			if math.Abs(r) > 0.7 {
				strength = "strong"
			}
			method := "Spearman"
			if result.Kind == stats.TestPearson {
				method = "Pearson"
			}
			out = append(out, stats.Question{
				Text: fmt.Sprintf("Does the %s %s correlation (r=%.2f) between %s and %s indicate potential causal or confounding factors worth testing?",
					strength, method, r, col1.Quoted(), col2.Quoted()),
				Kind:    stats.QuestionCorrelation,
				Columns: []core.ColumnName{col1, col2},
			})
			added++
		}
	}
	return out
}

func (g *Generator) distributionQuestions(profile profiling.DatasetProfile, numericCols []core.ColumnName) []stats.Question {
	var out []stats.Question
	for _, col := range numericCols {
		p, ok := profile.Column(col)
		if !ok || p.Summary == nil {
			continue
		}
		if math.Abs(p.Summary.Skewness) > 1 {
			out = append(out, stats.Question{
				Text: fmt.Sprintf("%s is highly skewed (skew=%.2f); should transformation or robust statistics be used?",
					col.Quoted(), p.Summary.Skewness),
				Kind:    stats.QuestionSkewness,
				Columns: []core.ColumnName{col},
			})
		}
		if p.Summary.Kurtosis > 3 {
			out = append(out, stats.Question{
				Text: fmt.Sprintf("%s has high kurtosis (%.2f); are heavy tails affecting hypothesis test validity?",
					col.Quoted(), p.Summary.Kurtosis),
				Kind:    stats.QuestionKurtosis,
				Columns: []core.ColumnName{col},
			})
		}
	}
	return out
}

func (g *Generator) groupDifferenceQuestions(ds *dataset.Dataset, catCols, numericCols []core.ColumnName) []stats.Question {
	var out []stats.Question
	for _, cat := range catCols {
		col, _ := ds.Column(cat)
		if col.Cardinality() > g.cfg.MaxCategoryLevels {
			continue
		}
		for _, num := range numericCols {
			out = append(out, stats.Question{
				Text: fmt.Sprintf("Do different %s categories show significant differences in %s means (t-test/ANOVA) or medians (Kruskal-Wallis) depending on normality?",
					cat.Quoted(), num.Quoted()),
				Kind:    stats.QuestionGroupDifference,
				Columns: []core.ColumnName{cat, num},
			})
		}
	}
	return out
}

func (g *Generator) associationQuestions(ds *dataset.Dataset, catCols []core.ColumnName) []stats.Question {
	var out []stats.Question
	for i := 0; i < len(catCols); i++ {
		for j := i + 1; j < len(catCols); j++ {
			a, _ := ds.Column(catCols[i])
			b, _ := ds.Column(catCols[j])
			if a.Cardinality() > g.cfg.MaxCategoryLevels || b.Cardinality() > g.cfg.MaxCategoryLevels {
				continue
			}
			out = append(out, stats.Question{
				Text: fmt.Sprintf("Is there an association between %s and %s (Chi-square test with Cramér's V effect size)?",
					catCols[i].Quoted(), catCols[j].Quoted()),
				Kind:    stats.QuestionAssociation,
				Columns: []core.ColumnName{catCols[i], catCols[j]},
			})
		}
	}
	return out
}

func (g *Generator) trendQuestions(dateCols, numericCols []core.ColumnName) []stats.Question {
	var out []stats.Question
	for _, col := range dateCols {
		out = append(out, stats.Question{
			Text: fmt.Sprintf("Are there seasonal or trend components in %s detectable via time-series decomposition?",
				col.Quoted()),
			Kind:    stats.QuestionTrend,
			Columns: []core.ColumnName{col},
		})
		for _, num := range numericCols {
			out = append(out, stats.Question{
				Text: fmt.Sprintf("Does %s change significantly over time based on %s (trend analysis, Mann-Kendall test)?",
					num.Quoted(), col.Quoted()),
				Kind:    stats.QuestionTrend,
				Columns: []core.ColumnName{num, col},
			})
		}
	}
	return out
}

func (g *Generator) outlierQuestions(profile profiling.DatasetProfile, numericCols []core.ColumnName) []stats.Question {
	var out []stats.Question
	for _, col := range numericCols {
		p, ok := profile.Column(col)
		if !ok || p.Summary == nil || p.Summary.OutlierCount == 0 {
			continue
		}
		out = append(out, stats.Question{
			Text: fmt.Sprintf("Do the %d outliers in %s materially influence model parameters or statistical significance?",
				p.Summary.OutlierCount, col.Quoted()),
			Kind:    stats.QuestionOutliers,
			Columns: []core.ColumnName{col},
		})
	}
	return out
}

func (g *Generator) missingQuestions(profile profiling.DatasetProfile) []stats.Question {
	var out []stats.Question
	for _, p := range profile.Columns {
		if p.MissingCount == 0 || p.MissingPercent <= 5 {
			continue
		}
		out = append(out, stats.Question{
			Text: fmt.Sprintf("With %.1f%% missing in %s, is advanced imputation (e.g., MICE) preferable over deletion?",
				p.MissingPercent, p.Name.Quoted()),
			Kind:    stats.QuestionMissing,
			Columns: []core.ColumnName{p.Name},
		})
	}
	return out
}

func (g *Generator) duplicateQuestions(profile profiling.DatasetProfile) []stats.Question {
	if profile.DuplicateRows == 0 {
		return nil
	}
	return []stats.Question{{
		Text: "Could duplicate rows introduce bias in model coefficients or inflate statistical significance?",
		Kind: stats.QuestionDuplicates,
	}}
}
