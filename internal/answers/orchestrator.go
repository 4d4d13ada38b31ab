// Package answers re-derives, from each generated or externally supplied
// question, which columns and which test family it implies, and dispatches
// to the test selector or to simpler descriptive computations.
package answers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"autostat/adapters/stats/engine"
	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal/profiling"
)

// columnRefPattern recovers the single-quoted column references embedded
// in question text. It must extract exactly the names the generator
// quoted.
var columnRefPattern = regexp.MustCompile(`'([^']+)'`)

// simpleMetricPatterns match questions about trivial aggregates that are
// intentionally not auto-answered.
var simpleMetricPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bmean\b`),
	regexp.MustCompile(`\baverage\b`),
	regexp.MustCompile(`\bmax\b`),
	regexp.MustCompile(`\bmin\b`),
	regexp.MustCompile(`\bmedian\b`),
	regexp.MustCompile(`\bsum\b`),
	regexp.MustCompile(`\bcount\b`),
}

// Config tunes the orchestrator.
type Config struct {
	Alpha float64
	// Workers bounds concurrent question evaluation. Questions are
	// independent, so values above 1 fan out over an immutable dataset
	// snapshot. 1 keeps evaluation sequential.
	Workers int
}

// DefaultConfig returns the published defaults.
func DefaultConfig() Config {
	return Config{Alpha: 0.05, Workers: 1}
}

// Orchestrator answers questions against a read-only dataset snapshot.
// It never fails as a whole: each question either produces an answer, an
// error string, or is silently skipped.
type Orchestrator struct {
	cfg      Config
	selector *engine.TestSelector
}

// NewOrchestrator creates an orchestrator around a test selector.
func NewOrchestrator(cfg Config, selector *engine.TestSelector) *Orchestrator {
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		cfg.Alpha = 0.05
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Orchestrator{cfg: cfg, selector: selector}
}

// Answer evaluates every question and returns the insertion-ordered
// answer set. Question order is preserved; skipped questions leave no
// entry.
func (o *Orchestrator) Answer(ctx context.Context, ds *dataset.Dataset, qs []stats.Question) *stats.AnswerSet {
	type outcome struct {
		text string
		ok   bool
	}
	results := make([]outcome, len(qs))

	if o.cfg.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.Workers)
		for i, q := range qs {
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				text, ok := o.answerOne(ds, q)
				results[i] = outcome{text: text, ok: ok}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, q := range qs {
			text, ok := o.answerOne(ds, q)
			results[i] = outcome{text: text, ok: ok}
		}
	}

	set := stats.NewAnswerSet()
	for i, q := range qs {
		if results[i].ok {
			set.Add(q.Text, results[i].text)
		}
	}
	return set
}

// answerOne evaluates a single question. The boolean reports whether an
// answer entry should be recorded. Unexpected failures inside statistical
// routines surface as error strings, never as panics.
func (o *Orchestrator) answerOne(ds *dataset.Dataset, q stats.Question) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("Error answering question: %v", r)
			ok = true
		}
	}()

	lower := strings.ToLower(q.Text)
	for _, p := range simpleMetricPatterns {
		if p.MatchString(lower) {
			return "", false
		}
	}

	kind := q.Kind
	cols := q.Columns
	if kind == stats.QuestionUntagged {
		cols = ExtractColumns(q.Text)
		kind = inferKind(lower, len(cols))
	}

	switch kind {
	case stats.QuestionCorrelation:
		return o.answerCorrelation(ds, cols)
	case stats.QuestionSkewness:
		return o.answerSkewness(ds, cols)
	case stats.QuestionKurtosis:
		return o.answerKurtosis(ds, cols)
	case stats.QuestionOutliers:
		return o.answerOutliers(ds, cols)
	case stats.QuestionGroupDifference:
		return o.answerGroupDifference(ds, cols)
	case stats.QuestionAssociation:
		return o.answerAssociation(ds, cols)
	case stats.QuestionMissing:
		return o.answerMissing(ds, cols)
	case stats.QuestionDuplicates:
		return fmt.Sprintf("Dataset contains %d duplicate rows.", ds.DuplicateRowCount()), true
	case stats.QuestionTrend:
		if len(cols) != 1 {
			return "", false
		}
		return fmt.Sprintf("Trend analysis for %s requires time-series decomposition and is not automated here.", cols[0].Quoted()), true
	}
	return "", false
}

// ExtractColumns recovers the column names referenced in single quotes.
func ExtractColumns(text string) []core.ColumnName {
	matches := columnRefPattern.FindAllStringSubmatch(text, -1)
	out := make([]core.ColumnName, 0, len(matches))
	for _, m := range matches {
		out = append(out, core.ColumnName(m[1]))
	}
	return out
}

// inferKind maps free-form question text onto a question kind using the
// keyword priority order: correlation, skew, kurtosis, outlier,
// difference, association, missing, duplicate, trend.
func inferKind(lower string, colCount int) stats.QuestionKind {
	switch {
	case strings.Contains(lower, "correlation") && colCount == 2:
		return stats.QuestionCorrelation
	case strings.Contains(lower, "skew") && colCount == 1:
		return stats.QuestionSkewness
	case strings.Contains(lower, "kurtosis") && colCount == 1:
		return stats.QuestionKurtosis
	case strings.Contains(lower, "outlier") && colCount == 1:
		return stats.QuestionOutliers
	case strings.Contains(lower, "different") && colCount == 2:
		return stats.QuestionGroupDifference
	case strings.Contains(lower, "association") && colCount == 2:
		return stats.QuestionAssociation
	case strings.Contains(lower, "missing") && colCount == 1:
		return stats.QuestionMissing
	case strings.Contains(lower, "duplicate"):
		return stats.QuestionDuplicates
	case strings.Contains(lower, "trend"):
		return stats.QuestionTrend
	}
	return stats.QuestionUntagged
}

func (o *Orchestrator) answerCorrelation(ds *dataset.Dataset, cols []core.ColumnName) (string, bool) {
	if len(cols) != 2 {
		return "", false
	}
	for _, name := range cols {
		col, found := ds.Column(name)
		if !found {
			return columnNotFound(name), true
		}
		if col.Kind != dataset.KindNumeric {
			return "", false
		}
	}
	result, err := o.selector.TestNumericNumeric(ds, cols[0], cols[1], o.cfg.Alpha)
	return renderOutcome(result, err)
}

func (o *Orchestrator) answerGroupDifference(ds *dataset.Dataset, cols []core.ColumnName) (string, bool) {
	if len(cols) != 2 {
		return "", false
	}
	catCol, numCol := cols[0], cols[1]
	cat, found := ds.Column(catCol)
	if !found {
		return columnNotFound(catCol), true
	}
	num, found := ds.Column(numCol)
	if !found {
		return columnNotFound(numCol), true
	}
	if cat.Kind != dataset.KindCategorical || num.Kind != dataset.KindNumeric {
		return "", false
	}
	result, err := o.selector.TestNumericCategorical(ds, catCol, numCol, o.cfg.Alpha)
	return renderOutcome(result, err)
}

func (o *Orchestrator) answerAssociation(ds *dataset.Dataset, cols []core.ColumnName) (string, bool) {
	if len(cols) != 2 {
		return "", false
	}
	for _, name := range cols {
		col, found := ds.Column(name)
		if !found {
			return columnNotFound(name), true
		}
		if col.Kind != dataset.KindCategorical {
			return "", false
		}
	}
	result, err := o.selector.TestCategoricalCategorical(ds, cols[0], cols[1], o.cfg.Alpha)
	return renderOutcome(result, err)
}

func (o *Orchestrator) answerSkewness(ds *dataset.Dataset, cols []core.ColumnName) (string, bool) {
	summary, name, errText, ok := o.numericSummary(ds, cols)
	if !ok {
		return errText, errText != ""
	}
	label := "Relatively symmetric"
	if summary.Skewness > 1 || summary.Skewness < -1 {
		label = "Highly skewed"
	}
	return fmt.Sprintf("%s skewness = %.2f (%s).", name.Quoted(), summary.Skewness, label), true
}

func (o *Orchestrator) answerKurtosis(ds *dataset.Dataset, cols []core.ColumnName) (string, bool) {
	summary, name, errText, ok := o.numericSummary(ds, cols)
	if !ok {
		return errText, errText != ""
	}
	var shape string
	switch {
	case summary.Kurtosis > 3:
		shape = "Leptokurtic (heavy tails)"
	case summary.Kurtosis < 3:
		shape = "Platykurtic (light tails)"
	default:
		shape = "Mesokurtic (normal-like)"
	}
	return fmt.Sprintf("%s kurtosis = %.2f (%s).", name.Quoted(), summary.Kurtosis, shape), true
}

func (o *Orchestrator) answerOutliers(ds *dataset.Dataset, cols []core.ColumnName) (string, bool) {
	summary, name, errText, ok := o.numericSummary(ds, cols)
	if !ok {
		return errText, errText != ""
	}
	return fmt.Sprintf("%s has %d outliers detected using IQR method.", name.Quoted(), summary.OutlierCount), true
}

func (o *Orchestrator) answerMissing(ds *dataset.Dataset, cols []core.ColumnName) (string, bool) {
	if len(cols) != 1 {
		return "", false
	}
	col, found := ds.Column(cols[0])
	if !found {
		return columnNotFound(cols[0]), true
	}
	pct := col.MissingPercent()
	if pct > 0 {
		return fmt.Sprintf("Missing data in %s: %.1f%%.", cols[0].Quoted(), pct), true
	}
	return fmt.Sprintf("No missing data in %s.", cols[0].Quoted()), true
}

// numericSummary resolves a single numeric column reference and profiles
// it. The returned bool reports whether the caller should proceed; when
// false a non-empty errText is itself the answer.
func (o *Orchestrator) numericSummary(ds *dataset.Dataset, cols []core.ColumnName) (profiling.DistributionSummary, core.ColumnName, string, bool) {
	if len(cols) != 1 {
		return profiling.DistributionSummary{}, "", "", false
	}
	col, found := ds.Column(cols[0])
	if !found {
		return profiling.DistributionSummary{}, "", columnNotFound(cols[0]), false
	}
	if col.Kind != dataset.KindNumeric {
		return profiling.DistributionSummary{}, "", "", false
	}
	summary, err := profiling.Summarize(col.Numeric)
	if err != nil {
		// Empty series: nothing to describe.
		return profiling.DistributionSummary{}, "", "", false
	}
	return summary, cols[0], "", true
}

func renderOutcome(result stats.TestResult, err error) (string, bool) {
	if err != nil {
		if core.IsSkip(err) {
			return "", false
		}
		return fmt.Sprintf("Error answering question: %v", err), true
	}
	return result.Render(), true
}

func columnNotFound(name core.ColumnName) string {
	return fmt.Sprintf("Error answering question: %v", core.NewColumnNotFoundError(string(name)))
}
