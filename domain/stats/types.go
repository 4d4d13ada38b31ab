package stats

import (
	"fmt"
	"math"
	"strings"

	"autostat/domain/core"
)

// TestKind identifies the statistical procedure behind a TestResult.
type TestKind string

const (
	TestTTest       TestKind = "t-test"
	TestANOVA       TestKind = "anova"
	TestMannWhitney TestKind = "mann-whitney"
	TestKruskal     TestKind = "kruskal"
	TestChiSquare   TestKind = "chi-square"
	TestPearson     TestKind = "pearson-correlation"
	TestSpearman    TestKind = "spearman-correlation"
)

// DisplayName returns the test name used in rendered conclusions.
func (k TestKind) DisplayName() string {
	switch k {
	case TestTTest:
		return "T-TEST"
	case TestANOVA:
		return "ANOVA"
	case TestMannWhitney:
		return "MANN-WHITNEY"
	case TestKruskal:
		return "KRUSKAL"
	case TestChiSquare:
		return "Chi-square"
	case TestPearson:
		return "Pearson Correlation"
	case TestSpearman:
		return "Spearman Correlation"
	}
	return string(k)
}

// Significance labels for the alpha comparison.
const (
	Significant    = "Significant"
	NotSignificant = "Not significant"
)

// EffectSizeKind names the effect-size statistic attached to a result.
type EffectSizeKind string

const (
	EffectCohensD    EffectSizeKind = "cohens_d"
	EffectEtaSquared EffectSizeKind = "eta_squared"
	EffectCramersV   EffectSizeKind = "cramers_v"
)

// TestResult is the immutable record of one executed hypothesis test.
type TestResult struct {
	Kind         TestKind          `json:"test"`
	Columns      []core.ColumnName `json:"columns"`
	H0           string            `json:"h0"`
	H1           string            `json:"h1"`
	Statistic    float64           `json:"stat"`
	PValue       float64           `json:"p_value"`
	Alpha        float64           `json:"alpha"`
	Significance string            `json:"significance"`
	// EffectSize is NaN-guarded: HasEffectSize gates rendering.
	HasEffectSize bool           `json:"has_effect_size"`
	EffectSize    float64        `json:"effect_size,omitempty"`
	EffectKind    EffectSizeKind `json:"effect_kind,omitempty"`
	// Strength is set for correlation tests only.
	Strength string `json:"correlation_strength,omitempty"`
}

// SignificanceLabel maps a p-value and alpha to the display label.
func SignificanceLabel(p, alpha float64) string {
	if p < alpha {
		return Significant
	}
	return NotSignificant
}

// CorrelationStrength classifies a correlation coefficient magnitude.
func CorrelationStrength(r float64) string {
	switch {
	case math.Abs(r) > 0.7:
		return "Strong"
	case math.Abs(r) > 0.3:
		return "Moderate"
	default:
		return "Weak"
	}
}

// Render formats the result into the fixed textual template consumed by
// reporting collaborators. The markers "Test:" and "H₀" are load-bearing:
// downstream code separates hypothesis-test answers from descriptive
// one-liners by sniffing for them.
func (r TestResult) Render() string {
	return fmt.Sprintf("Test: %s\nH₀: %s\nH₁: %s\nConclusion: %s",
		r.Kind.DisplayName(), r.H0, r.H1, r.Significance)
}

// IsHypothesisAnswer reports whether a rendered answer string came from a
// TestResult, using the marker convention from Render.
func IsHypothesisAnswer(answer string) bool {
	return strings.Contains(answer, "Test:") &&
		(strings.Contains(answer, "H₀") || strings.Contains(answer, "H0"))
}

// QuestionKind tags generated questions with the analysis they imply, so
// the orchestrator can dispatch without re-parsing text.
type QuestionKind string

const (
	QuestionCorrelation     QuestionKind = "correlation"
	QuestionSkewness        QuestionKind = "skewness"
	QuestionKurtosis        QuestionKind = "kurtosis"
	QuestionOutliers        QuestionKind = "outliers"
	QuestionGroupDifference QuestionKind = "group_difference"
	QuestionAssociation     QuestionKind = "association"
	QuestionMissing         QuestionKind = "missing"
	QuestionDuplicates      QuestionKind = "duplicates"
	QuestionTrend           QuestionKind = "trend"
	// QuestionUntagged marks externally supplied free-form questions;
	// dispatch falls back to keyword matching for these.
	QuestionUntagged QuestionKind = ""
)

// Question pairs free-form text with the columns it references. Generated
// questions carry an explicit kind; external ones arrive untagged.
type Question struct {
	Text    string
	Kind    QuestionKind
	Columns []core.ColumnName
}

// NewQuestion builds an untagged question from raw text.
func NewQuestion(text string) Question {
	return Question{Text: text, Kind: QuestionUntagged}
}

// Answer is one entry of an AnswerSet.
type Answer struct {
	Question string `json:"question"`
	Text     string `json:"answer"`
}

// AnswerSet is an insertion-ordered mapping of question text to rendered
// answer text. Absent questions were silently skipped.
type AnswerSet struct {
	order   []string
	answers map[string]string
}

func NewAnswerSet() *AnswerSet {
	return &AnswerSet{answers: map[string]string{}}
}

// Add records an answer, preserving first-insertion order. Re-adding the
// same question overwrites the text in place.
func (s *AnswerSet) Add(question, answer string) {
	if _, ok := s.answers[question]; !ok {
		s.order = append(s.order, question)
	}
	s.answers[question] = answer
}

// Get looks up the answer for a question.
func (s *AnswerSet) Get(question string) (string, bool) {
	a, ok := s.answers[question]
	return a, ok
}

// Len returns the number of answered questions.
func (s *AnswerSet) Len() int { return len(s.order) }

// All returns the answers in insertion order.
func (s *AnswerSet) All() []Answer {
	out := make([]Answer, 0, len(s.order))
	for _, q := range s.order {
		out = append(out, Answer{Question: q, Text: s.answers[q]})
	}
	return out
}

// HypothesisResults returns the subset of answers rendered from
// TestResults, identified by the marker convention.
func (s *AnswerSet) HypothesisResults() []Answer {
	out := []Answer{}
	for _, a := range s.All() {
		if IsHypothesisAnswer(a.Text) {
			out = append(out, a)
		}
	}
	return out
}
