package questions

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"autostat/adapters/stats/engine"
	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal/profiling"
	"autostat/internal/testkit"
)

func newGenerator(cfg Config) *Generator {
	return NewGenerator(cfg, engine.NewTestSelector(engine.NewNormalityOracle(42)))
}

func generate(t *testing.T, g *Generator, ds *dataset.Dataset) []stats.Question {
	t.Helper()
	return g.Generate(ds, profiling.NewProfiler().Profile(ds))
}

func byKind(qs []stats.Question, kind stats.QuestionKind) []stats.Question {
	out := []stats.Question{}
	for _, q := range qs {
		if q.Kind == kind {
			out = append(out, q)
		}
	}
	return out
}

func TestGenerate_CorrelationCap(t *testing.T) {
	// Four tightly coupled numeric columns give six correlated pairs.
	base := testkit.NormalColumn("m0", 100, 0, 1, 1)
	cols := []dataset.Column{base}
	for i, seed := range []int64{2, 3, 4} {
		c := testkit.LinearColumn(fmt.Sprintf("m%d", i+1), base.Numeric, 1, 0.1, seed)
		cols = append(cols, c)
	}
	ds := testkit.MustDataset(cols...)

	g := newGenerator(Config{MaxCorrQuestions: 2})
	qs := byKind(generate(t, g, ds), stats.QuestionCorrelation)

	if len(qs) != 2 {
		t.Fatalf("Expected correlation questions capped at 2, got %d", len(qs))
	}
	for _, q := range qs {
		if len(q.Columns) != 2 {
			t.Errorf("Correlation question must reference 2 columns: %+v", q)
		}
		if !strings.Contains(q.Text, q.Columns[0].Quoted()) {
			t.Errorf("Question text must quote its columns: %q", q.Text)
		}
	}
}

func TestGenerate_UncorrelatedPairsSkipped(t *testing.T) {
	x := testkit.NormalColumn("x", 100, 0, 1, 5)
	y := testkit.NormalColumn("y", 100, 0, 1, 99)
	ds := testkit.MustDataset(x, y)

	qs := byKind(generate(t, newGenerator(DefaultConfig()), ds), stats.QuestionCorrelation)
	if len(qs) != 0 {
		t.Errorf("Independent columns must not trigger correlation questions, got %d", len(qs))
	}
}

func TestGenerate_SkewAndKurtosisTriggers(t *testing.T) {
	skewed := testkit.SkewedColumn("income", 200, 6)
	symmetric := testkit.NormalColumn("height", 200, 170, 5, 7)
	ds := testkit.MustDataset(skewed, symmetric)

	qs := generate(t, newGenerator(DefaultConfig()), ds)

	skewQs := byKind(qs, stats.QuestionSkewness)
	if len(skewQs) != 1 {
		t.Fatalf("Expected exactly 1 skewness question, got %d", len(skewQs))
	}
	if skewQs[0].Columns[0] != "income" {
		t.Errorf("Skew question should target 'income', got %v", skewQs[0].Columns)
	}
	if !strings.Contains(skewQs[0].Text, "highly skewed") {
		t.Errorf("Unexpected skew question text: %q", skewQs[0].Text)
	}
}

func TestGenerate_GroupDifferenceQuestions(t *testing.T) {
	groups := testkit.GroupColumn("region", 90, "north", "south", "west")
	sales := testkit.NormalColumn("sales", 90, 100, 10, 8)
	ds := testkit.MustDataset(groups, sales)

	qs := byKind(generate(t, newGenerator(DefaultConfig()), ds), stats.QuestionGroupDifference)
	if len(qs) != 1 {
		t.Fatalf("Expected 1 group-difference question, got %d", len(qs))
	}
	q := qs[0]
	if q.Columns[0] != "region" || q.Columns[1] != "sales" {
		t.Errorf("Expected columns [region, sales], got %v", q.Columns)
	}
	if !strings.Contains(q.Text, "t-test/ANOVA") {
		t.Errorf("Unexpected question text: %q", q.Text)
	}
}

func TestGenerate_HighCardinalitySkipsGroupQuestions(t *testing.T) {
	n := 60
	labels := make([]string, n)
	for i := range labels {
		labels[i] = "user_" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	id := dataset.Column{Name: "user_id", Kind: dataset.KindCategorical, Labels: labels}
	sales := testkit.NormalColumn("sales", n, 0, 1, 9)
	ds := testkit.MustDataset(id, sales)

	qs := generate(t, newGenerator(Config{MaxCategoryLevels: 10}), ds)
	if got := byKind(qs, stats.QuestionGroupDifference); len(got) != 0 {
		t.Errorf("High-cardinality categorical must not trigger group questions, got %d", len(got))
	}
}

func TestGenerate_AssociationQuestions(t *testing.T) {
	a, b := testkit.AssociatedPair("side", "direction", 100, 10)
	c := testkit.GroupColumn("tier", 100, "gold", "silver")
	ds := testkit.MustDataset(a, b, c)

	qs := byKind(generate(t, newGenerator(DefaultConfig()), ds), stats.QuestionAssociation)
	// Three categorical columns yield three pairs.
	if len(qs) != 3 {
		t.Fatalf("Expected 3 association questions, got %d", len(qs))
	}
	if !strings.Contains(qs[0].Text, "Chi-square") {
		t.Errorf("Unexpected question text: %q", qs[0].Text)
	}
}

func TestGenerate_MissingThreshold(t *testing.T) {
	// 1 in 3 missing is above the 5% threshold; a fully present column
	// stays quiet.
	gappy := testkit.WithMissing(testkit.NormalColumn("gappy", 90, 0, 1, 11), 3)
	full := testkit.NormalColumn("full", 90, 0, 1, 12)
	ds := testkit.MustDataset(gappy, full)

	qs := byKind(generate(t, newGenerator(DefaultConfig()), ds), stats.QuestionMissing)
	if len(qs) != 1 {
		t.Fatalf("Expected 1 missing-data question, got %d", len(qs))
	}
	if qs[0].Columns[0] != "gappy" {
		t.Errorf("Expected 'gappy' to trigger, got %v", qs[0].Columns)
	}
}

func TestGenerate_DuplicatesSingleQuestion(t *testing.T) {
	ds := testkit.MustDataset(dataset.Column{
		Name: "v", Kind: dataset.KindCategorical,
		Labels: []string{"a", "a", "a", "b"},
	})

	qs := byKind(generate(t, newGenerator(DefaultConfig()), ds), stats.QuestionDuplicates)
	if len(qs) != 1 {
		t.Fatalf("Expected a single duplicates question, got %d", len(qs))
	}
	if len(qs[0].Columns) != 0 {
		t.Errorf("Duplicates question is dataset-wide, got columns %v", qs[0].Columns)
	}
}

func dateColumn(name string, n int) dataset.Column {
	times := make([]time.Time, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = start.AddDate(0, 0, i)
	}
	return dataset.Column{Name: core.ColumnName(name), Kind: dataset.KindDatetime, Times: times}
}

func TestGenerate_TrendQuestions(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NormalColumn("revenue", 30, 100, 10, 13),
		dateColumn("day", 30),
	)

	qs := byKind(generate(t, newGenerator(DefaultConfig()), ds), stats.QuestionTrend)
	// One seasonal question for the date column plus one change-over-time
	// question per numeric column.
	if len(qs) != 2 {
		t.Fatalf("Expected 2 trend questions, got %d", len(qs))
	}
}
