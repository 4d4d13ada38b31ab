package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autostat/app"
	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal/profiling"
)

func sampleAnalysis() *app.Analysis {
	set := stats.NewAnswerSet()
	set.Add("Do the 3 outliers in 'sales' matter?", "'sales' has 3 outliers detected using IQR method.")
	set.Add("Do different 'region' categories differ in 'sales'?", stats.TestResult{
		Kind:         stats.TestANOVA,
		H0:           "No difference in 'sales' means across 'region' groups",
		H1:           "Significant difference in 'sales' means across 'region' groups",
		Significance: stats.Significant,
	}.Render())

	return &app.Analysis{
		RunID:     core.RunID(core.NewID()),
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Alpha:     0.05,
		Profile: profiling.DatasetProfile{
			RowCount:      120,
			DuplicateRows: 2,
			Columns: []profiling.ColumnProfile{
				{
					Name: "sales", Kind: dataset.KindNumeric,
					Summary: &profiling.DistributionSummary{Mean: 104.2, StdDev: 9.7, Skewness: 0.4},
				},
				{
					Name: "region", Kind: dataset.KindCategorical, Cardinality: 3,
					TopCounts: []profiling.LabelCount{{Label: "north", Count: 51}},
				},
			},
		},
		Questions: []string{
			"Do the 3 outliers in 'sales' matter?",
			"Do different 'region' categories differ in 'sales'?",
		},
		Answers: set,
	}
}

func TestMarkdown_Sections(t *testing.T) {
	md := NewBuilder().Markdown(sampleAnalysis())

	assert.Contains(t, md, "# Automated Statistical Analysis Report")
	assert.Contains(t, md, "## Dataset Overview")
	assert.Contains(t, md, "- Rows: 120")
	assert.Contains(t, md, "- Duplicate rows: 2")
	assert.Contains(t, md, "## Column Profiles")
	assert.Contains(t, md, "| sales | numeric |")
	assert.Contains(t, md, "## Questions and Answers")
	assert.Contains(t, md, "**Q1. Do the 3 outliers in 'sales' matter?**")
	assert.Contains(t, md, "## Hypothesis Test Results")
	assert.Contains(t, md, "1 formal hypothesis tests were run")
}

func TestMarkdown_NoHypothesesOmitsSection(t *testing.T) {
	a := sampleAnalysis()
	set := stats.NewAnswerSet()
	set.Add("q", "plain descriptive answer")
	a.Answers = set

	md := NewBuilder().Markdown(a)
	assert.NotContains(t, md, "## Hypothesis Test Results")
}

func TestHTML_RendersTablesAndHeadings(t *testing.T) {
	out := string(NewBuilder().HTML(sampleAnalysis()))

	require.NotEmpty(t, out)
	assert.True(t, strings.Contains(out, "<h1"), "expected rendered h1 in %q", out)
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "Dataset Overview")
}
