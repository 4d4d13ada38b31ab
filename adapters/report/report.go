// Package report assembles analysis output into a Markdown document and
// renders it to HTML for the web surface.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"autostat/app"
	"autostat/domain/dataset"
	"autostat/internal/profiling"
)

// Builder assembles markdown reports from completed analyses.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Markdown renders the full report: overview, column profiles, the
// question and answer log, and the hypothesis test results.
func (b *Builder) Markdown(a *app.Analysis) string {
	var sb strings.Builder

	sb.WriteString("# Automated Statistical Analysis Report\n\n")
	fmt.Fprintf(&sb, "Run `%s`, generated %s.\n\n", a.RunID, a.CreatedAt.Format("2006-01-02 15:04:05"))

	b.writeOverview(&sb, a)
	b.writeColumns(&sb, a)
	b.writeQuestions(&sb, a)
	b.writeHypotheses(&sb, a)

	return sb.String()
}

// HTML renders the report as an HTML fragment.
func (b *Builder) HTML(a *app.Analysis) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(b.Markdown(a)))
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, r)
}

func (b *Builder) writeOverview(sb *strings.Builder, a *app.Analysis) {
	sb.WriteString("## Dataset Overview\n\n")
	fmt.Fprintf(sb, "- Rows: %d\n", a.Profile.RowCount)
	fmt.Fprintf(sb, "- Columns: %d\n", len(a.Profile.Columns))
	fmt.Fprintf(sb, "- Duplicate rows: %d\n", a.Profile.DuplicateRows)
	fmt.Fprintf(sb, "- Significance level: %.2f\n\n", a.Alpha)
}

func (b *Builder) writeColumns(sb *strings.Builder, a *app.Analysis) {
	sb.WriteString("## Column Profiles\n\n")
	sb.WriteString("| Column | Type | Missing | Cardinality | Notes |\n")
	sb.WriteString("|--------|------|---------|-------------|-------|\n")
	for _, c := range a.Profile.Columns {
		fmt.Fprintf(sb, "| %s | %s | %.1f%% | %d | %s |\n",
			c.Name, c.Kind, c.MissingPercent, c.Cardinality, columnNote(c.Kind, c))
	}
	sb.WriteString("\n")
}

func columnNote(kind dataset.ColumnKind, c profiling.ColumnProfile) string {
	switch kind {
	case dataset.KindNumeric:
		if c.Summary != nil {
			return fmt.Sprintf("mean %.3f, std %.3f, skew %.3f", c.Summary.Mean, c.Summary.StdDev, c.Summary.Skewness)
		}
	case dataset.KindCategorical:
		if c.HighCardinality {
			return "high cardinality"
		}
		if len(c.TopCounts) > 0 {
			return fmt.Sprintf("top level %q (%d)", c.TopCounts[0].Label, c.TopCounts[0].Count)
		}
	case dataset.KindDatetime:
		if c.TimeRange != nil {
			return fmt.Sprintf("spans %d days", c.TimeRange.RangeDays)
		}
	}
	return ""
}

func (b *Builder) writeQuestions(sb *strings.Builder, a *app.Analysis) {
	sb.WriteString("## Questions and Answers\n\n")
	for i, ans := range a.AnswerPairs() {
		fmt.Fprintf(sb, "**Q%d. %s**\n\n", i+1, ans.Question)
		for _, line := range strings.Split(ans.Text, "\n") {
			fmt.Fprintf(sb, "> %s\n", line)
		}
		sb.WriteString("\n")
	}
}

func (b *Builder) writeHypotheses(sb *strings.Builder, a *app.Analysis) {
	results := a.HypothesisResults()
	if len(results) == 0 {
		return
	}
	sb.WriteString("## Hypothesis Test Results\n\n")
	fmt.Fprintf(sb, "%d formal hypothesis tests were run.\n\n", len(results))
	for _, ans := range results {
		fmt.Fprintf(sb, "- **%s**\n", ans.Question)
		fmt.Fprintf(sb, "  - %s\n", strings.ReplaceAll(ans.Text, "\n", "\n  - "))
	}
	sb.WriteString("\n")
}
