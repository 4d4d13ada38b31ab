package profiling

import (
	"sort"
	"time"

	"autostat/domain/core"
	"autostat/domain/dataset"
)

// ColumnProfile captures what the question generator and test selector
// need to know about one classified column.
type ColumnProfile struct {
	Name            core.ColumnName      `json:"name"`
	Kind            dataset.ColumnKind   `json:"kind"`
	MissingCount    int                  `json:"missing_count"`
	MissingPercent  float64              `json:"missing_percent"`
	Cardinality     int                  `json:"cardinality"`
	Summary         *DistributionSummary `json:"summary,omitempty"`
	TopCounts       []LabelCount         `json:"top_counts,omitempty"`
	HighCardinality bool                 `json:"high_cardinality,omitempty"`
	TimeRange       *TimeRange           `json:"time_range,omitempty"`
}

// LabelCount is one categorical level with its frequency.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TimeRange summarizes a datetime column.
type TimeRange struct {
	Min       time.Time `json:"min"`
	Max       time.Time `json:"max"`
	RangeDays int       `json:"range_days"`
}

// DatasetProfile is the full profiling pass output.
type DatasetProfile struct {
	Columns       []ColumnProfile `json:"columns"`
	RowCount      int             `json:"row_count"`
	DuplicateRows int             `json:"duplicate_rows"`
}

// Column returns the profile for a named column.
func (p DatasetProfile) Column(name core.ColumnName) (ColumnProfile, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnProfile{}, false
}

// Profiler computes per-column summaries for a dataset snapshot.
type Profiler struct {
	topCountLimit int
}

// NewProfiler creates a profiler with the default top-count limit.
func NewProfiler() *Profiler {
	return &Profiler{topCountLimit: 10}
}

// Profile runs the profiling pass across every column.
func (p *Profiler) Profile(ds *dataset.Dataset) DatasetProfile {
	out := DatasetProfile{
		RowCount:      ds.RowCount(),
		DuplicateRows: ds.DuplicateRowCount(),
	}
	for _, col := range ds.Columns() {
		out.Columns = append(out.Columns, p.profileColumn(col, ds.RowCount()))
	}
	return out
}

func (p *Profiler) profileColumn(col dataset.Column, rows int) ColumnProfile {
	profile := ColumnProfile{
		Name:           col.Name,
		Kind:           col.Kind,
		MissingCount:   col.MissingCount(),
		MissingPercent: col.MissingPercent(),
		Cardinality:    col.Cardinality(),
	}

	switch col.Kind {
	case dataset.KindNumeric:
		if summary, err := Summarize(col.Numeric); err == nil {
			profile.Summary = &summary
		}
	case dataset.KindCategorical:
		profile.TopCounts = p.topCounts(col.Labels)
		profile.HighCardinality = rows > 0 && profile.Cardinality > rows/2
	case dataset.KindDatetime:
		profile.TimeRange = timeRange(col.Times)
	}
	return profile
}

func (p *Profiler) topCounts(labels []string) []LabelCount {
	freq := map[string]int{}
	for _, l := range labels {
		if l != "" {
			freq[l]++
		}
	}
	counts := make([]LabelCount, 0, len(freq))
	for label, n := range freq {
		counts = append(counts, LabelCount{Label: label, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	if len(counts) > p.topCountLimit {
		counts = counts[:p.topCountLimit]
	}
	return counts
}

func timeRange(times []time.Time) *TimeRange {
	var min, max time.Time
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		if min.IsZero() || t.Before(min) {
			min = t
		}
		if max.IsZero() || t.After(max) {
			max = t
		}
	}
	if min.IsZero() {
		return nil
	}
	return &TimeRange{Min: min, Max: max, RangeDays: int(max.Sub(min).Hours() / 24)}
}
