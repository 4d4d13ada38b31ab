package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"autostat/domain/core"
)

// ColumnKind defines the settled statistical type of a column.
// Classification happens once per analysis pass; a kind never changes
// while the dataset is in flight.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindDatetime    ColumnKind = "datetime"
)

// Column holds one named, typed value sequence. Exactly one of the value
// slices is populated, matching Kind. Missing markers: NaN for numeric,
// "" for categorical, the zero time for datetime.
type Column struct {
	Name    core.ColumnName
	Kind    ColumnKind
	Numeric []float64
	Labels  []string
	Times   []time.Time
}

// Len returns the column length including missing entries.
func (c Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Numeric)
	case KindCategorical:
		return len(c.Labels)
	case KindDatetime:
		return len(c.Times)
	}
	return 0
}

// IsMissing reports whether the value at row i is a missing marker.
func (c Column) IsMissing(i int) bool {
	switch c.Kind {
	case KindNumeric:
		return math.IsNaN(c.Numeric[i])
	case KindCategorical:
		return c.Labels[i] == ""
	case KindDatetime:
		return c.Times[i].IsZero()
	}
	return true
}

// MissingCount returns the number of missing entries.
func (c Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// MissingPercent returns the missing rate as a percentage of all rows.
func (c Column) MissingPercent() float64 {
	if c.Len() == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(c.Len()) * 100
}

// NonMissingNumeric returns the numeric values with missing entries dropped.
func (c Column) NonMissingNumeric() []float64 {
	out := make([]float64, 0, len(c.Numeric))
	for _, v := range c.Numeric {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// DistinctLabels returns the distinct non-missing categorical values in
// first-seen order.
func (c Column) DistinctLabels() []string {
	seen := make(map[string]bool, len(c.Labels))
	out := []string{}
	for _, v := range c.Labels {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Cardinality returns the number of distinct non-missing values.
func (c Column) Cardinality() int {
	switch c.Kind {
	case KindCategorical:
		return len(c.DistinctLabels())
	case KindNumeric:
		seen := make(map[float64]bool, len(c.Numeric))
		for _, v := range c.Numeric {
			if !math.IsNaN(v) {
				seen[v] = true
			}
		}
		return len(seen)
	case KindDatetime:
		seen := make(map[time.Time]bool, len(c.Times))
		for _, v := range c.Times {
			if !v.IsZero() {
				seen[v] = true
			}
		}
		return len(seen)
	}
	return 0
}

// Dataset is an immutable snapshot of a cleaned tabular dataset. Columns
// share row count and row identity; groupbys and cross-tabs rely on the
// shared index.
type Dataset struct {
	columns []Column
	byName  map[core.ColumnName]int
	rows    int
}

// New builds a Dataset from columns, validating shared row count.
func New(columns []Column) (*Dataset, error) {
	ds := &Dataset{
		columns: columns,
		byName:  make(map[core.ColumnName]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name.IsEmpty() {
			return nil, fmt.Errorf("column %d: name cannot be empty", i)
		}
		if _, dup := ds.byName[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), ds.rows)
		}
		ds.byName[col.Name] = i
	}
	return ds, nil
}

// RowCount returns the shared row count.
func (d *Dataset) RowCount() int { return d.rows }

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int { return len(d.columns) }

// Columns returns the columns in dataset order.
func (d *Dataset) Columns() []Column { return d.columns }

// Column looks up a column by name.
func (d *Dataset) Column(name core.ColumnName) (Column, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// ColumnsOfKind returns the names of all columns of the given kind,
// in dataset order.
func (d *Dataset) ColumnsOfKind(kind ColumnKind) []core.ColumnName {
	names := []core.ColumnName{}
	for _, col := range d.columns {
		if col.Kind == kind {
			names = append(names, col.Name)
		}
	}
	return names
}

// GroupNumericBy partitions a numeric column by the distinct values of a
// categorical column, dropping missing numeric entries per group. Rows
// where the categorical value is missing are excluded. Groups come back
// in first-seen label order.
func (d *Dataset) GroupNumericBy(catName, numName core.ColumnName) ([]string, [][]float64, error) {
	cat, ok := d.Column(catName)
	if !ok {
		return nil, nil, core.NewColumnNotFoundError(string(catName))
	}
	num, ok := d.Column(numName)
	if !ok {
		return nil, nil, core.NewColumnNotFoundError(string(numName))
	}
	if cat.Kind != KindCategorical {
		return nil, nil, core.NewTypeMismatchError(string(catName), "categorical")
	}
	if num.Kind != KindNumeric {
		return nil, nil, core.NewTypeMismatchError(string(numName), "numeric")
	}

	order := []string{}
	groups := map[string][]float64{}
	for i := 0; i < d.rows; i++ {
		label := cat.Labels[i]
		if label == "" {
			continue
		}
		if _, seen := groups[label]; !seen {
			order = append(order, label)
			groups[label] = []float64{}
		}
		if !math.IsNaN(num.Numeric[i]) {
			groups[label] = append(groups[label], num.Numeric[i])
		}
	}

	labels := make([]string, 0, len(order))
	values := make([][]float64, 0, len(order))
	for _, label := range order {
		if len(groups[label]) == 0 {
			continue
		}
		labels = append(labels, label)
		values = append(values, groups[label])
	}
	return labels, values, nil
}

// CrossTab builds a contingency table of co-occurring non-missing value
// pairs between two categorical columns. Row and column categories come
// back in first-seen order.
func (d *Dataset) CrossTab(aName, bName core.ColumnName) ([][]int, error) {
	a, ok := d.Column(aName)
	if !ok {
		return nil, core.NewColumnNotFoundError(string(aName))
	}
	b, ok := d.Column(bName)
	if !ok {
		return nil, core.NewColumnNotFoundError(string(bName))
	}
	if a.Kind != KindCategorical || b.Kind != KindCategorical {
		return nil, core.NewTypeMismatchError(string(aName)+"/"+string(bName), "categorical")
	}

	rowIdx := map[string]int{}
	colIdx := map[string]int{}
	var cells [][]int
	for i := 0; i < d.rows; i++ {
		ra, rb := a.Labels[i], b.Labels[i]
		if ra == "" || rb == "" {
			continue
		}
		ri, ok := rowIdx[ra]
		if !ok {
			ri = len(rowIdx)
			rowIdx[ra] = ri
			cells = append(cells, make([]int, len(colIdx)))
		}
		ci, ok := colIdx[rb]
		if !ok {
			ci = len(colIdx)
			colIdx[rb] = ci
			for r := range cells {
				cells[r] = append(cells[r], 0)
			}
		}
		cells[ri][ci]++
	}
	if len(cells) == 0 {
		return nil, core.ErrEmptyTable
	}
	return cells, nil
}

// PairedNumeric returns the rows of two numeric columns where both values
// are present.
func (d *Dataset) PairedNumeric(aName, bName core.ColumnName) ([]float64, []float64, error) {
	a, ok := d.Column(aName)
	if !ok {
		return nil, nil, core.NewColumnNotFoundError(string(aName))
	}
	b, ok := d.Column(bName)
	if !ok {
		return nil, nil, core.NewColumnNotFoundError(string(bName))
	}
	if a.Kind != KindNumeric || b.Kind != KindNumeric {
		return nil, nil, core.NewTypeMismatchError(string(aName)+"/"+string(bName), "numeric")
	}

	xs := make([]float64, 0, d.rows)
	ys := make([]float64, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if math.IsNaN(a.Numeric[i]) || math.IsNaN(b.Numeric[i]) {
			continue
		}
		xs = append(xs, a.Numeric[i])
		ys = append(ys, b.Numeric[i])
	}
	return xs, ys, nil
}

// DuplicateRowCount counts rows whose full value tuple appeared earlier
// in the dataset.
func (d *Dataset) DuplicateRowCount() int {
	if len(d.columns) == 0 {
		return 0
	}
	seen := make(map[string]bool, d.rows)
	dups := 0
	var sb strings.Builder
	for i := 0; i < d.rows; i++ {
		sb.Reset()
		for _, col := range d.columns {
			switch col.Kind {
			case KindNumeric:
				fmt.Fprintf(&sb, "%v\x1f", col.Numeric[i])
			case KindCategorical:
				sb.WriteString(col.Labels[i])
				sb.WriteByte('\x1f')
			case KindDatetime:
				fmt.Fprintf(&sb, "%d\x1f", col.Times[i].UnixNano())
			}
		}
		key := sb.String()
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}
