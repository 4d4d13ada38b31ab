package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"autostat/domain/core"
	"autostat/domain/dataset"
)

// missingTokens are cell values treated as missing in addition to the
// empty string.
var missingTokens = map[string]bool{
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

func isMissingToken(v string) bool {
	return missingTokens[strings.ToLower(v)]
}

// timeLayouts are tried in order when probing for datetime columns.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// classifyColumn settles a column's kind from its raw cells. A column is
// numeric when every non-missing cell parses as a float, datetime when
// every non-missing cell parses under a single layout, and categorical
// otherwise. Kinds never change after this point.
func classifyColumn(name string, raw []string) dataset.Column {
	col := dataset.Column{Name: core.ColumnName(name)}

	if ok, values := probeNumeric(raw); ok {
		col.Kind = dataset.KindNumeric
		col.Numeric = values
		return col
	}
	if ok, values := probeDatetime(raw); ok {
		col.Kind = dataset.KindDatetime
		col.Times = values
		return col
	}

	col.Kind = dataset.KindCategorical
	col.Labels = make([]string, len(raw))
	for i, v := range raw {
		if v == "" || isMissingToken(v) {
			continue
		}
		col.Labels[i] = v
	}
	return col
}

func probeNumeric(raw []string) (bool, []float64) {
	values := make([]float64, len(raw))
	any := false
	for i, v := range raw {
		if v == "" || isMissingToken(v) {
			values[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return false, nil
		}
		values[i] = f
		any = true
	}
	return any, values
}

func probeDatetime(raw []string) (bool, []time.Time) {
	layout := ""
	for _, v := range raw {
		if v == "" || isMissingToken(v) {
			continue
		}
		layout = detectLayout(v)
		break
	}
	if layout == "" {
		return false, nil
	}

	values := make([]time.Time, len(raw))
	for i, v := range raw {
		if v == "" || isMissingToken(v) {
			continue
		}
		t, err := time.Parse(layout, v)
		if err != nil {
			return false, nil
		}
		values[i] = t
	}
	return true, values
}

func detectLayout(v string) string {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return layout
		}
	}
	return ""
}
