package dataset

import (
	"encoding/json"
	"sort"

	"dashkit/domain/chart"
	"dashkit/domain/core"
)

// CategoricalFilter keeps rows whose value in Column is one of Allowed.
// An empty Allowed set means no filtering on that column.
type CategoricalFilter struct {
	Column  string   `json:"column"`
	Allowed []string `json:"allowed"`
}

// PassThrough reports whether the filter keeps every row
func (f CategoricalFilter) PassThrough() bool {
	return len(f.Allowed) == 0
}

// NumericRangeFilter keeps rows with Min <= value <= Max. Missing values never pass.
type NumericRangeFilter struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// FilterSpec is the conjunction of all active predicates for one render cycle.
type FilterSpec struct {
	Categorical []CategoricalFilter  `json:"categorical,omitempty"`
	Ranges      []NumericRangeFilter `json:"ranges,omitempty"`
}

// IsEmpty returns true if no predicate restricts any row.
func (f FilterSpec) IsEmpty() bool {
	if len(f.Ranges) > 0 {
		return false
	}
	for _, c := range f.Categorical {
		if !c.PassThrough() {
			return false
		}
	}
	return true
}

// Columns returns every column referenced by the spec
func (f FilterSpec) Columns() []string {
	cols := make([]string, 0, len(f.Categorical)+len(f.Ranges))
	for _, c := range f.Categorical {
		cols = append(cols, c.Column)
	}
	for _, r := range f.Ranges {
		cols = append(cols, r.Column)
	}
	return cols
}

// Range is an inclusive numeric interval chosen on a slider
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SelectionState is everything the presentation layer lets a user choose.
// It is passed into the pipeline explicitly on every render.
type SelectionState struct {
	Categorical            map[string][]string `json:"categorical,omitempty"`
	Ranges                 map[string]Range    `json:"ranges,omitempty"`
	NumericColumn          string              `json:"numeric_column,omitempty"`
	SecondaryNumericColumn string              `json:"secondary_numeric_column,omitempty"`
	CategoricalColumn      string              `json:"categorical_column,omitempty"`
	Charts                 []chart.Kind        `json:"charts,omitempty"`
	Bins                   int                 `json:"bins,omitempty"`
	Color                  string              `json:"color,omitempty"`
	PreviewRows            int                 `json:"preview_rows,omitempty"`
}

// FilterSpec derives the predicates, ordered by column name.
func (s SelectionState) FilterSpec() FilterSpec {
	var spec FilterSpec

	catCols := make([]string, 0, len(s.Categorical))
	for col := range s.Categorical {
		catCols = append(catCols, col)
	}
	sort.Strings(catCols)
	for _, col := range catCols {
		allowed := append([]string(nil), s.Categorical[col]...)
		spec.Categorical = append(spec.Categorical, CategoricalFilter{Column: col, Allowed: allowed})
	}

	rangeCols := make([]string, 0, len(s.Ranges))
	for col := range s.Ranges {
		rangeCols = append(rangeCols, col)
	}
	sort.Strings(rangeCols)
	for _, col := range rangeCols {
		r := s.Ranges[col]
		spec.Ranges = append(spec.Ranges, NumericRangeFilter{Column: col, Min: r.Min, Max: r.Max})
	}

	return spec
}

// Fingerprint is a stable hash of the selection. Allowed-value order does not
// matter; chart order does, since it is the output order.
func (s SelectionState) Fingerprint() core.Hash {
	normalized := s
	if len(s.Categorical) > 0 {
		normalized.Categorical = make(map[string][]string, len(s.Categorical))
		for col, allowed := range s.Categorical {
			sorted := append([]string(nil), allowed...)
			sort.Strings(sorted)
			normalized.Categorical[col] = sorted
		}
	}
	// encoding/json sorts map keys, so the encoding is canonical
	data, err := json.Marshal(normalized)
	if err != nil {
		return ""
	}
	return core.NewHash(data)
}
