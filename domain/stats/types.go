package stats

import (
	"encoding/json"
	"math"
	"strconv"
)

// ============================================================================
// STAT PRIMITIVE
// ============================================================================

// Stat is a statistic that may be undefined (empty input, n-1 = 0, zero
// variance). Undefined statistics never carry NaN and marshal to JSON null.
type Stat struct {
	Value   float64
	Defined bool
}

// Of wraps a computed value; NaN and ±Inf become undefined.
func Of(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Stat{Value: v, Defined: true}
}

// Undefined returns the undefined statistic
func Undefined() Stat {
	return Stat{}
}

// Or returns the value, or fallback when undefined
func (s Stat) Or(fallback float64) float64 {
	if !s.Defined {
		return fallback
	}
	return s.Value
}

// String formats with up to 6 significant decimals; undefined prints as "undefined".
func (s Stat) String() string {
	if !s.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(s.Value, 'g', 6, 64)
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Of(v)
	return nil
}

// ============================================================================
// SUMMARY
// ============================================================================

// NumericSummary is the describe() row for one numeric column.
// Count is the number of non-missing values the statistics were computed over.
type NumericSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Stat   `json:"mean"`
	Std    Stat   `json:"std"`
	Min    Stat   `json:"min"`
	Q25    Stat   `json:"q25"`
	Q50    Stat   `json:"q50"`
	Q75    Stat   `json:"q75"`
	Max    Stat   `json:"max"`
}

// CategoricalSummary is the describe() row for one categorical or boolean column.
type CategoricalSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq"`
}

// Summary holds dataset-level KPIs and per-column statistics for a filtered view.
type Summary struct {
	RowCount          int                  `json:"row_count"`
	ColumnCount       int                  `json:"column_count"`
	MissingValueCount int                  `json:"missing_value_count"`
	MissingByColumn   map[string]int       `json:"missing_by_column"`
	Numeric           []NumericSummary     `json:"numeric"`
	Categorical       []CategoricalSummary `json:"categorical"`
}

// NumericFor returns the numeric summary for a column, if present
func (s Summary) NumericFor(column string) (NumericSummary, bool) {
	for _, ns := range s.Numeric {
		if ns.Column == column {
			return ns, true
		}
	}
	return NumericSummary{}, false
}

// MissingRate returns the share of missing cells, undefined for an empty view.
func (s Summary) MissingRate() Stat {
	cells := s.RowCount * s.ColumnCount
	if cells == 0 {
		return Undefined()
	}
	return Of(float64(s.MissingValueCount) / float64(cells))
}
