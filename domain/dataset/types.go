package dataset

import (
	"fmt"
	"strconv"

	"dashkit/domain/core"
)

// Kind is the type tag a column receives once, at load time.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
)

// Value is a single cell. Exactly one of Num, Str or Bool is meaningful,
// selected by Kind, unless Missing is set.
type Value struct {
	Kind    Kind    `json:"kind"`
	Num     float64 `json:"num,omitempty"`
	Str     string  `json:"str,omitempty"`
	Bool    bool    `json:"bool,omitempty"`
	Missing bool    `json:"missing,omitempty"`
}

// NewNumericValue creates a numeric cell
func NewNumericValue(n float64) Value {
	return Value{Kind: KindNumeric, Num: n}
}

// NewCategoricalValue creates a text cell
func NewCategoricalValue(s string) Value {
	return Value{Kind: KindCategorical, Str: s}
}

// NewBooleanValue creates a boolean cell
func NewBooleanValue(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

// NewMissingValue creates an absent cell of the given column kind
func NewMissingValue(kind Kind) Value {
	return Value{Kind: kind, Missing: true}
}

// Display returns the string form used for categorical membership and previews.
// Missing cells display as the empty string.
func (v Value) Display() string {
	if v.Missing {
		return ""
	}
	switch v.Kind {
	case KindNumeric:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Column is a named, single-kind sequence of cells.
type Column struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Values []Value `json:"values"`
}

// Len returns the number of cells
func (c Column) Len() int {
	return len(c.Values)
}

// MissingCount returns the number of absent cells
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}

// Floats returns the non-missing numeric cells in row order.
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Missing && v.Kind == KindNumeric {
			out = append(out, v.Num)
		}
	}
	return out
}

// Table is an ordered set of equally long, uniquely named columns.
// A Table is never mutated after construction; filtering produces a new one.
type Table struct {
	Name    string   `json:"name"`
	Version core.ID  `json:"version"`
	Columns []Column `json:"columns"`

	index map[string]int
}

// NewTable validates the column invariants and builds a Table.
func NewTable(name string, version core.ID, columns []Column) (*Table, error) {
	index := make(map[string]int, len(columns))
	rows := -1
	for i, col := range columns {
		if _, dup := index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		index[col.Name] = i
		if rows == -1 {
			rows = col.Len()
		} else if col.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), rows)
		}
	}
	return &Table{
		Name:    name,
		Version: version,
		Columns: columns,
		index:   index,
	}, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	if t.index == nil {
		for _, c := range t.Columns {
			if c.Name == name {
				return c, true
			}
		}
		return Column{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// HasColumn reports whether a column with that name exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Row returns the display values of row i keyed by column name.
func (t *Table) Row(i int) map[string]string {
	row := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		row[c.Name] = c.Values[i].Display()
	}
	return row
}

// SelectRows builds a new Table holding copies of the given rows, in order.
func (t *Table) SelectRows(rows []int) *Table {
	columns := make([]Column, len(t.Columns))
	for ci, c := range t.Columns {
		values := make([]Value, len(rows))
		for ri, r := range rows {
			values[ri] = c.Values[r]
		}
		columns[ci] = Column{Name: c.Name, Kind: c.Kind, Values: values}
	}
	out, _ := NewTable(t.Name, t.Version, columns)
	return out
}

// Clone returns a deep copy sharing no cell storage with t.
func (t *Table) Clone() *Table {
	rows := make([]int, t.RowCount())
	for i := range rows {
		rows[i] = i
	}
	return t.SelectRows(rows)
}

// Preview is the first rows of a table rendered as strings.
type Preview struct {
	Columns []string            `json:"columns"`
	Kinds   map[string]Kind     `json:"kinds"`
	Rows    []map[string]string `json:"rows"`
	Total   int                 `json:"total_rows"`
}

// Head returns up to n rows for preview rendering.
func (t *Table) Head(n int) Preview {
	total := t.RowCount()
	if n < 0 || n > total {
		n = total
	}
	p := Preview{
		Columns: t.ColumnNames(),
		Kinds:   make(map[string]Kind, t.ColumnCount()),
		Rows:    make([]map[string]string, 0, n),
		Total:   total,
	}
	if t != nil {
		for _, c := range t.Columns {
			p.Kinds[c.Name] = c.Kind
		}
	}
	for i := 0; i < n; i++ {
		p.Rows = append(p.Rows, t.Row(i))
	}
	return p
}

// Classification partitions column names into numeric and categorical sets.
type Classification struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// IsNumeric reports whether name is in the numeric set
func (c Classification) IsNumeric(name string) bool {
	for _, n := range c.Numeric {
		if n == name {
			return true
		}
	}
	return false
}

// IsCategorical reports whether name is in the categorical set
func (c Classification) IsCategorical(name string) bool {
	for _, n := range c.Categorical {
		if n == name {
			return true
		}
	}
	return false
}
