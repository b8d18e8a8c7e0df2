package dataset

import (
	"strings"

	"dashkit/adapters/datareadiness/coercer"
	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/errors"
)

// predicate reports whether row i passes
type predicate func(i int) bool

// Apply returns a new table holding the rows that satisfy every filter in
// spec. Filters are validated against the table before any row is scanned.
// The result never shares cell storage with t.
func Apply(t *domainDataset.Table, spec domainDataset.FilterSpec) (*domainDataset.Table, error) {
	if t == nil {
		return nil, errors.NotFound("dataset")
	}

	preds, err := compile(t, spec)
	if err != nil {
		return nil, err
	}

	n := t.RowCount()
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		keep := true
		for _, p := range preds {
			if !p(i) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, i)
		}
	}

	return t.SelectRows(rows), nil
}

func compile(t *domainDataset.Table, spec domainDataset.FilterSpec) ([]predicate, error) {
	preds := make([]predicate, 0, len(spec.Categorical)+len(spec.Ranges))

	for _, f := range spec.Categorical {
		col, ok := t.Column(f.Column)
		if !ok {
			return nil, errors.UnknownColumn(f.Column)
		}
		if f.PassThrough() {
			continue
		}
		allowed := make(map[string]bool, len(f.Allowed))
		numbers := make(map[float64]bool)
		for _, a := range f.Allowed {
			allowed[a] = true
			if col.Kind == domainDataset.KindNumeric {
				// "10.0" and "1e1" select the cell displayed as 10
				if n, ok := coercer.ParseNumeric(strings.TrimSpace(a)); ok {
					numbers[n] = true
				}
			}
		}
		values := col.Values
		preds = append(preds, func(i int) bool {
			v := values[i]
			if v.Missing {
				return false
			}
			if v.Kind == domainDataset.KindNumeric && numbers[v.Num] {
				return true
			}
			return allowed[v.Display()]
		})
	}

	for _, f := range spec.Ranges {
		col, ok := t.Column(f.Column)
		if !ok {
			return nil, errors.UnknownColumn(f.Column)
		}
		if col.Kind != domainDataset.KindNumeric {
			return nil, errors.InvalidFilter(f.Column, "range filter on a "+string(col.Kind)+" column")
		}
		if f.Min > f.Max {
			return nil, errors.InvalidFilter(f.Column, "min is greater than max")
		}
		lo, hi := f.Min, f.Max
		values := col.Values
		preds = append(preds, func(i int) bool {
			v := values[i]
			return !v.Missing && v.Num >= lo && v.Num <= hi
		})
	}

	return preds, nil
}

// ColumnRange returns the [min, max] of a numeric column's non-missing values,
// the bounds a pass-through range slider starts from. ok is false when the
// column has no values.
func ColumnRange(t *domainDataset.Table, column string) (r domainDataset.Range, ok bool, err error) {
	col, found := t.Column(column)
	if !found {
		return r, false, errors.UnknownColumn(column)
	}
	if col.Kind != domainDataset.KindNumeric {
		return r, false, errors.InvalidFilter(column, "not a numeric column")
	}
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		if !ok {
			r = domainDataset.Range{Min: v.Num, Max: v.Num}
			ok = true
			continue
		}
		if v.Num < r.Min {
			r.Min = v.Num
		}
		if v.Num > r.Max {
			r.Max = v.Num
		}
	}
	return r, ok, nil
}

// NumericRanges returns ColumnRange for every numeric column that has values.
func NumericRanges(t *domainDataset.Table) map[string]domainDataset.Range {
	ranges := make(map[string]domainDataset.Range)
	for _, name := range Classify(t).Numeric {
		if r, ok, err := ColumnRange(t, name); err == nil && ok {
			ranges[name] = r
		}
	}
	return ranges
}
