package profiling

import (
	domainDataset "dashkit/domain/dataset"
	domainStats "dashkit/domain/stats"
)

// DataProfiler computes the summary shown for a filtered view
type DataProfiler struct {
	distribution *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{
		distribution: NewDistributionAnalyzer(),
	}
}

// Describe computes KPIs and per-column statistics for view. It never fails
// and never modifies view; an empty view yields zero counts and undefined
// statistics.
func (dp *DataProfiler) Describe(view *domainDataset.Table) domainStats.Summary {
	summary := domainStats.Summary{
		RowCount:        view.RowCount(),
		ColumnCount:     view.ColumnCount(),
		MissingByColumn: make(map[string]int, view.ColumnCount()),
		Numeric:         []domainStats.NumericSummary{},
		Categorical:     []domainStats.CategoricalSummary{},
	}
	if view == nil {
		return summary
	}

	for _, col := range view.Columns {
		missing := col.MissingCount()
		summary.MissingByColumn[col.Name] = missing
		summary.MissingValueCount += missing

		if col.Kind == domainDataset.KindNumeric {
			summary.Numeric = append(summary.Numeric, dp.distribution.Describe(col.Name, col.Floats()))
		} else {
			summary.Categorical = append(summary.Categorical, describeCategorical(col))
		}
	}

	return summary
}

// Describe is a convenience wrapper around a fresh DataProfiler
func Describe(view *domainDataset.Table) domainStats.Summary {
	return NewDataProfiler().Describe(view)
}

// describeCategorical counts distinct values; ties for the most frequent value
// go to the one seen first.
func describeCategorical(col domainDataset.Column) domainStats.CategoricalSummary {
	s := domainStats.CategoricalSummary{Column: col.Name}
	counts := make(map[string]int)
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		key := v.Display()
		counts[key]++
		s.Count++
		if counts[key] > s.Freq {
			s.Top = key
			s.Freq = counts[key]
		}
	}
	s.Unique = len(counts)
	return s
}

// ValueCounts returns each distinct non-missing value of col with its count,
// in order of first appearance.
func ValueCounts(col domainDataset.Column) ([]string, []int) {
	index := make(map[string]int)
	var values []string
	var counts []int
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		key := v.Display()
		i, ok := index[key]
		if !ok {
			i = len(values)
			index[key] = i
			values = append(values, key)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return values, counts
}
