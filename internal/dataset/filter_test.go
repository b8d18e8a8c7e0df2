package dataset

import (
	"strings"
	"testing"

	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadExample(t *testing.T) *domainDataset.Table {
	t.Helper()
	tbl, err := NewDefaultLoader().LoadCSV(strings.NewReader("cat,val\nA,10\nB,20\nA,30\n"), "example.csv")
	require.NoError(t, err)
	return tbl
}

func floatsOf(t *testing.T, tbl *domainDataset.Table, column string) []float64 {
	t.Helper()
	col, ok := tbl.Column(column)
	require.True(t, ok)
	return col.Floats()
}

func TestApplyCategoricalFilter(t *testing.T) {
	tbl := loadExample(t)

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Categorical: []domainDataset.CategoricalFilter{{Column: "cat", Allowed: []string{"A"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, view.RowCount())
	assert.Equal(t, []float64{10, 30}, floatsOf(t, view, "val"))
}

func TestApplyNumericRangeFilter(t *testing.T) {
	tbl := loadExample(t)

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Ranges: []domainDataset.NumericRangeFilter{{Column: "val", Min: 15, Max: 25}},
	})
	require.NoError(t, err)

	require.Equal(t, 1, view.RowCount())
	assert.Equal(t, map[string]string{"cat": "B", "val": "20"}, view.Row(0))
}

func TestApplyRangeIsInclusive(t *testing.T) {
	tbl := loadExample(t)

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Ranges: []domainDataset.NumericRangeFilter{{Column: "val", Min: 10, Max: 30}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, view.RowCount())
}

func TestApplyRangeExcludesMissing(t *testing.T) {
	tbl, err := NewDefaultLoader().LoadCSV(strings.NewReader("val\n1\n\n3\nNA\n"), "gaps.csv")
	require.NoError(t, err)
	require.Equal(t, 3, tbl.RowCount()) // blank lines are skipped

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Ranges: []domainDataset.NumericRangeFilter{{Column: "val", Min: -100, Max: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, floatsOf(t, view, "val"))
	assert.Equal(t, 2, view.RowCount())
}

func TestApplyEmptyAllowedIsPassThrough(t *testing.T) {
	tbl := loadExample(t)

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Categorical: []domainDataset.CategoricalFilter{{Column: "cat", Allowed: nil}},
	})
	require.NoError(t, err)
	assert.Equal(t, tbl.RowCount(), view.RowCount())
}

func TestApplyPassThroughEqualsSource(t *testing.T) {
	tbl := loadExample(t)
	r, ok, err := ColumnRange(tbl, "val")
	require.NoError(t, err)
	require.True(t, ok)

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Categorical: []domainDataset.CategoricalFilter{{Column: "cat"}},
		Ranges:      []domainDataset.NumericRangeFilter{{Column: "val", Min: r.Min, Max: r.Max}},
	})
	require.NoError(t, err)

	assert.Equal(t, tbl.Columns, view.Columns)
}

func TestApplyConjunctionIsOrderIndependent(t *testing.T) {
	tbl := loadExample(t)
	cat := domainDataset.CategoricalFilter{Column: "cat", Allowed: []string{"A"}}
	rng := domainDataset.NumericRangeFilter{Column: "val", Min: 0, Max: 15}

	a, err := Apply(tbl, domainDataset.FilterSpec{
		Categorical: []domainDataset.CategoricalFilter{cat},
		Ranges:      []domainDataset.NumericRangeFilter{rng},
	})
	require.NoError(t, err)

	step, err := Apply(tbl, domainDataset.FilterSpec{Ranges: []domainDataset.NumericRangeFilter{rng}})
	require.NoError(t, err)
	b, err := Apply(step, domainDataset.FilterSpec{Categorical: []domainDataset.CategoricalFilter{cat}})
	require.NoError(t, err)

	assert.Equal(t, a.Columns, b.Columns)
	assert.Equal(t, []float64{10}, floatsOf(t, a, "val"))
}

func TestApplyNeverGrowsTable(t *testing.T) {
	tbl := loadExample(t)
	specs := []domainDataset.FilterSpec{
		{},
		{Categorical: []domainDataset.CategoricalFilter{{Column: "cat", Allowed: []string{"Z"}}}},
		{Categorical: []domainDataset.CategoricalFilter{{Column: "cat", Allowed: []string{"A", "B"}}}},
		{Ranges: []domainDataset.NumericRangeFilter{{Column: "val", Min: 100, Max: 200}}},
	}
	for _, spec := range specs {
		view, err := Apply(tbl, spec)
		require.NoError(t, err)
		assert.LessOrEqual(t, view.RowCount(), tbl.RowCount())
	}
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	tbl := loadExample(t)
	before := tbl.Clone()

	view, err := Apply(tbl, domainDataset.FilterSpec{})
	require.NoError(t, err)
	view.Columns[1].Values[0] = domainDataset.NewNumericValue(-1)

	assert.Equal(t, before.Columns, tbl.Columns)
	assert.Equal(t, tbl.Version, view.Version)
}

func TestApplyNumericMembership(t *testing.T) {
	tbl := loadExample(t)

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Categorical: []domainDataset.CategoricalFilter{{Column: "val", Allowed: []string{"20"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, view.RowCount())
}

func TestApplyNumericMembershipMatchesParsedValue(t *testing.T) {
	tbl, err := NewDefaultLoader().LoadCSV(strings.NewReader("val\n10.0\n20\n1e1\n"), "raw.csv")
	require.NoError(t, err)

	for _, allowed := range []string{"10", "10.0", " 1e1 "} {
		view, err := Apply(tbl, domainDataset.FilterSpec{
			Categorical: []domainDataset.CategoricalFilter{{Column: "val", Allowed: []string{allowed}}},
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 10}, floatsOf(t, view, "val"), allowed)
	}

	view, err := Apply(tbl, domainDataset.FilterSpec{
		Categorical: []domainDataset.CategoricalFilter{{Column: "val", Allowed: []string{"ten"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, view.RowCount())
}

func TestApplyErrors(t *testing.T) {
	tbl := loadExample(t)

	_, err := Apply(tbl, domainDataset.FilterSpec{
		Categorical: []domainDataset.CategoricalFilter{{Column: "region"}},
	})
	assert.Equal(t, errors.CodeUnknownColumn, errors.GetCode(err))

	_, err = Apply(tbl, domainDataset.FilterSpec{
		Ranges: []domainDataset.NumericRangeFilter{{Column: "price", Min: 0, Max: 1}},
	})
	assert.Equal(t, errors.CodeUnknownColumn, errors.GetCode(err))

	_, err = Apply(tbl, domainDataset.FilterSpec{
		Ranges: []domainDataset.NumericRangeFilter{{Column: "cat", Min: 0, Max: 1}},
	})
	assert.Equal(t, errors.CodeInvalidFilter, errors.GetCode(err))

	_, err = Apply(tbl, domainDataset.FilterSpec{
		Ranges: []domainDataset.NumericRangeFilter{{Column: "val", Min: 5, Max: 1}},
	})
	assert.Equal(t, errors.CodeInvalidFilter, errors.GetCode(err))

	_, err = Apply(nil, domainDataset.FilterSpec{})
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestNumericRanges(t *testing.T) {
	tbl := loadExample(t)
	ranges := NumericRanges(tbl)
	assert.Equal(t, map[string]domainDataset.Range{"val": {Min: 10, Max: 30}}, ranges)

	_, _, err := ColumnRange(tbl, "cat")
	assert.Equal(t, errors.CodeInvalidFilter, errors.GetCode(err))
}
