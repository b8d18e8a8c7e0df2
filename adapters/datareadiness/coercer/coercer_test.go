package coercer

import (
	"testing"

	"dashkit/domain/dataset"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"10", 10, true},
		{"-3", -3, true},
		{"+2.5", 2.5, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3", 1000, true},
		{"1.5E-2", 0.015, true},
		{"1_000", 0, false},
		{"0x1p-2", 0, false},
		{"Inf", 0, false},
		{"$10", 0, false},
		{"1,000", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumeric(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseNumeric(%q)", tt.input)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-12, "ParseNumeric(%q)", tt.input)
		}
	}
}

func TestParseBoolean(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "True"} {
		v, ok := ParseBoolean(s)
		assert.True(t, ok)
		assert.True(t, v)
	}
	v, ok := ParseBoolean("False")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ParseBoolean("yes")
	assert.False(t, ok)
	_, ok = ParseBoolean("1")
	assert.False(t, ok)
}

func TestInferKind(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.Equal(t, dataset.KindNumeric, c.InferKind([]string{"1", "2.5", "", "NA"}))
	assert.Equal(t, dataset.KindBoolean, c.InferKind([]string{"true", "False", ""}))
	assert.Equal(t, dataset.KindCategorical, c.InferKind([]string{"1", "two"}))
	assert.Equal(t, dataset.KindNumeric, c.InferKind([]string{"", "NaN"}))
	assert.Equal(t, dataset.KindNumeric, c.InferKind(nil))
}

func TestInferKindWithoutBoolean(t *testing.T) {
	cfg := DefaultCoercionConfig()
	cfg.InferBoolean = false
	c := NewTypeCoercer(cfg)

	assert.Equal(t, dataset.KindCategorical, c.InferKind([]string{"true", "false"}))
}

func TestCoerceColumn(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	col := c.CoerceColumn("val", []string{" 10 ", "N/A", "30"})
	assert.Equal(t, dataset.KindNumeric, col.Kind)
	assert.Equal(t, 10.0, col.Values[0].Num)
	assert.True(t, col.Values[1].Missing)
	assert.Equal(t, dataset.KindNumeric, col.Values[1].Kind)
	assert.Equal(t, 30.0, col.Values[2].Num)

	cat := c.CoerceColumn("cat", []string{"A", "", "B "})
	assert.Equal(t, dataset.KindCategorical, cat.Kind)
	assert.Equal(t, "B", cat.Values[2].Str)
	assert.Equal(t, 1, cat.MissingCount())
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	a := c.AnalyzeTypeDistribution([]string{"1", "x", "", "true"})

	assert.Equal(t, 4, a.TotalCount)
	assert.Equal(t, 3, a.ValidCount)
	assert.Equal(t, 1, a.MissingCount)
	assert.Equal(t, 1, a.NumericCount)
	assert.Equal(t, 1, a.BooleanCount)
	assert.Equal(t, dataset.KindCategorical, a.RecommendedKind)
}
