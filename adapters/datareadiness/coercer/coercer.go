package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"dashkit/domain/dataset"
)

// numericLiteral matches plain integer and floating-point literals, with an
// optional exponent. Hex floats, digit separators and Inf are not accepted.
var numericLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// DefaultMissingTokens are the raw cell values read as absent.
var DefaultMissingTokens = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "null", "NULL", "None", "#N/A", "<NA>",
}

// TypeCoercer decides column kinds and converts raw cells to typed values
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	MissingTokens []string `json:"missing_tokens"`
	InferBoolean  bool     `json:"infer_boolean"` // false: true/false columns stay categorical
	TrimSpace     bool     `json:"trim_space"`
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: DefaultMissingTokens,
		InferBoolean:  true,
		TrimSpace:     true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a raw cell is an absent value
func (c *TypeCoercer) IsMissing(raw string) bool {
	return c.missing[c.clean(raw)]
}

// AnalyzeTypeDistribution counts how many non-missing values parse as each type.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, raw := range values {
		if c.IsMissing(raw) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++
		s := c.clean(raw)
		if _, ok := ParseNumeric(s); ok {
			analysis.NumericCount++
		}
		if _, ok := ParseBoolean(s); ok {
			analysis.BooleanCount++
		}
	}

	analysis.RecommendedKind = c.determineRecommendedKind(analysis)
	return analysis
}

// InferKind picks the column kind for a set of raw cells.
func (c *TypeCoercer) InferKind(values []string) dataset.Kind {
	return c.AnalyzeTypeDistribution(values).RecommendedKind
}

// CoerceValue converts a raw cell into a Value of the given column kind.
// Cells that do not fit the kind are reported as missing.
func (c *TypeCoercer) CoerceValue(raw string, kind dataset.Kind) dataset.Value {
	if c.IsMissing(raw) {
		return dataset.NewMissingValue(kind)
	}
	s := c.clean(raw)

	switch kind {
	case dataset.KindNumeric:
		if n, ok := ParseNumeric(s); ok {
			return dataset.NewNumericValue(n)
		}
		return dataset.NewMissingValue(kind)
	case dataset.KindBoolean:
		if b, ok := ParseBoolean(s); ok {
			return dataset.NewBooleanValue(b)
		}
		return dataset.NewMissingValue(kind)
	default:
		return dataset.NewCategoricalValue(s)
	}
}

// CoerceColumn infers the kind of a raw column and converts every cell.
func (c *TypeCoercer) CoerceColumn(name string, values []string) dataset.Column {
	kind := c.InferKind(values)
	cells := make([]dataset.Value, len(values))
	for i, raw := range values {
		cells[i] = c.CoerceValue(raw, kind)
	}
	return dataset.Column{Name: name, Kind: kind, Values: cells}
}

// ParseNumeric parses an integer or floating-point literal.
func ParseNumeric(s string) (float64, bool) {
	if !numericLiteral.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseBoolean accepts true/false in any letter case.
func ParseBoolean(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func (c *TypeCoercer) clean(raw string) string {
	if c.config.TrimSpace {
		return strings.TrimSpace(raw)
	}
	return raw
}

// determineRecommendedKind chooses the column kind. Every non-missing value
// must parse for a numeric or boolean kind; an all-missing column is numeric.
func (c *TypeCoercer) determineRecommendedKind(analysis TypeAnalysis) dataset.Kind {
	if analysis.NumericCount == analysis.ValidCount {
		return dataset.KindNumeric
	}
	if c.config.InferBoolean && analysis.BooleanCount == analysis.ValidCount {
		return dataset.KindBoolean
	}
	return dataset.KindCategorical
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int          `json:"total_count"`
	ValidCount      int          `json:"valid_count"`
	MissingCount    int          `json:"missing_count"`
	NumericCount    int          `json:"numeric_count"`
	BooleanCount    int          `json:"boolean_count"`
	RecommendedKind dataset.Kind `json:"recommended_kind"`
}
