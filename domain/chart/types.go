package chart

import (
	"encoding/json"
	"fmt"
	"strings"

	"dashkit/domain/stats"
)

// Kind names a chart variant
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBoxplot   Kind = "boxplot"
	KindLine      Kind = "line"
	KindScatter   Kind = "scatter"
	KindCount     Kind = "count"
	KindHeatmap   Kind = "heatmap"
)

// AllKinds lists every chart variant in display order
var AllKinds = []Kind{KindHistogram, KindBoxplot, KindLine, KindScatter, KindCount, KindHeatmap}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// Spec is a declarative description of one chart. Specs are pure data;
// drawing them is the job of a rendering collaborator.
type Spec interface {
	ChartKind() Kind
	ChartTitle() string
}

// Histogram is an equal-width binned distribution of one numeric column.
// len(Edges) == Bins+1 and len(Counts) == Bins when the column has values.
type Histogram struct {
	Column string    `json:"column"`
	Bins   int       `json:"bins"`
	Color  string    `json:"color"`
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

func (h Histogram) ChartKind() Kind    { return KindHistogram }
func (h Histogram) ChartTitle() string { return "Distribution of " + h.Column }

// Boxplot is a five-number summary with Tukey whiskers.
type Boxplot struct {
	Column      string     `json:"column"`
	Color       string     `json:"color"`
	Q1          stats.Stat `json:"q1"`
	Median      stats.Stat `json:"median"`
	Q3          stats.Stat `json:"q3"`
	WhiskerLow  stats.Stat `json:"whisker_low"`
	WhiskerHigh stats.Stat `json:"whisker_high"`
	Outliers    []float64  `json:"outliers"`
}

func (b Boxplot) ChartKind() Kind    { return KindBoxplot }
func (b Boxplot) ChartTitle() string { return "Box plot of " + b.Column }

// LineSeries plots a numeric column against row position in the filtered view.
type LineSeries struct {
	Column string       `json:"column"`
	Color  string       `json:"color"`
	X      []int        `json:"x"`
	Y      []stats.Stat `json:"y"`
}

func (l LineSeries) ChartKind() Kind    { return KindLine }
func (l LineSeries) ChartTitle() string { return l.Column + " by row" }

// Point is one scatter observation
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterPlot relates two distinct numeric columns.
type ScatterPlot struct {
	XColumn string  `json:"x_column"`
	YColumn string  `json:"y_column"`
	Color   string  `json:"color"`
	Points  []Point `json:"points"`
}

func (s ScatterPlot) ChartKind() Kind    { return KindScatter }
func (s ScatterPlot) ChartTitle() string { return s.YColumn + " vs " + s.XColumn }

// CountPlot counts occurrences of each category.
type CountPlot struct {
	Column     string   `json:"column"`
	Color      string   `json:"color"`
	Categories []string `json:"categories"`
	Counts     []int    `json:"counts"`
}

func (c CountPlot) ChartKind() Kind    { return KindCount }
func (c CountPlot) ChartTitle() string { return "Count of " + c.Column }

// CorrelationHeatmap holds pairwise Pearson correlations over numeric columns.
// When fewer than two numeric columns exist, Insufficient is set and Matrix is nil.
type CorrelationHeatmap struct {
	Columns      []string       `json:"columns"`
	Matrix       [][]stats.Stat `json:"matrix"`
	Insufficient bool           `json:"insufficient"`
	Reason       string         `json:"reason,omitempty"`
}

func (c CorrelationHeatmap) ChartKind() Kind    { return KindHeatmap }
func (c CorrelationHeatmap) ChartTitle() string { return "Correlation heatmap" }

// Envelope is the tagged JSON wire form of a Spec.
type Envelope struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Spec  Spec   `json:"spec"`
}

// Wrap builds the envelope for a spec; nil specs give a nil envelope.
func Wrap(spec Spec) *Envelope {
	if spec == nil {
		return nil
	}
	return &Envelope{Kind: spec.ChartKind(), Title: spec.ChartTitle(), Spec: spec}
}

// UnmarshalJSON decodes the spec into the variant named by kind.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind  Kind            `json:"kind"`
		Title string          `json:"title"`
		Spec  json.RawMessage `json:"spec"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var spec Spec
	var err error
	switch raw.Kind {
	case KindHistogram:
		var v Histogram
		err = json.Unmarshal(raw.Spec, &v)
		spec = v
	case KindBoxplot:
		var v Boxplot
		err = json.Unmarshal(raw.Spec, &v)
		spec = v
	case KindLine:
		var v LineSeries
		err = json.Unmarshal(raw.Spec, &v)
		spec = v
	case KindScatter:
		var v ScatterPlot
		err = json.Unmarshal(raw.Spec, &v)
		spec = v
	case KindCount:
		var v CountPlot
		err = json.Unmarshal(raw.Spec, &v)
		spec = v
	case KindHeatmap:
		var v CorrelationHeatmap
		err = json.Unmarshal(raw.Spec, &v)
		spec = v
	default:
		return fmt.Errorf("unknown chart kind %q", raw.Kind)
	}
	if err != nil {
		return fmt.Errorf("decode %s spec: %w", raw.Kind, err)
	}

	e.Kind = raw.Kind
	e.Title = raw.Title
	e.Spec = spec
	return nil
}
