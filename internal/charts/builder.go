package charts

import (
	"encoding/json"
	"math"

	"dashkit/domain/chart"
	domainDataset "dashkit/domain/dataset"
	domainStats "dashkit/domain/stats"
	"dashkit/internal/dataset"
	"dashkit/internal/errors"
	"dashkit/internal/profiling"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Selection is the column choice a chart is built from.
type Selection struct {
	NumericColumn          string `json:"numeric_column,omitempty"`
	SecondaryNumericColumn string `json:"secondary_numeric_column,omitempty"`
	CategoricalColumn      string `json:"categorical_column,omitempty"`
}

// SelectionFrom extracts the column choice from the full selection state
func SelectionFrom(s domainDataset.SelectionState) Selection {
	return Selection{
		NumericColumn:          s.NumericColumn,
		SecondaryNumericColumn: s.SecondaryNumericColumn,
		CategoricalColumn:      s.CategoricalColumn,
	}
}

// Build derives the chart of the given kind from view. It fails with
// NO_APPLICABLE_CHART when the kind's column prerequisites are unmet and with
// UNKNOWN_COLUMN when a selected column is not in view. A heatmap over fewer
// than two numeric columns is not an error: it comes back marked Insufficient.
func Build(view *domainDataset.Table, kind chart.Kind, sel Selection, opts ...Option) (chart.Spec, error) {
	cfg := applyOptions(opts)
	if cfg.color == "" {
		cfg.color = colorFor(kind)
	}

	switch kind {
	case chart.KindHistogram:
		col, err := numericColumn(view, kind, sel.NumericColumn)
		if err != nil {
			return nil, err
		}
		return buildHistogram(col, cfg), nil

	case chart.KindBoxplot:
		col, err := numericColumn(view, kind, sel.NumericColumn)
		if err != nil {
			return nil, err
		}
		return buildBoxplot(col, cfg), nil

	case chart.KindLine:
		col, err := numericColumn(view, kind, sel.NumericColumn)
		if err != nil {
			return nil, err
		}
		return buildLine(col, cfg), nil

	case chart.KindScatter:
		x, err := numericColumn(view, kind, sel.NumericColumn)
		if err != nil {
			return nil, err
		}
		if sel.SecondaryNumericColumn == "" {
			return nil, errors.NoApplicableChart(string(kind), "a second numeric column is required")
		}
		if sel.SecondaryNumericColumn == sel.NumericColumn {
			return nil, errors.NoApplicableChart(string(kind), "x and y must be different columns")
		}
		y, err := numericColumn(view, kind, sel.SecondaryNumericColumn)
		if err != nil {
			return nil, err
		}
		return buildScatter(x, y, cfg), nil

	case chart.KindCount:
		col, err := categoricalColumn(view, kind, sel.CategoricalColumn)
		if err != nil {
			return nil, err
		}
		categories, counts := profiling.ValueCounts(col)
		if categories == nil {
			categories, counts = []string{}, []int{}
		}
		return chart.CountPlot{Column: col.Name, Color: cfg.color, Categories: categories, Counts: counts}, nil

	case chart.KindHeatmap:
		return buildHeatmap(view), nil
	}

	return nil, errors.InvalidInput("unknown chart kind " + string(kind))
}

// Result is the outcome of building one requested chart.
type Result struct {
	Kind  chart.Kind      `json:"kind"`
	Chart *chart.Envelope `json:"chart,omitempty"`
	Err   error           `json:"-"`
}

// MarshalJSON adds the error code and message for failed builds
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind  chart.Kind      `json:"kind"`
		Chart *chart.Envelope `json:"chart,omitempty"`
		Code  string          `json:"code,omitempty"`
		Error string          `json:"error,omitempty"`
	}
	w := wire{Kind: r.Kind, Chart: r.Chart}
	if r.Err != nil {
		w.Code = errors.GetCode(r.Err)
		w.Error = r.Err.Error()
	}
	return json.Marshal(w)
}

// BuildAll builds each requested kind independently; one chart failing does
// not affect the others.
func BuildAll(view *domainDataset.Table, sel Selection, kinds []chart.Kind, opts ...Option) []Result {
	results := make([]Result, 0, len(kinds))
	for _, kind := range kinds {
		spec, err := Build(view, kind, sel, opts...)
		results = append(results, Result{Kind: kind, Chart: chart.Wrap(spec), Err: err})
	}
	return results
}

func numericColumn(view *domainDataset.Table, kind chart.Kind, name string) (domainDataset.Column, error) {
	if name == "" {
		return domainDataset.Column{}, errors.NoApplicableChart(string(kind), "no numeric column selected")
	}
	col, ok := view.Column(name)
	if !ok {
		return domainDataset.Column{}, errors.UnknownColumn(name)
	}
	if col.Kind != domainDataset.KindNumeric {
		return domainDataset.Column{}, errors.NoApplicableChart(string(kind), "column "+name+" is not numeric")
	}
	return col, nil
}

func categoricalColumn(view *domainDataset.Table, kind chart.Kind, name string) (domainDataset.Column, error) {
	if name == "" {
		return domainDataset.Column{}, errors.NoApplicableChart(string(kind), "no categorical column selected")
	}
	col, ok := view.Column(name)
	if !ok {
		return domainDataset.Column{}, errors.UnknownColumn(name)
	}
	if col.Kind == domainDataset.KindNumeric {
		return domainDataset.Column{}, errors.NoApplicableChart(string(kind), "column "+name+" is not categorical")
	}
	return col, nil
}

// buildHistogram bins values into equal-width bins over [min, max] with the
// last bin closed. A constant column is binned over [v-0.5, v+0.5].
func buildHistogram(col domainDataset.Column, cfg *config) chart.Histogram {
	h := chart.Histogram{
		Column: col.Name,
		Bins:   cfg.bins,
		Color:  cfg.color,
		Edges:  []float64{},
		Counts: []int{},
	}

	sorted := profiling.SortedCopy(col.Floats())
	if len(sorted) == 0 {
		return h
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	h.Edges = binEdges(lo, hi, cfg.bins)

	// stat.Histogram bins are half-open; nudge the top divider so max lands in the last bin
	dividers := append([]float64(nil), h.Edges...)
	dividers[cfg.bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	h.Counts = make([]int, len(counts))
	for i, c := range counts {
		h.Counts[i] = int(c)
	}
	return h
}

// binEdges returns n+1 equally spaced edges from lo to hi. When hi-lo
// overflows, each edge is taken as a convex combination of the endpoints.
func binEdges(lo, hi float64, n int) []float64 {
	if !math.IsInf(hi-lo, 0) {
		return floats.Span(make([]float64, n+1), lo, hi)
	}
	edges := make([]float64, n+1)
	for i := range edges {
		t := float64(i) / float64(n)
		edges[i] = lo*(1-t) + hi*t
	}
	edges[0], edges[n] = lo, hi
	return edges
}

func buildBoxplot(col domainDataset.Column, cfg *config) chart.Boxplot {
	f := profiling.TukeyFences(col.Floats())
	return chart.Boxplot{
		Column:      col.Name,
		Color:       cfg.color,
		Q1:          f.Q1,
		Median:      f.Median,
		Q3:          f.Q3,
		WhiskerLow:  f.WhiskerLow,
		WhiskerHigh: f.WhiskerHigh,
		Outliers:    f.Outliers,
	}
}

func buildLine(col domainDataset.Column, cfg *config) chart.LineSeries {
	l := chart.LineSeries{
		Column: col.Name,
		Color:  cfg.color,
		X:      make([]int, len(col.Values)),
		Y:      make([]domainStats.Stat, len(col.Values)),
	}
	for i, v := range col.Values {
		l.X[i] = i
		if !v.Missing {
			l.Y[i] = domainStats.Of(v.Num)
		}
	}
	return l
}

func buildScatter(x, y domainDataset.Column, cfg *config) chart.ScatterPlot {
	s := chart.ScatterPlot{
		XColumn: x.Name,
		YColumn: y.Name,
		Color:   cfg.color,
		Points:  []chart.Point{},
	}
	for i := range x.Values {
		xv, yv := x.Values[i], y.Values[i]
		if xv.Missing || yv.Missing {
			continue
		}
		s.Points = append(s.Points, chart.Point{X: xv.Num, Y: yv.Num})
	}
	return s
}

func buildHeatmap(view *domainDataset.Table) chart.CorrelationHeatmap {
	numeric := dataset.Classify(view).Numeric
	if len(numeric) < 2 {
		return chart.CorrelationHeatmap{
			Columns:      numeric,
			Insufficient: true,
			Reason:       "at least two numeric columns are needed for a correlation heatmap",
		}
	}
	return chart.CorrelationHeatmap{
		Columns: numeric,
		Matrix:  profiling.CorrelationMatrix(view, numeric),
	}
}

func colorFor(kind chart.Kind) string {
	for i, k := range chart.AllKinds {
		if k == kind {
			return defaultColors[i%len(defaultColors)]
		}
	}
	return defaultColors[0]
}
