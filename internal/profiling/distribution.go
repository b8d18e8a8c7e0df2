package profiling

import (
	"math"
	"sort"

	domainStats "dashkit/domain/stats"

	"github.com/montanaflynn/stats"
)

// DistributionAnalyzer computes the numeric describe() statistics of a column
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Describe summarises the non-missing values of one numeric column. data is
// not modified. Statistics that need more values than are present are left
// undefined: everything for n = 0, the standard deviation for n = 1.
func (da *DistributionAnalyzer) Describe(column string, data []float64) domainStats.NumericSummary {
	summary := domainStats.NumericSummary{Column: column, Count: len(data)}
	if len(data) == 0 {
		return summary
	}

	if mean, err := finite(data, stats.Mean); err == nil {
		summary.Mean = domainStats.Of(mean)
	}
	if len(data) > 1 {
		if std, err := finite(data, stats.StandardDeviationSample); err == nil {
			summary.Std = domainStats.Of(std)
		}
	}
	if min, err := stats.Min(data); err == nil {
		summary.Min = domainStats.Of(min)
	}
	if max, err := stats.Max(data); err == nil {
		summary.Max = domainStats.Of(max)
	}

	sorted := SortedCopy(data)
	summary.Q25 = Quantile(sorted, 0.25)
	summary.Q50 = Quantile(sorted, 0.50)
	summary.Q75 = Quantile(sorted, 0.75)

	return summary
}

// finite applies a scale-equivariant statistic to data. When the direct
// computation overflows, it is redone on data divided by its largest magnitude
// and scaled back.
func finite(data []float64, fn func(stats.Float64Data) (float64, error)) (float64, error) {
	v, err := fn(data)
	if err != nil || !math.IsInf(v, 0) && !math.IsNaN(v) {
		return v, err
	}
	scaled, scale := rescale(data)
	if scale == 0 {
		return v, err
	}
	v, err = fn(scaled)
	return v * scale, err
}

// rescale divides data by its largest magnitude, returning the copy and the divisor.
func rescale(data []float64) ([]float64, float64) {
	var scale float64
	for _, x := range data {
		scale = math.Max(scale, math.Abs(x))
	}
	if scale == 0 {
		return data, 0
	}
	out := make([]float64, len(data))
	for i, x := range data {
		out[i] = x / scale
	}
	return out, scale
}

// SortedCopy returns an ascending copy of data
func SortedCopy(data []float64) []float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return sorted
}

// Quantile returns the p-quantile of ascending data by linear interpolation
// between order statistics at position (n-1)p.
func Quantile(sorted []float64, p float64) domainStats.Stat {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return domainStats.Undefined()
	}
	if n == 1 {
		return domainStats.Of(sorted[0])
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return domainStats.Of(sorted[lo])
	}
	frac := h - float64(lo)
	a, b := sorted[lo], sorted[hi]
	if d := b - a; !math.IsInf(d, 0) {
		return domainStats.Of(a + frac*d)
	}
	return domainStats.Of(a*(1-frac) + b*frac)
}

// Fences are the Tukey bounds of a box plot.
type Fences struct {
	Q1, Median, Q3          domainStats.Stat
	WhiskerLow, WhiskerHigh domainStats.Stat
	Outliers                []float64
}

// TukeyFences computes the box, the whiskers (furthest values within 1.5 IQR
// of the box) and the values outside them.
func TukeyFences(data []float64) Fences {
	sorted := SortedCopy(data)
	f := Fences{
		Q1:       Quantile(sorted, 0.25),
		Median:   Quantile(sorted, 0.50),
		Q3:       Quantile(sorted, 0.75),
		Outliers: []float64{},
	}
	if len(sorted) == 0 {
		return f
	}

	iqr := f.Q3.Value - f.Q1.Value
	lowerBound := f.Q1.Value - 1.5*iqr
	upperBound := f.Q3.Value + 1.5*iqr

	for _, x := range sorted {
		if x < lowerBound || x > upperBound {
			f.Outliers = append(f.Outliers, x)
			continue
		}
		if !f.WhiskerLow.Defined {
			f.WhiskerLow = domainStats.Of(x)
		}
		f.WhiskerHigh = domainStats.Of(x)
	}

	return f
}
