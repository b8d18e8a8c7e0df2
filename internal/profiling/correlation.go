package profiling

import (
	"math"

	domainDataset "dashkit/domain/dataset"
	domainStats "dashkit/domain/stats"

	"github.com/montanaflynn/stats"
)

// CorrelationMatrix computes pairwise Pearson correlation between the named
// numeric columns of view. Each pair uses only rows where both values are
// present. A cell is undefined with fewer than two such rows or when either
// side has zero variance. The diagonal is 1 whenever the column varies.
func CorrelationMatrix(view *domainDataset.Table, columns []string) [][]domainStats.Stat {
	cols := make([]domainDataset.Column, len(columns))
	for i, name := range columns {
		cols[i], _ = view.Column(name)
	}

	matrix := make([][]domainStats.Stat, len(cols))
	for i := range matrix {
		matrix[i] = make([]domainStats.Stat, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(cols[i], cols[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return matrix
}

func pearson(a, b domainDataset.Column) domainStats.Stat {
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x, y := a.Values[i], b.Values[i]
		if x.Missing || y.Missing {
			continue
		}
		xs = append(xs, x.Num)
		ys = append(ys, y.Num)
	}
	if len(xs) < 2 {
		return domainStats.Undefined()
	}

	// correlation is scale-free; large magnitudes are brought into range first
	vx, _ := stats.Variance(xs)
	vy, _ := stats.Variance(ys)
	if math.IsInf(vx, 0) || math.IsNaN(vx) || math.IsInf(vy, 0) || math.IsNaN(vy) {
		xs, _ = rescale(xs)
		ys, _ = rescale(ys)
		vx, _ = stats.Variance(xs)
		vy, _ = stats.Variance(ys)
	}

	// stats.Pearson reports 0 for constant input; that case is undefined here
	if vx == 0 || vy == 0 {
		return domainStats.Undefined()
	}

	r, err := stats.Pearson(xs, ys)
	if err != nil {
		return domainStats.Undefined()
	}
	// clamp rounding drift so the diagonal reads exactly 1
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return domainStats.Of(r)
}
