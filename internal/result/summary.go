package result

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a numeric column.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes count, mean, standard deviation and range over the
// named column. Int values are included; non-numeric values make the
// column ineligible. An empty or absent column is an error rather than a
// zero summary, so callers cannot mistake "no data" for "all zeros".
func (t *Table) Summarize(field string) (Summary, error) {
	var xs []float64
	for _, r := range t.rows {
		v, ok := r.values[field]
		if !ok {
			continue
		}
		f, ok := v.Float64()
		if !ok {
			return Summary{}, fmt.Errorf("column %q holds non-numeric values", field)
		}
		xs = append(xs, f)
	}
	if len(xs) == 0 {
		return Summary{}, fmt.Errorf("column %q has no values", field)
	}

	s := Summary{
		N:    len(xs),
		Mean: stat.Mean(xs, nil),
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	for _, x := range xs {
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	return s, nil
}
