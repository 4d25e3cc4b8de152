package services

import (
	"math"

	"gonum.org/v1/plot/plotter"

	"sales-dashboard/internal/models"
)

// Histogram splits values into equal-width bins spanning [min, max]. The last
// bin is closed on the right. A single distinct value yields one bin.
// Non-finite values are skipped.
func Histogram(values []float64, bins int) []models.HistogramBin {
	finite := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 || bins <= 0 {
		return []models.HistogramBin{}
	}

	h, err := plotter.NewHist(finite, bins)
	if err != nil {
		return []models.HistogramBin{}
	}

	out := make([]models.HistogramBin, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = models.HistogramBin{Lower: b.Min, Upper: b.Max, Count: int(b.Weight)}
	}

	// NewHist widens a constant sample to a unit bin; report it as a point.
	lo, hi := plotter.Range(finite)
	if lo == hi {
		out[0].Upper = lo
	} else {
		out[len(out)-1].Upper = hi
	}
	return out
}
