// Package stats provides the quantile and outlier primitives used to flag
// anomalous heat-loss readings.
package stats

import (
	"math"
	"sort"

	"kiln-shell-audit/internal/models"
)

// TukeyFence is the IQR multiplier defining the outlier whiskers.
const TukeyFence = 1.5

// Quantile returns the q-th quantile (q in [0,1]) of values using linear
// interpolation between closest ranks. Returns NaN for an empty series.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median is the 0.5 quantile.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// DetectOutliers classifies each value against the Tukey fences
// (Q3 + 1.5·IQR above, Q1 − 1.5·IQR below). The two index sets are disjoint
// whenever IQR ≥ 0, and both empty when every value is equal.
func DetectOutliers(values []float64) models.OutlierSet {
	var out models.OutlierSet
	if len(values) == 0 {
		return out
	}

	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	upper := q3 + TukeyFence*iqr
	lower := q1 - TukeyFence*iqr

	for i, v := range values {
		if v > upper {
			out.High = append(out.High, i)
		}
		if v < lower {
			out.Low = append(out.Low, i)
		}
	}
	return out
}
