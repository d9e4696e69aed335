// Package quantile provides the order-statistic machinery shared by every
// pipeline stage. All quantiles use linear interpolation between order
// statistics (the "type 7" estimator: index = p*(n-1)); mixing conventions
// shifts limit estimates measurably at small sample sizes, so this is the
// only estimator used anywhere in the module.
package quantile

import (
	"math"
	"sort"

	"reflim/domain/interval"
)

// At returns the p-quantile (p in [0, 1]) of data. The input is copied and
// sorted; use AtSorted when computing many quantiles of the same sample.
func At(data []float64, p float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return AtSorted(sorted, p)
}

// AtSorted returns the p-quantile of an ascending-sorted sample.
func AtSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	index := p * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quartile returns the three quartile points from a slice of data
func Quartile(data []float64) interval.Quartiles {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return interval.Quartiles{
		Q1: AtSorted(sorted, 0.25),
		Q2: AtSorted(sorted, 0.50),
		Q3: AtSorted(sorted, 0.75),
	}
}

// BowleySkew computes Bowley's quartile skewness (Q1 - 2*Q2 + Q3)/(Q3 - Q1).
// It uses only the central 50% of the data, which makes it robust to
// outlier contamination in the tails. Returns 0 for a zero interquartile
// range (fully tied central half).
func BowleySkew(data []float64) float64 {
	q := Quartile(data)
	iqr := q.IQR()
	if iqr == 0 {
		return 0
	}
	return (q.Q1 - 2*q.Q2 + q.Q3) / iqr
}
