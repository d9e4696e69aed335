package pipeline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"reflim/domain/interval"
	"reflim/internal/errors"
	"reflim/internal/quantile"
)

// DefaultQuantiles is the q-q correspondence length used when the caller
// does not specify one.
const DefaultQuantiles = 100

// Truncation keeps the central 95% of the underlying healthy distribution,
// so the trimmed sample's empirical quantiles over [0, 1] correspond to
// standard-normal quantiles over [0.025, 0.975].
const (
	truncLowProb  = 0.025
	truncHighProb = 0.975
)

// z975 is the 97.5% standard normal quantile applied to the fitted line to
// derive the reference limits.
const z975 = 1.96

// Estimate bundles the limit point estimates with the intermediates the
// reporting and visualization layers consume.
type Estimate struct {
	Limits   interval.Limits
	Fit      interval.Fit
	QQ       interval.QQPlot
	Warnings []interval.Warning
}

// EstimateLimits derives the 2.5th/97.5th percentile reference limits of
// the uncontaminated subpopulation. It trims outliers, builds a q-q
// correspondence against a truncated standard normal, and fits an OLS line
// through the central 50% of the correspondence; the fit's intercept and
// slope estimate the healthy mean and standard deviation in working space.
func EstimateLimits(sample []float64, model interval.Model, nQuantiles int) (*Estimate, error) {
	if nQuantiles <= 0 {
		nQuantiles = DefaultQuantiles
	}
	if nQuantiles < 8 {
		return nil, errors.InvalidInput("n_quantiles too small for a central-range fit, need at least 8")
	}
	if len(sample) == 0 {
		return nil, errors.InvalidInput("cannot estimate limits of an empty sample")
	}

	work := make([]float64, len(sample))
	copy(work, sample)

	var err error
	if model == interval.ModelLogNormal {
		work, err = logTransform(work)
		if err != nil {
			return nil, err
		}
	}

	// The working sample is already in the right space, so trimming runs
	// linear regardless of model.
	trimmed, warnings, err := RobustTrim(work, false)
	if err != nil {
		return nil, err
	}
	sort.Float64s(trimmed)

	std := distuv.Normal{Mu: 0, Sigma: 1}
	theoretical := make([]float64, nQuantiles)
	empirical := make([]float64, nQuantiles)
	for i := 0; i < nQuantiles; i++ {
		f := float64(i) / float64(nQuantiles-1)
		theoretical[i] = std.Quantile(truncLowProb + f*(truncHighProb-truncLowProb))
		empirical[i] = quantile.AtSorted(trimmed, f)
	}

	// Fit over the inclusive central index range [0.25n, 0.75n]: the tails
	// of the truncated sample are its least reliable part.
	lo := int(math.Round(0.25 * float64(nQuantiles)))
	hi := int(math.Round(0.75 * float64(nQuantiles)))
	if hi > nQuantiles-1 {
		hi = nQuantiles - 1
	}
	intercept, slope := stat.LinearRegression(theoretical[lo:hi+1], empirical[lo:hi+1], nil, false)

	lower := intercept - z975*slope
	upper := intercept + z975*slope

	limits := interval.Limits{Lower: lower, Upper: upper}
	if model == interval.ModelLogNormal {
		limits.LogMean = intercept
		limits.LogSD = slope
		limits.Lower = math.Exp(lower)
		limits.Upper = math.Exp(upper)
	}
	if limits.Lower < 0 {
		// Physical measurements cannot be negative.
		limits.Lower = 0
	}

	return &Estimate{
		Limits:   limits,
		Fit:      interval.Fit{Slope: slope, Intercept: intercept},
		QQ:       interval.QQPlot{Theoretical: theoretical, Empirical: empirical},
		Warnings: warnings,
	}, nil
}

// RoundLimits rounds limits to a display precision derived from the order
// of magnitude of the sample median: digits = 2 - floor(log10(median)).
// It returns a rounded copy; raw values are never destroyed, since the
// confidence step needs them unrounded.
func RoundLimits(limits interval.Limits, median float64) interval.Limits {
	if median <= 0 {
		return limits
	}
	digits := 2 - int(math.Floor(math.Log10(median)))
	rounded := limits
	rounded.Lower = roundTo(limits.Lower, digits)
	rounded.Upper = roundTo(limits.Upper, digits)
	return rounded
}

func roundTo(x float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	return math.Round(x*factor) / factor
}
