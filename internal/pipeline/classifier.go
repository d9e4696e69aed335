package pipeline

import (
	"math"

	"reflim/domain/interval"
	"reflim/internal/errors"
	"reflim/internal/quantile"
)

// skewCutoff is the empirical decision threshold on the Bowley skewness
// difference between linear and log space. A sample whose skewness drops by
// at least this much under a log transform is better modeled as log-normal.
const skewCutoff = 0.05

// Classify decides whether a sample is better modeled as normal or
// log-normal. The decision uses only the quartiles, so contaminating
// pathological values in the tails rarely influence it. All values must be
// strictly positive since the log transform is part of the decision.
func Classify(sample []float64) (interval.Model, error) {
	if len(sample) == 0 {
		return "", errors.InvalidInput("cannot classify an empty sample")
	}

	logged, err := logTransform(sample)
	if err != nil {
		return "", err
	}

	bs := quantile.BowleySkew(sample)
	bsLog := quantile.BowleySkew(logged)

	if bs-bsLog >= skewCutoff {
		return interval.ModelLogNormal, nil
	}
	return interval.ModelNormal, nil
}

// logTransform returns the element-wise natural log of the sample, failing
// with a domain error on any non-positive value.
func logTransform(sample []float64) ([]float64, error) {
	out := make([]float64, len(sample))
	for i, v := range sample {
		if v <= 0 {
			return nil, errors.Newf(errors.CodeDomainError,
				"log transform requires strictly positive values, got %g", v)
		}
		out[i] = math.Log(v)
	}
	return out, nil
}

// expTransform is the inverse of logTransform.
func expTransform(sample []float64) []float64 {
	out := make([]float64, len(sample))
	for i, v := range sample {
		out[i] = math.Exp(v)
	}
	return out
}
