package pipeline

import (
	"math"

	"reflim/domain/interval"
	"reflim/internal/errors"
	"reflim/internal/quantile"
)

// Truncation quantile factors. The first pass trims an untouched sample, so
// the factor maps the quartile half-spread onto the 95% envelope of a normal
// distribution (2.9 ~= qnorm(0.975)/qnorm(0.75)). Every later pass operates
// on an already-truncated distribution whose quartiles sit slightly inward,
// which the wider 3.1 factor compensates for.
const (
	firstPassFactor = 2.9
	steadyFactor    = 3.1
	// maxTrimIterations caps the loop against floating-point
	// non-convergence; real data reaches a fixed point within a handful
	// of passes.
	maxTrimIterations = 50
)

// trimPhase makes the two-factor truncation policy an explicit state
// machine rather than a flag-toggling loop.
type trimPhase int

const (
	phaseFirstPass trimPhase = iota
	phaseSteadyState
	phaseConverged
)

// TruncateOnce performs one truncation pass: values outside
// [Q2 - qf*s, Q2 + qf*s] are dropped, where s is the smaller quartile
// half-spread min(Q2-Q1, Q3-Q2), the half less prone to contamination.
// The returned flag reports a degenerate (zero) spread, which collapses
// the bounds to a point and can empty the result.
func TruncateOnce(sample []float64, qf float64) (kept []float64, degenerate bool) {
	q := quantile.Quartile(sample)
	spread := math.Min(q.Q2-q.Q1, q.Q3-q.Q2)
	degenerate = spread == 0

	limLow := q.Q2 - qf*spread
	limHigh := q.Q2 + qf*spread

	kept = make([]float64, 0, len(sample))
	for _, v := range sample {
		if v >= limLow && v <= limHigh {
			kept = append(kept, v)
		}
	}
	return kept, degenerate
}

// RobustTrim repeatedly truncates statistical outliers from the sample
// until a pass removes nothing. When isLogNormal is set the trimming runs
// in log space and the result is exponentiated back before returning.
// A pass that empties the working sample fails immediately: propagating an
// empty sequence into later percentile computations would be undefined.
func RobustTrim(sample []float64, isLogNormal bool) (trimmed []float64, warnings []interval.Warning, err error) {
	work := make([]float64, len(sample))
	copy(work, sample)

	if isLogNormal {
		work, err = logTransform(work)
		if err != nil {
			return nil, nil, err
		}
	}

	degenerateSeen := false
	phase := phaseFirstPass

	for iter := 0; phase != phaseConverged && iter < maxTrimIterations; iter++ {
		qf := steadyFactor
		if phase == phaseFirstPass {
			qf = firstPassFactor
		}

		next, degenerate := TruncateOnce(work, qf)
		if degenerate {
			degenerateSeen = true
		}
		if len(next) == 0 {
			return nil, warningsFor(degenerateSeen), errors.DomainError(
				"truncation emptied the sample: interquartile half-spread collapsed to a point")
		}

		switch {
		case len(next) == len(work):
			phase = phaseConverged
		case phase == phaseFirstPass:
			phase = phaseSteadyState
		}
		work = next
	}

	if isLogNormal {
		work = expTransform(work)
	}
	return work, warningsFor(degenerateSeen), nil
}

func warningsFor(degenerateSeen bool) []interval.Warning {
	if !degenerateSeen {
		return nil
	}
	return []interval.Warning{interval.WarningDegenerateSpread}
}
