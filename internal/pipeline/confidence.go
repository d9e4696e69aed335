package pipeline

import (
	"math"

	"reflim/domain/interval"
	"reflim/internal/errors"
)

// Closed-form approximations, from order-statistics theory, of the standard
// error of extreme percentile estimates. The inner coefficient's
// denominator sqrt(n) - 5.58 is singular near n = 31, so smaller samples
// are rejected outright instead of returning a sign-flipped interval.
const (
	sigmaDivisor = 3.92 // 2 * 1.96: 95% interval width in standard deviations
	outerCoeff   = 5.81
	outerOffset  = 0.66
	innerCoeff   = 7.26
	innerOffset  = 5.58
)

// minConfidenceN is the smallest sample size the approximation accepts;
// below it the inner term is undefined or sign-flipped.
const minConfidenceN = 32

// lowNThreshold marks sample sizes where the approximation is defined but
// known to be loose; results carry a LOW_N warning rather than failing.
const lowNThreshold = 120

// Confidence derives confidence bounds around both reference limits from
// the sample size and the limit point estimates. For a log-normal model the
// computation runs in log space and the bounds are exponentiated back.
func Confidence(n int, lower, upper float64, model interval.Model) (interval.ConfidenceBounds, []interval.Warning, error) {
	var bounds interval.ConfidenceBounds

	if upper <= lower {
		return bounds, nil, errors.Newf(errors.CodeInvalidRange,
			"confidence step requires upper > lower, got [%g, %g]", lower, upper)
	}
	if n < minConfidenceN {
		return bounds, nil, errors.Newf(errors.CodeInsufficientData,
			"confidence approximation is singular for n <= 31, got n = %d", n)
	}

	logSpace := model == interval.ModelLogNormal
	if logSpace {
		if lower <= 0 {
			return bounds, nil, errors.DomainError(
				"log-normal confidence bounds require a positive lower limit")
		}
		lower = math.Log(lower)
		upper = math.Log(upper)
	}

	sqrtN := math.Sqrt(float64(n))
	sigma := (upper - lower) / sigmaDivisor
	diffOuter := sigma * outerCoeff / (sqrtN + outerOffset)
	diffInner := sigma * innerCoeff / (sqrtN - innerOffset)

	bounds = interval.ConfidenceBounds{
		LowerLow:  lower - diffOuter,
		LowerHigh: lower + diffInner,
		UpperLow:  upper - diffInner,
		UpperHigh: upper + diffOuter,
	}

	if logSpace {
		bounds.LowerLow = math.Exp(bounds.LowerLow)
		bounds.LowerHigh = math.Exp(bounds.LowerHigh)
		bounds.UpperLow = math.Exp(bounds.UpperLow)
		bounds.UpperHigh = math.Exp(bounds.UpperHigh)
	}

	var warnings []interval.Warning
	if n < lowNThreshold {
		warnings = append(warnings, interval.WarningLowN)
	}
	return bounds, warnings, nil
}
