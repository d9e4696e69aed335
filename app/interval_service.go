package app

import (
	"math"

	"github.com/montanaflynn/stats"

	"reflim/domain/interval"
	"reflim/internal"
	"reflim/internal/errors"
	"reflim/internal/pipeline"
)

// IntervalService orchestrates the estimation pipeline:
// validate -> classify -> trim/fit -> confidence. Any stage failure aborts
// the call with no partial result.
type IntervalService struct {
	logger *internal.Logger
}

// NewIntervalService creates the orchestrator.
func NewIntervalService(logger *internal.Logger) *IntervalService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &IntervalService{logger: logger}
}

// EstimateInterval runs the full pipeline over one sample. Non-finite
// entries are dropped before validation; at least interval.MinSampleSize
// finite, strictly positive values must remain.
func (s *IntervalService) EstimateInterval(sample []float64, opts interval.Options) (*interval.Result, error) {
	clean := dropNonFinite(sample)
	if len(clean) < interval.MinSampleSize {
		return nil, errors.InsufficientData(len(clean), interval.MinSampleSize)
	}
	for _, v := range clean {
		if v <= 0 {
			return nil, errors.Newf(errors.CodeDomainError,
				"sample contains non-positive value %g; reference interval estimation assumes positive measurements", v)
		}
	}

	model, err := s.resolveModel(clean, opts)
	if err != nil {
		return nil, err
	}

	est, err := pipeline.EstimateLimits(clean, model, opts.NQuantiles)
	if err != nil {
		return nil, err
	}

	bounds, confWarnings, err := pipeline.Confidence(len(clean), est.Limits.Lower, est.Limits.Upper, model)
	if err != nil {
		return nil, err
	}

	summary := summarize(clean)

	result := &interval.Result{
		RunID:      interval.NewRunID(),
		Model:      model,
		SampleSize: len(clean),
		Limits:     est.Limits,
		Fit:        est.Fit,
		Confidence: bounds,
		QQ:         est.QQ,
		Summary:    summary,
		Warnings:   append(est.Warnings, confWarnings...),
	}

	if opts.ApplyRounding {
		rounded := pipeline.RoundLimits(est.Limits, summary.Median)
		result.Rounded = &rounded
	}

	s.logger.Info("estimated reference interval: run=%s model=%s n=%d limits=[%g, %g]",
		result.RunID, model, len(clean), est.Limits.Lower, est.Limits.Upper)
	return result, nil
}

// resolveModel honors a caller-supplied model, otherwise classifies.
func (s *IntervalService) resolveModel(sample []float64, opts interval.Options) (interval.Model, error) {
	if opts.Model != nil {
		switch *opts.Model {
		case interval.ModelNormal, interval.ModelLogNormal:
			return *opts.Model, nil
		default:
			return "", errors.Newf(errors.CodeInvalidInput, "unknown distribution model %q", *opts.Model)
		}
	}
	model, err := pipeline.Classify(sample)
	if err != nil {
		return "", err
	}
	s.logger.Debug("classified sample as %s", model)
	return model, nil
}

func dropNonFinite(sample []float64) []float64 {
	clean := make([]float64, 0, len(sample))
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}
	return clean
}

func summarize(sample []float64) interval.SummaryStats {
	mean, _ := stats.Mean(sample)
	stdDev, _ := stats.StandardDeviation(sample)
	median, _ := stats.Median(sample)
	min, _ := stats.Min(sample)
	max, _ := stats.Max(sample)
	return interval.SummaryStats{
		Mean:   mean,
		StdDev: stdDev,
		Median: median,
		Min:    min,
		Max:    max,
	}
}
