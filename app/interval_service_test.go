package app

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflim/domain/interval"
	"reflim/internal/errors"
	"reflim/internal/testkit"
)

func TestEstimateInterval_RecoversContaminatedNormal(t *testing.T) {
	// A healthy N(140, 10) population with two shifted pathological
	// subpopulations mixed in. The pipeline has to recover the healthy
	// 2.5th/97.5th percentiles without being told who is healthy.
	cfg := testkit.DefaultSampleConfig()
	sample := testkit.Generate(cfg)

	svc := NewIntervalService(nil)
	result, err := svc.EstimateInterval(sample, interval.Options{})
	require.NoError(t, err)

	wantLower := cfg.Mean - 1.96*cfg.StdDev
	wantUpper := cfg.Mean + 1.96*cfg.StdDev

	assert.InDelta(t, wantLower, result.Limits.Lower, 0.1*wantLower, "lower limit within 10%")
	assert.InDelta(t, wantUpper, result.Limits.Upper, 0.1*wantUpper, "upper limit within 10%")

	// The theoretical percentiles fall inside the confidence bounds.
	assert.LessOrEqual(t, result.Confidence.LowerLow, wantLower)
	assert.GreaterOrEqual(t, result.Confidence.LowerHigh, wantLower)
	assert.LessOrEqual(t, result.Confidence.UpperLow, wantUpper)
	assert.GreaterOrEqual(t, result.Confidence.UpperHigh, wantUpper)

	assert.Equal(t, len(sample), result.SampleSize)
	assert.False(t, result.RunID.IsEmpty())
	assert.Len(t, result.QQ.Theoretical, 100)
	assert.Len(t, result.QQ.Empirical, 100)
}

func TestEstimateInterval_InsufficientData(t *testing.T) {
	sample := make([]float64, 99)
	for i := range sample {
		sample[i] = 100 + float64(i)
	}

	svc := NewIntervalService(nil)
	_, err := svc.EstimateInterval(sample, interval.Options{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
}

func TestEstimateInterval_NonFiniteValuesAreDropped(t *testing.T) {
	// 99 finite values padded with NaN/Inf still fail the size check:
	// non-finite entries never count.
	sample := make([]float64, 0, 105)
	for i := 0; i < 99; i++ {
		sample = append(sample, 100+float64(i))
	}
	sample = append(sample, math.NaN(), math.Inf(1), math.Inf(-1))

	svc := NewIntervalService(nil)
	_, err := svc.EstimateInterval(sample, interval.Options{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
}

func TestEstimateInterval_NonPositiveValueFails(t *testing.T) {
	sample := testkit.Generate(testkit.SampleConfig{Size: 200, Mean: 50, StdDev: 5, Seed: 1})
	sample[13] = 0

	svc := NewIntervalService(nil)
	_, err := svc.EstimateInterval(sample, interval.Options{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeDomainError, errors.GetCode(err))
}

func TestEstimateInterval_ExplicitModelBypassesClassifier(t *testing.T) {
	sample := testkit.Generate(testkit.SampleConfig{Size: 1000, Mean: 140, StdDev: 10, Seed: 2})

	model := interval.ModelLogNormal
	svc := NewIntervalService(nil)
	result, err := svc.EstimateInterval(sample, interval.Options{Model: &model})
	require.NoError(t, err)
	assert.Equal(t, interval.ModelLogNormal, result.Model)
	assert.NotZero(t, result.Limits.LogMean)
}

func TestEstimateInterval_RejectsUnknownModel(t *testing.T) {
	sample := testkit.Generate(testkit.SampleConfig{Size: 1000, Mean: 140, StdDev: 10, Seed: 2})

	bogus := interval.Model("weibull")
	svc := NewIntervalService(nil)
	_, err := svc.EstimateInterval(sample, interval.Options{Model: &bogus})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestEstimateInterval_RoundingKeepsRawValues(t *testing.T) {
	sample := testkit.Generate(testkit.SampleConfig{Size: 1000, Mean: 140, StdDev: 10, Seed: 6})

	svc := NewIntervalService(nil)
	raw, err := svc.EstimateInterval(sample, interval.Options{})
	require.NoError(t, err)
	require.Nil(t, raw.Rounded)

	rounded, err := svc.EstimateInterval(sample, interval.Options{ApplyRounding: true})
	require.NoError(t, err)
	require.NotNil(t, rounded.Rounded)

	// Raw limits are identical with and without rounding; the rounded
	// copy is derived, never destructive.
	assert.Equal(t, raw.Limits, rounded.Limits)
	assert.Equal(t, math.Round(raw.Limits.Lower), rounded.Rounded.Lower)
	assert.Equal(t, math.Round(raw.Limits.Upper), rounded.Rounded.Upper)
}
