package pipeline

import (
	"math"
	"testing"

	"reflim/domain/interval"
	"reflim/internal/errors"
	"reflim/internal/testkit"
)

func TestClassify_SymmetricSampleIsNormal(t *testing.T) {
	// 1000 values evenly distributed around 140: quartile-symmetric in
	// linear space, barely skewed in log space.
	sample := make([]float64, 1000)
	for i := range sample {
		sample[i] = 120 + 40*float64(i)/999
	}

	model, err := Classify(sample)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if model != interval.ModelNormal {
		t.Errorf("expected normal for a symmetric sample, got %s", model)
	}
}

func TestClassify_RightSkewedSampleIsLogNormal(t *testing.T) {
	sample := testkit.Generate(testkit.SampleConfig{
		Size: 2000, Mean: 3, StdDev: 0.5, LogNormal: true, Seed: 7,
	})

	model, err := Classify(sample)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if model != interval.ModelLogNormal {
		t.Errorf("expected lognormal for a right-skewed sample, got %s", model)
	}
}

func TestClassify_NonPositiveValueFails(t *testing.T) {
	_, err := Classify([]float64{1, 2, 0, 4})
	if err == nil {
		t.Fatal("expected a domain error for a non-positive value")
	}
	if code := errors.GetCode(err); code != errors.CodeDomainError {
		t.Errorf("expected %s, got %s", errors.CodeDomainError, code)
	}
}

func TestClassify_EmptySampleFails(t *testing.T) {
	if _, err := Classify(nil); err == nil {
		t.Fatal("expected an error for an empty sample")
	}
}

func TestLogExpRoundTrip(t *testing.T) {
	sample := []float64{0.001, 0.5, 1, 42, 1e9}

	logged, err := logTransform(sample)
	if err != nil {
		t.Fatalf("logTransform failed: %v", err)
	}
	back := expTransform(logged)

	for i, v := range sample {
		if math.Abs(back[i]-v)/v > 1e-12 {
			t.Errorf("round trip drifted at %d: %g -> %g", i, v, back[i])
		}
	}
}
