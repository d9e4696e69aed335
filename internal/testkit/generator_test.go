package testkit

import (
	"sort"
	"testing"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultSampleConfig()

	a := Generate(cfg)
	b := Generate(cfg)

	if len(a) != cfg.Size {
		t.Fatalf("expected %d values, got %d", cfg.Size, len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at index %d: %g != %g", i, a[i], b[i])
		}
	}
}

func TestGenerate_StrictlyPositive(t *testing.T) {
	// A mean close to zero forces redraws; values must stay positive.
	sample := Generate(SampleConfig{Size: 5000, Mean: 2, StdDev: 3, Seed: 13})
	for _, v := range sample {
		if v <= 0 {
			t.Fatalf("generated non-positive value %g", v)
		}
	}
}

func TestGenerate_LogNormalIsRightSkewed(t *testing.T) {
	sample := Generate(SampleConfig{Size: 5000, Mean: 2, StdDev: 0.8, LogNormal: true, Seed: 3})

	var mean float64
	for _, v := range sample {
		if v <= 0 {
			t.Fatalf("log-normal draw produced non-positive value %g", v)
		}
		mean += v
	}
	mean /= float64(len(sample))

	// For a log-normal the mean sits well above the median.
	median := middle(sample)
	if mean <= median {
		t.Errorf("expected mean (%g) above median (%g) for right-skewed data", mean, median)
	}
}

func middle(sample []float64) float64 {
	cp := append([]float64(nil), sample...)
	sort.Float64s(cp)
	return cp[len(cp)/2]
}
