package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"reflim/domain/interval"
)

// SampleSource provides named measurement columns, one per analyte.
// Implemented by adapters/excel for file inputs and by test doubles.
type SampleSource interface {
	Analytes() []string
	Sample(analyte string) ([]float64, error)
}

// AnalyteResult pairs one analyte with its estimation outcome. Exactly one
// of Result and Err is set: a failing analyte never aborts the batch.
type AnalyteResult struct {
	Analyte string           `json:"analyte"`
	Result  *interval.Result `json:"result,omitempty"`
	Err     string           `json:"error,omitempty"`
}

// BatchReport is the outcome of one batch run across analytes.
type BatchReport struct {
	BatchID   interval.RunID  `json:"batch_id"`
	CreatedAt time.Time       `json:"created_at"`
	Results   []AnalyteResult `json:"results"`
}

// BatchRunner estimates reference intervals for many analytes
// concurrently. Invocations share no state, so they parallelize without
// synchronization beyond result collection; the core pipeline itself stays
// synchronous.
type BatchRunner struct {
	svc     *IntervalService
	workers int
}

// NewBatchRunner creates a runner with the given concurrency limit.
func NewBatchRunner(svc *IntervalService, workers int) *BatchRunner {
	if workers <= 0 {
		workers = 1
	}
	return &BatchRunner{svc: svc, workers: workers}
}

// Run estimates every analyte exposed by the source. Results keep the
// source's analyte order regardless of completion order.
func (b *BatchRunner) Run(ctx context.Context, src SampleSource, opts interval.Options) (*BatchReport, error) {
	analytes := src.Analytes()
	results := make([]AnalyteResult, len(analytes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, analyte := range analytes {
		i, analyte := i, analyte
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = b.runOne(analyte, src, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BatchReport{
		BatchID:   interval.NewRunID(),
		CreatedAt: time.Now().UTC(),
		Results:   results,
	}, nil
}

func (b *BatchRunner) runOne(analyte string, src SampleSource, opts interval.Options) AnalyteResult {
	sample, err := src.Sample(analyte)
	if err != nil {
		return AnalyteResult{Analyte: analyte, Err: err.Error()}
	}
	result, err := b.svc.EstimateInterval(sample, opts)
	if err != nil {
		return AnalyteResult{Analyte: analyte, Err: err.Error()}
	}
	result.Analyte = analyte
	return AnalyteResult{Analyte: analyte, Result: result}
}
