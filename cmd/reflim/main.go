package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"reflim/adapters/excel"
	"reflim/adapters/report"
	"reflim/app"
	"reflim/domain/interval"
	"reflim/internal"
	"reflim/internal/config"
	"reflim/internal/testkit"
)

func main() {
	// Optional .env; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "reflim",
		Short: "Estimate population reference intervals from mixed healthy/pathological samples",
	}

	rootCmd.AddCommand(
		newEstimateCmd(),
		newBatchCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEstimateCmd() *cobra.Command {
	var model string
	var quantiles int
	var round bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "estimate [file] [analyte]",
		Short: "Estimate the reference interval for one analyte column",
		Long: `Estimate the 2.5th/97.5th percentile reference limits for one column of
a CSV or Excel file, with confidence bounds.

Example: reflim estimate measurements.csv hemoglobin --round`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			source, err := excel.NewDataReader(args[0], cfg.Input.Sheet).Read()
			if err != nil {
				return err
			}
			sample, err := source.Sample(args[1])
			if err != nil {
				return err
			}

			opts, err := buildOptions(model, quantiles, round)
			if err != nil {
				return err
			}

			svc := app.NewIntervalService(internal.DefaultLogger)
			result, err := svc.EstimateInterval(sample, opts)
			if err != nil {
				return err
			}
			result.Analyte = args[1]

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "auto", "Distribution model: auto, normal or lognormal")
	cmd.Flags().IntVar(&quantiles, "quantiles", 0, "Number of q-q points (default 100)")
	cmd.Flags().BoolVar(&round, "round", false, "Include display-rounded limits")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full result as JSON")

	return cmd
}

func newBatchCmd() *cobra.Command {
	var round bool
	var workers int
	var htmlOut bool

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Estimate reference intervals for every column of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.Run.Workers
			}

			source, err := excel.NewDataReader(args[0], cfg.Input.Sheet).Read()
			if err != nil {
				return err
			}

			svc := app.NewIntervalService(internal.DefaultLogger)
			runner := app.NewBatchRunner(svc, workers)
			batch, err := runner.Run(context.Background(), source, interval.Options{
				NQuantiles:    cfg.Run.NQuantiles,
				ApplyRounding: round,
			})
			if err != nil {
				return err
			}

			return writeReports(cfg.Output.Dir, batch, htmlOut)
		},
	}

	cmd.Flags().BoolVar(&round, "round", false, "Include display-rounded limits")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent analytes (default from REFLIM_WORKERS)")
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Also write an HTML report")

	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the pipeline on a synthetic contaminated sample",
		Long: `Generate a healthy normal population contaminated with two shifted
pathological subpopulations, then recover its reference interval. Useful
for a quick sanity check of the estimation pipeline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.DefaultSampleConfig()
			gen.Seed = seed
			sample := testkit.Generate(gen)

			svc := app.NewIntervalService(internal.DefaultLogger)
			result, err := svc.EstimateInterval(sample, interval.Options{ApplyRounding: true})
			if err != nil {
				return err
			}
			result.Analyte = "synthetic"

			fmt.Printf("synthetic healthy population: mean %.6g, sd %.6g (theoretical limits %.6g - %.6g)\n",
				gen.Mean, gen.StdDev, gen.Mean-1.96*gen.StdDev, gen.Mean+1.96*gen.StdDev)
			printResult(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the synthetic sample")

	return cmd
}

func buildOptions(model string, quantiles int, round bool) (interval.Options, error) {
	opts := interval.Options{NQuantiles: quantiles, ApplyRounding: round}
	switch model {
	case "auto", "":
		// classifier decides
	case "normal":
		m := interval.ModelNormal
		opts.Model = &m
	case "lognormal":
		m := interval.ModelLogNormal
		opts.Model = &m
	default:
		return opts, fmt.Errorf("invalid --model %q (use auto, normal or lognormal)", model)
	}
	return opts, nil
}

func printResult(r *interval.Result) {
	fmt.Printf("analyte:   %s\n", r.Analyte)
	fmt.Printf("model:     %s  (n = %d)\n", r.Model, r.SampleSize)
	fmt.Printf("interval:  %.6g - %.6g\n", r.Limits.Lower, r.Limits.Upper)
	if r.Rounded != nil {
		fmt.Printf("rounded:   %g - %g\n", r.Rounded.Lower, r.Rounded.Upper)
	}
	fmt.Printf("lower CI:  %.6g - %.6g\n", r.Confidence.LowerLow, r.Confidence.LowerHigh)
	fmt.Printf("upper CI:  %.6g - %.6g\n", r.Confidence.UpperLow, r.Confidence.UpperHigh)
	for _, w := range r.Warnings {
		fmt.Printf("warning:   %s\n", w)
	}
}

func writeReports(dir string, batch *app.BatchReport, htmlOut bool) error {
	csvPath := filepath.Join(dir, "reference_intervals.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := report.WriteCSV(csvFile, batch); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", csvPath)

	mdPath := filepath.Join(dir, "reference_intervals.md")
	if err := os.WriteFile(mdPath, []byte(report.RenderMarkdown(batch)), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", mdPath)

	if htmlOut {
		htmlPath := filepath.Join(dir, "reference_intervals.html")
		if err := os.WriteFile(htmlPath, report.RenderHTML(batch), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", htmlPath)
	}
	return nil
}
