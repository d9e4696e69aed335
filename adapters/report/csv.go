// Package report serializes estimation results for the reporting layer:
// a flat CSV of limits and confidence bounds, and a markdown narrative
// renderable to HTML. The core pipeline only exposes numbers; everything
// presentational lives here.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"reflim/app"
	"reflim/domain/interval"
)

var csvHeader = []string{
	"analyte", "model", "n",
	"lower", "upper",
	"lower_ci_low", "lower_ci_high", "upper_ci_low", "upper_ci_high",
	"slope", "intercept",
	"warnings", "error",
}

// WriteCSV serializes a batch report as CSV, one row per analyte. Failed
// analytes get a row with only the error column populated.
func WriteCSV(w io.Writer, report *app.BatchReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, ar := range report.Results {
		if err := cw.Write(resultRow(ar)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func resultRow(ar app.AnalyteResult) []string {
	if ar.Result == nil {
		row := make([]string, len(csvHeader))
		row[0] = ar.Analyte
		row[len(row)-1] = ar.Err
		return row
	}

	r := ar.Result
	return []string{
		ar.Analyte,
		string(r.Model),
		fmt.Sprintf("%d", r.SampleSize),
		formatValue(r.Limits.Lower),
		formatValue(r.Limits.Upper),
		formatValue(r.Confidence.LowerLow),
		formatValue(r.Confidence.LowerHigh),
		formatValue(r.Confidence.UpperLow),
		formatValue(r.Confidence.UpperHigh),
		formatValue(r.Fit.Slope),
		formatValue(r.Fit.Intercept),
		joinWarnings(r.Warnings),
		"",
	}
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func joinWarnings(warnings []interval.Warning) string {
	out := ""
	for i, w := range warnings {
		if i > 0 {
			out += ";"
		}
		out += string(w)
	}
	return out
}
