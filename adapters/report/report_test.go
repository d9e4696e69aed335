package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflim/app"
	"reflim/domain/interval"
)

func sampleReport() *app.BatchReport {
	return &app.BatchReport{
		BatchID:   interval.NewRunID(),
		CreatedAt: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		Results: []app.AnalyteResult{
			{
				Analyte: "hemoglobin",
				Result: &interval.Result{
					RunID:      interval.NewRunID(),
					Analyte:    "hemoglobin",
					Model:      interval.ModelNormal,
					SampleSize: 2500,
					Limits:     interval.Limits{Lower: 120.4, Upper: 159.6},
					Fit:        interval.Fit{Slope: 10.0, Intercept: 140.0},
					Confidence: interval.ConfidenceBounds{
						LowerLow: 119.3, LowerHigh: 122.0,
						UpperLow: 158.0, UpperHigh: 160.7,
					},
					Warnings: []interval.Warning{interval.WarningLowN},
				},
			},
			{Analyte: "broken", Err: "need at least 100 finite values, got 3"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per analyte")

	assert.Equal(t, csvHeader, rows[0])

	hb := rows[1]
	assert.Equal(t, "hemoglobin", hb[0])
	assert.Equal(t, "normal", hb[1])
	assert.Equal(t, "2500", hb[2])
	assert.Equal(t, "120.4", hb[3])
	assert.Equal(t, "159.6", hb[4])
	assert.Equal(t, "LOW_N", hb[11])
	assert.Equal(t, "", hb[12])

	broken := rows[2]
	assert.Equal(t, "broken", broken[0])
	assert.Equal(t, "", broken[1])
	assert.Contains(t, broken[12], "need at least 100")
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	assert.Contains(t, md, "# Reference interval report")
	assert.Contains(t, md, "| hemoglobin | normal | 2500 |")
	assert.Contains(t, md, "LOW_N")
	assert.Contains(t, md, "failed: need at least 100")
}

func TestRenderHTML(t *testing.T) {
	html := string(RenderHTML(sampleReport()))

	assert.True(t, strings.Contains(html, "<table>"), "markdown table renders as HTML table")
	assert.Contains(t, html, "hemoglobin")
}
