package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"reflim/app"
	"reflim/domain/interval"
)

// RenderMarkdown produces a human-readable markdown report for a batch run.
func RenderMarkdown(report *app.BatchReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reference interval report\n\n")
	fmt.Fprintf(&b, "Batch `%s`, generated %s.\n\n", report.BatchID, report.CreatedAt.Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("| Analyte | Model | n | Reference interval | Lower limit 95% CI | Upper limit 95% CI | Warnings |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, ar := range report.Results {
		if ar.Result == nil {
			fmt.Fprintf(&b, "| %s | - | - | failed: %s | - | - | - |\n", ar.Analyte, ar.Err)
			continue
		}
		r := ar.Result
		fmt.Fprintf(&b, "| %s | %s | %d | %.6g - %.6g | %.6g - %.6g | %.6g - %.6g | %s |\n",
			ar.Analyte, r.Model, r.SampleSize,
			r.Limits.Lower, r.Limits.Upper,
			r.Confidence.LowerLow, r.Confidence.LowerHigh,
			r.Confidence.UpperLow, r.Confidence.UpperHigh,
			warningCell(r))
	}

	b.WriteString("\nLimits are the estimated central 95% range of the non-diseased subpopulation. ")
	b.WriteString("Rows flagged `LOW_N` use a confidence approximation that is loose for small samples.\n")
	return b.String()
}

func warningCell(r *interval.Result) string {
	if len(r.Warnings) == 0 {
		return "-"
	}
	return joinWarnings(r.Warnings)
}

// RenderHTML converts the markdown report to an HTML document fragment.
func RenderHTML(report *app.BatchReport) []byte {
	md := []byte(RenderMarkdown(report))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}
