package interval

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Model tags the distribution family a sample is estimated under.
type Model string

const (
	ModelNormal    Model = "normal"
	ModelLogNormal Model = "lognormal"
)

// MinSampleSize is the minimum number of usable values the orchestrator
// accepts. Percentile-based limit estimation below this size is not
// meaningful for reference intervals.
const MinSampleSize = 100

// Quartiles holds the three quartile points of a sample.
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// IQR returns the interquartile range Q3 - Q1.
func (q Quartiles) IQR() float64 {
	return q.Q3 - q.Q1
}

// Fit is the ordinary least squares line fitted through the central
// portion of a quantile-quantile correspondence.
// INVARIANTS:
// - Slope is the standard deviation estimate of the working-space sample
// - Intercept is the mean estimate of the working-space sample
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Limits are the estimated 2.5th/97.5th percentile reference limits in
// original measurement units. For a log-normal model LogMean/LogSD carry
// the underlying log-space parameters the limits were derived from.
type Limits struct {
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	LogMean float64 `json:"log_mean,omitempty"`
	LogSD   float64 `json:"log_sd,omitempty"`
}

// ConfidenceBounds are the confidence intervals around both reference
// limits. For a sane result LowerLow <= LowerHigh <= UpperLow <= UpperHigh;
// the closed-form approximation does not enforce this and it can fail for
// small samples, which is why the confidence step rejects n <= 31.
type ConfidenceBounds struct {
	LowerLow  float64 `json:"lower_ci_low"`
	LowerHigh float64 `json:"lower_ci_high"`
	UpperLow  float64 `json:"upper_ci_low"`
	UpperHigh float64 `json:"upper_ci_high"`
}

// QQPlot is the quantile-quantile correspondence between a truncated
// standard normal reference and the trimmed sample, paired by percentile
// rank. Exposed for the reporting and visualization layers; the core never
// draws anything itself.
type QQPlot struct {
	Theoretical []float64 `json:"theoretical"`
	Empirical   []float64 `json:"empirical"`
}

// SummaryStats are descriptive statistics of the cleaned input sample,
// attached to results for reporting.
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Warning represents structured non-fatal conditions surfaced alongside a
// valid result.
type Warning string

const (
	// WarningDegenerateSpread signals that a truncation pass saw a zero
	// interquartile half-spread (heavily tied or discretized data).
	WarningDegenerateSpread Warning = "DEGENERATE_SPREAD"
	// WarningLowN signals that the confidence approximation is loose for
	// the given sample size.
	WarningLowN Warning = "LOW_N"
)

// Options configures a single estimation run.
type Options struct {
	// Model forces the distribution family, bypassing classification.
	Model *Model `json:"model,omitempty"`
	// NQuantiles is the number of q-q points; 0 means the default (100).
	NQuantiles int `json:"n_quantiles,omitempty"`
	// ApplyRounding derives display-rounded limits from the sample
	// magnitude. Raw values stay available either way.
	ApplyRounding bool `json:"apply_rounding,omitempty"`
}

// Result is the complete output of one estimation run. Every field is
// computed fresh per invocation; results carry no shared state.
type Result struct {
	RunID      RunID            `json:"run_id"`
	Analyte    string           `json:"analyte,omitempty"`
	Model      Model            `json:"model"`
	SampleSize int              `json:"sample_size"`
	Limits     Limits           `json:"limits"`
	Fit        Fit              `json:"fit"`
	Confidence ConfidenceBounds `json:"confidence"`
	QQ         QQPlot           `json:"qq"`
	Summary    SummaryStats     `json:"summary"`
	// Rounded is set only when Options.ApplyRounding was requested.
	Rounded  *Limits   `json:"rounded,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// HasWarning reports whether the result carries the given warning.
func (r *Result) HasWarning(w Warning) bool {
	for _, got := range r.Warnings {
		if got == w {
			return true
		}
	}
	return false
}
