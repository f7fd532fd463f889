package validation

import "time"

// Kind tags which validator family produced a report. The confidence
// system treats coherence reports as narrative and everything else as
// scientific when aggregating.
type Kind string

const (
	// KindPhysical marks reports from the physical-plausibility validator.
	KindPhysical Kind = "physical"
	// KindCompleteness marks reports from the data-completeness validator.
	KindCompleteness Kind = "completeness"
	// KindCoherence marks reports from the conceptual-coherence validator.
	KindCoherence Kind = "coherence"
)

// Narrative returns true for report kinds scoring natural-language or
// descriptive output rather than numeric results.
func (k Kind) Narrative() bool {
	return k == KindCoherence
}

// Report is the consolidated outcome of running one validator against
// one stage's output. OverallConfidence and Valid are derived and
// recomputed on every Add.
type Report struct {
	// Stage is the name of the stage that was checked.
	Stage string `json:"stage"`
	// Kind identifies the validator family that produced the report.
	Kind Kind `json:"kind"`
	// Results holds the individual check outcomes in insertion order.
	Results []Result `json:"results"`
	// OverallConfidence is the arithmetic mean of the results'
	// confidences; 0 when the report is empty.
	OverallConfidence float64 `json:"overall_confidence"`
	// Valid is true iff the report contains no critical results.
	Valid bool `json:"valid"`
	// Timestamp is when the report was created.
	Timestamp time.Time `json:"timestamp"`
}

// NewReport creates an empty report for the given stage. An empty
// report has confidence 0 and counts as valid until a critical result
// is added.
func NewReport(stage string, kind Kind) *Report {
	return &Report{
		Stage:     stage,
		Kind:      kind,
		Valid:     true,
		Timestamp: time.Now(),
	}
}

// Add appends a result and recomputes the derived fields.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)

	total := 0.0
	critical := false
	for _, existing := range r.Results {
		total += existing.Confidence
		if existing.Severity == SeverityCritical {
			critical = true
		}
	}
	r.OverallConfidence = total / float64(len(r.Results))
	r.Valid = !critical
}

// Count returns the number of checks in the report.
func (r *Report) Count() int {
	return len(r.Results)
}

// Errors returns only the critical results.
func (r *Report) Errors() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Severity == SeverityCritical {
			out = append(out, res)
		}
	}
	return out
}

// Warnings returns only the warning results.
func (r *Report) Warnings() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Severity == SeverityWarning {
			out = append(out, res)
		}
	}
	return out
}

// ReportSummary is a compact rollup of one report.
type ReportSummary struct {
	Stage      string    `json:"stage"`
	Valid      bool      `json:"valid"`
	Confidence float64   `json:"confidence"`
	Checks     int       `json:"checks"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	Timestamp  time.Time `json:"timestamp"`
}

// Summary returns a compact rollup of the report.
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		Stage:      r.Stage,
		Valid:      r.Valid,
		Confidence: r.OverallConfidence,
		Checks:     len(r.Results),
		Errors:     len(r.Errors()),
		Warnings:   len(r.Warnings()),
		Timestamp:  r.Timestamp,
	}
}
