// Package validation provides the result model, the validator contract,
// and the three domain validators used to check pipeline stage outputs:
// physical plausibility, data completeness, and conceptual coherence.
package validation

import "time"

// Severity is the classification of a single validation result.
type Severity string

const (
	// SeverityCritical invalidates the checked output.
	SeverityCritical Severity = "critical"
	// SeverityWarning requires attention but is recoverable.
	SeverityWarning Severity = "warning"
	// SeverityInfo is supplementary information.
	SeverityInfo Severity = "info"
	// SeveritySuccess marks a check that passed.
	SeveritySuccess Severity = "success"
)

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo, SeveritySuccess:
		return true
	default:
		return false
	}
}

// Result is the outcome of one individual check. Results are immutable
// by convention once created.
type Result struct {
	// Severity classifies the outcome.
	Severity Severity `json:"severity"`
	// Message describes what was checked and what was found.
	Message string `json:"message"`
	// Field names the specific field that was checked, if any.
	Field string `json:"field,omitempty"`
	// Expected describes the expected value or range, if applicable.
	Expected string `json:"expected,omitempty"`
	// Observed describes the value actually seen, if applicable.
	Observed string `json:"observed,omitempty"`
	// Confidence is how much trust this check places in the output,
	// in [0,1].
	Confidence float64 `json:"confidence"`
	// Timestamp is when the check ran.
	Timestamp time.Time `json:"timestamp"`
}

// NewResult creates a timestamped result with the given severity,
// message, and confidence.
func NewResult(severity Severity, message string, confidence float64) Result {
	return Result{
		Severity:   severity,
		Message:    message,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
}
