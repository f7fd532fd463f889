package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/asterops/neoguard/pkg/models"
)

// Validator is the common contract for all domain validators. Validate
// checks one stage's output and returns a consolidated report.
// Implementations must never mutate the output map.
//
// A returned error signals a fault inside the validator itself, not a
// failed check; failed checks are expressed as critical results inside
// the report. Supervisors contain validator errors by converting them
// into synthetic critical reports.
type Validator interface {
	// Name identifies the validator (e.g. "physics").
	Name() string
	// Kind tags the reports this validator produces.
	Kind() Kind
	// Validate runs all applicable checks against the stage output.
	Validate(output map[string]any, ctx models.StageContext) (*Report, error)
}

// ValidatorError wraps an expected fault raised inside a validator's
// own logic, scoped to that validator.
type ValidatorError struct {
	// Validator is the name of the validator that faulted.
	Validator string
	// Err is the underlying fault.
	Err error
}

// Error implements the error interface.
func (e *ValidatorError) Error() string {
	return fmt.Sprintf("validator %s: %v", e.Validator, e.Err)
}

// Unwrap returns the underlying fault.
func (e *ValidatorError) Unwrap() error {
	return e.Err
}

// Gross out-of-range factor: a value more than 10x beyond either bound
// is critical rather than a warning.
const grossRangeFactor = 10.0

// checkRange validates that a numeric value falls inside [min, max].
// In-range values yield a success with full confidence. Out-of-range
// values yield a warning, escalated to critical when the value is more
// than 10x above the upper bound or below a tenth of the lower bound.
// Non-finite values are always critical.
func checkRange(value, min, max float64, field, unit string) Result {
	if !math.IsInf(value, 0) && !math.IsNaN(value) && min <= value && value <= max {
		res := NewResult(SeveritySuccess, fmt.Sprintf("%s within expected range", field), 1.0)
		res.Field = field
		res.Observed = formatValue(value, unit)
		return res
	}

	severity := SeverityWarning
	if math.IsInf(value, 0) || math.IsNaN(value) || value < min/grossRangeFactor || value > max*grossRangeFactor {
		severity = SeverityCritical
	}
	res := NewResult(severity, fmt.Sprintf("%s outside expected range", field), 0.3)
	res.Field = field
	res.Expected = strings.TrimSpace(fmt.Sprintf("%v - %v %s", min, max, unit))
	res.Observed = formatValue(value, unit)
	return res
}

// checkConstant validates a computed value against a known constant
// within a relative tolerance.
func checkConstant(value, expected, tolerance float64, name string) Result {
	relErr := math.Abs(value-expected) / math.Abs(expected)
	if relErr <= tolerance {
		res := NewResult(SeveritySuccess, fmt.Sprintf("%s computed correctly", name), 1.0)
		res.Field = name
		res.Observed = formatValue(value, "")
		return res
	}
	res := NewResult(SeverityCritical, fmt.Sprintf("%s deviates beyond tolerance", name), 0.1)
	res.Field = name
	res.Expected = formatValue(expected, "")
	res.Observed = formatValue(value, "")
	return res
}

// checkRequiredFields emits one result per required field: critical
// when the field is missing or null, success when present.
func checkRequiredFields(data map[string]any, fields []string) []Result {
	results := make([]Result, 0, len(fields))
	for _, field := range fields {
		value, ok := data[field]
		switch {
		case !ok:
			res := NewResult(SeverityCritical, fmt.Sprintf("required field %q not found", field), 0.0)
			res.Field = field
			results = append(results, res)
		case value == nil:
			res := NewResult(SeverityCritical, fmt.Sprintf("required field %q is null", field), 0.0)
			res.Field = field
			results = append(results, res)
		default:
			res := NewResult(SeveritySuccess, fmt.Sprintf("field %q present", field), 1.0)
			res.Field = field
			results = append(results, res)
		}
	}
	return results
}

// nonFiniteResult builds the unconditional critical result for a NaN or
// infinite numeric field.
func nonFiniteResult(field string, value float64) Result {
	res := NewResult(SeverityCritical, fmt.Sprintf("non-finite value in %s", field), 0.0)
	res.Field = field
	res.Observed = fmt.Sprintf("%v", value)
	return res
}

// numberField extracts a numeric value from decoded JSON data. Strings
// holding numbers are accepted because external catalogs frequently
// report orbital elements as strings.
func numberField(data map[string]any, key string) (float64, bool) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return 0, false
	}
	return asNumber(raw)
}

// asNumber coerces a decoded JSON value to float64.
func asNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// mapField extracts a nested object from decoded JSON data.
func mapField(data map[string]any, key string) (map[string]any, bool) {
	raw, ok := data[key]
	if !ok {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	return m, ok
}

// sliceField extracts a list from decoded JSON data.
func sliceField(data map[string]any, key string) ([]any, bool) {
	raw, ok := data[key]
	if !ok {
		return nil, false
	}
	s, ok := raw.([]any)
	return s, ok
}

// stringField extracts a string from decoded JSON data.
func stringField(data map[string]any, key string) (string, bool) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// formatValue renders a numeric value with an optional unit suffix.
func formatValue(value float64, unit string) string {
	if unit == "" {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
	return strconv.FormatFloat(value, 'g', -1, 64) + " " + unit
}
