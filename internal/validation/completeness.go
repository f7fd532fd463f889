package validation

import (
	"math"

	"github.com/asterops/neoguard/pkg/models"
)

// defaultRequiredFields maps each stage type to the fields its output
// must carry for downstream stages to trust it.
func defaultRequiredFields() map[models.StageType][]string {
	return map[models.StageType][]string{
		models.StageTypeDataCollection: {
			"id", "name", "diameter_min", "diameter_max",
			"absolute_magnitude_h", "orbital_data",
		},
		models.StageTypeVisualization: {"visualization_data"},
		models.StageTypeML:            {"predictions", "model_confidence"},
		models.StageTypeExplanation:   {"explanation_text", "target_audience"},
	}
}

// CompletenessValidator checks that a stage's output carries the
// required fields for its type, and that no top-level numeric value is
// non-finite.
type CompletenessValidator struct {
	required map[models.StageType][]string
}

// NewCompletenessValidator creates a completeness validator with the
// built-in required-field tables.
func NewCompletenessValidator() *CompletenessValidator {
	return &CompletenessValidator{required: defaultRequiredFields()}
}

// NewCompletenessValidatorWith creates a completeness validator with a
// custom required-field table.
func NewCompletenessValidatorWith(required map[models.StageType][]string) *CompletenessValidator {
	return &CompletenessValidator{required: required}
}

// Name implements Validator.
func (v *CompletenessValidator) Name() string { return "completeness" }

// Kind implements Validator.
func (v *CompletenessValidator) Kind() Kind { return KindCompleteness }

// Validate emits one result per required field for the stage type, then
// flags non-finite numerics as structural faults.
func (v *CompletenessValidator) Validate(output map[string]any, ctx models.StageContext) (*Report, error) {
	report := NewReport(ctx.StageName, KindCompleteness)

	for _, res := range checkRequiredFields(output, v.required[ctx.StageType]) {
		report.Add(res)
	}

	for key, raw := range output {
		value, ok := raw.(float64)
		if !ok {
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			report.Add(nonFiniteResult(key, value))
		}
	}

	return report, nil
}
