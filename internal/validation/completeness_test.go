package validation

import (
	"math"
	"testing"

	"github.com/asterops/neoguard/pkg/models"
)

func TestCompletenessValidator_AllFieldsPresent(t *testing.T) {
	v := NewCompletenessValidator()

	output := map[string]any{
		"id":                   "3542519",
		"name":                 "2010 PK9",
		"diameter_min":         0.11,
		"diameter_max":         0.26,
		"absolute_magnitude_h": 21.8,
		"orbital_data":         map[string]any{"eccentricity": 0.38},
	}
	report, err := v.Validate(output, models.StageContext{
		StageName: "data_collector",
		StageType: models.StageTypeDataCollection,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !report.Valid {
		t.Errorf("complete record should be valid, errors: %v", report.Errors())
	}
	if report.Count() != 6 {
		t.Errorf("expected 6 field checks, got %d", report.Count())
	}
	if report.OverallConfidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", report.OverallConfidence)
	}
}

func TestCompletenessValidator_MissingAndNullFields(t *testing.T) {
	v := NewCompletenessValidator()

	output := map[string]any{
		"id":                   "3542519",
		"name":                 nil, // null counts as missing
		"diameter_min":         0.11,
		"diameter_max":         0.26,
		"absolute_magnitude_h": 21.8,
		// orbital_data absent
	}
	report, err := v.Validate(output, models.StageContext{
		StageName: "data_collector",
		StageType: models.StageTypeDataCollection,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if report.Valid {
		t.Error("record with missing fields should be invalid")
	}
	if got := len(report.Errors()); got != 2 {
		t.Errorf("expected 2 criticals, got %d", got)
	}
}

func TestCompletenessValidator_RequiredFieldsPerStageType(t *testing.T) {
	tests := []struct {
		name      string
		stageType models.StageType
		output    map[string]any
		wantValid bool
	}{
		{
			"ml output complete",
			models.StageTypeML,
			map[string]any{"predictions": []any{}, "model_confidence": 0.8},
			true,
		},
		{
			"ml output missing confidence",
			models.StageTypeML,
			map[string]any{"predictions": []any{}},
			false,
		},
		{
			"explanation complete",
			models.StageTypeExplanation,
			map[string]any{"explanation_text": "...", "target_audience": "general"},
			true,
		},
		{
			"visualization complete",
			models.StageTypeVisualization,
			map[string]any{"visualization_data": map[string]any{}},
			true,
		},
		{
			"no requirements for unknown type",
			models.StageTypeUnknown,
			map[string]any{},
			true,
		},
	}

	v := NewCompletenessValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := v.Validate(tt.output, models.StageContext{
				StageName: "stage",
				StageType: tt.stageType,
			})
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if report.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", report.Valid, tt.wantValid, report.Errors())
			}
		})
	}
}

func TestCompletenessValidator_NonFiniteNumerics(t *testing.T) {
	v := NewCompletenessValidator()

	output := map[string]any{
		"visualization_data": map[string]any{},
		"scale":              math.Inf(1),
	}
	report, err := v.Validate(output, models.StageContext{
		StageName: "visualization",
		StageType: models.StageTypeVisualization,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if report.Valid {
		t.Error("non-finite numeric should invalidate the report")
	}

	found := false
	for _, res := range report.Errors() {
		if res.Field == "scale" {
			found = true
		}
	}
	if !found {
		t.Error("expected a critical result for field scale")
	}
}

func TestCompletenessValidator_CustomRequiredFields(t *testing.T) {
	v := NewCompletenessValidatorWith(map[models.StageType][]string{
		models.StageTypeUnknown: {"payload"},
	})

	report, err := v.Validate(map[string]any{}, models.StageContext{
		StageName: "custom",
		StageType: models.StageTypeUnknown,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if report.Valid {
		t.Error("missing custom required field should invalidate the report")
	}
}
