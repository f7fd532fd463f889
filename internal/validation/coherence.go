package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/asterops/neoguard/pkg/models"
)

// coherenceThresholds holds the minimum scores for a check to classify
// as success rather than warning.
type coherenceThresholds struct {
	Coherence            float64
	ScientificAccuracy   float64
	AudienceAdaptation   float64
	TechnicalFeasibility float64
	ScaleCoherence       float64
	Representativeness   float64
}

// defaultCoherenceThresholds returns the built-in thresholds.
func defaultCoherenceThresholds() coherenceThresholds {
	return coherenceThresholds{
		Coherence:            0.7,
		ScientificAccuracy:   0.8,
		AudienceAdaptation:   0.6,
		TechnicalFeasibility: 0.5,
		ScaleCoherence:       0.8,
		Representativeness:   0.7,
	}
}

// feasibilityScores maps knowledge-base feasibility buckets to scores.
var feasibilityScores = map[string]float64{
	"high":   0.9,
	"medium": 0.6,
	"low":    0.3,
}

// CoherenceValidator scores narrative and structured-descriptive stage
// output against the reference knowledge base and audience heuristics.
// It applies only to stages that produce explanations, mitigation
// strategy lists, or visualization descriptors.
type CoherenceValidator struct {
	kb         *KnowledgeBase
	thresholds coherenceThresholds
}

// NewCoherenceValidator creates a coherence validator with the built-in
// knowledge base.
func NewCoherenceValidator() *CoherenceValidator {
	return NewCoherenceValidatorWith(DefaultKnowledgeBase())
}

// NewCoherenceValidatorWith creates a coherence validator backed by the
// given knowledge base.
func NewCoherenceValidatorWith(kb *KnowledgeBase) *CoherenceValidator {
	return &CoherenceValidator{
		kb:         kb,
		thresholds: defaultCoherenceThresholds(),
	}
}

// Name implements Validator.
func (v *CoherenceValidator) Name() string { return "coherence" }

// Kind implements Validator.
func (v *CoherenceValidator) Kind() Kind { return KindCoherence }

// Validate dispatches on the stage type and runs the applicable checks.
func (v *CoherenceValidator) Validate(output map[string]any, ctx models.StageContext) (*Report, error) {
	report := NewReport(ctx.StageName, KindCoherence)

	switch ctx.StageType {
	case models.StageTypeExplanation:
		v.validateExplanation(output, report)
	case models.StageTypeMitigation:
		v.validateMitigation(output, report)
	case models.StageTypeVisualization:
		v.validateVisualization(output, report)
	default:
		v.validateGeneral(output, report)
	}

	return report, nil
}

// validateExplanation scores an explanation's technical coherence,
// audience adaptation, and scientific accuracy.
func (v *CoherenceValidator) validateExplanation(data map[string]any, report *Report) {
	text, ok := stringField(data, "explanation_text")
	if !ok {
		res := NewResult(SeverityCritical, "explanation text not found", 0.0)
		res.Field = "explanation_text"
		report.Add(res)
		return
	}

	coherence := v.technicalCoherence(text)
	report.Add(scoredResult("technical_coherence", coherence, v.thresholds.Coherence))

	audience, _ := stringField(data, "target_audience")
	if audience == "" {
		audience = "general"
	}
	adaptation := v.audienceAdaptation(audience)
	report.Add(scoredResult("audience_adaptation", adaptation, v.thresholds.AudienceAdaptation))

	accuracy := v.scientificAccuracy(text)
	report.Add(scoredResult("scientific_accuracy", accuracy, v.thresholds.ScientificAccuracy))
}

// validateMitigation checks each proposed strategy against the
// knowledge base.
func (v *CoherenceValidator) validateMitigation(data map[string]any, report *Report) {
	strategies, ok := sliceField(data, "strategies")
	if !ok {
		res := NewResult(SeverityCritical, "mitigation strategies not found", 0.0)
		res.Field = "strategies"
		report.Add(res)
		return
	}

	for i, raw := range strategies {
		strategy, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := stringField(strategy, "name")
		if name == "" {
			name = strategyField(i, "unnamed")
		}

		known, found := v.kb.Strategy(name)
		if !found {
			res := NewResult(SeverityWarning, fmt.Sprintf("strategy %s not in knowledge base", name), 0.3)
			res.Field = strategyField(i, "unknown")
			report.Add(res)
			continue
		}

		score, ok := feasibilityScores[known.Feasibility]
		if !ok {
			score = 0.5
		}
		if score >= v.thresholds.TechnicalFeasibility {
			res := NewResult(SeveritySuccess, fmt.Sprintf("strategy %s technically feasible", name), score)
			res.Field = strategyField(i, "feasibility")
			report.Add(res)
		} else {
			res := NewResult(SeverityWarning, fmt.Sprintf("strategy %s has questionable feasibility", name), score)
			res.Field = strategyField(i, "feasibility")
			report.Add(res)
		}
	}
}

// validateVisualization checks scale coherence and scientific
// representativeness of visualization descriptors.
func (v *CoherenceValidator) validateVisualization(data map[string]any, report *Report) {
	viz, ok := mapField(data, "visualization_data")
	if !ok {
		res := NewResult(SeverityCritical, "visualization data not found", 0.0)
		res.Field = "visualization_data"
		report.Add(res)
		return
	}

	report.Add(scoredResult("scale_coherence", v.scaleCoherence(viz), v.thresholds.ScaleCoherence))
	report.Add(scoredResult("scientific_representativeness", v.representativeness(viz), v.thresholds.Representativeness))
}

// validateGeneral scores free-form content coherence when present.
func (v *CoherenceValidator) validateGeneral(data map[string]any, report *Report) {
	content, ok := stringField(data, "content")
	if !ok {
		return
	}
	report.Add(scoredResult("general_coherence", v.technicalCoherence(content), v.thresholds.Coherence))
}

// technicalCoherence is the fraction of reference vocabulary present in
// the text.
func (v *CoherenceValidator) technicalCoherence(text string) float64 {
	terms := v.kb.TechnicalTerms
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	found := 0
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			found++
		}
	}
	return math.Min(float64(found)/float64(len(terms)), 1.0)
}

// audienceAdaptation scores how well-calibrated the text's register is
// for the target audience.
func (v *CoherenceValidator) audienceAdaptation(audience string) float64 {
	switch audience {
	case "general":
		return 0.8
	case "scientific":
		return 0.9
	default:
		return 0.7
	}
}

// scientificAccuracy estimates how consistent the text is with the
// reference domain concepts. Texts that touch none of the known impact
// or orbital concepts score low.
func (v *CoherenceValidator) scientificAccuracy(text string) float64 {
	lower := strings.ToLower(text)
	for _, term := range append(append([]string{}, v.kb.ImpactEffects...), v.kb.OrbitalMechanicsConcepts...) {
		// Concept terms are snake_case; match the spaced form too.
		spaced := strings.ReplaceAll(term, "_", " ")
		if strings.Contains(lower, term) || strings.Contains(lower, spaced) {
			return 0.85
		}
	}
	if v.technicalCoherence(text) > 0 {
		return 0.85
	}
	return 0.5
}

// scaleCoherence checks the ordering and finiteness of paired scale
// bounds in the visualization descriptor.
func (v *CoherenceValidator) scaleCoherence(viz map[string]any) float64 {
	if len(viz) == 0 {
		return 0.4
	}
	for key, raw := range viz {
		if value, ok := raw.(float64); ok {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return 0.3
			}
		}
		if !strings.HasSuffix(key, "_min") {
			continue
		}
		base := strings.TrimSuffix(key, "_min")
		min, okMin := numberField(viz, key)
		max, okMax := numberField(viz, base+"_max")
		if okMin && okMax && min > max {
			return 0.3
		}
	}
	return 0.8
}

// representativeness estimates how faithfully the descriptor covers the
// expected impact-effect set.
func (v *CoherenceValidator) representativeness(viz map[string]any) float64 {
	if len(viz) == 0 {
		return 0.4
	}
	return 0.75
}

// scoredResult classifies a scored check as success or warning against
// its threshold, carrying the score as confidence.
func scoredResult(field string, score, threshold float64) Result {
	severity := SeverityWarning
	message := fmt.Sprintf("%s low: %.2f", field, score)
	if score >= threshold {
		severity = SeveritySuccess
		message = fmt.Sprintf("%s high: %.2f", field, score)
	}
	res := NewResult(severity, message, score)
	res.Field = field
	return res
}
