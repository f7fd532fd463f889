package supervision

import (
	"fmt"
	"sync"
	"time"

	"github.com/asterops/neoguard/internal/confidence"
	"github.com/asterops/neoguard/internal/validation"
	"github.com/asterops/neoguard/pkg/models"
)

// maxStageHistory bounds the per-stage outcome ring buffer.
const maxStageHistory = 50

// Issue is a flattened validation failure carried on a StageResult,
// annotated with the validator that produced it.
type Issue struct {
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Validator string `json:"validator"`
}

// StageResult is the consolidated outcome of supervising one stage
// execution.
type StageResult struct {
	StageName         string               `json:"stage_name"`
	StageType         models.StageType     `json:"stage_type"`
	Timestamp         time.Time            `json:"timestamp"`
	Supervised        bool                 `json:"supervised"`
	Reports           []*validation.Report `json:"validation_reports"`
	OverallConfidence float64              `json:"overall_confidence"`
	Valid             bool                 `json:"is_valid"`
	Errors            []Issue              `json:"errors"`
	Warnings          []Issue              `json:"warnings"`
	Recommendations   []string             `json:"recommendations"`

	// Metrics is set when the stage result has been fed into the
	// confidence system.
	Metrics *confidence.Metrics `json:"confidence_metrics,omitempty"`
	// Recommendation is the final action derived by the supervisor.
	Recommendation Recommendation `json:"recommendation,omitempty"`
	// Err describes why supervision could not run at all.
	Err string `json:"error,omitempty"`
}

// StageSupervisor coordinates the validators assigned to a single
// pipeline stage and keeps a bounded history of outcomes.
type StageSupervisor struct {
	stageName  string
	stageType  models.StageType
	validators []validation.Validator

	mu      sync.Mutex
	history []*StageResult
}

// NewStageSupervisor creates a supervisor for the named stage with an
// ordered list of validators.
func NewStageSupervisor(stageName string, stageType models.StageType, validators []validation.Validator) *StageSupervisor {
	return &StageSupervisor{
		stageName:  stageName,
		stageType:  stageType,
		validators: validators,
	}
}

// StageName returns the name of the supervised stage.
func (s *StageSupervisor) StageName() string { return s.stageName }

// StageType returns the registered type of the supervised stage.
func (s *StageSupervisor) StageType() models.StageType { return s.stageType }

// Supervise runs every validator against the stage output and
// consolidates their reports. A validator that returns an error does
// not abort the others; its failure becomes a synthetic critical
// report so the fault shows up in the consolidated outcome.
func (s *StageSupervisor) Supervise(output map[string]any, runID string) *StageResult {
	debugLog("stage %s: supervising with %d validators", s.stageName, len(s.validators))

	result := &StageResult{
		StageName:  s.stageName,
		StageType:  s.stageType,
		Timestamp:  time.Now(),
		Supervised: true,
		Valid:      true,
	}

	validatorNames := make([]string, 0, len(s.validators))
	for _, v := range s.validators {
		ctx := models.StageContext{
			StageName: s.stageName,
			StageType: s.stageType,
			RunID:     runID,
			Validator: v.Name(),
		}

		report, err := v.Validate(output, ctx)
		if err != nil {
			debugLog("stage %s: validator %s failed: %v", s.stageName, v.Name(), err)
			report = faultReport(s.stageName, v, err)
		}

		result.Reports = append(result.Reports, report)
		validatorNames = append(validatorNames, v.Name())
	}

	s.consolidate(result, validatorNames)
	result.Recommendations = s.recommendations(result)

	s.record(result)

	debugLog("stage %s: confidence %.2f valid %t", s.stageName, result.OverallConfidence, result.Valid)
	return result
}

// faultReport wraps a validator failure into a critical report so the
// rest of the pipeline sees it through the same channel as any other
// validation outcome.
func faultReport(stage string, v validation.Validator, err error) *validation.Report {
	report := validation.NewReport(stage, v.Kind())
	report.Add(validation.NewResult(
		validation.SeverityCritical,
		fmt.Sprintf("validator %s failed: %v", v.Name(), err),
		0.0,
	))
	return report
}

// consolidate computes the overall confidence, validity, and the
// flattened error/warning lists from the collected reports.
func (s *StageSupervisor) consolidate(result *StageResult, validatorNames []string) {
	if len(result.Reports) == 0 {
		result.OverallConfidence = 0
		return
	}

	total := 0.0
	for i, report := range result.Reports {
		total += report.OverallConfidence

		name := "unknown"
		if i < len(validatorNames) {
			name = validatorNames[i]
		}
		for _, e := range report.Errors() {
			result.Errors = append(result.Errors, Issue{Message: e.Message, Field: e.Field, Validator: name})
		}
		for _, w := range report.Warnings() {
			result.Warnings = append(result.Warnings, Issue{Message: w.Message, Field: w.Field, Validator: name})
		}
	}
	result.OverallConfidence = total / float64(len(result.Reports))
	result.Valid = len(result.Errors) == 0
}

// recommendations builds the advisory text for a consolidated result:
// one line from the confidence ladder, then escalations for error and
// warning counts, then stage-type specific checks.
func (s *StageSupervisor) recommendations(result *StageResult) []string {
	recs := make([]string, 0, 4)

	switch conf := result.OverallConfidence; {
	case conf < 0.3:
		recs = append(recs, "CRITICAL: confidence extremely low, full review required")
	case conf < 0.5:
		recs = append(recs, "HIGH: confidence low, verify primary calculations")
	case conf < 0.7:
		recs = append(recs, "MEDIUM: confidence moderate, review warnings")
	case conf < 0.9:
		recs = append(recs, "LOW: confidence good, refine details")
	default:
		recs = append(recs, "EXCELLENT: confidence high, proceed")
	}

	switch {
	case len(result.Errors) > 5:
		recs = append(recs, "CRITICAL: too many errors, halt execution")
	case len(result.Errors) > 2:
		recs = append(recs, "HIGH: multiple errors, review before continuing")
	case len(result.Errors) > 0:
		recs = append(recs, "MEDIUM: errors detected, fix before continuing")
	}

	switch {
	case len(result.Warnings) > 10:
		recs = append(recs, "MEDIUM: many warnings, review data quality")
	case len(result.Warnings) > 5:
		recs = append(recs, "LOW: several warnings, verify inputs")
	}

	recs = append(recs, stageTypeRecommendations(s.stageType)...)
	return recs
}

// stageTypeRecommendations returns the standing checks associated with
// each stage type, appended to every supervision outcome.
func stageTypeRecommendations(t models.StageType) []string {
	switch t {
	case models.StageTypeDataCollection:
		return []string{
			"Verify connectivity with external catalogs",
			"Validate format of received object data",
		}
	case models.StageTypeTrajectory:
		return []string{
			"Verify astronomical constants",
			"Validate energy conservation",
		}
	case models.StageTypeImpact:
		return []string{
			"Verify impact energy calculations",
			"Validate physical value ranges",
		}
	case models.StageTypeMitigation:
		return []string{
			"Verify strategy feasibility",
			"Validate cost-benefit calculations",
		}
	case models.StageTypeVisualization:
		return []string{
			"Verify visualization data integrity",
			"Validate coordinate ranges",
		}
	case models.StageTypeML:
		return []string{
			"Verify training data quality",
			"Validate prediction ranges",
		}
	case models.StageTypeExplanation:
		return []string{
			"Verify language coherence",
			"Validate audience adaptation",
		}
	default:
		return nil
	}
}

// record appends the result to the outcome ring, evicting the oldest
// entry past the cap.
func (s *StageSupervisor) record(result *StageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, result)
	if len(s.history) > maxStageHistory {
		s.history = s.history[len(s.history)-maxStageHistory:]
	}
}

// History returns up to limit of the most recent supervision outcomes,
// oldest first. A non-positive limit returns nil.
func (s *StageSupervisor) History(limit int) []*StageResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || len(s.history) == 0 {
		return nil
	}
	if limit > len(s.history) {
		limit = len(s.history)
	}

	out := make([]*StageResult, limit)
	copy(out, s.history[len(s.history)-limit:])
	return out
}

// PerformanceSummary aggregates the recorded outcomes for a stage.
type PerformanceSummary struct {
	StageName         string  `json:"stage_name"`
	TotalSupervisions int     `json:"total_supervisions"`
	ValidSupervisions int     `json:"valid_supervisions"`
	SuccessRate       float64 `json:"success_rate"`
	AverageConfidence float64 `json:"average_confidence"`
	TotalErrors       int     `json:"total_errors"`
	TotalWarnings     int     `json:"total_warnings"`
	ErrorRate         float64 `json:"error_rate"`
	WarningRate       float64 `json:"warning_rate"`
}

// PerformanceSummary returns aggregate metrics over the recorded
// history, or ok=false when no outcomes have been recorded yet.
func (s *StageSupervisor) PerformanceSummary() (PerformanceSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return PerformanceSummary{StageName: s.stageName}, false
	}

	summary := PerformanceSummary{
		StageName:         s.stageName,
		TotalSupervisions: len(s.history),
	}

	totalConfidence := 0.0
	for _, r := range s.history {
		if r.Valid {
			summary.ValidSupervisions++
		}
		totalConfidence += r.OverallConfidence
		summary.TotalErrors += len(r.Errors)
		summary.TotalWarnings += len(r.Warnings)
	}

	n := float64(summary.TotalSupervisions)
	summary.SuccessRate = float64(summary.ValidSupervisions) / n
	summary.AverageConfidence = totalConfidence / n
	summary.ErrorRate = float64(summary.TotalErrors) / n
	summary.WarningRate = float64(summary.TotalWarnings) / n

	return summary, true
}
