package supervision

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asterops/neoguard/internal/confidence"
	"github.com/asterops/neoguard/internal/validation"
	"github.com/asterops/neoguard/pkg/models"
)

// Stage names recognized by the supervisor registry.
const (
	StageDataCollector  = "data_collector"
	StageTrajectory     = "trajectory"
	StageImpactAnalyzer = "impact_analyzer"
	StageMitigation     = "mitigation"
	StageVisualization  = "visualization"
	StageMLPredictor    = "ml_predictor"
	StageExplainer      = "explainer"
)

// stageBinding ties a run-state field to its registered stage.
type stageBinding struct {
	stageName string
	stageType models.StageType
	output    func(models.RunState) map[string]any
}

// runBindings is the fixed supervision order for a full run.
var runBindings = []stageBinding{
	{StageDataCollector, models.StageTypeDataCollection, func(s models.RunState) map[string]any { return s.ObjectData }},
	{StageTrajectory, models.StageTypeTrajectory, func(s models.RunState) map[string]any { return s.TrajectoryAnalysis }},
	{StageImpactAnalyzer, models.StageTypeImpact, func(s models.RunState) map[string]any { return s.ImpactAnalysis }},
	{StageMitigation, models.StageTypeMitigation, func(s models.RunState) map[string]any { return s.MitigationStrategies }},
	{StageVisualization, models.StageTypeVisualization, func(s models.RunState) map[string]any { return s.VisualizationData }},
	{StageMLPredictor, models.StageTypeML, func(s models.RunState) map[string]any { return s.MLPredictions }},
	{StageExplainer, models.StageTypeExplanation, func(s models.RunState) map[string]any { return s.Explanation }},
}

// RunResult is the consolidated outcome of supervising a full
// pipeline run.
type RunResult struct {
	RunID             string                  `json:"run_id"`
	Timestamp         time.Time               `json:"timestamp"`
	StageReports      map[string]*StageResult `json:"stage_reports"`
	OverallConfidence float64                 `json:"overall_confidence"`
	RunValid          bool                    `json:"run_valid"`
	Alerts            []confidence.Alert      `json:"alerts"`
	Recommendations   []string                `json:"recommendations"`
}

// SystemStatus is a point-in-time snapshot of the supervision system.
type SystemStatus struct {
	Health            confidence.HealthReport `json:"system_health"`
	ActiveAlerts      int                     `json:"active_alerts"`
	Trend             confidence.TrendInfo    `json:"confidence_trend"`
	SupervisorsActive int                     `json:"supervisors_active"`
	ValidatorsActive  int                     `json:"validators_active"`
	LastUpdated       time.Time               `json:"last_updated"`
}

// Supervisor owns the stage-to-validator registry and the shared
// confidence system, and derives the final recommendation for a
// single stage or a whole run.
type Supervisor struct {
	stages map[string]*StageSupervisor
	system *confidence.System

	validatorCount int
}

// NewSupervisor builds the supervisor with the standard stage
// registry. Validator instances are shared across stages; the
// knowledge base backs the coherence checks for narrative stages.
func NewSupervisor(opts confidence.Options, kb *validation.KnowledgeBase) *Supervisor {
	physics := validation.NewPhysicsValidator()
	completeness := validation.NewCompletenessValidator()
	coherence := validation.NewCoherenceValidatorWith(kb)

	stages := map[string]*StageSupervisor{
		StageDataCollector: NewStageSupervisor(StageDataCollector, models.StageTypeDataCollection,
			[]validation.Validator{completeness}),
		StageTrajectory: NewStageSupervisor(StageTrajectory, models.StageTypeTrajectory,
			[]validation.Validator{physics}),
		StageImpactAnalyzer: NewStageSupervisor(StageImpactAnalyzer, models.StageTypeImpact,
			[]validation.Validator{physics}),
		StageMitigation: NewStageSupervisor(StageMitigation, models.StageTypeMitigation,
			[]validation.Validator{physics, coherence}),
		StageVisualization: NewStageSupervisor(StageVisualization, models.StageTypeVisualization,
			[]validation.Validator{completeness, coherence}),
		StageMLPredictor: NewStageSupervisor(StageMLPredictor, models.StageTypeML,
			[]validation.Validator{completeness}),
		StageExplainer: NewStageSupervisor(StageExplainer, models.StageTypeExplanation,
			[]validation.Validator{completeness, coherence}),
	}

	return &Supervisor{
		stages:         stages,
		system:         confidence.NewSystem(opts),
		validatorCount: 3,
	}
}

// System exposes the shared confidence system.
func (s *Supervisor) System() *confidence.System { return s.system }

// StageNames returns the registered stage names in supervision order.
func (s *Supervisor) StageNames() []string {
	names := make([]string, 0, len(runBindings))
	for _, b := range runBindings {
		names = append(names, b.stageName)
	}
	return names
}

// SuperviseStage supervises one stage execution. An unregistered
// stage name fails closed: the result is marked non-supervised with
// an immediate stop recommendation.
func (s *Supervisor) SuperviseStage(stageName string, output map[string]any, runID string) *StageResult {
	stage, ok := s.stages[stageName]
	if !ok {
		debugLog("no supervisor registered for stage %q", stageName)
		return &StageResult{
			StageName:      stageName,
			StageType:      models.StageTypeUnknown,
			Timestamp:      time.Now(),
			Supervised:     false,
			Err:            fmt.Sprintf("no supervisor registered for stage %q", stageName),
			Recommendation: RecommendationStop,
		}
	}

	result := stage.Supervise(output, runID)

	if len(result.Reports) > 0 {
		metrics := s.system.Update(result.Reports, nil, nil)
		result.Metrics = &metrics
	}

	result.Recommendation = s.recommend(result)
	debugLog("stage %s: recommendation %s", stageName, result.Recommendation)

	return result
}

// recommend applies the decision ladder to a supervised stage result.
// Rules are evaluated in priority order; the first match wins.
func (s *Supervisor) recommend(result *StageResult) Recommendation {
	if len(result.Reports) == 0 {
		return RecommendationInvestigate
	}

	criticals := 0
	warnings := 0
	for _, report := range result.Reports {
		criticals += len(report.Errors())
		warnings += len(report.Warnings())
	}

	switch {
	case criticals > 3:
		return RecommendationStop
	case criticals > 0 || warnings > 5:
		return RecommendationRetry
	case result.Metrics != nil && result.Metrics.Overall < 0.6:
		return RecommendationInvestigate
	default:
		return RecommendationContinue
	}
}

// SuperviseRun supervises every populated field of a run state in the
// fixed pipeline order, then performs one combined confidence update
// over all collected reports.
func (s *Supervisor) SuperviseRun(state models.RunState) *RunResult {
	runID := "run_" + uuid.NewString()
	debugLog("run %s: starting full supervision", runID)

	result := &RunResult{
		RunID:        runID,
		Timestamp:    time.Now(),
		StageReports: make(map[string]*StageResult),
		RunValid:     true,
	}

	var allReports []*validation.Report
	for _, binding := range runBindings {
		output := binding.output(state)
		if len(output) == 0 {
			continue
		}

		stageResult := s.SuperviseStage(binding.stageName, output, runID)
		result.StageReports[binding.stageName] = stageResult
		allReports = append(allReports, stageResult.Reports...)
	}

	if len(allReports) > 0 {
		metrics := s.system.Update(allReports, state.ObjectData, state.MLPredictions)
		result.OverallConfidence = metrics.Overall
		result.RunValid = metrics.Overall >= 0.7
	}

	result.Alerts = s.system.ActiveAlerts()
	result.Recommendations = runRecommendations(result)

	debugLog("run %s: confidence %.2f valid %t", runID, result.OverallConfidence, result.RunValid)
	return result
}

// runRecommendations derives the run-level advisory text from the
// combined confidence and the active alert set.
func runRecommendations(result *RunResult) []string {
	var recs []string

	switch {
	case result.OverallConfidence < 0.5:
		recs = append(recs, "CRITICAL: confidence very low, review all stages")
	case result.OverallConfidence < 0.7:
		recs = append(recs, "WARNING: confidence low, verify calculations")
	}

	if len(result.Alerts) > 5 {
		recs = append(recs, "WARNING: many active alerts, review system")
	}

	for _, alert := range result.Alerts {
		if alert.Level == confidence.LevelCritical {
			recs = append(recs, "CRITICAL: critical alerts active, stop run")
			break
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "SUCCESS: run valid, continue")
	}

	return recs
}

// SystemStatus returns a snapshot of the supervision system's health.
func (s *Supervisor) SystemStatus() SystemStatus {
	return SystemStatus{
		Health:            s.system.Health(),
		ActiveAlerts:      len(s.system.ActiveAlerts()),
		Trend:             s.system.Trend(),
		SupervisorsActive: len(s.stages),
		ValidatorsActive:  s.validatorCount,
		LastUpdated:       time.Now(),
	}
}

// ShouldContinue reports whether the pipeline may keep running, per
// the shared confidence system.
func (s *Supervisor) ShouldContinue() bool {
	return s.system.ShouldContinue()
}

// StagePerformance returns the aggregated performance summary for a
// registered stage, or ok=false for an unknown stage or one without
// recorded history.
func (s *Supervisor) StagePerformance(stageName string) (PerformanceSummary, bool) {
	stage, ok := s.stages[stageName]
	if !ok {
		return PerformanceSummary{StageName: stageName}, false
	}
	return stage.PerformanceSummary()
}
