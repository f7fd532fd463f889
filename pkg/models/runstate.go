package models

// RunState is the accumulated output of one full pipeline run. Each
// field holds the raw, already-decoded output of one stage; empty maps
// or nil mean the stage has not produced anything yet.
//
// The supervision core never mutates these maps.
type RunState struct {
	// ObjectData is the collected near-Earth-object record.
	ObjectData map[string]any `json:"object_data,omitempty"`
	// TrajectoryAnalysis holds orbital elements and energy accounting.
	TrajectoryAnalysis map[string]any `json:"trajectory_analysis,omitempty"`
	// ImpactAnalysis holds impact energy, crater, seismic and tsunami
	// estimates.
	ImpactAnalysis map[string]any `json:"impact_analysis,omitempty"`
	// MitigationStrategies holds the proposed deflection strategies.
	MitigationStrategies map[string]any `json:"mitigation_strategies,omitempty"`
	// VisualizationData holds prepared visualization descriptors.
	VisualizationData map[string]any `json:"visualization_data,omitempty"`
	// MLPredictions holds model prediction output, including the
	// model's self-reported confidence.
	MLPredictions map[string]any `json:"ml_predictions,omitempty"`
	// Explanation holds the narrative explanation output.
	Explanation map[string]any `json:"explanation,omitempty"`
}

// Empty returns true if no stage has produced output yet.
func (s RunState) Empty() bool {
	return len(s.ObjectData) == 0 &&
		len(s.TrajectoryAnalysis) == 0 &&
		len(s.ImpactAnalysis) == 0 &&
		len(s.MitigationStrategies) == 0 &&
		len(s.VisualizationData) == 0 &&
		len(s.MLPredictions) == 0 &&
		len(s.Explanation) == 0
}
