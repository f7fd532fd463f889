// Package models defines the shared data types exchanged between the
// supervision core and the pipeline stages it checks.
package models

// StageType classifies what kind of output a pipeline stage produces.
// Validators use it to select which checks apply.
type StageType string

const (
	// StageTypeDataCollection is a stage that gathers object data from
	// external catalogs.
	StageTypeDataCollection StageType = "data_collection"
	// StageTypeTrajectory is a stage that computes orbital trajectories.
	StageTypeTrajectory StageType = "trajectory"
	// StageTypeImpact is a stage that estimates impact consequences.
	StageTypeImpact StageType = "impact"
	// StageTypeMitigation is a stage that proposes deflection strategies.
	StageTypeMitigation StageType = "mitigation"
	// StageTypeVisualization is a stage that prepares visualization data.
	StageTypeVisualization StageType = "visualization"
	// StageTypeML is a stage that produces model predictions.
	StageTypeML StageType = "ml"
	// StageTypeExplanation is a stage that writes narrative explanations.
	StageTypeExplanation StageType = "explanation"
	// StageTypeUnknown is used when a stage has no registered type.
	StageTypeUnknown StageType = "unknown"
)

// Valid returns true if the stage type is a known value.
func (t StageType) Valid() bool {
	switch t {
	case StageTypeDataCollection, StageTypeTrajectory, StageTypeImpact,
		StageTypeMitigation, StageTypeVisualization, StageTypeML,
		StageTypeExplanation, StageTypeUnknown:
		return true
	default:
		return false
	}
}

// Narrative returns true for stage types whose output is natural
// language or descriptive structure rather than numeric results.
func (t StageType) Narrative() bool {
	switch t {
	case StageTypeExplanation, StageTypeMitigation, StageTypeVisualization:
		return true
	default:
		return false
	}
}

// StageContext carries the identifying information a validator needs
// about the stage whose output it is checking.
type StageContext struct {
	// StageName is the registered name of the stage.
	StageName string `json:"stage_name"`
	// StageType selects which checks apply.
	StageType StageType `json:"stage_type"`
	// RunID ties the supervision back to a pipeline run, if any.
	RunID string `json:"run_id,omitempty"`
	// Validator is the name of the validator currently running.
	Validator string `json:"validator,omitempty"`
}
