package supervision

// Recommendation is the action a supervisor suggests after
// evaluating a stage or a run.
type Recommendation string

const (
	// RecommendationContinue indicates the pipeline may proceed.
	RecommendationContinue Recommendation = "continue"
	// RecommendationRetry indicates the stage should run again,
	// typically after addressing critical failures.
	RecommendationRetry Recommendation = "retry"
	// RecommendationInvestigate indicates a human should look at the
	// outputs before the pipeline proceeds.
	RecommendationInvestigate Recommendation = "investigate"
	// RecommendationStop indicates the pipeline must halt.
	RecommendationStop Recommendation = "stop"
)

// Valid returns true if the recommendation is one of the defined
// values.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationContinue, RecommendationRetry, RecommendationInvestigate, RecommendationStop:
		return true
	}
	return false
}
