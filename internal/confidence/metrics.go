// Package confidence maintains the process-wide trustworthiness signal:
// a multi-factor weighted confidence score with bounded history, trend
// classification, alerting, and the should-continue policy.
package confidence

import "time"

// Level is an alert severity bucket.
type Level string

const (
	// LevelLow means confidence is healthy.
	LevelLow Level = "low"
	// LevelMedium means confidence is degraded but workable.
	LevelMedium Level = "medium"
	// LevelHigh means confidence is low enough to need review.
	LevelHigh Level = "high"
	// LevelCritical means the run should not proceed.
	LevelCritical Level = "critical"
)

// Valid returns true if the level is a known value.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh, LevelCritical:
		return true
	default:
		return false
	}
}

// Trend classifies the direction of recent confidence history.
type Trend string

const (
	// TrendImproving means recent confidence is rising.
	TrendImproving Trend = "improving"
	// TrendStable means recent confidence is flat.
	TrendStable Trend = "stable"
	// TrendDeclining means recent confidence is falling.
	TrendDeclining Trend = "declining"
	// TrendInsufficientData means fewer than two snapshots exist.
	TrendInsufficientData Trend = "insufficient_data"
)

// Metrics is a point-in-time snapshot of the system's trustworthiness.
// Snapshots are immutable after creation.
type Metrics struct {
	// Overall is the weighted blend of the five components, in [0,1].
	Overall float64 `json:"overall"`
	// Physical is the mean confidence of non-narrative validator
	// reports.
	Physical float64 `json:"physical"`
	// Coherence is the mean confidence of narrative validator reports.
	Coherence float64 `json:"coherence"`
	// Orbital is derived from observational uncertainty in the input
	// sample.
	Orbital float64 `json:"orbital"`
	// DataQuality is derived from completeness and consistency of the
	// input sample.
	DataQuality float64 `json:"data_quality"`
	// Prediction is derived from the prediction sample's self-reported
	// confidence and structure.
	Prediction float64 `json:"prediction"`
	// Trend classifies the recent history direction.
	Trend Trend `json:"trend"`
	// AlertLevel buckets the overall confidence.
	AlertLevel Level `json:"alert_level"`
	// Timestamp is when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`
}

// Alert is a standing notice that confidence or validity crossed a
// concerning threshold. Alerts stay active until explicitly resolved.
type Alert struct {
	// Level is the alert severity.
	Level Level `json:"level"`
	// Message describes what triggered the alert.
	Message string `json:"message"`
	// Stage names the originating stage, or "system".
	Stage string `json:"stage"`
	// Timestamp is when the alert was raised.
	Timestamp time.Time `json:"timestamp"`
	// Resolved marks whether a caller has acknowledged the alert.
	Resolved bool `json:"resolved"`
}

// TrendInfo describes the most recent confidence movement.
type TrendInfo struct {
	// Trend is the classification of the latest snapshot, or
	// insufficient_data when fewer than two snapshots exist.
	Trend Trend `json:"trend"`
	// Delta is current minus previous overall confidence.
	Delta float64 `json:"delta"`
	// Current is the latest overall confidence.
	Current float64 `json:"current"`
	// Previous is the overall confidence before the latest.
	Previous float64 `json:"previous"`
}

// HealthReport is a snapshot of the latest metrics plus alert load.
type HealthReport struct {
	// Status is "healthy", "degraded", or "no_data".
	Status string `json:"status"`
	// Confidence is the latest overall confidence.
	Confidence float64 `json:"confidence"`
	// Metrics is the latest snapshot, zero-valued when Status is
	// "no_data".
	Metrics Metrics `json:"metrics"`
	// ActiveAlerts is the count of unresolved alerts.
	ActiveAlerts int `json:"active_alerts"`
}
