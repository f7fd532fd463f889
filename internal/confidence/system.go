package confidence

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/asterops/neoguard/internal/validation"
)

// Weights are the blend factors for the five confidence components.
// They must sum to 1.
type Weights struct {
	Physical    float64 `json:"physical"`
	Coherence   float64 `json:"coherence"`
	Orbital     float64 `json:"orbital"`
	DataQuality float64 `json:"data_quality"`
	Prediction  float64 `json:"prediction"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Physical + w.Coherence + w.Orbital + w.DataQuality + w.Prediction
}

// Thresholds are the overall-confidence cutoffs for each alert level.
// A confidence below Critical is critical, below High is high, below
// Medium is medium, otherwise low. Declining marks the ceiling under
// which a declining trend raises an alert.
type Thresholds struct {
	Critical  float64 `json:"critical"`
	High      float64 `json:"high"`
	Medium    float64 `json:"medium"`
	Declining float64 `json:"declining"`
}

// Options configures a confidence System.
type Options struct {
	// Weights blends the five components; defaults preserve the
	// 30/20/20/15/15 contract.
	Weights Weights
	// Thresholds buckets overall confidence into alert levels.
	Thresholds Thresholds
	// MaxHistory bounds the snapshot history (FIFO eviction).
	MaxHistory int
	// MaxAlerts bounds the alert list; on overflow the oldest resolved
	// alert is evicted first, then the oldest alert.
	MaxAlerts int
	// TrendWindow is how many recent snapshots the trend looks at.
	TrendWindow int
	// TrendDelta is the half-open boundary for improving/declining.
	TrendDelta float64
}

// DefaultOptions returns the contractual default configuration.
func DefaultOptions() Options {
	return Options{
		Weights: Weights{
			Physical:    0.30,
			Coherence:   0.20,
			Orbital:     0.20,
			DataQuality: 0.15,
			Prediction:  0.15,
		},
		Thresholds: Thresholds{
			Critical:  0.3,
			High:      0.5,
			Medium:    0.7,
			Declining: 0.8,
		},
		MaxHistory:  100,
		MaxAlerts:   256,
		TrendWindow: 5,
		TrendDelta:  0.05,
	}
}

// System is one supervision session's confidence state: the metrics
// history and the alert list. It is safe for concurrent use, though a
// single supervision pass is expected to complete before the next
// begins.
type System struct {
	mu      sync.Mutex
	opts    Options
	history []Metrics
	alerts  []Alert
}

// NewSystem creates a confidence system with the given options. Zero
// option fields fall back to defaults.
func NewSystem(opts Options) *System {
	def := DefaultOptions()
	if opts.Weights == (Weights{}) {
		opts.Weights = def.Weights
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = def.Thresholds
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = def.MaxHistory
	}
	if opts.MaxAlerts <= 0 {
		opts.MaxAlerts = def.MaxAlerts
	}
	if opts.TrendWindow <= 0 {
		opts.TrendWindow = def.TrendWindow
	}
	if opts.TrendDelta <= 0 {
		opts.TrendDelta = def.TrendDelta
	}
	return &System{opts: opts}
}

// Update converts validator reports, plus optional side-channel samples
// of the collected object data and the prediction output, into a new
// metrics snapshot. The snapshot is appended to history and may raise
// alerts as a side effect.
//
// An empty reports slice yields the neutral default snapshot without
// touching history; callers treat that as "nothing checked yet", not an
// error.
func (s *System) Update(reports []*validation.Report, objectSample, predictionSample map[string]any) Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(reports) == 0 {
		return defaultMetrics()
	}

	physical := scientificConfidence(reports)
	coherence := narrativeConfidence(reports)

	orbital := 0.5
	dataQuality := 0.5
	if objectSample != nil {
		orbital = orbitalConfidence(objectSample)
		dataQuality = dataQualityConfidence(objectSample)
	}

	prediction := 0.6
	if predictionSample != nil {
		prediction = predictionConfidence(predictionSample)
	}

	w := s.opts.Weights
	overall := clamp01(clamp01(physical)*w.Physical +
		clamp01(coherence)*w.Coherence +
		clamp01(orbital)*w.Orbital +
		clamp01(dataQuality)*w.DataQuality +
		clamp01(prediction)*w.Prediction)

	metrics := Metrics{
		Overall:     overall,
		Physical:    clamp01(physical),
		Coherence:   clamp01(coherence),
		Orbital:     clamp01(orbital),
		DataQuality: clamp01(dataQuality),
		Prediction:  clamp01(prediction),
		Trend:       s.classifyTrend(),
		AlertLevel:  s.alertLevel(overall),
		Timestamp:   time.Now(),
	}

	s.history = append(s.history, metrics)
	if len(s.history) > s.opts.MaxHistory {
		s.history = s.history[1:]
	}

	s.checkAlerts(metrics, reports)

	return metrics
}

// defaultMetrics is the neutral fallback snapshot for an empty update.
func defaultMetrics() Metrics {
	return Metrics{
		Overall:     0.5,
		Physical:    0.5,
		Coherence:   0.5,
		Orbital:     0.5,
		DataQuality: 0.5,
		Prediction:  0.6,
		Trend:       TrendStable,
		AlertLevel:  LevelMedium,
		Timestamp:   time.Now(),
	}
}

// scientificConfidence averages the non-narrative reports; 0 if none.
func scientificConfidence(reports []*validation.Report) float64 {
	total, count := 0.0, 0
	for _, r := range reports {
		if r.Kind.Narrative() {
			continue
		}
		total += r.OverallConfidence
		count++
	}
	if count == 0 {
		return 0.0
	}
	return total / float64(count)
}

// narrativeConfidence averages the narrative reports. Absence of
// narrative checks is not penalized: 1.0 if none.
func narrativeConfidence(reports []*validation.Report) float64 {
	total, count := 0.0, 0
	for _, r := range reports {
		if !r.Kind.Narrative() {
			continue
		}
		total += r.OverallConfidence
		count++
	}
	if count == 0 {
		return 1.0
	}
	return total / float64(count)
}

// orbitalConfidence derives confidence from the relative spread of the
// object's diameter bounds, adjusted by how well-observed the object is
// (absolute magnitude proxy).
func orbitalConfidence(sample map[string]any) float64 {
	diameterMin := sampleNumber(sample, "diameter_min", 0)
	diameterMax := sampleNumber(sample, "diameter_max", 0)
	if diameterMin <= 0 || diameterMax <= 0 {
		return 0.5
	}

	spread := (diameterMax - diameterMin) / diameterMin
	conf := math.Max(0.1, 1.0-math.Min(spread, 0.9))

	magnitude := sampleNumber(sample, "absolute_magnitude_h", 20)
	switch {
	case magnitude < 15: // bright, well-observed object
		conf *= 1.1
	case magnitude > 25: // faint, poorly observed object
		conf *= 0.8
	}

	return math.Min(1.0, conf)
}

// requiredSampleFields is the fixed field set used by the data-quality
// presence ratio.
var requiredSampleFields = []string{
	"id", "name", "diameter_min", "diameter_max",
	"absolute_magnitude_h", "orbital_data",
}

// orbitalSampleFields is the fixed orbital-subfield set used by the
// data-quality presence ratio.
var orbitalSampleFields = []string{"eccentricity", "inclination", "semi_major_axis"}

// dataQualityConfidence blends field presence (40%), orbital subfield
// presence (40%), and internal consistency (20%).
func dataQualityConfidence(sample map[string]any) float64 {
	present := 0
	for _, field := range requiredSampleFields {
		if value, ok := sample[field]; ok && value != nil {
			present++
		}
	}
	completeness := float64(present) / float64(len(requiredSampleFields))

	orbital, _ := sample["orbital_data"].(map[string]any)
	orbitalPresent := 0
	for _, field := range orbitalSampleFields {
		if value, ok := orbital[field]; ok && value != nil {
			orbitalPresent++
		}
	}
	orbitalQuality := float64(orbitalPresent) / float64(len(orbitalSampleFields))

	consistency := sampleConsistency(sample)

	return math.Min(1.0, completeness*0.4+orbitalQuality*0.4+consistency*0.2)
}

// sampleConsistency checks ordering and range sanity across related
// sample fields.
func sampleConsistency(sample map[string]any) float64 {
	diameterMin := sampleNumber(sample, "diameter_min", 0)
	diameterMax := sampleNumber(sample, "diameter_max", 0)
	diameterScore := 0.5
	if diameterMin > 0 && diameterMax > 0 {
		if diameterMin <= diameterMax {
			diameterScore = 1.0
		} else {
			diameterScore = 0.0
		}
	}

	magnitude := sampleNumber(sample, "absolute_magnitude_h", 15)
	magnitudeScore := 0.2
	if magnitude >= 5 && magnitude <= 30 {
		magnitudeScore = 0.5
	}

	orbital, _ := sample["orbital_data"].(map[string]any)
	eccentricity := sampleNumber(orbital, "eccentricity", 0.5)
	eccentricityScore := 0.2
	if eccentricity >= 0 && eccentricity <= 1 {
		eccentricityScore = 0.5
	}

	return (diameterScore + magnitudeScore + eccentricityScore) / 3
}

// predictionFields is the structural-consistency field set for the
// prediction sample.
var predictionFields = []string{"summary", "confidence_level"}

// predictionConfidence blends the sample's self-reported confidence
// (50%), structural consistency (30%), and a length-based completeness
// heuristic (20%).
func predictionConfidence(sample map[string]any) float64 {
	selfReported := sampleNumber(sample, "confidence_level", 0.6)

	present := 0
	for _, field := range predictionFields {
		if value, ok := sample[field]; ok && value != nil {
			present++
		}
	}
	structure := float64(present) / float64(len(predictionFields))

	summary, _ := sample["summary"].(string)
	completeness := lengthCompleteness(summary)

	return math.Min(1.0, selfReported*0.5+structure*0.3+completeness*0.2)
}

// lengthCompleteness buckets an explanation's word count.
func lengthCompleteness(text string) float64 {
	words := len(strings.Fields(text))
	switch {
	case words > 20:
		return 1.0
	case words > 10:
		return 0.7
	case words > 5:
		return 0.4
	default:
		return 0.1
	}
}

// classifyTrend compares the first and second halves of the stored
// recent history. Called with the lock held, before the new snapshot is
// appended. Deltas of exactly +/-TrendDelta classify as stable.
func (s *System) classifyTrend() Trend {
	if len(s.history) < 2 {
		return TrendStable
	}

	window := s.opts.TrendWindow
	recent := s.history
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	half := len(recent) / 2
	firstSum, secondSum := 0.0, 0.0
	for i, m := range recent {
		if i < half {
			firstSum += m.Overall
		} else {
			secondSum += m.Overall
		}
	}
	first := firstSum / float64(half)
	second := secondSum / float64(len(recent)-half)

	diff := second - first
	switch {
	case diff > s.opts.TrendDelta:
		return TrendImproving
	case diff < -s.opts.TrendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// alertLevel buckets an overall confidence value.
func (s *System) alertLevel(overall float64) Level {
	t := s.opts.Thresholds
	switch {
	case overall < t.Critical:
		return LevelCritical
	case overall < t.High:
		return LevelHigh
	case overall < t.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// checkAlerts raises alerts for the new snapshot. Called with the lock
// held.
func (s *System) checkAlerts(metrics Metrics, reports []*validation.Report) {
	if metrics.AlertLevel == LevelCritical || metrics.AlertLevel == LevelHigh {
		s.appendAlert(Alert{
			Level:     metrics.AlertLevel,
			Message:   fmt.Sprintf("system confidence %s: %.2f", metrics.AlertLevel, metrics.Overall),
			Stage:     "system",
			Timestamp: time.Now(),
		})
	}

	if metrics.Trend == TrendDeclining && metrics.Overall < s.opts.Thresholds.Declining {
		s.appendAlert(Alert{
			Level:     LevelMedium,
			Message:   fmt.Sprintf("declining confidence trend: %.2f", metrics.Overall),
			Stage:     "system",
			Timestamp: time.Now(),
		})
	}

	criticalErrors := 0
	for _, r := range reports {
		criticalErrors += len(r.Errors())
	}
	if criticalErrors > 0 {
		s.appendAlert(Alert{
			Level:     LevelCritical,
			Message:   fmt.Sprintf("critical validation errors detected: %d", criticalErrors),
			Stage:     "system",
			Timestamp: time.Now(),
		})
	}
}

// appendAlert adds an alert, evicting under the cap: oldest resolved
// alert first, then the oldest alert outright.
func (s *System) appendAlert(alert Alert) {
	s.alerts = append(s.alerts, alert)
	if len(s.alerts) <= s.opts.MaxAlerts {
		return
	}

	for i, a := range s.alerts {
		if a.Resolved {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return
		}
	}
	s.alerts = s.alerts[1:]
}

// ActiveAlerts returns copies of all unresolved alerts.
func (s *System) ActiveAlerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []Alert
	for _, a := range s.alerts {
		if !a.Resolved {
			active = append(active, a)
		}
	}
	return active
}

// ResolveAlert marks the alert at the given index (into the full alert
// list) resolved. Returns false for an out-of-range index.
func (s *System) ResolveAlert(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.alerts) {
		return false
	}
	s.alerts[index].Resolved = true
	return true
}

// Alerts returns a copy of the full alert list, resolved included.
func (s *System) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// ShouldContinue reports whether the run may proceed: false when any
// unresolved alert is critical or the latest overall confidence is
// below the critical threshold. An empty history is an optimistic
// start state.
func (s *System) ShouldContinue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return true
	}

	for _, a := range s.alerts {
		if a.Level == LevelCritical && !a.Resolved {
			return false
		}
	}

	return s.history[len(s.history)-1].Overall >= s.opts.Thresholds.Critical
}

// Trend returns the most recent confidence movement. With fewer than
// two snapshots the trend is insufficient_data.
func (s *System) Trend() TrendInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) < 2 {
		return TrendInfo{Trend: TrendInsufficientData}
	}

	current := s.history[len(s.history)-1]
	previous := s.history[len(s.history)-2]
	return TrendInfo{
		Trend:    current.Trend,
		Delta:    current.Overall - previous.Overall,
		Current:  current.Overall,
		Previous: previous.Overall,
	}
}

// Health returns the latest snapshot plus alert load.
func (s *System) Health() HealthReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return HealthReport{Status: "no_data"}
	}

	latest := s.history[len(s.history)-1]
	active := 0
	for _, a := range s.alerts {
		if !a.Resolved {
			active++
		}
	}

	status := "degraded"
	if latest.AlertLevel == LevelLow {
		status = "healthy"
	}

	return HealthReport{
		Status:       status,
		Confidence:   latest.Overall,
		Metrics:      latest,
		ActiveAlerts: active,
	}
}

// History returns a copy of the stored snapshots, oldest first.
func (s *System) History() []Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Metrics, len(s.history))
	copy(out, s.history)
	return out
}

// sampleNumber reads a numeric sample field, accepting number-valued
// strings, with a fallback default.
func sampleNumber(sample map[string]any, key string, fallback float64) float64 {
	raw, ok := sample[key]
	if !ok || raw == nil {
		return fallback
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

// clamp01 clamps a value into [0,1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
