package confidence

import (
	"math"
	"testing"

	"github.com/asterops/neoguard/internal/validation"
)

// reportWith builds a single-result report with the given kind and
// confidence.
func reportWith(kind validation.Kind, severity validation.Severity, confidence float64) *validation.Report {
	r := validation.NewReport("stage", kind)
	r.Add(validation.NewResult(severity, "check", confidence))
	return r
}

// physicalOnlySystem weights the physical component at 1 so the
// overall confidence equals the report confidence exactly.
func physicalOnlySystem(opts Options) *System {
	opts.Weights = Weights{Physical: 1}
	return NewSystem(opts)
}

func TestWeights_Sum(t *testing.T) {
	if got := DefaultOptions().Weights.Sum(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("default weights sum = %v, want 1.0", got)
	}
}

func TestSystem_UpdateWeightedBlend(t *testing.T) {
	s := NewSystem(DefaultOptions())

	reports := []*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.8),
		reportWith(validation.KindCoherence, validation.SeveritySuccess, 0.6),
	}
	metrics := s.Update(reports, nil, nil)

	// physical 0.8, coherence 0.6, orbital/data-quality default 0.5,
	// prediction default 0.6.
	want := 0.30*0.8 + 0.20*0.6 + 0.20*0.5 + 0.15*0.5 + 0.15*0.6
	if math.Abs(metrics.Overall-want) > 1e-9 {
		t.Errorf("Overall = %v, want %v", metrics.Overall, want)
	}
	if metrics.Physical != 0.8 {
		t.Errorf("Physical = %v, want 0.8", metrics.Physical)
	}
	if metrics.Coherence != 0.6 {
		t.Errorf("Coherence = %v, want 0.6", metrics.Coherence)
	}
	if metrics.Orbital != 0.5 || metrics.DataQuality != 0.5 {
		t.Errorf("samples absent: orbital/data quality = %v/%v, want 0.5/0.5", metrics.Orbital, metrics.DataQuality)
	}
	if metrics.Prediction != 0.6 {
		t.Errorf("Prediction = %v, want 0.6", metrics.Prediction)
	}
}

func TestSystem_UpdateComponentDefaults(t *testing.T) {
	s := NewSystem(DefaultOptions())

	// Only coherence reports: the scientific component collapses to 0.
	metrics := s.Update([]*validation.Report{
		reportWith(validation.KindCoherence, validation.SeveritySuccess, 0.9),
	}, nil, nil)
	if metrics.Physical != 0 {
		t.Errorf("Physical with no scientific reports = %v, want 0", metrics.Physical)
	}

	// Only physical reports: absence of narrative checks is not
	// penalized.
	metrics = s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.9),
	}, nil, nil)
	if metrics.Coherence != 1.0 {
		t.Errorf("Coherence with no narrative reports = %v, want 1.0", metrics.Coherence)
	}
}

func TestSystem_UpdateEmptyReports(t *testing.T) {
	s := NewSystem(DefaultOptions())

	metrics := s.Update(nil, nil, nil)

	if metrics.Overall != 0.5 {
		t.Errorf("default Overall = %v, want 0.5", metrics.Overall)
	}
	if metrics.Prediction != 0.6 {
		t.Errorf("default Prediction = %v, want 0.6", metrics.Prediction)
	}
	if metrics.Trend != TrendStable {
		t.Errorf("default Trend = %q, want stable", metrics.Trend)
	}
	if metrics.AlertLevel != LevelMedium {
		t.Errorf("default AlertLevel = %q, want medium", metrics.AlertLevel)
	}
	if len(s.History()) != 0 {
		t.Error("empty update must not be recorded in history")
	}
}

func TestSystem_AlertLevelBuckets(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		want       Level
	}{
		{"below critical threshold", 0.2, LevelCritical},
		{"at critical threshold", 0.3, LevelHigh},
		{"below high threshold", 0.45, LevelHigh},
		{"at high threshold", 0.5, LevelMedium},
		{"below medium threshold", 0.65, LevelMedium},
		{"at medium threshold", 0.7, LevelLow},
		{"high confidence", 0.95, LevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := physicalOnlySystem(DefaultOptions())
			metrics := s.Update([]*validation.Report{
				reportWith(validation.KindPhysical, validation.SeveritySuccess, tt.confidence),
			}, nil, nil)
			if metrics.AlertLevel != tt.want {
				t.Errorf("AlertLevel for %v = %q, want %q", tt.confidence, metrics.AlertLevel, tt.want)
			}
		})
	}
}

func TestSystem_TrendClassification(t *testing.T) {
	opts := DefaultOptions()
	opts.TrendWindow = 2
	s := physicalOnlySystem(opts)

	update := func(confidence float64) Metrics {
		return s.Update([]*validation.Report{
			reportWith(validation.KindPhysical, validation.SeveritySuccess, confidence),
		}, nil, nil)
	}

	// Trend is computed over history as it stood before the append.
	if got := update(0.5).Trend; got != TrendStable {
		t.Errorf("first snapshot trend = %q, want stable", got)
	}
	if got := update(0.8).Trend; got != TrendStable {
		t.Errorf("second snapshot trend = %q, want stable (single prior snapshot)", got)
	}
	if got := update(0.8).Trend; got != TrendImproving {
		t.Errorf("trend after 0.5 -> 0.8 = %q, want improving", got)
	}
	if got := update(0.8).Trend; got != TrendStable {
		t.Errorf("trend after flat history = %q, want stable", got)
	}
	update(0.4)
	if got := update(0.4).Trend; got != TrendDeclining {
		t.Errorf("trend after 0.8 -> 0.4 = %q, want declining", got)
	}
}

func TestSystem_TrendBoundaryIsOpen(t *testing.T) {
	opts := DefaultOptions()
	opts.TrendWindow = 2
	opts.TrendDelta = 0.0625 // exactly representable
	s := physicalOnlySystem(opts)

	update := func(confidence float64) Metrics {
		return s.Update([]*validation.Report{
			reportWith(validation.KindPhysical, validation.SeveritySuccess, confidence),
		}, nil, nil)
	}

	update(0.25)
	update(0.3125)
	// Delta is exactly +0.0625: strictly-greater is required for
	// improving.
	if got := update(0.3125).Trend; got != TrendStable {
		t.Errorf("trend at exact delta = %q, want stable", got)
	}
}

func TestSystem_TrendWindowLimitsHistory(t *testing.T) {
	s := physicalOnlySystem(DefaultOptions())

	update := func(confidence float64) Metrics {
		return s.Update([]*validation.Report{
			reportWith(validation.KindPhysical, validation.SeveritySuccess, confidence),
		}, nil, nil)
	}

	// Old low snapshots must fall outside the 5-snapshot window.
	for i := 0; i < 10; i++ {
		update(0.2)
	}
	for i := 0; i < 5; i++ {
		update(0.9)
	}
	if got := update(0.9).Trend; got != TrendStable {
		t.Errorf("trend with uniform window = %q, want stable", got)
	}
}

func TestSystem_HistoryFIFO(t *testing.T) {
	s := physicalOnlySystem(DefaultOptions())

	for i := 0; i < 105; i++ {
		s.Update([]*validation.Report{
			reportWith(validation.KindPhysical, validation.SeveritySuccess, float64(i)/200),
		}, nil, nil)
	}

	history := s.History()
	if len(history) != 100 {
		t.Fatalf("history length = %d, want 100", len(history))
	}
	// The five oldest snapshots were evicted.
	if history[0].Physical != 5.0/200 {
		t.Errorf("oldest kept snapshot Physical = %v, want %v", history[0].Physical, 5.0/200)
	}
	if history[99].Physical != 104.0/200 {
		t.Errorf("newest snapshot Physical = %v, want %v", history[99].Physical, 104.0/200)
	}
}

func TestSystem_CriticalErrorsRaiseAlert(t *testing.T) {
	s := NewSystem(DefaultOptions())

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeverityCritical, 0.0),
	}, nil, nil)

	active := s.ActiveAlerts()
	if len(active) == 0 {
		t.Fatal("expected alerts after critical validation errors")
	}

	hasCritical := false
	for _, a := range active {
		if a.Level == LevelCritical {
			hasCritical = true
		}
	}
	if !hasCritical {
		t.Error("expected a critical alert for critical validation errors")
	}

	if s.ShouldContinue() {
		t.Error("unresolved critical alert should stop the run")
	}
}

func TestSystem_ResolveAlertRestoresContinue(t *testing.T) {
	s := NewSystem(DefaultOptions())

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeverityCritical, 0.0),
	}, nil, nil)

	if s.ShouldContinue() {
		t.Fatal("expected run to be blocked")
	}

	for i := range s.Alerts() {
		if !s.ResolveAlert(i) {
			t.Fatalf("ResolveAlert(%d) = false", i)
		}
	}
	if len(s.ActiveAlerts()) != 0 {
		t.Fatal("expected no active alerts after resolving all")
	}

	// Latest overall (0.465 under default weights) is above the
	// critical threshold, so the run may proceed again.
	if !s.ShouldContinue() {
		t.Error("resolved alerts should unblock the run")
	}
}

func TestSystem_ResolveAlertOutOfRange(t *testing.T) {
	s := NewSystem(DefaultOptions())
	if s.ResolveAlert(0) {
		t.Error("resolving with empty alert list should fail")
	}
	if s.ResolveAlert(-1) {
		t.Error("negative index should fail")
	}
}

func TestSystem_ShouldContinue(t *testing.T) {
	s := physicalOnlySystem(DefaultOptions())

	if !s.ShouldContinue() {
		t.Error("empty history should be an optimistic start state")
	}

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.2),
	}, nil, nil)
	if s.ShouldContinue() {
		t.Error("overall confidence below the critical threshold should stop the run")
	}

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.9),
	}, nil, nil)
	// The earlier low-confidence update raised high and critical-level
	// system alerts; only unresolved critical alerts block.
	for i, a := range s.Alerts() {
		if a.Level == LevelCritical {
			s.ResolveAlert(i)
		}
	}
	if !s.ShouldContinue() {
		t.Error("recovered confidence should allow the run to continue")
	}
}

func TestSystem_AlertCapEviction(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxAlerts = 2
	s := physicalOnlySystem(opts)

	lowConfidence := func() {
		s.Update([]*validation.Report{
			reportWith(validation.KindPhysical, validation.SeverityCritical, 0.0),
		}, nil, nil)
	}

	// Each low-confidence update raises two alerts (confidence level +
	// critical errors), so the cap is immediately exercised.
	lowConfidence()
	if got := len(s.Alerts()); got != 2 {
		t.Fatalf("alert count = %d, want 2", got)
	}

	s.ResolveAlert(0)
	lowConfidence()
	alerts := s.Alerts()
	if len(alerts) != 2 {
		t.Fatalf("alert count after overflow = %d, want 2", len(alerts))
	}
	// The resolved alert was evicted first; the survivors are
	// unresolved.
	for i, a := range alerts {
		if a.Resolved {
			t.Errorf("alert %d still resolved, want resolved alerts evicted first", i)
		}
	}
}

func TestOrbitalConfidence(t *testing.T) {
	tests := []struct {
		name   string
		sample map[string]any
		want   float64
	}{
		{
			"zero spread",
			map[string]any{"diameter_min": 1.0, "diameter_max": 1.0},
			1.0,
		},
		{
			"moderate spread",
			map[string]any{"diameter_min": 1.0, "diameter_max": 1.5},
			0.5,
		},
		{
			"spread capped at 0.9",
			map[string]any{"diameter_min": 1.0, "diameter_max": 5.0},
			0.1,
		},
		{
			"missing diameters",
			map[string]any{},
			0.5,
		},
		{
			"faint object penalized",
			map[string]any{"diameter_min": 1.0, "diameter_max": 1.0, "absolute_magnitude_h": 26.0},
			0.8,
		},
		{
			"bright object capped at 1.0",
			map[string]any{"diameter_min": 1.0, "diameter_max": 1.0, "absolute_magnitude_h": 10.0},
			1.0,
		},
		{
			"string-encoded numbers accepted",
			map[string]any{"diameter_min": "1.0", "diameter_max": "1.5"},
			0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orbitalConfidence(tt.sample); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("orbitalConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDataQualityConfidence(t *testing.T) {
	full := map[string]any{
		"id":                   "3542519",
		"name":                 "2010 PK9",
		"diameter_min":         0.11,
		"diameter_max":         0.26,
		"absolute_magnitude_h": 21.8,
		"orbital_data": map[string]any{
			"eccentricity":    0.38,
			"inclination":     12.1,
			"semi_major_axis": 1.6,
		},
	}

	// completeness 1.0, orbital quality 1.0, consistency
	// (1.0 + 0.5 + 0.5) / 3.
	want := 0.4 + 0.4 + 0.2*((1.0+0.5+0.5)/3)
	if got := dataQualityConfidence(full); math.Abs(got-want) > 1e-9 {
		t.Errorf("dataQualityConfidence(full) = %v, want %v", got, want)
	}

	empty := map[string]any{}
	// completeness 0, orbital 0, consistency (0.5 + 0.5 + 0.5) / 3
	// (defaults are in range).
	want = 0.2 * 0.5
	if got := dataQualityConfidence(empty); math.Abs(got-want) > 1e-9 {
		t.Errorf("dataQualityConfidence(empty) = %v, want %v", got, want)
	}
}

func TestSampleConsistency_InvertedDiameters(t *testing.T) {
	sample := map[string]any{
		"diameter_min":         2.0,
		"diameter_max":         1.0,
		"absolute_magnitude_h": 21.8,
	}
	// diameter 0.0, magnitude 0.5, eccentricity default in range 0.5.
	want := (0.0 + 0.5 + 0.5) / 3
	if got := sampleConsistency(sample); math.Abs(got-want) > 1e-9 {
		t.Errorf("sampleConsistency() = %v, want %v", got, want)
	}
}

func TestPredictionConfidence(t *testing.T) {
	longSummary := "the object passes within two lunar distances and poses no " +
		"measurable impact risk over the next century according to every model run"

	tests := []struct {
		name   string
		sample map[string]any
		want   float64
	}{
		{
			"complete prediction",
			map[string]any{"confidence_level": 0.8, "summary": longSummary},
			0.5*0.8 + 0.3*1.0 + 0.2*1.0,
		},
		{
			"empty prediction falls back",
			map[string]any{},
			0.5*0.6 + 0.3*0 + 0.2*0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predictionConfidence(tt.sample); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("predictionConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLengthCompleteness(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  float64
	}{
		{"long text", 25, 1.0},
		{"medium text", 15, 0.7},
		{"short text", 8, 0.4},
		{"minimal text", 3, 0.1},
		{"empty text", 0, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := ""
			for i := 0; i < tt.words; i++ {
				text += "word "
			}
			if got := lengthCompleteness(text); got != tt.want {
				t.Errorf("lengthCompleteness(%d words) = %v, want %v", tt.words, got, tt.want)
			}
		})
	}
}

func TestSystem_Trend(t *testing.T) {
	s := physicalOnlySystem(DefaultOptions())

	info := s.Trend()
	if info.Trend != TrendInsufficientData {
		t.Errorf("trend with no history = %q, want insufficient_data", info.Trend)
	}

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.5),
	}, nil, nil)
	if got := s.Trend().Trend; got != TrendInsufficientData {
		t.Errorf("trend with one snapshot = %q, want insufficient_data", got)
	}

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.8),
	}, nil, nil)

	info = s.Trend()
	if math.Abs(info.Delta-0.3) > 1e-9 {
		t.Errorf("Delta = %v, want 0.3", info.Delta)
	}
	if info.Current != 0.8 || info.Previous != 0.5 {
		t.Errorf("Current/Previous = %v/%v, want 0.8/0.5", info.Current, info.Previous)
	}
}

func TestSystem_Health(t *testing.T) {
	s := physicalOnlySystem(DefaultOptions())

	if got := s.Health().Status; got != "no_data" {
		t.Errorf("health with no history = %q, want no_data", got)
	}

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.9),
	}, nil, nil)
	if got := s.Health().Status; got != "healthy" {
		t.Errorf("health at high confidence = %q, want healthy", got)
	}

	s.Update([]*validation.Report{
		reportWith(validation.KindPhysical, validation.SeveritySuccess, 0.4),
	}, nil, nil)
	health := s.Health()
	if health.Status != "degraded" {
		t.Errorf("health at low confidence = %q, want degraded", health.Status)
	}
	if health.ActiveAlerts == 0 {
		t.Error("expected active alerts in degraded health report")
	}
}

func TestNewSystem_ZeroOptionsFallBack(t *testing.T) {
	s := NewSystem(Options{})

	if s.opts.Weights != DefaultOptions().Weights {
		t.Errorf("zero weights should fall back to defaults, got %+v", s.opts.Weights)
	}
	if s.opts.MaxHistory != 100 || s.opts.TrendWindow != 5 {
		t.Errorf("zero bounds should fall back to defaults, got %+v", s.opts)
	}
}
