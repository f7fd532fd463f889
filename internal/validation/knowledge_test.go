package validation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultKnowledgeBase(t *testing.T) {
	kb := DefaultKnowledgeBase()

	if len(kb.MitigationStrategies) != 3 {
		t.Errorf("expected 3 built-in strategies, got %d", len(kb.MitigationStrategies))
	}
	if len(kb.TechnicalTerms) == 0 {
		t.Error("expected built-in technical terms")
	}

	tests := []struct {
		name        string
		feasibility string
	}{
		{"kinetic_impactor", "high"},
		{"gravity_tractor", "medium"},
		{"nuclear_deflection", "low"},
	}
	for _, tt := range tests {
		strategy, ok := kb.Strategy(tt.name)
		if !ok {
			t.Errorf("Strategy(%q) not found", tt.name)
			continue
		}
		if strategy.Feasibility != tt.feasibility {
			t.Errorf("Strategy(%q).Feasibility = %q, want %q", tt.name, strategy.Feasibility, tt.feasibility)
		}
	}

	if _, ok := kb.Strategy("laser_ablation"); ok {
		t.Error("unknown strategy should not be found")
	}
}

func TestKnowledgeBase_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")

	original := DefaultKnowledgeBase()
	if err := original.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadKnowledgeBase(path)
	if err != nil {
		t.Fatalf("LoadKnowledgeBase() error = %v", err)
	}

	if len(loaded.MitigationStrategies) != len(original.MitigationStrategies) {
		t.Errorf("loaded %d strategies, want %d", len(loaded.MitigationStrategies), len(original.MitigationStrategies))
	}

	strategy, ok := loaded.Strategy("kinetic_impactor")
	if !ok {
		t.Fatal("kinetic_impactor missing after round trip")
	}
	if strategy.Effectiveness != 0.7 {
		t.Errorf("effectiveness = %v, want 0.7", strategy.Effectiveness)
	}
	if strategy.TimeRequired != "2-5 years" {
		t.Errorf("time required = %q, want 2-5 years", strategy.TimeRequired)
	}
}

func TestLoadKnowledgeBase_FillsDefaultTerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")

	content := "mitigation_strategies:\n  - name: solar_sail\n    feasibility: low\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	kb, err := LoadKnowledgeBase(path)
	if err != nil {
		t.Fatalf("LoadKnowledgeBase() error = %v", err)
	}
	if len(kb.TechnicalTerms) == 0 {
		t.Error("missing technical terms should fall back to the defaults")
	}
	if _, ok := kb.Strategy("solar_sail"); !ok {
		t.Error("expected solar_sail from the file")
	}
}

func TestLoadKnowledgeBase_MissingFile(t *testing.T) {
	if _, err := LoadKnowledgeBase(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
