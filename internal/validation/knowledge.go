package validation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MitigationStrategy is one known deflection approach in the reference
// knowledge base.
type MitigationStrategy struct {
	// Name is the canonical strategy identifier.
	Name string `yaml:"name"`
	// Description summarizes the approach.
	Description string `yaml:"description"`
	// Feasibility is high, medium, or low.
	Feasibility string `yaml:"feasibility"`
	// Cost is a coarse cost bucket (low, medium, high).
	Cost string `yaml:"cost"`
	// TimeRequired is the lead time the approach needs.
	TimeRequired string `yaml:"time_required"`
	// Effectiveness is the expected deflection effectiveness in [0,1].
	Effectiveness float64 `yaml:"effectiveness"`
}

// KnowledgeBase is the reference material the coherence validator
// scores narrative output against.
type KnowledgeBase struct {
	// MitigationStrategies lists the known deflection approaches.
	MitigationStrategies []MitigationStrategy `yaml:"mitigation_strategies"`
	// ImpactEffects lists expected impact-effect terminology.
	ImpactEffects []string `yaml:"impact_effects"`
	// OrbitalMechanicsConcepts lists expected orbital-mechanics terms.
	OrbitalMechanicsConcepts []string `yaml:"orbital_mechanics_concepts"`
	// TechnicalTerms lists the vocabulary a coherent explanation is
	// expected to draw from.
	TechnicalTerms []string `yaml:"technical_terms"`
}

// DefaultKnowledgeBase returns the built-in reference knowledge base.
func DefaultKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		MitigationStrategies: []MitigationStrategy{
			{
				Name:          "kinetic_impactor",
				Description:   "spacecraft impacts the object to deflect it",
				Feasibility:   "high",
				Cost:          "medium",
				TimeRequired:  "2-5 years",
				Effectiveness: 0.7,
			},
			{
				Name:          "gravity_tractor",
				Description:   "spacecraft uses gravity to slowly deflect the object",
				Feasibility:   "medium",
				Cost:          "high",
				TimeRequired:  "5-10 years",
				Effectiveness: 0.5,
			},
			{
				Name:          "nuclear_deflection",
				Description:   "nuclear detonation near the object to deflect it",
				Feasibility:   "low",
				Cost:          "low",
				TimeRequired:  "1-2 years",
				Effectiveness: 0.9,
			},
		},
		ImpactEffects: []string{
			"crater_formation", "seismic_waves", "tsunami_generation",
			"atmospheric_effects", "climate_impact",
		},
		OrbitalMechanicsConcepts: []string{
			"kepler_laws", "gravitational_assist", "hohmann_transfer",
			"orbital_resonance", "perturbation_theory",
		},
		TechnicalTerms: []string{
			"asteroid", "orbit", "impact", "energy", "velocity", "gravity",
		},
	}
}

// LoadKnowledgeBase reads a knowledge base from a YAML file.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}

	kb := &KnowledgeBase{}
	if err := yaml.Unmarshal(data, kb); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}
	if len(kb.TechnicalTerms) == 0 {
		kb.TechnicalTerms = DefaultKnowledgeBase().TechnicalTerms
	}
	return kb, nil
}

// Save writes the knowledge base to a YAML file.
func (kb *KnowledgeBase) Save(path string) error {
	data, err := yaml.Marshal(kb)
	if err != nil {
		return fmt.Errorf("encoding knowledge base: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing knowledge base: %w", err)
	}
	return nil
}

// Strategy looks up a mitigation strategy by name.
func (kb *KnowledgeBase) Strategy(name string) (MitigationStrategy, bool) {
	for _, s := range kb.MitigationStrategies {
		if s.Name == name {
			return s, true
		}
	}
	return MitigationStrategy{}, false
}
