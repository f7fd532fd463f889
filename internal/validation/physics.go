package validation

import (
	"math"
	"strconv"

	"github.com/asterops/neoguard/pkg/models"
)

// Physical constants (SI) used to sanity-check stage arithmetic.
const (
	gravitationalConstant = 6.67430e-11 // m^3/kg/s^2
	earthMass             = 5.972e24    // kg
	earthRadius           = 6.371e6     // m
	astronomicalUnit      = 1.496e11    // m
	lightSpeed            = 2.998e8     // m/s
)

// valueRange bounds a physical quantity.
type valueRange struct {
	Min  float64
	Max  float64
	Unit string
}

// physicsRules holds the declarative range and tolerance tables for the
// physics validator.
type physicsRules struct {
	// Ranges bounds the quantities the validator knows about.
	Ranges map[string]valueRange
	// EnergyConservationTol is the relative tolerance for total vs
	// kinetic+potential energy.
	EnergyConservationTol float64
	// ConstantsTol is the relative tolerance for physical constants.
	ConstantsTol float64
	// KeplerTol is the relative tolerance for the third-law check.
	KeplerTol float64
}

// defaultPhysicsRules returns the built-in rule tables.
func defaultPhysicsRules() physicsRules {
	return physicsRules{
		Ranges: map[string]valueRange{
			"orbital_period":  {0.1, 1000, "yr"},
			"eccentricity":    {0, 0.999, ""},
			"inclination":     {0, 180, "deg"},
			"semi_major_axis": {0.1, 100, "AU"},
			"velocity":        {1e3, 1e5, "m/s"},
			"kinetic_energy":  {1e12, 1e25, "J"},
			"impact_velocity": {11e3, 72e3, "m/s"},
		},
		EnergyConservationTol: 0.01,
		ConstantsTol:          0.001,
		KeplerTol:             0.1,
	}
}

// PhysicsValidator checks numeric stage output against known physical
// ranges, constants, and conservation laws.
type PhysicsValidator struct {
	rules physicsRules
}

// NewPhysicsValidator creates a physics validator with the built-in
// rule tables.
func NewPhysicsValidator() *PhysicsValidator {
	return &PhysicsValidator{rules: defaultPhysicsRules()}
}

// Name implements Validator.
func (v *PhysicsValidator) Name() string { return "physics" }

// Kind implements Validator.
func (v *PhysicsValidator) Kind() Kind { return KindPhysical }

// Validate dispatches on the stage type and runs the applicable checks.
func (v *PhysicsValidator) Validate(output map[string]any, ctx models.StageContext) (*Report, error) {
	report := NewReport(ctx.StageName, KindPhysical)

	switch ctx.StageType {
	case models.StageTypeTrajectory:
		v.validateTrajectory(output, report)
	case models.StageTypeImpact:
		v.validateImpact(output, report)
	case models.StageTypeMitigation:
		v.validateMitigation(output, report)
	default:
		v.validateGeneral(output, report)
	}

	return report, nil
}

// validateTrajectory checks orbital elements, period, velocity, energy
// conservation, and Kepler's third law where the fields are present.
func (v *PhysicsValidator) validateTrajectory(data map[string]any, report *Report) {
	if elements, ok := mapField(data, "orbital_elements"); ok {
		for _, field := range []string{"semi_major_axis", "eccentricity", "inclination"} {
			if value, ok := numberField(elements, field); ok {
				r := v.rules.Ranges[field]
				report.Add(checkRange(value, r.Min, r.Max, field, r.Unit))
			}
		}
	}

	if period, ok := numberField(data, "orbital_period"); ok {
		r := v.rules.Ranges["orbital_period"]
		report.Add(checkRange(period, r.Min, r.Max, "orbital_period", r.Unit))
	}

	if velocity, ok := numberField(data, "orbital_velocity"); ok {
		r := v.rules.Ranges["velocity"]
		report.Add(checkRange(velocity, r.Min, r.Max, "orbital_velocity", r.Unit))
	}

	if energy, ok := mapField(data, "energy_analysis"); ok {
		v.validateEnergyConservation(energy, report)
	}

	for _, res := range v.CheckOrbitalMechanics(data) {
		report.Add(res)
	}

	v.validateConstants(data, report)
}

// validateImpact checks impact energy, crater, seismic, and tsunami
// estimates.
func (v *PhysicsValidator) validateImpact(data map[string]any, report *Report) {
	if energy, ok := mapField(data, "impact_energy"); ok {
		if joules, ok := numberField(energy, "total_energy_joules"); ok {
			r := v.rules.Ranges["kinetic_energy"]
			report.Add(checkRange(joules, r.Min, r.Max, "total_energy_joules", "J"))
		}
		if megatons, ok := numberField(energy, "total_energy_mt_tnt"); ok {
			report.Add(checkRange(megatons, 0.001, 10000, "total_energy_mt_tnt", "MT TNT"))
		}
	}

	if crater, ok := mapField(data, "crater_analysis"); ok {
		if diameter, ok := numberField(crater, "diameter_km"); ok {
			report.Add(checkRange(diameter, 0.1, 1000, "crater_diameter_km", "km"))
		}
	}

	if seismic, ok := mapField(data, "seismic_effects"); ok {
		if magnitude, ok := numberField(seismic, "magnitude"); ok {
			report.Add(checkRange(magnitude, 0, 10, "seismic_magnitude", "Richter"))
		}
	}

	if tsunami, ok := mapField(data, "tsunami_effects"); ok {
		if height, ok := numberField(tsunami, "max_wave_height_m"); ok {
			report.Add(checkRange(height, 0, 1000, "max_wave_height_m", "m"))
		}
	}
}

// validateMitigation checks strategy effectiveness and cost plausibility.
func (v *PhysicsValidator) validateMitigation(data map[string]any, report *Report) {
	strategies, ok := sliceField(data, "strategies")
	if !ok {
		return
	}

	for i, raw := range strategies {
		strategy, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		field := strategyField(i, "effectiveness")
		if eff, ok := numberField(strategy, "effectiveness"); ok {
			report.Add(checkRange(eff, 0, 1, field, ""))
		}
		if cost, ok := numberField(strategy, "cost"); ok && cost < 0 {
			res := NewResult(SeverityCritical, "strategy cost cannot be negative", 0.0)
			res.Field = strategyField(i, "cost")
			res.Observed = formatValue(cost, "")
			report.Add(res)
		}
	}
}

// validateGeneral scans top-level numeric fields for non-finite values
// and verifies any reported physical constants.
func (v *PhysicsValidator) validateGeneral(data map[string]any, report *Report) {
	for key, raw := range data {
		value, ok := raw.(float64)
		if !ok {
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			report.Add(nonFiniteResult(key, value))
		}
	}
	v.validateConstants(data, report)
}

// knownConstants lists the constants a stage may echo back for
// verification, in a fixed check order.
var knownConstants = []struct {
	Name  string
	Value float64
}{
	{"G", gravitationalConstant},
	{"M_earth", earthMass},
	{"R_earth", earthRadius},
	{"AU", astronomicalUnit},
	{"c", lightSpeed},
}

// validateConstants compares any constants echoed in the output against
// their known SI values.
func (v *PhysicsValidator) validateConstants(data map[string]any, report *Report) {
	constants, ok := mapField(data, "constants")
	if !ok {
		return
	}
	for _, c := range knownConstants {
		if value, ok := numberField(constants, c.Name); ok {
			report.Add(checkConstant(value, c.Value, v.rules.ConstantsTol, c.Name))
		}
	}
}

// validateEnergyConservation checks total ~= kinetic + potential within
// the configured relative tolerance.
func (v *PhysicsValidator) validateEnergyConservation(energy map[string]any, report *Report) {
	total, okT := numberField(energy, "total_energy")
	kinetic, okK := numberField(energy, "kinetic_energy")
	potential, okP := numberField(energy, "potential_energy")
	if !okT || !okK || !okP {
		return
	}

	relErr := math.Inf(1)
	if total != 0 {
		relErr = math.Abs(total-(kinetic+potential)) / math.Abs(total)
	}

	if relErr <= v.rules.EnergyConservationTol {
		res := NewResult(SeveritySuccess, "energy conservation verified", 1.0)
		res.Field = "energy_conservation"
		report.Add(res)
		return
	}

	res := NewResult(SeverityWarning, "energy conservation violated", 0.5)
	res.Field = "energy_conservation"
	res.Expected = formatPercent(v.rules.EnergyConservationTol)
	res.Observed = formatPercent(relErr)
	report.Add(res)
}

// CheckOrbitalMechanics validates Kepler's third law (T^2 proportional
// to a^3, in years and AU) when both period and semi-major axis are
// present at the top level.
func (v *PhysicsValidator) CheckOrbitalMechanics(data map[string]any) []Result {
	period, okT := numberField(data, "orbital_period")
	axis, okA := numberField(data, "semi_major_axis")
	if !okT || !okA || axis <= 0 {
		return nil
	}

	expected := math.Pow(axis, 3)
	actual := period * period
	relErr := math.Abs(actual-expected) / expected

	if relErr <= v.rules.KeplerTol {
		res := NewResult(SeveritySuccess, "Kepler's third law verified", 1.0)
		res.Field = "kepler_third_law"
		return []Result{res}
	}

	res := NewResult(SeverityWarning, "Kepler's third law violated", 0.3)
	res.Field = "kepler_third_law"
	res.Expected = formatValue(expected, "")
	res.Observed = formatValue(actual, "")
	return []Result{res}
}

// formatPercent renders a ratio as a percentage string.
func formatPercent(ratio float64) string {
	return formatValue(ratio*100, "%")
}

// strategyField names a per-strategy check field.
func strategyField(index int, suffix string) string {
	return "strategy_" + strconv.Itoa(index) + "_" + suffix
}
