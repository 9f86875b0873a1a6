package ac

import (
	"errors"
	"math"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

// ErrInvalidConfiguration is returned for inputs the calculators refuse to coerce.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Sizing is the AC output current and the protective devices chosen for it.
type Sizing struct {
	MaxACPowerW         float64       `json:"max_ac_power_w"`
	NominalACVoltage    float64       `json:"nominal_ac_voltage"`
	Phase               project.Phase `json:"phase"`
	NominalCurrentA     float64       `json:"nominal_current_a"`
	RecommendedBreakerA *int          `json:"recommended_breaker_a"`
	RCDType             string        `json:"rcd_type"`
}

// phaseFactor is √3 for three-phase and 1 for single-phase.
func phaseFactor(phase project.Phase) float64 {
	if phase == project.PhaseTri {
		return math.Sqrt(3)
	}
	return 1
}

// NominalCurrent returns the AC output current P / (U × (√3 for tri)).
func NominalCurrent(powerW, voltage float64, phase project.Phase) float64 {
	return powerW / (voltage * phaseFactor(phase))
}

// SelectBreaker returns the smallest ladder rating at or above currentA.
// The bool is false when the current exceeds the whole ladder.
func SelectBreaker(currentA float64, ladder []int) (int, bool) {
	for _, rating := range ladder {
		if float64(rating) >= currentA {
			return rating, true
		}
	}
	return 0, false
}

// RCDType looks up the RCD type for an inverter technology.
func RCDType(tech project.Technology, t tables.RCDTable) string {
	if rcd, ok := t.ByTechnology[string(tech)]; ok {
		return rcd
	}
	return t.Default
}

// Size computes the nominal AC current and recommends the breaker and RCD.
func Size(powerW, voltage float64, phase project.Phase, tech project.Technology, t *tables.Tables) Sizing {
	current := NominalCurrent(powerW, voltage, phase)
	s := Sizing{
		MaxACPowerW:      powerW,
		NominalACVoltage: voltage,
		Phase:            phase,
		NominalCurrentA:  current,
		RCDType:          RCDType(tech, t.RCD),
	}
	if rating, ok := SelectBreaker(current, t.BreakerLadderA); ok {
		s.RecommendedBreakerA = &rating
	}
	return s
}
