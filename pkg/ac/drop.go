package ac

import (
	"fmt"
	"math"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
)

// Drop is the voltage drop of one cable run.
type Drop struct {
	CurrentA    float64 `json:"current_a"`
	LengthM     float64 `json:"length_m"`
	SectionMM2  float64 `json:"section_mm2"`
	VoltageV    float64 `json:"voltage_v"`
	DropV       float64 `json:"drop_v"`
	DropPercent float64 `json:"drop_percent"`
	TargetPct   float64 `json:"target_percent"`
	AboveTarget bool    `json:"above_target"`
}

// DropFactor is the conductor factor b: 2 for a single-phase go-and-return
// run, √3 for a balanced three-phase run.
func DropFactor(phase project.Phase) float64 {
	if phase == project.PhaseTri {
		return math.Sqrt(3)
	}
	return 2
}

// DropVolts returns b × L × I × ρ / S, with L the one-way length in m and S
// the conductor section in mm².
func DropVolts(phase project.Phase, lengthM, currentA, rho, sectionMM2 float64) float64 {
	return DropFactor(phase) * lengthM * currentA * rho / sectionMM2
}

// DropRun describes a cable run for VoltageDrop.
type DropRun struct {
	CurrentA   float64
	LengthM    float64
	SectionMM2 float64
	VoltageV   float64
	Phase      project.Phase
}

// VoltageDrop computes the drop of a run and flags it against the target
// percentage. The section is taken as given; no section is selected.
func VoltageDrop(run DropRun, rho, targetPct float64) (Drop, error) {
	if run.SectionMM2 <= 0 {
		return Drop{}, fmt.Errorf("%w: cable section must be > 0, got %v", ErrInvalidConfiguration, run.SectionMM2)
	}
	if run.LengthM < 0 || run.CurrentA < 0 {
		return Drop{}, fmt.Errorf("%w: cable length and current must not be negative, got %v m / %v A", ErrInvalidConfiguration, run.LengthM, run.CurrentA)
	}
	if run.VoltageV <= 0 {
		return Drop{}, fmt.Errorf("%w: nominal voltage must be > 0, got %v", ErrInvalidConfiguration, run.VoltageV)
	}

	dropV := DropVolts(run.Phase, run.LengthM, run.CurrentA, rho, run.SectionMM2)
	pct := dropV / run.VoltageV * 100
	return Drop{
		CurrentA:    run.CurrentA,
		LengthM:     run.LengthM,
		SectionMM2:  run.SectionMM2,
		VoltageV:    run.VoltageV,
		DropV:       dropV,
		DropPercent: pct,
		TargetPct:   targetPct,
		AboveTarget: pct > targetPct,
	}, nil
}
