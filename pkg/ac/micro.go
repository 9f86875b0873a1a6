package ac

import (
	"fmt"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

// Provisioning compares configured microinverters with the panels to serve.
type Provisioning string

const (
	ProvisioningExact Provisioning = "exact"
	ProvisioningUnder Provisioning = "under"
	ProvisioningOver  Provisioning = "over"
)

// MicroBranch is one microinverter branch with its derived drop.
type MicroBranch struct {
	BranchID        string  `json:"branch_id"`
	Name            string  `json:"name"`
	Phase           string  `json:"phase"`
	MicroCount      int     `json:"micro_count"`
	CableLengthM    float64 `json:"cable_length_m"`
	CableSectionMM2 float64 `json:"cable_section_mm2"`
	CurrentA        float64 `json:"current_a"`
	DropV           float64 `json:"drop_v"`
	DropPercent     float64 `json:"drop_percent"`
	AboveTarget     bool    `json:"above_target"`
	OverBranchLimit bool    `json:"over_branch_limit"`
}

// MicroBranchesReport summarizes every branch of a microinverter installation.
type MicroBranchesReport struct {
	RequiredMicros        int           `json:"required_micros"`
	TotalMicrosConfigured int           `json:"total_micros_configured"`
	Provisioning          Provisioning  `json:"provisioning"`
	MicroPowerVA          float64       `json:"micro_power_va"`
	MaxPerBranch          int           `json:"max_per_branch,omitempty"`
	Branches              []MicroBranch `json:"branches"`
	MaxBranchDropPercent  float64       `json:"max_branch_drop_percent"`
	FeederDropPercent     float64       `json:"feeder_drop_percent"`
	ProductionDropPercent float64       `json:"production_drop_percent"`
	TargetPct             float64       `json:"target_percent"`
	ProductionAboveTarget bool          `json:"production_above_target"`
}

// RequiredMicros returns the microinverters needed to serve panelCount
// panels, rounding up when a micro serves several panels.
func RequiredMicros(panelCount, panelsPerMicro int) int {
	if panelsPerMicro <= 0 {
		panelsPerMicro = 1
	}
	return (panelCount + panelsPerMicro - 1) / panelsPerMicro
}

func compareProvisioning(required, configured int) Provisioning {
	switch {
	case configured < required:
		return ProvisioningUnder
	case configured > required:
		return ProvisioningOver
	}
	return ProvisioningExact
}

// AnalyzeMicroBranches computes each branch current and drop, and the
// production drop from the furthest microinverter to the coupling point:
// the worst branch drop plus the feeder drop.
func AnalyzeMicroBranches(cfg *project.MicroConfig, panelCount int, feederDropPct float64, t *tables.Tables) (*MicroBranchesReport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no microinverter configuration", ErrInvalidConfiguration)
	}
	if cfg.PowerVA <= 0 {
		return nil, fmt.Errorf("%w: micro.power_va must be > 0, got %v", ErrInvalidConfiguration, cfg.PowerVA)
	}

	u := t.Electrical.MicroBranchVoltage
	rho := t.Electrical.ResistivityOhmMM2PerM
	target := t.Electrical.DropTargetPercent

	r := &MicroBranchesReport{
		RequiredMicros: RequiredMicros(panelCount, cfg.PanelsPerMicro),
		MicroPowerVA:   cfg.PowerVA,
		MaxPerBranch:   cfg.MaxPerBranch,
		Branches:       make([]MicroBranch, 0, len(cfg.Branches)),
		TargetPct:      target,
	}

	for i, b := range cfg.Branches {
		if b.MicroCount < 0 {
			return nil, fmt.Errorf("%w: micro.branches[%d].micro_count must be >= 0", ErrInvalidConfiguration, i)
		}
		current := float64(b.MicroCount) * cfg.PowerVA / u
		drop, err := VoltageDrop(DropRun{
			CurrentA:   current,
			LengthM:    b.CableLengthM,
			SectionMM2: b.CableSectionMM2,
			VoltageV:   u,
			Phase:      project.PhaseMono,
		}, rho, target)
		if err != nil {
			return nil, fmt.Errorf("micro.branches[%d]: %w", i, err)
		}

		id := b.ID
		if id == "" {
			id = fmt.Sprintf("B%d", i+1)
		}
		r.Branches = append(r.Branches, MicroBranch{
			BranchID:        id,
			Name:            b.Name,
			Phase:           b.Phase,
			MicroCount:      b.MicroCount,
			CableLengthM:    b.CableLengthM,
			CableSectionMM2: b.CableSectionMM2,
			CurrentA:        current,
			DropV:           drop.DropV,
			DropPercent:     drop.DropPercent,
			AboveTarget:     drop.AboveTarget,
			OverBranchLimit: cfg.MaxPerBranch > 0 && b.MicroCount > cfg.MaxPerBranch,
		})
		r.TotalMicrosConfigured += b.MicroCount
		r.MaxBranchDropPercent = max(r.MaxBranchDropPercent, drop.DropPercent)
	}

	r.Provisioning = compareProvisioning(r.RequiredMicros, r.TotalMicrosConfigured)
	r.FeederDropPercent = feederDropPct
	r.ProductionDropPercent = r.MaxBranchDropPercent + feederDropPct
	r.ProductionAboveTarget = r.ProductionDropPercent > target

	return r, nil
}

