package dc

import (
	"fmt"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
)

// Limits are the DC limits of the inverter used for the compliance checks.
type Limits struct {
	VmaxDC   float64 `json:"vmax_dc"`
	VminMPPT float64 `json:"vmin_mppt"`
}

// DisconnectCheck compares a DC disconnect rating with the string's worst case.
type DisconnectCheck struct {
	RatedVoltageV    float64 `json:"rated_voltage_v"`
	RatedCurrentA    float64 `json:"rated_current_a"`
	RequiredVoltageV float64 `json:"required_voltage_v"`
	RequiredCurrentA float64 `json:"required_current_a"`
	VoltageOK        bool    `json:"voltage_ok"`
	CurrentOK        bool    `json:"current_ok"`
}

// OK reports whether the disconnect covers both voltage and current.
func (d DisconnectCheck) OK() bool {
	return d.VoltageOK && d.CurrentOK
}

// Safety is the outcome of the DC safety checks. Every flag is a warning for
// the installer; none of them stops the report.
type Safety struct {
	VmaxDC                      float64          `json:"vmax_dc"`
	VminMPPT                    float64          `json:"vmin_mppt"`
	VoltageExceeded             bool             `json:"voltage_exceeded"`
	VoltageMarginV              float64          `json:"voltage_margin_v"`
	MinVmpHot                   float64          `json:"min_vmp_hot"`
	VmpBelowMPPT                bool             `json:"vmp_below_mppt"`
	MaxParallelStringsOnAnyMPPT int              `json:"max_parallel_strings_on_any_mppt"`
	GPVFuseRequired             bool             `json:"gpv_fuse_required"`
	FuseRule                    string           `json:"fuse_rule"`
	Disconnect                  *DisconnectCheck `json:"disconnect,omitempty"`
}

// FuseRequired applies the simplified fuse rule: string fuses are needed as
// soon as one MPPT input carries more than threshold parallel strings.
func FuseRequired(counts map[int]int, threshold int) (maxParallel int, required bool) {
	for _, n := range counts {
		maxParallel = max(maxParallel, n)
	}
	return maxParallel, maxParallel > threshold
}

// CheckSafety compares the analysis with the inverter limits and the
// protective device policy. A nil disconnect leaves Safety.Disconnect nil.
func CheckSafety(a *Analysis, strs []project.StringConfig, limits Limits, disconnect *project.Disconnect, fuseThreshold int) Safety {
	maxParallel, fuse := FuseRequired(CountPerMPPT(strs), fuseThreshold)

	s := Safety{
		VmaxDC:                      limits.VmaxDC,
		VminMPPT:                    limits.VminMPPT,
		VoltageExceeded:             a.VocCold > limits.VmaxDC,
		VoltageMarginV:              limits.VmaxDC - a.VocCold,
		MinVmpHot:                   a.MinVmpHot,
		VmpBelowMPPT:                a.MinVmpHot < limits.VminMPPT,
		MaxParallelStringsOnAnyMPPT: maxParallel,
		GPVFuseRequired:             fuse,
		FuseRule:                    fmt.Sprintf("simplified rule: string fuses above %d parallel strings per MPPT", fuseThreshold),
	}

	if disconnect != nil {
		s.Disconnect = &DisconnectCheck{
			RatedVoltageV:    disconnect.VoltageV,
			RatedCurrentA:    disconnect.CurrentA,
			RequiredVoltageV: a.VocCold,
			RequiredCurrentA: a.IscCalculation,
			VoltageOK:        disconnect.VoltageV >= a.VocCold,
			CurrentOK:        disconnect.CurrentA >= a.IscCalculation,
		}
	}

	return s
}
