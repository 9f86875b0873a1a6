package compliance

import (
	"fmt"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/ac"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/dc"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/margins"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/subscription"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/validation"
)

// Evaluate runs the whole engine on a project snapshot.
// It validates the project, resolves missing external data to documented
// defaults, runs every calculator and flags out-of-range results.
// Returns a nil dossier when the project fails schema validation.
func Evaluate(p *project.Project, t *tables.Tables) (*Dossier, *validation.Report) {
	report := validation.ValidateSchema(p)
	if !report.Valid {
		return nil, report
	}

	phase := p.Inverter.EffectivePhase()
	climate := resolveClimate(p, t, report)
	if climate.TempMin >= climate.TempMax {
		report.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Code:        validation.CodeInvalidConfiguration,
			Message:     fmt.Sprintf("resolved climate %.1f/%.1f °C: temp_min must be less than temp_max", climate.TempMin, climate.TempMax),
			SpecPath:    "climate",
			ActualValue: fmt.Sprintf("%.1f/%.1f", climate.TempMin, climate.TempMax),
			Expected:    "temp_min < temp_max",
		})
		return nil, report
	}

	d := &Dossier{
		Project:      p.Name,
		InstalledKWc: p.InstalledKWc(),
		PanelCount:   p.TotalPanels(),
		Climate:      climate,
	}

	// 1. AC output and protective devices
	voltage := resolveACVoltage(p, phase, report)
	powerW := p.Inverter.MaxACPowerW
	tech := p.Inverter.Technology
	if p.UsesMicroinverters() {
		tech = project.TechnologyMicro
		if powerW <= 0 {
			powerW = microACPowerW(p.Micro)
		}
	}
	d.AC = ac.Size(powerW, voltage, phase, tech, t)

	// 2. Main feeder drop
	feederPct := 0.0
	if p.Feeder.Configured() {
		drop, err := ac.VoltageDrop(ac.DropRun{
			CurrentA:   d.AC.NominalCurrentA,
			LengthM:    p.Feeder.LengthM,
			SectionMM2: p.Feeder.SectionMM2,
			VoltageV:   voltage,
			Phase:      phase,
		}, t.Electrical.ResistivityOhmMM2PerM, t.Electrical.DropTargetPercent)
		if err != nil {
			addEngineError(report, "feeder", err)
			return nil, report
		}
		d.Feeder = &drop
		feederPct = drop.DropPercent
	}

	// 3. DC strings
	if len(p.Strings) > 0 {
		analysis, err := dc.AnalyzeStrings(p.Strings, p.Panel, climate.Climate, t)
		if err != nil {
			addEngineError(report, "strings", err)
			return nil, report
		}
		limits, source := resolveLimits(p, phase, t, report)
		safety := dc.CheckSafety(analysis, p.Strings, limits, p.Disconnect, t.Electrical.FuseParallelThreshold)
		d.Compatibility = assembleCompatibility(analysis, safety, source, d.AC)
	}

	// 4. Microinverter branches
	if p.Micro != nil {
		micro, err := ac.AnalyzeMicroBranches(p.Micro, p.TotalPanels(), feederPct, t)
		if err != nil {
			addEngineError(report, "micro", err)
			return nil, report
		}
		d.MicroBranches = micro
	}

	// 5. Subscription
	d.Subscription = subscription.Advise(d.InstalledKWc, phase, p.Subscription.SubscribedKVA, t)

	// 6. Placement margins
	d.Margins = margins.Compute(p.Site.RoofType, resolveWindZone(p, report), t)

	flagOutOfRange(d, report)

	return d, report
}

func assembleCompatibility(a *dc.Analysis, s dc.Safety, source Source, sizing ac.Sizing) *CompatibilityReport {
	ratio := 0.0
	if sizing.MaxACPowerW > 0 {
		ratio = a.DCPowerW / sizing.MaxACPowerW
	}
	return &CompatibilityReport{
		Details: Details{
			VocCold:            a.VocCold,
			VmpHot:             a.VmpHot,
			DCACRatio:          ratio,
			VmaxInverter:       s.VmaxDC,
			VminMPPT:           s.VminMPPT,
			LimitsSource:       source,
			IscPanel:           a.IscPanel,
			IscCalculation:     a.IscCalculation,
			NominalACCurrent:   sizing.NominalCurrentA,
			RecommendedBreaker: sizing.RecommendedBreakerA,
			RCDType:            sizing.RCDType,
			MaxACPower:         sizing.MaxACPowerW,
			MPPTCount:          a.MPPTCount,
			StringsAnalysis:    a.Strings,
		},
		Safety: s,
	}
}

func microACPowerW(m *project.MicroConfig) float64 {
	if m == nil {
		return 0
	}
	total := 0
	for _, b := range m.Branches {
		total += b.MicroCount
	}
	return float64(total) * m.PowerVA
}

func addEngineError(report *validation.Report, path string, err error) {
	report.AddError(validation.Result{
		Level:    validation.LevelSchema,
		Code:     validation.CodeInvalidConfiguration,
		Message:  err.Error(),
		SpecPath: path,
	})
}
