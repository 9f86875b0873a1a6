package compliance

import (
	"fmt"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/dc"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/validation"
)

// resolveClimate fills unresolved temperatures with the table defaults so the
// draft still renders.
func resolveClimate(p *project.Project, t *tables.Tables, report *validation.Report) EffectiveClimate {
	c := EffectiveClimate{
		Climate: dc.Climate{TempMin: t.Defaults.TempMinC, TempMax: t.Defaults.TempMaxC},
		Source:  SourceProject,
	}

	if p.Climate.TempMin != nil {
		c.TempMin = *p.Climate.TempMin
	} else {
		c.Source = SourceDefault
		addFallback(report, validation.LevelDC, "climate.temp_min", fmt.Sprintf("%.0f °C", c.TempMin))
	}
	if p.Climate.TempMax != nil {
		c.TempMax = *p.Climate.TempMax
	} else {
		c.Source = SourceDefault
		addFallback(report, validation.LevelDC, "climate.temp_max", fmt.Sprintf("%.0f °C", c.TempMax))
	}
	return c
}

// resolveLimits returns the inverter DC limits, falling back per missing value.
func resolveLimits(p *project.Project, phase project.Phase, t *tables.Tables, report *validation.Report) (dc.Limits, Source) {
	limits := dc.Limits{VmaxDC: p.Inverter.VmaxDC, VminMPPT: p.Inverter.VminMPPT}
	source := SourceProject

	if limits.VmaxDC <= 0 {
		limits.VmaxDC = t.VmaxDCFallback(phase == project.PhaseTri)
		source = SourceDefault
		addFallback(report, validation.LevelDC, "inverter.vmax_dc", fmt.Sprintf("%.0f V (%s)", limits.VmaxDC, phase))
	}
	if limits.VminMPPT <= 0 {
		limits.VminMPPT = t.Defaults.VminMPPT
		source = SourceDefault
		addFallback(report, validation.LevelDC, "inverter.vmin_mppt", fmt.Sprintf("%.0f V", limits.VminMPPT))
	}
	return limits, source
}

// resolveACVoltage returns the nominal grid voltage for the phase when the
// inverter does not state one.
func resolveACVoltage(p *project.Project, phase project.Phase, report *validation.Report) float64 {
	if v := p.Inverter.NominalACVoltage; v > 0 {
		return v
	}
	v := tables.VoltageMono
	if phase == project.PhaseTri {
		v = tables.VoltageTri
	}
	addFallback(report, validation.LevelAC, "inverter.nominal_ac_voltage", fmt.Sprintf("%.0f V (%s)", v, phase))
	return v
}

func resolveWindZone(p *project.Project, report *validation.Report) project.WindZone {
	if p.Site.WindZone != 0 {
		return p.Site.WindZone
	}
	addFallback(report, validation.LevelLayout, "site.wind_zone", "zone 1")
	return project.WindZone1
}

func addFallback(report *validation.Report, level validation.Level, path, value string) {
	report.AddInfo(validation.Result{
		Level:    level,
		Code:     validation.CodeMissingExternalData,
		Message:  fmt.Sprintf("%s not supplied; using default %s", path, value),
		SpecPath: path,
	})
}
