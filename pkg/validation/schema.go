package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
)

var validate = newValidator()

// newValidator reports field paths using YAML names so findings point at
// the key the installer actually wrote.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateSchema performs boundary validation on a parsed Project.
// It checks structural correctness before any computation.
func ValidateSchema(p *project.Project) *Report {
	r := NewReport()

	validateTags(p, r)
	validateTopology(p, r)
	validateClimate(p, r)
	validateInverter(p, r)
	validateMicro(p, r)
	validatePanel(p, r)

	return r
}

func validateTags(p *project.Project, r *Report) {
	err := validate.Struct(p)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		r.AddError(Result{
			Level:   LevelSchema,
			Code:    CodeInvalidConfiguration,
			Message: err.Error(),
		})
		return
	}

	for _, fe := range fieldErrs {
		path := yamlPath(fe.Namespace())
		expected := expectation(fe)
		r.AddError(Result{
			Level:       LevelSchema,
			Code:        CodeInvalidConfiguration,
			Message:     fmt.Sprintf("%s must be %s", path, expected),
			SpecPath:    path,
			ActualValue: fe.Value(),
			Expected:    expected,
		})
	}
}

// yamlPath drops the root type name from a validator namespace.
func yamlPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func expectation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "> " + fe.Param()
	case "gte", "min":
		return ">= " + fe.Param()
	case "lt":
		return "< " + fe.Param()
	case "lte", "max":
		return "<= " + fe.Param()
	case "oneof":
		return "one of [" + fe.Param() + "]"
	case "required":
		return "set"
	}
	return fmt.Sprintf("valid (%s %s)", fe.Tag(), fe.Param())
}

func validateTopology(p *project.Project, r *Report) {
	if len(p.Strings) == 0 && p.Micro == nil {
		r.AddError(Result{
			Level:    LevelSchema,
			Code:     CodeInvalidConfiguration,
			Message:  "project has neither DC strings nor a microinverter configuration",
			SpecPath: "strings",
			Expected: "at least 1 string or a micro section",
		})
	}

	stringPanels := 0
	for _, s := range p.Strings {
		stringPanels += s.PanelCount
	}
	if p.PanelCount > 0 && len(p.Strings) > 0 && stringPanels != p.PanelCount {
		r.AddWarning(Result{
			Level:        LevelSchema,
			Code:         CodeInvalidConfiguration,
			Message:      fmt.Sprintf("strings wire %d panels but panel_count declares %d", stringPanels, p.PanelCount),
			SpecPath:     "panel_count",
			ActualValue:  p.PanelCount,
			ConflictWith: "strings[].panel_count",
		})
	}
}

func validateClimate(p *project.Project, r *Report) {
	c := p.Climate
	if c.TempMin == nil || c.TempMax == nil {
		return
	}
	if *c.TempMin >= *c.TempMax {
		r.AddError(Result{
			Level:       LevelSchema,
			Code:        CodeInvalidConfiguration,
			Message:     fmt.Sprintf("climate.temp_min (%.1f) must be less than climate.temp_max (%.1f)", *c.TempMin, *c.TempMax),
			SpecPath:    "climate",
			ActualValue: fmt.Sprintf("%.1f/%.1f", *c.TempMin, *c.TempMax),
			Expected:    "temp_min < temp_max",
		})
	}
}

func validateInverter(p *project.Project, r *Report) {
	inv := p.Inverter
	if !p.UsesMicroinverters() && inv.MaxACPowerW <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Code:        CodeInvalidConfiguration,
			Message:     "inverter.max_ac_power_w must be > 0 for a string installation",
			SpecPath:    "inverter.max_ac_power_w",
			ActualValue: inv.MaxACPowerW,
			Expected:    "> 0",
		})
	}
	if v := inv.NominalACVoltage; v != 0 && v != 230 && v != 400 {
		r.AddError(Result{
			Level:       LevelSchema,
			Code:        CodeInvalidConfiguration,
			Message:     fmt.Sprintf("inverter.nominal_ac_voltage %.0f is not a standard grid voltage", v),
			SpecPath:    "inverter.nominal_ac_voltage",
			ActualValue: v,
			Expected:    "230 or 400",
		})
	}
	if inv.VmaxDC > 0 && inv.VminMPPT > 0 && inv.VminMPPT >= inv.VmaxDC {
		r.AddError(Result{
			Level:        LevelSchema,
			Code:         CodeInvalidConfiguration,
			Message:      fmt.Sprintf("inverter.vmin_mppt (%.0f V) must be below inverter.vmax_dc (%.0f V)", inv.VminMPPT, inv.VmaxDC),
			SpecPath:     "inverter.vmin_mppt",
			ActualValue:  inv.VminMPPT,
			ConflictWith: "inverter.vmax_dc",
		})
	}
}

func validateMicro(p *project.Project, r *Report) {
	if p.Micro == nil {
		return
	}
	if len(p.Micro.Branches) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Code:     CodeInvalidConfiguration,
			Message:  "micro.branches must contain at least one branch",
			SpecPath: "micro.branches",
			Expected: "at least 1 branch",
		})
	}
}

func validatePanel(p *project.Project, r *Report) {
	if p.Panel.TempCoeffVoc > 0 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Code:        CodeInvalidConfiguration,
			Message:     "panel.temp_coeff_voc is positive; crystalline modules have a negative Voc coefficient",
			SpecPath:    "panel.temp_coeff_voc",
			ActualValue: p.Panel.TempCoeffVoc,
			Expected:    "< 0 (typically -0.25 to -0.35 %/°C)",
			Suggestions: []string{"Check the sign copied from the datasheet"},
		})
	}
}
