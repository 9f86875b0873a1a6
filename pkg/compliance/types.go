package compliance

import (
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/ac"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/dc"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/margins"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/subscription"
)

// Source tells whether a value came from the project or from a fallback.
type Source string

const (
	SourceProject Source = "project"
	SourceDefault Source = "default"
)

// EffectiveClimate is the climate the DC analysis ran with.
type EffectiveClimate struct {
	dc.Climate
	Source Source `json:"source"`
}

// Details is the aggregate worst case shown in the compatibility table.
type Details struct {
	VocCold            float64           `json:"voc_cold"`
	VmpHot             float64           `json:"vmp_hot"`
	DCACRatio          float64           `json:"dc_ac_ratio"`
	VmaxInverter       float64           `json:"vmax_inverter"`
	VminMPPT           float64           `json:"vmin_mppt"`
	LimitsSource       Source            `json:"limits_source"`
	IscPanel           float64           `json:"isc_panel"`
	IscCalculation     float64           `json:"isc_calculation"`
	NominalACCurrent   float64           `json:"nominal_ac_current"`
	RecommendedBreaker *int              `json:"recommended_breaker"`
	RCDType            string            `json:"rcd_type"`
	MaxACPower         float64           `json:"max_ac_power"`
	MPPTCount          int               `json:"mppt_count"`
	StringsAnalysis    []dc.StringResult `json:"strings_analysis"`
}

// CompatibilityReport pairs the inverter/string details with the DC safety checks.
type CompatibilityReport struct {
	Details Details   `json:"details"`
	Safety  dc.Safety `json:"safety"`
}

// Dossier holds every record handed to the document renderer. Nil sections
// do not apply to the project.
type Dossier struct {
	Project       string                  `json:"project"`
	InstalledKWc  float64                 `json:"installed_kwc"`
	PanelCount    int                     `json:"panel_count"`
	Climate       EffectiveClimate        `json:"climate"`
	Compatibility *CompatibilityReport    `json:"compatibility,omitempty"`
	AC            ac.Sizing               `json:"ac"`
	Feeder        *ac.Drop                `json:"feeder,omitempty"`
	MicroBranches *ac.MicroBranchesReport `json:"micro_branches,omitempty"`
	Subscription  subscription.Status     `json:"subscription"`
	Margins       margins.Margins         `json:"margins"`
}
