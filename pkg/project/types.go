package project

// Project is the top-level configuration of a grid-tied PV installation.
type Project struct {
	SpecVersion  string         `yaml:"spec_version" json:"spec_version"`
	Name         string         `yaml:"name" json:"name"`
	Panel        PanelSpec      `yaml:"panel" json:"panel"`
	PanelCount   int            `yaml:"panel_count" json:"panel_count" validate:"gte=0"`
	Strings      []StringConfig `yaml:"strings" json:"strings" validate:"dive"`
	Inverter     InverterSpec   `yaml:"inverter" json:"inverter"`
	Climate      Climate        `yaml:"climate" json:"climate"`
	Feeder       Feeder         `yaml:"feeder" json:"feeder"`
	Micro        *MicroConfig   `yaml:"micro,omitempty" json:"micro,omitempty"`
	Disconnect   *Disconnect    `yaml:"disconnect,omitempty" json:"disconnect,omitempty"`
	Site         Site           `yaml:"site" json:"site"`
	Subscription Subscription   `yaml:"subscription" json:"subscription"`
}

// TotalPanels returns the declared panel count, or the sum of string panel
// counts when no total is declared.
func (p *Project) TotalPanels() int {
	if p.PanelCount > 0 {
		return p.PanelCount
	}
	total := 0
	for _, s := range p.Strings {
		total += s.PanelCount
	}
	return total
}

// InstalledKWc returns the peak DC power of the installation in kWc.
func (p *Project) InstalledKWc() float64 {
	return float64(p.TotalPanels()) * p.Panel.PowerW / 1000
}

// UsesMicroinverters reports whether the installation is built on microinverters.
func (p *Project) UsesMicroinverters() bool {
	return p.Micro != nil || p.Inverter.Technology == TechnologyMicro
}

// PanelSpec is the electrical datasheet of one PV module. Temperature
// coefficients are signed percentages per °C.
type PanelSpec struct {
	Model        string  `yaml:"model" json:"model"`
	VocSTC       float64 `yaml:"voc_stc" json:"voc_stc" validate:"gt=0"`
	VmpSTC       float64 `yaml:"vmp_stc" json:"vmp_stc" validate:"gt=0"`
	IscSTC       float64 `yaml:"isc_stc" json:"isc_stc" validate:"gt=0"`
	TempCoeffVoc float64 `yaml:"temp_coeff_voc" json:"temp_coeff_voc"`
	TempCoeffVmp float64 `yaml:"temp_coeff_vmp" json:"temp_coeff_vmp"`
	PowerW       float64 `yaml:"power_w" json:"power_w" validate:"gt=0"`
}

// StringConfig is one series string of panels wired to an MPPT input.
// An MPPTIndex of 0 means the input was not assigned.
type StringConfig struct {
	MPPTIndex  int    `yaml:"mppt_index" json:"mppt_index" validate:"gte=0"`
	PanelCount int    `yaml:"panel_count" json:"panel_count" validate:"gt=0"`
	Phase      string `yaml:"phase,omitempty" json:"phase,omitempty"`
}

// Phase is the AC connection of the installation.
type Phase string

const (
	PhaseMono Phase = "mono"
	PhaseTri  Phase = "tri"
)

// Technology is the inverter family, used to pick the RCD type.
type Technology string

const (
	TechnologyString Technology = "string"
	TechnologyHybrid Technology = "hybrid"
	TechnologyMicro  Technology = "micro"
)

// InverterSpec holds the limits of the inverter. Zero voltages mean the
// datasheet value was not supplied.
type InverterSpec struct {
	Model            string     `yaml:"model" json:"model"`
	Technology       Technology `yaml:"technology" json:"technology" validate:"omitempty,oneof=string hybrid micro"`
	Phase            Phase      `yaml:"phase" json:"phase" validate:"omitempty,oneof=mono tri"`
	VmaxDC           float64    `yaml:"vmax_dc" json:"vmax_dc" validate:"gte=0"`
	VminMPPT         float64    `yaml:"vmin_mppt" json:"vmin_mppt" validate:"gte=0"`
	MaxACPowerW      float64    `yaml:"max_ac_power_w" json:"max_ac_power_w" validate:"gte=0"`
	NominalACVoltage float64    `yaml:"nominal_ac_voltage" json:"nominal_ac_voltage" validate:"gte=0"`
}

// EffectivePhase returns the configured phase, mono when unset.
func (i InverterSpec) EffectivePhase() Phase {
	if i.Phase == "" {
		return PhaseMono
	}
	return i.Phase
}

// Climate holds the site's temperature extremes in °C, resolved upstream from
// postal code and altitude. Nil fields were not resolved.
type Climate struct {
	PostalCode string   `yaml:"postal_code,omitempty" json:"postal_code,omitempty"`
	AltitudeM  float64  `yaml:"altitude_m,omitempty" json:"altitude_m,omitempty"`
	TempMin    *float64 `yaml:"temp_min" json:"temp_min"`
	TempMax    *float64 `yaml:"temp_max" json:"temp_max"`
}

// Feeder is the main AC cable run from the inverter (or micro junction box)
// to the point of common coupling.
type Feeder struct {
	LengthM    float64 `yaml:"length_m" json:"length_m" validate:"gte=0"`
	SectionMM2 float64 `yaml:"section_mm2" json:"section_mm2" validate:"gte=0"`
}

// Configured reports whether a feeder run was described.
func (f Feeder) Configured() bool {
	return f.LengthM > 0 && f.SectionMM2 > 0
}

// MicroConfig describes a microinverter installation.
type MicroConfig struct {
	Model          string         `yaml:"model" json:"model"`
	PowerVA        float64        `yaml:"power_va" json:"power_va" validate:"gt=0"`
	PanelsPerMicro int            `yaml:"panels_per_micro" json:"panels_per_micro" validate:"gte=0"`
	MaxPerBranch   int            `yaml:"max_per_branch" json:"max_per_branch" validate:"gte=0"`
	Branches       []BranchConfig `yaml:"branches" json:"branches" validate:"dive"`
}

// BranchConfig is one AC branch of daisy-chained microinverters.
type BranchConfig struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Phase           string  `yaml:"phase" json:"phase"`
	MicroCount      int     `yaml:"micro_count" json:"micro_count" validate:"gte=0"`
	CableLengthM    float64 `yaml:"cable_length_m" json:"cable_length_m" validate:"gte=0"`
	CableSectionMM2 float64 `yaml:"cable_section_mm2" json:"cable_section_mm2" validate:"gt=0"`
}

// Disconnect is the rating of the DC disconnect switch.
type Disconnect struct {
	VoltageV float64 `yaml:"voltage_v" json:"voltage_v" validate:"gt=0"`
	CurrentA float64 `yaml:"current_a" json:"current_a" validate:"gt=0"`
}

// RoofType identifies the roof covering receiving the panels.
type RoofType string

const (
	RoofTuileMecanique RoofType = "TUILE_MECANIQUE"
	RoofTuileCanal     RoofType = "TUILE_CANAL"
	RoofArdoise        RoofType = "ARDOISE"
	RoofBacAcier       RoofType = "BAC_ACIER"
	RoofFibrociment    RoofType = "FIBROCIMENT"
	RoofToitPlat       RoofType = "TOIT_PLAT"
)

// WindZone is the regulatory wind exposure zone, 1 (sheltered) to 5.
type WindZone int

const (
	WindZone1 WindZone = iota + 1
	WindZone2
	WindZone3
	WindZone4
	WindZone5
)

// Site holds the mechanical context of the roof.
type Site struct {
	RoofType RoofType `yaml:"roof_type" json:"roof_type" validate:"omitempty,oneof=TUILE_MECANIQUE TUILE_CANAL ARDOISE BAC_ACIER FIBROCIMENT TOIT_PLAT"`
	WindZone WindZone `yaml:"wind_zone" json:"wind_zone" validate:"omitempty,min=1,max=5"`
}

// Subscription holds the declared utility subscription. A nil SubscribedKVA
// means the customer's subscription is not known.
type Subscription struct {
	Provider      string   `yaml:"provider,omitempty" json:"provider,omitempty"`
	SubscribedKVA *float64 `yaml:"subscribed_kva" json:"subscribed_kva"`
}
