package tables

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Tables is the injectable configuration data of the engine: device ladders,
// utility tiers, margin tables and the normative constants.
type Tables struct {
	BreakerLadderA []int               `toml:"breaker_ladder_a" json:"breaker_ladder_a"`
	RCD            RCDTable            `toml:"rcd" json:"rcd"`
	Subscription   SubscriptionTiers   `toml:"subscription" json:"subscription"`
	Margins        MarginTable         `toml:"margins" json:"margins"`
	Electrical     ElectricalConstants `toml:"electrical" json:"electrical"`
	Defaults       Defaults            `toml:"defaults" json:"defaults"`
}

// RCDTable maps an inverter technology to an RCD type. Default is used for
// technologies absent from ByTechnology.
type RCDTable struct {
	Default      string            `toml:"default" json:"default"`
	ByTechnology map[string]string `toml:"by_technology" json:"by_technology"`
}

// SubscriptionTiers lists the standard utility subscription sizes in kVA.
type SubscriptionTiers struct {
	MonoKVA        []float64 `toml:"mono_kva" json:"mono_kva"`
	TriKVA         []float64 `toml:"tri_kva" json:"tri_kva"`
	HeadroomFactor float64   `toml:"headroom_factor" json:"headroom_factor"`
}

// MarginTable holds edge margins in mm. BaseByZoneMM[0] is wind zone 1.
type MarginTable struct {
	BaseByZoneMM  []float64          `toml:"base_by_zone_mm" json:"base_by_zone_mm"`
	RoofSideAdjMM map[string]float64 `toml:"roof_side_adjustment_mm" json:"roof_side_adjustment_mm"`
}

// ElectricalConstants are the formula constants.
type ElectricalConstants struct {
	IscSafetyFactor       float64 `toml:"isc_safety_factor" json:"isc_safety_factor"`
	ResistivityOhmMM2PerM float64 `toml:"resistivity_ohm_mm2_per_m" json:"resistivity_ohm_mm2_per_m"`
	DropTargetPercent     float64 `toml:"drop_target_percent" json:"drop_target_percent"`
	FuseParallelThreshold int     `toml:"fuse_parallel_threshold" json:"fuse_parallel_threshold"`
	MicroBranchVoltage    float64 `toml:"micro_branch_voltage" json:"micro_branch_voltage"`
}

// Defaults are the documented fallbacks for missing external data.
type Defaults struct {
	VmaxDCMono float64 `toml:"vmax_dc_mono" json:"vmax_dc_mono"`
	VmaxDCTri  float64 `toml:"vmax_dc_tri" json:"vmax_dc_tri"`
	VminMPPT   float64 `toml:"vmin_mppt" json:"vmin_mppt"`
	TempMinC   float64 `toml:"temp_min_c" json:"temp_min_c"`
	TempMaxC   float64 `toml:"temp_max_c" json:"temp_max_c"`
}

// Default returns the built-in tables.
func Default() *Tables {
	return &Tables{
		BreakerLadderA: []int{10, 16, 20, 25, 32, 40, 50, 63, 80, 100, 125},
		RCD: RCDTable{
			Default: RCDTypeA,
			ByTechnology: map[string]string{
				"string": RCDTypeA,
				"hybrid": RCDTypeB,
				"micro":  RCDTypeA,
			},
		},
		Subscription: SubscriptionTiers{
			MonoKVA:        []float64{3, 6, 9, 12},
			TriKVA:         []float64{12, 18, 24, 30, 36},
			HeadroomFactor: SubscriptionHeadroom,
		},
		Margins: MarginTable{
			BaseByZoneMM: []float64{300, 300, 400, 500, 600},
			RoofSideAdjMM: map[string]float64{
				"TUILE_CANAL": 50,
				"FIBROCIMENT": 100,
			},
		},
		Electrical: ElectricalConstants{
			IscSafetyFactor:       IscSafetyFactor,
			ResistivityOhmMM2PerM: CopperResistivity,
			DropTargetPercent:     DropTargetPercent,
			FuseParallelThreshold: FuseParallelThreshold,
			MicroBranchVoltage:    MicroBranchVoltage,
		},
		Defaults: Defaults{
			VmaxDCMono: DefaultVmaxDCMono,
			VmaxDCTri:  DefaultVmaxDCTri,
			VminMPPT:   DefaultVminMPPT,
			TempMinC:   DefaultTempMinC,
			TempMaxC:   DefaultTempMaxC,
		},
	}
}

// Load reads a TOML file and overlays it on the built-in tables. Keys absent
// from the file keep their default value; lists present in the file replace
// the default list, maps are merged key by key.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tables file: %w", err)
	}
	return Parse(data)
}

// Parse overlays TOML bytes on the built-in tables and validates the result.
func Parse(data []byte) (*Tables, error) {
	var overlay Tables
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing tables TOML: %w", err)
	}

	t := Default()
	t.merge(&overlay)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadOrDefault loads path, or returns the built-in tables when path is empty.
func LoadOrDefault(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Encode renders the tables as TOML.
func (t *Tables) Encode() ([]byte, error) {
	return toml.Marshal(t)
}

func (t *Tables) merge(o *Tables) {
	if len(o.BreakerLadderA) > 0 {
		t.BreakerLadderA = o.BreakerLadderA
	}

	if o.RCD.Default != "" {
		t.RCD.Default = o.RCD.Default
	}
	for k, v := range o.RCD.ByTechnology {
		t.RCD.ByTechnology[k] = v
	}

	if len(o.Subscription.MonoKVA) > 0 {
		t.Subscription.MonoKVA = o.Subscription.MonoKVA
	}
	if len(o.Subscription.TriKVA) > 0 {
		t.Subscription.TriKVA = o.Subscription.TriKVA
	}
	setFloat(&t.Subscription.HeadroomFactor, o.Subscription.HeadroomFactor)

	if len(o.Margins.BaseByZoneMM) > 0 {
		t.Margins.BaseByZoneMM = o.Margins.BaseByZoneMM
	}
	for k, v := range o.Margins.RoofSideAdjMM {
		t.Margins.RoofSideAdjMM[k] = v
	}

	e := o.Electrical
	setFloat(&t.Electrical.IscSafetyFactor, e.IscSafetyFactor)
	setFloat(&t.Electrical.ResistivityOhmMM2PerM, e.ResistivityOhmMM2PerM)
	setFloat(&t.Electrical.DropTargetPercent, e.DropTargetPercent)
	setFloat(&t.Electrical.MicroBranchVoltage, e.MicroBranchVoltage)
	if e.FuseParallelThreshold != 0 {
		t.Electrical.FuseParallelThreshold = e.FuseParallelThreshold
	}

	d := o.Defaults
	setFloat(&t.Defaults.VmaxDCMono, d.VmaxDCMono)
	setFloat(&t.Defaults.VmaxDCTri, d.VmaxDCTri)
	setFloat(&t.Defaults.VminMPPT, d.VminMPPT)
	setFloat(&t.Defaults.TempMinC, d.TempMinC)
	setFloat(&t.Defaults.TempMaxC, d.TempMaxC)
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// ErrInvalidTables is returned when a table breaks an ordering or range rule.
var ErrInvalidTables = errors.New("invalid tables")

// Validate checks the structural rules the calculators rely on.
func (t *Tables) Validate() error {
	if len(t.BreakerLadderA) == 0 {
		return fmt.Errorf("%w: breaker_ladder_a is empty", ErrInvalidTables)
	}
	if !sort.IntsAreSorted(t.BreakerLadderA) || t.BreakerLadderA[0] <= 0 {
		return fmt.Errorf("%w: breaker_ladder_a must be positive and ascending", ErrInvalidTables)
	}
	if err := validateTiers("mono_kva", t.Subscription.MonoKVA); err != nil {
		return err
	}
	if err := validateTiers("tri_kva", t.Subscription.TriKVA); err != nil {
		return err
	}
	if t.Subscription.HeadroomFactor <= 0 {
		return fmt.Errorf("%w: subscription.headroom_factor must be > 0", ErrInvalidTables)
	}
	if len(t.Margins.BaseByZoneMM) != 5 {
		return fmt.Errorf("%w: margins.base_by_zone_mm needs one entry per wind zone (5), got %d",
			ErrInvalidTables, len(t.Margins.BaseByZoneMM))
	}
	for i := 1; i < len(t.Margins.BaseByZoneMM); i++ {
		if t.Margins.BaseByZoneMM[i] < t.Margins.BaseByZoneMM[i-1] {
			return fmt.Errorf("%w: margins.base_by_zone_mm must not decrease with zone severity", ErrInvalidTables)
		}
	}
	if t.Margins.BaseByZoneMM[0] <= 0 {
		return fmt.Errorf("%w: margins.base_by_zone_mm must be positive", ErrInvalidTables)
	}
	for roof, adj := range t.Margins.RoofSideAdjMM {
		if adj < 0 {
			return fmt.Errorf("%w: margins.roof_side_adjustment_mm.%s must not be negative", ErrInvalidTables, roof)
		}
	}
	if t.Electrical.ResistivityOhmMM2PerM <= 0 || t.Electrical.MicroBranchVoltage <= 0 {
		return fmt.Errorf("%w: electrical constants must be positive", ErrInvalidTables)
	}
	if t.Defaults.TempMinC >= t.Defaults.TempMaxC {
		return fmt.Errorf("%w: defaults.temp_min_c must be below temp_max_c", ErrInvalidTables)
	}
	return nil
}

func validateTiers(name string, tiers []float64) error {
	if len(tiers) == 0 || !sort.Float64sAreSorted(tiers) || tiers[0] <= 0 {
		return fmt.Errorf("%w: subscription.%s must be positive and ascending", ErrInvalidTables, name)
	}
	return nil
}

// VmaxDCFallback returns the default DC voltage limit for a phase.
func (t *Tables) VmaxDCFallback(tri bool) float64 {
	if tri {
		return t.Defaults.VmaxDCTri
	}
	return t.Defaults.VmaxDCMono
}
