package dc

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

// ErrInvalidConfiguration is returned for inputs the analyzer refuses to coerce.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DefaultMPPTIndex is the input assumed for strings with no MPPT assignment.
const DefaultMPPTIndex = 1

// Climate is a resolved pair of site temperature extremes in °C.
type Climate struct {
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
}

// StringResult holds the worst-case electrical values of one MPPT input.
type StringResult struct {
	MPPTIndex       int     `json:"mppt_index"`
	StringCount     int     `json:"string_count"`
	SeriesCount     int     `json:"series_count"`
	MinSeriesCount  int     `json:"min_series_count"`
	TotalPanelCount int     `json:"total_panel_count"`
	VocCold         float64 `json:"voc_cold"`
	VmpHot          float64 `json:"vmp_hot"`
	IscCalculation  float64 `json:"isc_calculation"`
	Composition     string  `json:"composition"`
	Mismatched      bool    `json:"mismatched"`
}

// Analysis is the per-MPPT breakdown plus the aggregate worst case.
type Analysis struct {
	Strings            []StringResult `json:"strings"`
	VocCold            float64        `json:"voc_cold"`
	VmpHot             float64        `json:"vmp_hot"`
	MinVmpHot          float64        `json:"min_vmp_hot"`
	IscPanel           float64        `json:"isc_panel"`
	IscCalculation     float64        `json:"isc_calculation"`
	MPPTCount          int            `json:"mppt_count"`
	MaxParallelStrings int            `json:"max_parallel_strings"`
	PanelCount         int            `json:"panel_count"`
	DCPowerW           float64        `json:"dc_power_w"`
}

// VocCold returns the open-circuit voltage of n series panels at tempMin.
// The coefficient is signed: a negative Voc coefficient raises the voltage
// below 25 °C.
func VocCold(panel project.PanelSpec, tempMin float64, n int) float64 {
	return panel.VocSTC * (1 + panel.TempCoeffVoc/100*(tempMin-tables.STCTemperatureC)) * float64(n)
}

// VmpHot returns the maximum-power voltage of n series panels at tempMax.
func VmpHot(panel project.PanelSpec, tempMax float64, n int) float64 {
	return panel.VmpSTC * (1 + panel.TempCoeffVmp/100*(tempMax-tables.STCTemperatureC)) * float64(n)
}

// IscCalculation returns the design short-circuit current of a string. Series
// panels carry the same current, so it does not depend on the panel count.
func IscCalculation(panel project.PanelSpec, safetyFactor float64) float64 {
	return panel.IscSTC * safetyFactor
}

// EffectiveMPPT maps an unassigned index (0) to DefaultMPPTIndex.
func EffectiveMPPT(index int) int {
	if index == 0 {
		return DefaultMPPTIndex
	}
	return index
}

// CountPerMPPT returns the number of parallel strings on each MPPT input.
// Unassigned strings count against DefaultMPPTIndex.
func CountPerMPPT(strs []project.StringConfig) map[int]int {
	counts := make(map[int]int, len(strs))
	for _, s := range strs {
		counts[EffectiveMPPT(s.MPPTIndex)]++
	}
	return counts
}

// AnalyzeStrings groups strings by MPPT input and computes per-input and
// aggregate voltages and currents under the given climate.
func AnalyzeStrings(strs []project.StringConfig, panel project.PanelSpec, c Climate, t *tables.Tables) (*Analysis, error) {
	if len(strs) == 0 {
		return nil, fmt.Errorf("%w: no strings configured", ErrInvalidConfiguration)
	}

	groups := make(map[int][]int)
	for i, s := range strs {
		if s.PanelCount <= 0 {
			return nil, fmt.Errorf("%w: strings[%d].panel_count must be > 0, got %d", ErrInvalidConfiguration, i, s.PanelCount)
		}
		if s.MPPTIndex < 0 {
			return nil, fmt.Errorf("%w: strings[%d].mppt_index must be >= 1, got %d", ErrInvalidConfiguration, i, s.MPPTIndex)
		}
		idx := EffectiveMPPT(s.MPPTIndex)
		groups[idx] = append(groups[idx], s.PanelCount)
	}

	indices := make([]int, 0, len(groups))
	for idx := range groups {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	isc := IscCalculation(panel, t.Electrical.IscSafetyFactor)
	a := &Analysis{
		Strings:        make([]StringResult, 0, len(indices)),
		IscPanel:       panel.IscSTC,
		IscCalculation: isc,
		MPPTCount:      len(indices),
	}

	for i, idx := range indices {
		counts := groups[idx]
		longest, shortest, total := counts[0], counts[0], 0
		for _, n := range counts {
			longest = max(longest, n)
			shortest = min(shortest, n)
			total += n
		}

		res := StringResult{
			MPPTIndex:       idx,
			StringCount:     len(counts),
			SeriesCount:     longest,
			MinSeriesCount:  shortest,
			TotalPanelCount: total,
			VocCold:         VocCold(panel, c.TempMin, longest),
			VmpHot:          VmpHot(panel, c.TempMax, shortest),
			IscCalculation:  isc,
			Composition:     composition(counts),
			Mismatched:      longest != shortest,
		}
		a.Strings = append(a.Strings, res)

		if i == 0 {
			a.VocCold, a.VmpHot, a.MinVmpHot = res.VocCold, res.VmpHot, res.VmpHot
		} else {
			a.VocCold = max(a.VocCold, res.VocCold)
			a.VmpHot = max(a.VmpHot, res.VmpHot)
			a.MinVmpHot = min(a.MinVmpHot, res.VmpHot)
		}
		a.MaxParallelStrings = max(a.MaxParallelStrings, res.StringCount)
		a.PanelCount += total
	}
	a.DCPowerW = float64(a.PanelCount) * panel.PowerW

	return a, nil
}

// composition renders "2×10" for equal parallel strings and "10+8" otherwise.
func composition(counts []int) string {
	equal := true
	for _, n := range counts[1:] {
		if n != counts[0] {
			equal = false
			break
		}
	}
	if equal {
		return fmt.Sprintf("%d×%d", len(counts), counts[0])
	}
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "+")
}
