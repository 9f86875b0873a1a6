package margins

import (
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

// Margins are the clearances in mm between the panel field and the roof edges.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// ClampZone maps a wind zone onto the defined range 1..5.
func ClampZone(z project.WindZone) project.WindZone {
	if z < project.WindZone1 {
		return project.WindZone1
	}
	if z > project.WindZone5 {
		return project.WindZone5
	}
	return z
}

// Base returns the wind-zone margin applied to every edge.
func Base(z project.WindZone, t tables.MarginTable) float64 {
	return t.BaseByZoneMM[ClampZone(z)-1]
}

// SideAdjustment returns the extra side clearance for a roof covering.
func SideAdjustment(roof project.RoofType, t tables.MarginTable) float64 {
	return t.RoofSideAdjMM[string(roof)]
}

// Compute returns the edge margins. Edge uplift governs the sides, so only
// left and right receive the roof adjustment; top and bottom keep the base.
func Compute(roof project.RoofType, zone project.WindZone, t *tables.Tables) Margins {
	base := Base(zone, t.Margins)
	side := base + SideAdjustment(roof, t.Margins)
	return Margins{
		Top:    base,
		Bottom: base,
		Left:   side,
		Right:  side,
	}
}
