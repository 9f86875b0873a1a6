package ac

import (
	"errors"
	"math"
	"testing"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

func microConfig() *project.MicroConfig {
	return &project.MicroConfig{
		Model:          "test-micro",
		PowerVA:        330,
		PanelsPerMicro: 1,
		MaxPerBranch:   11,
		Branches: []project.BranchConfig{
			{ID: "B1", Name: "south", Phase: "L1", MicroCount: 8, CableLengthM: 20, CableSectionMM2: 2.5},
			{Name: "east", Phase: "L1", MicroCount: 4, CableLengthM: 10, CableSectionMM2: 2.5},
		},
	}
}

func TestRequiredMicros(t *testing.T) {
	cases := []struct{ panels, perMicro, want int }{
		{12, 1, 12},
		{12, 2, 6},
		{13, 2, 7},
		{5, 0, 5},
		{0, 1, 0},
	}
	for _, tc := range cases {
		if got := RequiredMicros(tc.panels, tc.perMicro); got != tc.want {
			t.Errorf("RequiredMicros(%d, %d) = %d, want %d", tc.panels, tc.perMicro, got, tc.want)
		}
	}
}

func TestAnalyzeMicroBranches(t *testing.T) {
	r, err := AnalyzeMicroBranches(microConfig(), 12, 0.4, tables.Default())
	if err != nil {
		t.Fatalf("AnalyzeMicroBranches: %v", err)
	}

	if r.RequiredMicros != 12 || r.TotalMicrosConfigured != 12 || r.Provisioning != ProvisioningExact {
		t.Errorf("provisioning = %d/%d %s, want 12/12 exact", r.TotalMicrosConfigured, r.RequiredMicros, r.Provisioning)
	}
	if r.Branches[1].BranchID != "B2" {
		t.Errorf("default branch ID = %q, want B2", r.Branches[1].BranchID)
	}

	// 8 × 330 / 230 = 11.478 A; 2 × 20 × 11.478 × 0.023 / 2.5 = 4.224 V
	b := r.Branches[0]
	if math.Abs(b.CurrentA-8*330.0/230) > 1e-9 {
		t.Errorf("branch current = %v", b.CurrentA)
	}
	wantPct := 2 * 20 * (8 * 330.0 / 230) * 0.023 / 2.5 / 230 * 100
	if math.Abs(b.DropPercent-wantPct) > 1e-9 {
		t.Errorf("branch drop = %v%%, want %v%%", b.DropPercent, wantPct)
	}
	if !b.AboveTarget {
		t.Errorf("branch drop %.2f%% should be above 1%%", b.DropPercent)
	}

	if math.Abs(r.ProductionDropPercent-(r.MaxBranchDropPercent+0.4)) > 1e-9 {
		t.Errorf("production drop = %v, want worst branch + feeder", r.ProductionDropPercent)
	}
	if !r.ProductionAboveTarget {
		t.Error("production drop should be above target")
	}
}

func TestAnalyzeMicroBranchesProvisioning(t *testing.T) {
	cfg := microConfig()

	under, err := AnalyzeMicroBranches(cfg, 14, 0, tables.Default())
	if err != nil {
		t.Fatal(err)
	}
	if under.Provisioning != ProvisioningUnder {
		t.Errorf("12 micros for 14 panels = %s, want under", under.Provisioning)
	}

	over, err := AnalyzeMicroBranches(cfg, 10, 0, tables.Default())
	if err != nil {
		t.Fatal(err)
	}
	if over.Provisioning != ProvisioningOver {
		t.Errorf("12 micros for 10 panels = %s, want over", over.Provisioning)
	}
}

func TestAnalyzeMicroBranchesOverLimit(t *testing.T) {
	cfg := microConfig()
	cfg.Branches[0].MicroCount = 13

	r, err := AnalyzeMicroBranches(cfg, 17, 0, tables.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !r.Branches[0].OverBranchLimit {
		t.Error("13 micros on a branch limited to 11 should be flagged")
	}
	if r.Branches[1].OverBranchLimit {
		t.Error("4 micros should be within the branch limit")
	}
}

func TestAnalyzeMicroBranchesErrors(t *testing.T) {
	if _, err := AnalyzeMicroBranches(nil, 10, 0, tables.Default()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("nil config: err = %v", err)
	}

	cfg := microConfig()
	cfg.Branches[0].CableSectionMM2 = 0
	if _, err := AnalyzeMicroBranches(cfg, 12, 0, tables.Default()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero section: err = %v", err)
	}
}
