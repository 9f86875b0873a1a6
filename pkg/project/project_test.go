package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProject(t *testing.T) {
	p, err := LoadProject("testdata")
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}

	if p.Name != "Maison Toulon 6 kWc" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Strings) != 2 || p.Strings[1].MPPTIndex != 2 {
		t.Errorf("Strings = %+v", p.Strings)
	}
	if p.Inverter.Technology != TechnologyHybrid || p.Inverter.EffectivePhase() != PhaseMono {
		t.Errorf("Inverter = %+v", p.Inverter)
	}
	if p.Climate.TempMin == nil || *p.Climate.TempMin != -5 {
		t.Errorf("TempMin = %v, want -5", p.Climate.TempMin)
	}
	if p.Site.RoofType != RoofTuileCanal || p.Site.WindZone != WindZone2 {
		t.Errorf("Site = %+v", p.Site)
	}
	if p.Subscription.SubscribedKVA == nil || *p.Subscription.SubscribedKVA != 9 {
		t.Errorf("SubscribedKVA = %v, want 9", p.Subscription.SubscribedKVA)
	}
	if p.Disconnect == nil || p.Disconnect.VoltageV != 1000 {
		t.Errorf("Disconnect = %+v", p.Disconnect)
	}
	if got := p.InstalledKWc(); got != 5.95 {
		t.Errorf("InstalledKWc = %v, want 5.95", got)
	}
}

func TestLoadMicroProject(t *testing.T) {
	p, err := LoadProject(filepath.Join("testdata", "micro-house"))
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}

	if !p.UsesMicroinverters() {
		t.Error("expected a microinverter project")
	}
	if p.Micro == nil || len(p.Micro.Branches) != 1 || p.Micro.Branches[0].MicroCount != 8 {
		t.Errorf("Micro = %+v", p.Micro)
	}
	if p.Subscription.SubscribedKVA != nil {
		t.Errorf("SubscribedKVA = %v, want nil for unknown", *p.Subscription.SubscribedKVA)
	}
	if p.Climate.TempMin != nil || p.Climate.TempMax != nil {
		t.Error("missing climate should stay nil")
	}
}

func TestTotalPanelsFallsBackToStrings(t *testing.T) {
	p := &Project{Strings: []StringConfig{{PanelCount: 7}, {PanelCount: 5}}}
	if got := p.TotalPanels(); got != 12 {
		t.Errorf("TotalPanels = %d, want 12", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadProject(t.TempDir()); err == nil || !strings.Contains(err.Error(), "reading project file") {
		t.Errorf("missing file: err = %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("strings: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(dir); err == nil || !strings.Contains(err.Error(), "parsing project YAML") {
		t.Errorf("bad yaml: err = %v", err)
	}
}
