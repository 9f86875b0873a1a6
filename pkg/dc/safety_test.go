package dc

import (
	"testing"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

func analyze(t *testing.T, strs []project.StringConfig) *Analysis {
	t.Helper()
	a, err := AnalyzeStrings(strs, testPanel(), Climate{TempMin: -10, TempMax: 70}, tables.Default())
	if err != nil {
		t.Fatalf("AnalyzeStrings: %v", err)
	}
	return a
}

func TestFuseRequiredThreeOnOneInput(t *testing.T) {
	strs := []project.StringConfig{
		{MPPTIndex: 1, PanelCount: 8},
		{MPPTIndex: 1, PanelCount: 8},
		{MPPTIndex: 1, PanelCount: 8},
		{MPPTIndex: 2, PanelCount: 8},
	}
	n, required := FuseRequired(CountPerMPPT(strs), tables.FuseParallelThreshold)
	if !required || n != 3 {
		t.Errorf("FuseRequired = (%d, %v), want (3, true)", n, required)
	}
}

func TestFuseNotRequiredTwoAndTwo(t *testing.T) {
	strs := []project.StringConfig{
		{MPPTIndex: 1, PanelCount: 8},
		{MPPTIndex: 1, PanelCount: 8},
		{MPPTIndex: 2, PanelCount: 8},
		{MPPTIndex: 2, PanelCount: 8},
	}
	n, required := FuseRequired(CountPerMPPT(strs), tables.FuseParallelThreshold)
	if required || n != 2 {
		t.Errorf("FuseRequired = (%d, %v), want (2, false)", n, required)
	}
}

func TestCheckSafetyVoltageExceeded(t *testing.T) {
	strs := []project.StringConfig{{MPPTIndex: 1, PanelCount: 14}}
	a := analyze(t, strs)

	s := CheckSafety(a, strs, Limits{VmaxDC: 600, VminMPPT: 80}, nil, tables.FuseParallelThreshold)
	if !s.VoltageExceeded {
		t.Errorf("VocCold %.1f V on 600 V inverter should exceed", a.VocCold)
	}
	if s.VoltageMarginV >= 0 {
		t.Errorf("VoltageMarginV = %.1f, want negative", s.VoltageMarginV)
	}
	if s.Disconnect != nil {
		t.Error("Disconnect should be nil when no rating is configured")
	}
}

func TestCheckSafetyVmpBelowMPPT(t *testing.T) {
	strs := []project.StringConfig{{MPPTIndex: 1, PanelCount: 3}}
	a := analyze(t, strs)

	s := CheckSafety(a, strs, Limits{VmaxDC: 600, VminMPPT: 120}, nil, tables.FuseParallelThreshold)
	if !s.VmpBelowMPPT {
		t.Errorf("Vmp hot %.1f V should be below 120 V", a.MinVmpHot)
	}
	if s.VoltageExceeded {
		t.Error("3 panels should not exceed 600 V")
	}
}

func TestCheckSafetyDisconnect(t *testing.T) {
	strs := []project.StringConfig{{MPPTIndex: 1, PanelCount: 10}}
	a := analyze(t, strs)

	ok := CheckSafety(a, strs, Limits{VmaxDC: 1000, VminMPPT: 80}, &project.Disconnect{VoltageV: 1000, CurrentA: 25}, 2)
	if ok.Disconnect == nil || !ok.Disconnect.OK() {
		t.Errorf("1000 V / 25 A disconnect should cover %.1f V / %.2f A", a.VocCold, a.IscCalculation)
	}

	small := CheckSafety(a, strs, Limits{VmaxDC: 1000, VminMPPT: 80}, &project.Disconnect{VoltageV: 400, CurrentA: 25}, 2)
	if small.Disconnect.VoltageOK || !small.Disconnect.CurrentOK {
		t.Errorf("400 V disconnect: voltageOK=%v currentOK=%v, want false/true",
			small.Disconnect.VoltageOK, small.Disconnect.CurrentOK)
	}
}
