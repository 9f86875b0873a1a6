package ac

import (
	"math"
	"testing"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

func TestNominalCurrentMono(t *testing.T) {
	got := NominalCurrent(6000, 230, project.PhaseMono)
	if math.Abs(got-26.087) > 0.001 {
		t.Errorf("NominalCurrent = %.3f, want ≈26.087", got)
	}
}

func TestNominalCurrentTriScalesBySqrt3(t *testing.T) {
	mono := NominalCurrent(9000, 400, project.PhaseMono)
	tri := NominalCurrent(9000, 400, project.PhaseTri)
	if math.Abs(mono/tri-math.Sqrt(3)) > 1e-9 {
		t.Errorf("mono/tri = %v, want √3", mono/tri)
	}
}

func TestNominalCurrentLinearInPower(t *testing.T) {
	a := NominalCurrent(3000, 230, project.PhaseMono)
	b := NominalCurrent(6000, 230, project.PhaseMono)
	if math.Abs(b-2*a) > 1e-9 {
		t.Errorf("doubling power: %v -> %v", a, b)
	}
}

func TestSelectBreaker(t *testing.T) {
	ladder := tables.Default().BreakerLadderA
	cases := []struct {
		current float64
		want    int
		ok      bool
	}{
		{5, 10, true},
		{10, 10, true},
		{26.09, 32, true},
		{125, 125, true},
		{130, 0, false},
	}
	for _, tc := range cases {
		got, ok := SelectBreaker(tc.current, ladder)
		if got != tc.want || ok != tc.ok {
			t.Errorf("SelectBreaker(%v) = (%d, %v), want (%d, %v)", tc.current, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSizeUsesInjectedLadder(t *testing.T) {
	tb := tables.Default()
	tb.BreakerLadderA = []int{16, 40}

	s := Size(6000, 230, project.PhaseMono, project.TechnologyString, tb)
	if s.RecommendedBreakerA == nil || *s.RecommendedBreakerA != 40 {
		t.Errorf("breaker = %v, want 40 from injected ladder", s.RecommendedBreakerA)
	}
}

func TestSizeAboveLadder(t *testing.T) {
	s := Size(36000, 230, project.PhaseMono, project.TechnologyString, tables.Default())
	if s.RecommendedBreakerA != nil {
		t.Errorf("breaker = %d, want nil above the ladder", *s.RecommendedBreakerA)
	}
}

func TestRCDType(t *testing.T) {
	rcd := tables.Default().RCD
	cases := map[project.Technology]string{
		project.TechnologyString: tables.RCDTypeA,
		project.TechnologyHybrid: tables.RCDTypeB,
		project.TechnologyMicro:  tables.RCDTypeA,
		"":                       rcd.Default,
	}
	for tech, want := range cases {
		if got := RCDType(tech, rcd); got != want {
			t.Errorf("RCDType(%q) = %q, want %q", tech, got, want)
		}
	}
}
