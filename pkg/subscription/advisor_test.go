package subscription

import (
	"testing"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

func kva(v float64) *float64 { return &v }

func TestRecommendSmallestCoveringTier(t *testing.T) {
	tb := tables.Default()
	cases := []struct {
		kwc   float64
		phase project.Phase
		want  float64
	}{
		{2.5, project.PhaseMono, 3},
		{3, project.PhaseMono, 3},
		{5.95, project.PhaseMono, 6},
		{9.1, project.PhaseMono, 12},
		{9.1, project.PhaseTri, 12},
		{20, project.PhaseTri, 24},
	}
	for _, tc := range cases {
		got, ok := Recommend(tc.kwc, tc.phase, tb.Subscription)
		if !ok || got != tc.want {
			t.Errorf("Recommend(%v, %s) = (%v, %v), want %v", tc.kwc, tc.phase, got, ok, tc.want)
		}
	}
}

func TestAdviseOK(t *testing.T) {
	s := Advise(5.95, project.PhaseMono, kva(9), tables.Default())
	if s.State != StateOK || !s.IsOK {
		t.Errorf("state = %s isOK = %v, want ok/true", s.State, s.IsOK)
	}
	if s.RecommendedKVA == nil || *s.RecommendedKVA != 6 {
		t.Errorf("recommended = %v, want 6", s.RecommendedKVA)
	}
}

func TestAdviseUnknownIsNotInsufficient(t *testing.T) {
	unknown := Advise(5.95, project.PhaseMono, nil, tables.Default())
	if unknown.State != StateUnknown || unknown.IsOK || unknown.Known() {
		t.Errorf("nil subscription: state = %s isOK = %v known = %v", unknown.State, unknown.IsOK, unknown.Known())
	}
	if unknown.SubscribedKVA != nil {
		t.Error("unknown subscription must stay nil, not zero")
	}

	low := Advise(5.95, project.PhaseMono, kva(3), tables.Default())
	if low.State != StateInsufficient || low.IsOK || !low.Known() {
		t.Errorf("3 kVA: state = %s isOK = %v known = %v", low.State, low.IsOK, low.Known())
	}
}

func TestAdviseNoTier(t *testing.T) {
	s := Advise(15, project.PhaseMono, kva(12), tables.Default())
	if s.State != StateNoTier || s.IsOK {
		t.Errorf("state = %s isOK = %v, want no_tier/false", s.State, s.IsOK)
	}
	if s.RecommendedKVA != nil {
		t.Errorf("recommended = %v, want nil", *s.RecommendedKVA)
	}
}

func TestAdviseHeadroomFactor(t *testing.T) {
	tb := tables.Default()
	tb.Subscription.HeadroomFactor = 1.2

	s := Advise(5.5, project.PhaseMono, nil, tb)
	if s.RecommendedKVA == nil || *s.RecommendedKVA != 9 {
		t.Errorf("recommended with 1.2 headroom = %v, want 9", s.RecommendedKVA)
	}
}

func TestAdviseCopiesSubscribed(t *testing.T) {
	in := kva(9)
	s := Advise(5, project.PhaseMono, in, tables.Default())
	*in = 3
	if *s.SubscribedKVA != 9 {
		t.Errorf("status aliased caller input: %v", *s.SubscribedKVA)
	}
}
