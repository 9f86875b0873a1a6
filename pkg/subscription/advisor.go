package subscription

import (
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

// State distinguishes an unknown subscription from an insufficient one.
type State string

const (
	StateOK           State = "ok"
	StateInsufficient State = "insufficient"
	StateUnknown      State = "unknown"
	StateNoTier       State = "no_tier"
)

// Status compares the recommended subscription with the declared one.
// Nil kVA values are absent, not zero.
type Status struct {
	InstalledKWc   float64       `json:"installed_kwc"`
	Phase          project.Phase `json:"phase"`
	RecommendedKVA *float64      `json:"recommended_kva"`
	SubscribedKVA  *float64      `json:"subscribed_kva"`
	IsOK           bool          `json:"is_ok"`
	State          State         `json:"state"`
}

// Known reports whether the declared subscription was supplied.
func (s Status) Known() bool {
	return s.SubscribedKVA != nil
}

// Tiers returns the standard tiers for a phase.
func Tiers(phase project.Phase, t tables.SubscriptionTiers) []float64 {
	if phase == project.PhaseTri {
		return t.TriKVA
	}
	return t.MonoKVA
}

// Recommend returns the smallest tier covering installed power times the
// headroom factor. The bool is false when no tier is large enough.
func Recommend(installedKWc float64, phase project.Phase, t tables.SubscriptionTiers) (float64, bool) {
	need := installedKWc * t.HeadroomFactor
	for _, tier := range Tiers(phase, t) {
		if tier >= need {
			return tier, true
		}
	}
	return 0, false
}

// Advise recommends a subscription tier and checks the declared one against it.
func Advise(installedKWc float64, phase project.Phase, subscribed *float64, t *tables.Tables) Status {
	s := Status{
		InstalledKWc: installedKWc,
		Phase:        phase,
	}
	if subscribed != nil {
		v := *subscribed
		s.SubscribedKVA = &v
	}

	tier, ok := Recommend(installedKWc, phase, t.Subscription)
	if ok {
		s.RecommendedKVA = &tier
	}

	switch {
	case !ok:
		s.State = StateNoTier
	case s.SubscribedKVA == nil:
		s.State = StateUnknown
	case *s.SubscribedKVA >= tier:
		s.State = StateOK
		s.IsOK = true
	default:
		s.State = StateInsufficient
	}
	return s
}
