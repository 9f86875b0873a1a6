package compliance

import (
	"fmt"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/ac"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/subscription"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/validation"
)

// flagOutOfRange turns the computed weaknesses into warnings. The dossier is
// complete either way; the warnings tell the renderer which cells to highlight.
func flagOutOfRange(d *Dossier, report *validation.Report) {
	flagDC(d, report)
	flagAC(d, report)
	flagMicro(d, report)
	flagSubscription(d, report)
}

func flagDC(d *Dossier, report *validation.Report) {
	if d.Compatibility == nil {
		return
	}
	det, s := d.Compatibility.Details, d.Compatibility.Safety

	if s.VoltageExceeded {
		report.AddWarning(validation.Result{
			Level:        validation.LevelDC,
			Code:         validation.CodeVoltageExceeded,
			Message:      fmt.Sprintf("cold open-circuit voltage %.1f V exceeds inverter maximum %.0f V at %.0f °C", det.VocCold, s.VmaxDC, d.Climate.TempMin),
			SpecPath:     "strings",
			ActualValue:  det.VocCold,
			Expected:     fmt.Sprintf("<= %.0f V", s.VmaxDC),
			ConflictWith: "inverter.vmax_dc",
			Suggestions:  []string{"Reduce the number of panels in series on the longest string"},
		})
	}

	if s.VmpBelowMPPT {
		report.AddWarning(validation.Result{
			Level:        validation.LevelDC,
			Code:         validation.CodeVmpBelowMPPT,
			Message:      fmt.Sprintf("hot MPP voltage drops to %.1f V, below the MPPT window minimum %.0f V at %.0f °C", s.MinVmpHot, s.VminMPPT, d.Climate.TempMax),
			SpecPath:     "strings",
			ActualValue:  s.MinVmpHot,
			Expected:     fmt.Sprintf(">= %.0f V", s.VminMPPT),
			ConflictWith: "inverter.vmin_mppt",
			Suggestions:  []string{"Add panels in series on the shortest string"},
		})
	}

	if s.GPVFuseRequired {
		report.AddWarning(validation.Result{
			Level:       validation.LevelDC,
			Code:        validation.CodeFuseRequired,
			Message:     fmt.Sprintf("%d parallel strings on one MPPT input: string fuses required (%s)", s.MaxParallelStringsOnAnyMPPT, s.FuseRule),
			SpecPath:    "strings[].mppt_index",
			ActualValue: s.MaxParallelStringsOnAnyMPPT,
		})
	}

	for _, sr := range det.StringsAnalysis {
		if sr.Mismatched {
			report.AddWarning(validation.Result{
				Level:       validation.LevelDC,
				Code:        validation.CodeMismatchedStrings,
				Message:     fmt.Sprintf("MPPT %d mixes parallel strings of different lengths (%s)", sr.MPPTIndex, sr.Composition),
				SpecPath:    "strings",
				ActualValue: sr.Composition,
				Suggestions: []string{"Keep parallel strings on one MPPT at the same panel count"},
			})
		}
	}

	if dcn := s.Disconnect; dcn != nil && !dcn.OK() {
		report.AddWarning(validation.Result{
			Level:       validation.LevelDC,
			Code:        validation.CodeDisconnectUndersized,
			Message:     fmt.Sprintf("DC disconnect %.0f V / %.1f A does not cover %.1f V / %.2f A", dcn.RatedVoltageV, dcn.RatedCurrentA, dcn.RequiredVoltageV, dcn.RequiredCurrentA),
			SpecPath:    "disconnect",
			ActualValue: fmt.Sprintf("%.0f V / %.1f A", dcn.RatedVoltageV, dcn.RatedCurrentA),
			Expected:    fmt.Sprintf(">= %.1f V / %.2f A", dcn.RequiredVoltageV, dcn.RequiredCurrentA),
		})
	}
}

func flagAC(d *Dossier, report *validation.Report) {
	if d.AC.RecommendedBreakerA == nil {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAC,
			Code:        validation.CodeBreakerAboveLadder,
			Message:     fmt.Sprintf("AC current %.1f A exceeds the largest standard breaker", d.AC.NominalCurrentA),
			SpecPath:    "inverter.max_ac_power_w",
			ActualValue: d.AC.NominalCurrentA,
		})
	}

	if f := d.Feeder; f != nil && f.AboveTarget {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAC,
			Code:        validation.CodeFeederDropAboveTarget,
			Message:     fmt.Sprintf("feeder voltage drop %.2f%% is above the %.1f%% target", f.DropPercent, f.TargetPct),
			SpecPath:    "feeder.section_mm2",
			ActualValue: f.SectionMM2,
			Expected:    fmt.Sprintf("drop <= %.1f%%", f.TargetPct),
			Suggestions: []string{"Increase the feeder section or shorten the run"},
		})
	}
}

func flagMicro(d *Dossier, report *validation.Report) {
	m := d.MicroBranches
	if m == nil {
		return
	}

	for i, b := range m.Branches {
		if b.AboveTarget {
			report.AddWarning(validation.Result{
				Level:       validation.LevelAC,
				Code:        validation.CodeBranchDropAboveTarget,
				Message:     fmt.Sprintf("branch %s voltage drop %.2f%% is above the %.1f%% target", b.BranchID, b.DropPercent, m.TargetPct),
				SpecPath:    fmt.Sprintf("micro.branches[%d]", i),
				ActualValue: b.DropPercent,
			})
		}
		if b.OverBranchLimit {
			report.AddWarning(validation.Result{
				Level:       validation.LevelAC,
				Code:        validation.CodeBranchOverLimit,
				Message:     fmt.Sprintf("branch %s carries %d microinverters, above the manufacturer limit of %d", b.BranchID, b.MicroCount, m.MaxPerBranch),
				SpecPath:    fmt.Sprintf("micro.branches[%d].micro_count", i),
				ActualValue: b.MicroCount,
				Expected:    fmt.Sprintf("<= %d", m.MaxPerBranch),
			})
		}
	}

	if m.ProductionAboveTarget {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAC,
			Code:        validation.CodeProductionDropAbove,
			Message:     fmt.Sprintf("production voltage drop %.2f%% (worst branch %.2f%% + feeder %.2f%%) is above the %.1f%% target", m.ProductionDropPercent, m.MaxBranchDropPercent, m.FeederDropPercent, m.TargetPct),
			SpecPath:    "micro.branches",
			ActualValue: m.ProductionDropPercent,
		})
	}

	if m.Provisioning != ac.ProvisioningExact {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAC,
			Code:        validation.CodeMicroProvisioning,
			Message:     fmt.Sprintf("%d microinverters configured for %d required (%s-provisioned)", m.TotalMicrosConfigured, m.RequiredMicros, m.Provisioning),
			SpecPath:    "micro.branches[].micro_count",
			ActualValue: m.TotalMicrosConfigured,
			Expected:    fmt.Sprintf("%d", m.RequiredMicros),
		})
	}
}

func flagSubscription(d *Dossier, report *validation.Report) {
	s := d.Subscription
	switch s.State {
	case subscription.StateInsufficient:
		report.AddWarning(validation.Result{
			Level:       validation.LevelSubscription,
			Code:        validation.CodeSubscriptionLow,
			Message:     fmt.Sprintf("subscribed %.0f kVA is below the recommended %.0f kVA for %.2f kWc", *s.SubscribedKVA, *s.RecommendedKVA, s.InstalledKWc),
			SpecPath:    "subscription.subscribed_kva",
			ActualValue: *s.SubscribedKVA,
			Expected:    fmt.Sprintf(">= %.0f kVA", *s.RecommendedKVA),
		})
	case subscription.StateUnknown:
		report.AddInfo(validation.Result{
			Level:    validation.LevelSubscription,
			Code:     validation.CodeSubscriptionUnknown,
			Message:  fmt.Sprintf("subscribed capacity unknown; %.0f kVA recommended", *s.RecommendedKVA),
			SpecPath: "subscription.subscribed_kva",
		})
	case subscription.StateNoTier:
		report.AddWarning(validation.Result{
			Level:       validation.LevelSubscription,
			Code:        validation.CodeSubscriptionNoTier,
			Message:     fmt.Sprintf("no standard %s subscription tier covers %.2f kWc", s.Phase, s.InstalledKWc),
			SpecPath:    "inverter.phase",
			ActualValue: s.InstalledKWc,
			Suggestions: []string{"Consider a three-phase connection or a custom subscription"},
		})
	}
}
