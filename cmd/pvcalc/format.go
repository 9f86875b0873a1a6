package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/ac"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/compliance"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/margins"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/subscription"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.SpecPath != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", e.SpecPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Fprintf(w, "    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", wr.Level, wr.Message)
			if wr.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", wr.Expected)
			}
			for _, s := range wr.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printDossier(w io.Writer, d *compliance.Dossier) {
	title := fmt.Sprintf("Dossier: %s", d.Project)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, underline(title))
	fmt.Fprintf(w, "  Installed power:   %.2f kWc (%d panels)\n", d.InstalledKWc, d.PanelCount)
	fmt.Fprintf(w, "  Climate:           %.0f °C / %.0f °C (%s)\n", d.Climate.TempMin, d.Climate.TempMax, d.Climate.Source)
	fmt.Fprintln(w)

	if d.Compatibility != nil {
		printStrings(w, d.Compatibility)
		fmt.Fprintln(w)
		printDCSafety(w, d.Compatibility)
		fmt.Fprintln(w)
	}

	printACSizing(w, d.AC, d.Feeder)
	fmt.Fprintln(w)

	if d.MicroBranches != nil {
		printMicroBranches(w, d.MicroBranches)
		fmt.Fprintln(w)
	}

	printSubscription(w, d.Subscription)
	fmt.Fprintln(w)
	printMargins(w, d.Margins)
}

func printStrings(w io.Writer, c *compliance.CompatibilityReport) {
	fmt.Fprintln(w, "DC strings")
	fmt.Fprintln(w, "----------")
	fmt.Fprintf(w, "%-6s %-12s %8s %12s %12s %12s\n", "MPPT", "Strings", "Panels", "Voc cold", "Vmp hot", "Isc calc")
	for _, s := range c.Details.StringsAnalysis {
		mark := ""
		if s.Mismatched {
			mark = " !"
		}
		fmt.Fprintf(w, "%-6d %-12s %8d %10.1f V %10.1f V %10.2f A%s\n",
			s.MPPTIndex, s.Composition, s.TotalPanelCount, s.VocCold, s.VmpHot, s.IscCalculation, mark)
	}
	fmt.Fprintf(w, "  MPPT inputs used: %d   DC/AC ratio: %.2f\n", c.Details.MPPTCount, c.Details.DCACRatio)
}

func printDCSafety(w io.Writer, c *compliance.CompatibilityReport) {
	s := c.Safety
	fmt.Fprintln(w, "DC safety")
	fmt.Fprintln(w, "---------")
	fmt.Fprintf(w, "  Voc cold %.1f V vs Vmax %.0f V (%s): %s\n",
		c.Details.VocCold, s.VmaxDC, c.Details.LimitsSource, okIf(!s.VoltageExceeded))
	fmt.Fprintf(w, "  Vmp hot %.1f V vs MPPT min %.0f V: %s\n",
		s.MinVmpHot, s.VminMPPT, okIf(!s.VmpBelowMPPT))
	fmt.Fprintf(w, "  Isc panel %.2f A, calculation current %.2f A\n", c.Details.IscPanel, c.Details.IscCalculation)
	fuse := "not required"
	if s.GPVFuseRequired {
		fuse = "REQUIRED"
	}
	fmt.Fprintf(w, "  String fuses: %s (%d parallel max)\n", fuse, s.MaxParallelStringsOnAnyMPPT)
	if dcn := s.Disconnect; dcn != nil {
		fmt.Fprintf(w, "  Disconnect %.0f V / %.1f A: %s\n", dcn.RatedVoltageV, dcn.RatedCurrentA, okIf(dcn.OK()))
	}
}

func printACSizing(w io.Writer, s ac.Sizing, feeder *ac.Drop) {
	fmt.Fprintln(w, "AC protection")
	fmt.Fprintln(w, "-------------")
	fmt.Fprintf(w, "  Output:            %.0f W at %.0f V (%s)\n", s.MaxACPowerW, s.NominalACVoltage, s.Phase)
	fmt.Fprintf(w, "  Nominal current:   %.2f A\n", s.NominalCurrentA)
	fmt.Fprintf(w, "  Breaker:           %s\n", formatAmps(s.RecommendedBreakerA))
	fmt.Fprintf(w, "  RCD:               type %s\n", s.RCDType)
	if feeder != nil {
		fmt.Fprintf(w, "  Feeder drop:       %.2f V (%.2f %%, %.0f m in %.1f mm²): %s\n",
			feeder.DropV, feeder.DropPercent, feeder.LengthM, feeder.SectionMM2, okIf(!feeder.AboveTarget))
	}
}

func printMicroBranches(w io.Writer, m *ac.MicroBranchesReport) {
	fmt.Fprintln(w, "Microinverter branches")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "%-6s %-16s %-5s %7s %9s %9s %10s %9s\n", "ID", "Name", "Phase", "Micros", "Length", "Section", "Current", "Drop")
	for _, b := range m.Branches {
		fmt.Fprintf(w, "%-6s %-16s %-5s %7d %7.1f m %5.1f mm² %8.2f A %7.2f %%\n",
			b.BranchID, b.Name, b.Phase, b.MicroCount, b.CableLengthM, b.CableSectionMM2, b.CurrentA, b.DropPercent)
	}
	fmt.Fprintf(w, "  Micros: %d configured / %d required (%s)\n", m.TotalMicrosConfigured, m.RequiredMicros, m.Provisioning)
	fmt.Fprintf(w, "  Production drop: %.2f %% (branch %.2f %% + feeder %.2f %%): %s\n",
		m.ProductionDropPercent, m.MaxBranchDropPercent, m.FeederDropPercent, okIf(!m.ProductionAboveTarget))
}

func printSubscription(w io.Writer, s subscription.Status) {
	fmt.Fprintln(w, "Subscription")
	fmt.Fprintln(w, "------------")
	fmt.Fprintf(w, "  Recommended:       %s\n", formatKVA(s.RecommendedKVA))
	fmt.Fprintf(w, "  Subscribed:        %s\n", formatKVA(s.SubscribedKVA))

	switch s.State {
	case subscription.StateOK:
		fmt.Fprintln(w, "  Status:            OK")
	case subscription.StateInsufficient:
		fmt.Fprintln(w, "  Status:            INSUFFICIENT")
	case subscription.StateUnknown:
		fmt.Fprintln(w, "  Status:            to be confirmed with the customer")
	case subscription.StateNoTier:
		fmt.Fprintln(w, "  Status:            no standard tier large enough")
	}
}

func printMargins(w io.Writer, m margins.Margins) {
	fmt.Fprintln(w, "Placement margins")
	fmt.Fprintln(w, "-----------------")
	fmt.Fprintf(w, "  Top %.0f mm   Bottom %.0f mm   Left %.0f mm   Right %.0f mm\n", m.Top, m.Bottom, m.Left, m.Right)
}

func okIf(ok bool) string {
	if ok {
		return "OK"
	}
	return "OUT OF RANGE"
}

func formatAmps(v *int) string {
	if v == nil {
		return "above standard range"
	}
	return fmt.Sprintf("%d A", *v)
}

func formatKVA(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.0f kVA", *v)
}

func underline(s string) string {
	return strings.Repeat("=", utf8.RuneCountInString(s))
}
