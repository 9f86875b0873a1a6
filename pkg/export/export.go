package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/compliance"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/validation"
)

// Sheet names of the exported workbook.
const (
	SheetSummary       = "Summary"
	SheetStrings       = "Strings"
	SheetMicroBranches = "Micro branches"
	SheetFindings      = "Findings"
)

// Workbook renders the dossier records into an xlsx workbook. Values are
// copied from the records and rounded for display; nothing is recomputed.
func Workbook(d *compliance.Dossier, report *validation.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	steps := []func(*excelize.File, *compliance.Dossier, *validation.Report) error{
		writeSummary,
		writeStrings,
		writeMicroBranches,
		writeFindings,
	}
	for _, step := range steps {
		if err := step(f, d, report); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Write renders the workbook to w.
func Write(w io.Writer, d *compliance.Dossier, report *validation.Report) error {
	f, err := Workbook(d, report)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// round returns v rounded half away from zero to places decimals.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func optional[T any](v *T) any {
	if v == nil {
		return "n/a"
	}
	return *v
}

func writeSummary(f *excelize.File, d *compliance.Dossier, _ *validation.Report) error {
	rows := [][]any{
		{"Field", "Value", "Unit"},
		{"Project", d.Project, ""},
		{"Installed power", round(d.InstalledKWc, 2), "kWc"},
		{"Panels", d.PanelCount, ""},
		{"Temperature min", d.Climate.TempMin, "°C"},
		{"Temperature max", d.Climate.TempMax, "°C"},
		{"Climate source", string(d.Climate.Source), ""},
		{"AC nominal current", round(d.AC.NominalCurrentA, 2), "A"},
		{"Recommended breaker", optional(d.AC.RecommendedBreakerA), "A"},
		{"RCD type", d.AC.RCDType, ""},
	}

	if c := d.Compatibility; c != nil {
		rows = append(rows,
			[]any{"Voc cold", round(c.Details.VocCold, 1), "V"},
			[]any{"Vmp hot", round(c.Details.VmpHot, 1), "V"},
			[]any{"Inverter Vmax DC", c.Details.VmaxInverter, "V"},
			[]any{"Inverter Vmin MPPT", c.Details.VminMPPT, "V"},
			[]any{"Isc panel", c.Details.IscPanel, "A"},
			[]any{"Isc calculation", round(c.Details.IscCalculation, 2), "A"},
			[]any{"DC/AC ratio", round(c.Details.DCACRatio, 2), ""},
			[]any{"Voltage exceeded", c.Safety.VoltageExceeded, ""},
			[]any{"GPV fuses required", c.Safety.GPVFuseRequired, ""},
		)
	}
	if fd := d.Feeder; fd != nil {
		rows = append(rows,
			[]any{"Feeder drop", round(fd.DropV, 2), "V"},
			[]any{"Feeder drop", round(fd.DropPercent, 2), "%"},
		)
	}

	s := d.Subscription
	rows = append(rows,
		[]any{"Recommended subscription", optional(s.RecommendedKVA), "kVA"},
		[]any{"Subscribed", optional(s.SubscribedKVA), "kVA"},
		[]any{"Subscription state", string(s.State), ""},
		[]any{"Margin top", d.Margins.Top, "mm"},
		[]any{"Margin bottom", d.Margins.Bottom, "mm"},
		[]any{"Margin left", d.Margins.Left, "mm"},
		[]any{"Margin right", d.Margins.Right, "mm"},
	)
	return writeRows(f, SheetSummary, rows)
}

func writeStrings(f *excelize.File, d *compliance.Dossier, _ *validation.Report) error {
	if d.Compatibility == nil {
		return nil
	}
	if _, err := f.NewSheet(SheetStrings); err != nil {
		return err
	}
	rows := [][]any{{"MPPT", "Composition", "Panels", "Voc cold (V)", "Vmp hot (V)", "Isc calc (A)"}}
	for _, sr := range d.Compatibility.Details.StringsAnalysis {
		rows = append(rows, []any{
			sr.MPPTIndex, sr.Composition, sr.TotalPanelCount,
			round(sr.VocCold, 1), round(sr.VmpHot, 1), round(sr.IscCalculation, 2),
		})
	}
	return writeRows(f, SheetStrings, rows)
}

func writeMicroBranches(f *excelize.File, d *compliance.Dossier, _ *validation.Report) error {
	m := d.MicroBranches
	if m == nil {
		return nil
	}
	if _, err := f.NewSheet(SheetMicroBranches); err != nil {
		return err
	}
	rows := [][]any{{"Branch", "Name", "Phase", "Micros", "Length (m)", "Section (mm²)", "Current (A)", "Drop (V)", "Drop (%)"}}
	for _, b := range m.Branches {
		rows = append(rows, []any{
			b.BranchID, b.Name, b.Phase, b.MicroCount, b.CableLengthM, b.CableSectionMM2,
			round(b.CurrentA, 2), round(b.DropV, 2), round(b.DropPercent, 2),
		})
	}
	rows = append(rows,
		[]any{},
		[]any{"Required micros", m.RequiredMicros},
		[]any{"Configured micros", m.TotalMicrosConfigured},
		[]any{"Provisioning", string(m.Provisioning)},
		[]any{"Production drop (%)", round(m.ProductionDropPercent, 2)},
	)
	return writeRows(f, SheetMicroBranches, rows)
}

func writeFindings(f *excelize.File, _ *compliance.Dossier, report *validation.Report) error {
	if report == nil {
		return nil
	}
	if _, err := f.NewSheet(SheetFindings); err != nil {
		return err
	}
	rows := [][]any{{"Severity", "Level", "Code", "Message", "Path"}}
	for _, list := range [][]validation.Result{report.Errors, report.Warnings, report.Info} {
		for _, r := range list {
			rows = append(rows, []any{string(r.Severity), string(r.Level), string(r.Code), r.Message, r.SpecPath})
		}
	}
	return writeRows(f, SheetFindings, rows)
}
