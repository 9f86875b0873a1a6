package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/compliance"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

func evaluated(t *testing.T, dir string) (*compliance.Dossier, *excelize.File) {
	t.Helper()
	p, err := project.LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	d, report := compliance.Evaluate(p, tables.Default())
	if d == nil {
		t.Fatalf("invalid project: %v", report.Errors)
	}
	f, err := Workbook(d, report)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return d, f
}

func TestWorkbookStringProject(t *testing.T) {
	_, f := evaluated(t, "../project/testdata")

	sheets := f.GetSheetList()
	want := []string{SheetSummary, SheetStrings, SheetFindings}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	name, err := f.GetCellValue(SheetSummary, "B2")
	if err != nil || name != "Maison Toulon 6 kWc" {
		t.Errorf("B2 = %q, %v", name, err)
	}
	comp, err := f.GetCellValue(SheetStrings, "B2")
	if err != nil || comp != "1×7" {
		t.Errorf("strings B2 = %q, %v", comp, err)
	}
}

func TestWorkbookMicroProject(t *testing.T) {
	d, f := evaluated(t, "../project/testdata/micro-house")

	if idx, _ := f.GetSheetIndex(SheetStrings); idx != -1 {
		t.Error("micro project should have no strings sheet")
	}
	id, err := f.GetCellValue(SheetMicroBranches, "A2")
	if err != nil || id != d.MicroBranches.Branches[0].BranchID {
		t.Errorf("branch A2 = %q, %v", id, err)
	}

	rows, err := f.GetRows(SheetFindings)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) < 2 {
		t.Errorf("findings sheet has %d rows, want header plus findings", len(rows))
	}
}

func TestWrite(t *testing.T) {
	p, err := project.LoadProject("../project/testdata")
	if err != nil {
		t.Fatal(err)
	}
	d, report := compliance.Evaluate(p, tables.Default())

	var buf bytes.Buffer
	if err := Write(&buf, d, report); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(SheetSummary, "A1"); v != "Field" {
		t.Errorf("A1 = %q, want Field", v)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		dp   int32
		want float64
	}{
		{499.0915, 2, 499.09},
		{1.005, 2, 1.01},
		{26.0869565, 1, 26.1},
		{-2.345, 2, -2.35},
	}
	for _, tc := range cases {
		if got := round(tc.in, tc.dp); got != tc.want {
			t.Errorf("round(%v, %d) = %v, want %v", tc.in, tc.dp, got, tc.want)
		}
	}
}
