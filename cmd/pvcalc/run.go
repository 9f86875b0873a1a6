package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/compliance"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/export"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/validation"
)

var errInvalidProject = errors.New("project has validation errors")

// evaluate loads the project and runs the engine on it.
func (a *app) evaluate(projectPath string) (*compliance.Dossier, *validation.Report, error) {
	p, err := project.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	d, report := compliance.Evaluate(p, a.tables)
	a.log.Debug("project evaluated",
		zap.String("project", p.Name),
		zap.Bool("valid", report.Valid),
		zap.String("summary", report.Summary))
	return d, report, nil
}

// evaluateValid is evaluate for commands that need a dossier: an invalid
// project prints its report and fails.
func (a *app) evaluateValid(w io.Writer, projectPath string) (*compliance.Dossier, *validation.Report, error) {
	d, report, err := a.evaluate(projectPath)
	if err != nil {
		return nil, nil, err
	}
	if d == nil {
		printValidationReport(w, report)
		return nil, nil, errInvalidProject
	}
	return d, report, nil
}

func (a *app) runCheck(w io.Writer, projectPath string, asJSON bool) error {
	d, report, err := a.evaluate(projectPath)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"dossier":    d,
			"validation": report,
		}); err != nil {
			return err
		}
	} else {
		if d != nil {
			printDossier(w, d)
			fmt.Fprintln(w)
		}
		printValidationReport(w, report)
	}

	if !report.Valid {
		return errInvalidProject
	}
	return nil
}

func (a *app) runStrings(w io.Writer, projectPath string) error {
	d, _, err := a.evaluateValid(w, projectPath)
	if err != nil {
		return err
	}
	if d.Compatibility == nil {
		fmt.Fprintln(w, "No DC strings configured.")
		return nil
	}
	printStrings(w, d.Compatibility)
	fmt.Fprintln(w)
	printDCSafety(w, d.Compatibility)
	return nil
}

func (a *app) runMicro(w io.Writer, projectPath string) error {
	d, _, err := a.evaluateValid(w, projectPath)
	if err != nil {
		return err
	}
	if d.MicroBranches == nil {
		fmt.Fprintln(w, "No microinverter configuration.")
		return nil
	}
	printMicroBranches(w, d.MicroBranches)
	return nil
}

func (a *app) runSubscription(w io.Writer, projectPath string) error {
	d, _, err := a.evaluateValid(w, projectPath)
	if err != nil {
		return err
	}
	printSubscription(w, d.Subscription)
	return nil
}

func (a *app) runMargins(w io.Writer, projectPath string) error {
	d, _, err := a.evaluateValid(w, projectPath)
	if err != nil {
		return err
	}
	printMargins(w, d.Margins)
	return nil
}

func (a *app) runExport(w io.Writer, projectPath, out string) error {
	d, report, err := a.evaluateValid(w, projectPath)
	if err != nil {
		return err
	}

	f, err := export.Workbook(d, report)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	a.log.Debug("workbook written", zap.String("path", out))
	fmt.Fprintf(w, "Dossier written to %s (%s)\n", out, report.Summary)
	return nil
}

func (a *app) runTables(w io.Writer) error {
	data, err := a.tables.Encode()
	if err != nil {
		return fmt.Errorf("encoding tables: %w", err)
	}
	_, err = w.Write(data)
	return err
}
