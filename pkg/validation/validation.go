package validation

import "fmt"

// Level indicates which stage produced the result.
type Level string

const (
	LevelSchema       Level = "schema"
	LevelDC           Level = "dc"
	LevelAC           Level = "ac"
	LevelSubscription Level = "subscription"
	LevelLayout       Level = "layout"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Code identifies the kind of finding so renderers can style it without
// parsing messages.
type Code string

const (
	CodeInvalidConfiguration Code = "invalid_configuration"
	CodeMissingExternalData  Code = "missing_external_data"

	CodeVoltageExceeded       Code = "voltage_exceeded"
	CodeVmpBelowMPPT          Code = "vmp_below_mppt"
	CodeFuseRequired          Code = "gpv_fuse_required"
	CodeMismatchedStrings     Code = "mismatched_parallel_strings"
	CodeDisconnectUndersized  Code = "disconnect_undersized"
	CodeBreakerAboveLadder    Code = "breaker_above_ladder"
	CodeFeederDropAboveTarget Code = "feeder_drop_above_target"
	CodeBranchDropAboveTarget Code = "branch_drop_above_target"
	CodeProductionDropAbove   Code = "production_drop_above_target"
	CodeBranchOverLimit       Code = "branch_over_limit"
	CodeMicroProvisioning     Code = "micro_provisioning"
	CodeSubscriptionLow       Code = "subscription_insufficient"
	CodeSubscriptionUnknown   Code = "subscription_unknown"
	CodeSubscriptionNoTier    Code = "subscription_no_tier"
)

// Result is a single validation finding.
type Result struct {
	Level        Level    `json:"level"`
	Severity     Severity `json:"severity"`
	Code         Code     `json:"code,omitempty"`
	Message      string   `json:"message"`
	SpecPath     string   `json:"spec_path"`
	ActualValue  any      `json:"actual_value,omitempty"`
	Expected     string   `json:"expected,omitempty"`
	ConflictWith string   `json:"conflict_with,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Report is the complete validation output.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// Has reports whether any result of any severity carries the given code.
func (r *Report) Has(code Code) bool {
	for _, list := range [][]Result{r.Errors, r.Warnings, r.Info} {
		for _, res := range list {
			if res.Code == code {
				return true
			}
		}
	}
	return false
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
