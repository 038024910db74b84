// =============================================================================
// Freight Tracker - Header Validation
// =============================================================================
//
// This module checks a dataset's header row against the column mapping
// before the rows are normalized. Exports are maintained by hand, so columns
// get renamed, accented differently or dropped.
//
// FINDINGS:
//   - error:   a required field has no matching header (its values will all
//              be defaults, e.g. every cost city unrecognized)
//   - warning: an optional field has no matching header
//   - info:    a header is not consumed by any field
//
// ERROR HANDLING:
//   - Findings are collected, never returned as Go errors
//   - A dataset with findings still loads; the store logs the report and the
//     check command prints it
//
// =============================================================================

package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ginjaninja78/freight-tracker/internal/config"
)

// =============================================================================
// FINDING TYPES
// =============================================================================

// Severity levels for findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Finding represents a single header problem.
type Finding struct {
	// Severity is one of SeverityError, SeverityWarning or SeverityInfo.
	Severity string `json:"severity"`

	// Field is the logical field concerned, empty for unmapped headers.
	Field config.Field `json:"field,omitempty"`

	// Header is the unmapped header, empty for missing fields.
	Header string `json:"header,omitempty"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// String renders the finding on one line.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(f.Severity), f.Message)
}

// =============================================================================
// REPORT
// =============================================================================

// Report contains the results of a header check.
type Report struct {
	// Findings in order: missing required, missing optional, unmapped.
	Findings []Finding `json:"findings"`

	// Resolved maps each present field to the headers feeding it.
	Resolved config.Resolution `json:"resolved"`

	// ErrorCount is the number of missing required fields.
	ErrorCount int `json:"errorCount"`

	// WarningCount is the number of missing optional fields.
	WarningCount int `json:"warningCount"`
}

// OK is true when every required field is present.
func (r *Report) OK() bool {
	return r.ErrorCount == 0
}

// MissingRequired lists the required fields with no header.
func (r *Report) MissingRequired() []config.Field {
	var out []config.Field
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f.Field)
		}
	}
	return out
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// CheckHeaders compares a header row with the mapping.
//
// PARAMETERS:
//   - headers: The dataset's header row.
//   - mapping: The column mapping (nil selects the built-in one).
//
// RETURNS:
//   - A report; never nil.
func CheckHeaders(headers []string, mapping *config.ColumnMapping) *Report {
	if mapping == nil {
		mapping = config.DefaultColumnMapping()
	}

	resolved := mapping.Resolve(headers)
	report := &Report{Resolved: resolved, Findings: []Finding{}}

	var optional []Finding
	for _, field := range config.AllFields {
		if resolved.Has(field) {
			continue
		}
		aliases := strings.Join(mapping.Aliases(field), ", ")

		if slices.Contains(config.RequiredFields, field) {
			report.Findings = append(report.Findings, Finding{
				Severity: SeverityError,
				Field:    field,
				Message:  fmt.Sprintf("required field %q has no column (expected one of: %s)", field, aliases),
			})
			report.ErrorCount++
			continue
		}

		optional = append(optional, Finding{
			Severity: SeverityWarning,
			Field:    field,
			Message:  fmt.Sprintf("optional field %q has no column (expected one of: %s)", field, aliases),
		})
		report.WarningCount++
	}
	report.Findings = append(report.Findings, optional...)

	mapped := resolved.Mapped()
	for _, h := range headers {
		if mapped[h] || strings.HasPrefix(h, "Column_") {
			continue
		}
		report.Findings = append(report.Findings, Finding{
			Severity: SeverityInfo,
			Header:   h,
			Message:  fmt.Sprintf("column %q is not used", h),
		})
	}

	return report
}

// FormatReport formats a report for display.
//
// PARAMETERS:
//   - report: The report to format.
//
// RETURNS:
//   - A formatted string with one finding per line.
func FormatReport(report *Report) string {
	if report == nil || len(report.Findings) == 0 {
		return "All columns recognized."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Header check: %d error(s), %d warning(s)\n\n",
		report.ErrorCount, report.WarningCount))

	for i, f := range report.Findings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.String()))
	}

	return builder.String()
}
