package annotations

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a flat field name to its validation messages.
// An empty map means the entry passed every rule. Example:
//
//	{"units": ["Required"], "isQualifies": ["Please select at least one column to qualify."]}
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Empty reports whether no rule produced an error.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// CleanUnusedFields drops values held by form controls the current
// category does not display, so they cannot trip irrelevant rules.
func CleanUnusedFields(entry FlatEntry) FlatEntry {
	if entry.Category == CategoryFeature {
		entry.Primary = false
	}
	return entry
}

// PreviousPrimaryColumn returns the name of another column of the same
// category already marked primary, or "" when there is none. Columns
// are scanned in sorted order and the last offender wins; the UI
// should allow at most one to exist.
func PreviousPrimaryColumn(all map[string]FlatEntry, editing FlatEntry, editingColumn string) string {
	if !editing.Primary {
		return ""
	}

	found := ""
	for _, column := range sortedColumns(all) {
		if column == editingColumn {
			continue
		}
		other := all[column]
		if other.Category == editing.Category && other.Primary {
			found = column
		}
	}
	return found
}

// VerifyQualifierPrimaryRules enforces the cross-field rules between
// primary status and qualifier links for the column being edited:
// a primary date/geo cannot be a qualifier, a qualifier must name at
// least one column, only one column per category may be primary, and
// qualified columns may be neither qualifiers nor primary themselves.
func VerifyQualifierPrimaryRules(current FlatEntry, all map[string]FlatEntry, editingColumn string) FieldErrors {
	errors := FieldErrors{}

	isFeature := current.Category == CategoryFeature

	if !isFeature && current.Primary && current.IsQualifies {
		errors.add("primary", "A primary column cannot be marked as a qualifier.")
	}

	if current.IsQualifies && len(current.Qualifies) == 0 {
		errors.add("isQualifies", "Please select at least one column to qualify.")
	}

	if previous := PreviousPrimaryColumn(all, current, editingColumn); previous != "" {
		errors.add("primary", fmt.Sprintf(
			"'%s' has already been selected as the primary %s column. Remove the previous primary column selection before adding a new one.",
			previous, titleCaser.String(current.Category)))
	}

	if current.IsQualifies {
		var qualifiesQualifiers []string
		var qualifiesPrimary []string

		for _, column := range current.Qualifies {
			other := all[column]
			if other.IsQualifies {
				qualifiesQualifiers = append(qualifiesQualifiers, column)
			}
			if other.Primary {
				qualifiesPrimary = append(qualifiesPrimary, column)
			}
		}

		if len(qualifiesQualifiers) > 0 {
			errors.add("isQualifies", fmt.Sprintf("Cannot qualify qualifier column(s): %s.", quoteList(qualifiesQualifiers)))
		}
		if len(qualifiesPrimary) > 0 {
			errors.add("isQualifies", fmt.Sprintf("Cannot qualify primary column(s): %s.", quoteList(qualifiesPrimary)))
		}
	}

	return errors
}

// VerifyConditionalRequiredFields checks the fields a category only
// requires in certain configurations: every part column and part
// format for a multi-column date, time_format for a single-column
// date, units for a feature.
func VerifyConditionalRequiredFields(entry FlatEntry) FieldErrors {
	errors := FieldErrors{}

	if entry.Date.MultiColumn {
		for _, part := range []string{DatePartDay, DatePartMonth, DatePartYear} {
			if entry.Date.Parts.Column(part) == "" {
				errors.add("date.multi-column."+part, "Required")
			}
			if entry.Date.Parts.Format(part) == "" {
				errors.add("date.multi-column."+part+".format", "Required")
			}
		}
	}

	if entry.Category == CategoryTime && !entry.Date.MultiColumn && entry.Date.TimeFormat == "" {
		errors.add("time_format", "Required")
	}

	if entry.Category == CategoryFeature && entry.Feature.Units == "" {
		errors.add("units", "Required")
	}

	return errors
}

// RequirementsReport is the whole-dataset check result. Errors block
// submission; warnings are surfaced but dismissable.
type RequirementsReport struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Blocked reports whether submission must be refused.
func (r RequirementsReport) Blocked() bool {
	return len(r.Errors) > 0
}

// ValidateRequirements runs the whole-dataset checks: at least one
// feature must be annotated (hard error), and a missing primary date
// is flagged as a warning only.
func ValidateRequirements(all map[string]FlatEntry) RequirementsReport {
	report := RequirementsReport{Errors: []string{}, Warnings: []string{}}

	foundFeature := false
	foundPrimaryDate := false
	for _, entry := range all {
		if entry.Category == CategoryFeature {
			foundFeature = true
		}
		if entry.Category == CategoryTime && entry.Primary {
			foundPrimaryDate = true
		}
	}

	if !foundFeature {
		report.Errors = append(report.Errors, "At least one column must be annotated as a feature.")
	}
	if !foundPrimaryDate {
		report.Warnings = append(report.Warnings, "No primary date annotated. All data will default to current date.")
	}

	return report
}

func quoteList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = "'" + c + "'"
	}
	return strings.Join(quoted, ", ")
}

func sortedColumns(m map[string]FlatEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
