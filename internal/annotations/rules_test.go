package annotations_test

import (
	"reflect"
	"testing"

	"github.com/DataAtlasHQ/DA-Backend/internal/annotations"
)

func TestVerifyQualifierPrimaryRules_CannotQualifyQualifiers(t *testing.T) {
	current := annotations.FlatEntry{
		IsQualifies: true,
		Qualifies:   []string{"longitude", "other"},
	}
	all := map[string]annotations.FlatEntry{
		"longitude":  {IsQualifies: true},
		"other":      {IsQualifies: true},
		"andAnother": {IsQualifies: false},
	}

	got := annotations.VerifyQualifierPrimaryRules(current, all, "")

	want := annotations.FieldErrors{
		"isQualifies": {"Cannot qualify qualifier column(s): 'longitude', 'other'."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %+v, want %+v", got, want)
	}
}

func TestVerifyQualifierPrimaryRules_CannotQualifyPrimary(t *testing.T) {
	current := annotations.FlatEntry{
		IsQualifies: true,
		Qualifies:   []string{"latitude", "other"},
	}
	all := map[string]annotations.FlatEntry{
		"latitude":   {Primary: true},
		"other":      {},
		"andAnother": {},
	}

	got := annotations.VerifyQualifierPrimaryRules(current, all, "")

	want := annotations.FieldErrors{
		"isQualifies": {"Cannot qualify primary column(s): 'latitude'."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %+v, want %+v", got, want)
	}
}

func TestVerifyQualifierPrimaryRules_QualifierAndPrimaryOffendersBothReported(t *testing.T) {
	current := annotations.FlatEntry{
		IsQualifies: true,
		Qualifies:   []string{"a", "b"},
	}
	all := map[string]annotations.FlatEntry{
		"a": {IsQualifies: true},
		"b": {Primary: true},
	}

	got := annotations.VerifyQualifierPrimaryRules(current, all, "")

	want := annotations.FieldErrors{
		"isQualifies": {
			"Cannot qualify qualifier column(s): 'a'.",
			"Cannot qualify primary column(s): 'b'.",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %+v, want %+v", got, want)
	}
}

func TestVerifyQualifierPrimaryRules_EmptyQualifiesSelection(t *testing.T) {
	current := annotations.FlatEntry{
		IsQualifies: true,
		Qualifies:   []string{},
	}

	got := annotations.VerifyQualifierPrimaryRules(current, map[string]annotations.FlatEntry{}, "")

	want := annotations.FieldErrors{
		"isQualifies": {"Please select at least one column to qualify."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %+v, want %+v", got, want)
	}
}

func TestVerifyQualifierPrimaryRules_PrimaryCannotBeQualifier(t *testing.T) {
	current := annotations.FlatEntry{
		IsQualifies: true,
		Primary:     true,
		Qualifies:   []string{"some-such"},
	}

	got := annotations.VerifyQualifierPrimaryRules(current, map[string]annotations.FlatEntry{}, "")

	want := annotations.FieldErrors{
		"primary": {"A primary column cannot be marked as a qualifier."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %+v, want %+v", got, want)
	}
}

func TestVerifyQualifierPrimaryRules_FeaturePrimaryMayQualify(t *testing.T) {
	// The primary/qualifier conflict only applies to date and geo columns.
	current := annotations.FlatEntry{
		Category:    "feature",
		IsQualifies: true,
		Primary:     true,
		Qualifies:   []string{"some-such"},
	}

	got := annotations.VerifyQualifierPrimaryRules(current, map[string]annotations.FlatEntry{}, "")

	if _, found := got["primary"]; found {
		t.Errorf("unexpected primary error for feature column: %+v", got)
	}
}

func TestVerifyQualifierPrimaryRules_SecondPrimaryNamesPrevious(t *testing.T) {
	current := annotations.FlatEntry{
		Category: "time",
		Primary:  true,
	}
	all := map[string]annotations.FlatEntry{
		"existing_date": {Category: "time", Primary: true},
	}

	got := annotations.VerifyQualifierPrimaryRules(current, all, "value")

	want := annotations.FieldErrors{
		"primary": {"'existing_date' has already been selected as the primary Time column. Remove the previous primary column selection before adding a new one."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %+v, want %+v", got, want)
	}
}

func TestPreviousPrimaryColumn(t *testing.T) {
	cases := []struct {
		name          string
		all           map[string]annotations.FlatEntry
		editing       annotations.FlatEntry
		editingColumn string
		want          string
	}{
		{
			name: "finds existing primary of same category",
			all: map[string]annotations.FlatEntry{
				"anotherColumnField": {Category: "jabberwocky", Primary: true},
			},
			editing:       annotations.FlatEntry{Category: "jabberwocky", Primary: true},
			editingColumn: "value",
			want:          "anotherColumnField",
		},
		{
			name: "ignores the column being edited",
			all: map[string]annotations.FlatEntry{
				"value": {Category: "DiddleDiddle", Primary: true},
			},
			editing:       annotations.FlatEntry{Category: "DiddleDiddle", Primary: true},
			editingColumn: "value",
			want:          "",
		},
		{
			name: "different category is no conflict",
			all: map[string]annotations.FlatEntry{
				"AnotherColumnField": {Category: "Panjadrum", Primary: true},
			},
			editing:       annotations.FlatEntry{Category: "Geraniums", Primary: true},
			editingColumn: "value",
			want:          "",
		},
		{
			name: "not editing a primary means no conflict",
			all: map[string]annotations.FlatEntry{
				"anotherColumnField": {Category: "time", Primary: true},
			},
			editing:       annotations.FlatEntry{Category: "time"},
			editingColumn: "value",
			want:          "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := annotations.PreviousPrimaryColumn(tc.all, tc.editing, tc.editingColumn)
			if got != tc.want {
				t.Errorf("PreviousPrimaryColumn = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCleanUnusedFields(t *testing.T) {
	feature := annotations.FlatEntry{Category: "feature", Primary: true}
	if annotations.CleanUnusedFields(feature).Primary {
		t.Error("feature entries must never stay primary")
	}

	date := annotations.FlatEntry{Category: "time", Primary: true}
	if !annotations.CleanUnusedFields(date).Primary {
		t.Error("time entries keep their primary flag")
	}
}

func TestVerifyConditionalRequiredFields_MultiColumnDate(t *testing.T) {
	entry := annotations.FlatEntry{
		Category: "time",
		Date: annotations.DateFields{
			MultiColumn: true,
			Parts: annotations.DateParts{
				Day:       "day1",
				DayFormat: "%d",
			},
		},
	}

	got := annotations.VerifyConditionalRequiredFields(entry)

	for _, field := range []string{
		"date.multi-column.month",
		"date.multi-column.year",
		"date.multi-column.month.format",
		"date.multi-column.year.format",
	} {
		if _, found := got[field]; !found {
			t.Errorf("expected Required error for %s, got %+v", field, got)
		}
	}
	for _, field := range []string{"date.multi-column.day", "date.multi-column.day.format", "time_format"} {
		if _, found := got[field]; found {
			t.Errorf("unexpected error for %s: %+v", field, got)
		}
	}
}

func TestVerifyConditionalRequiredFields_SingleColumnDate(t *testing.T) {
	entry := annotations.FlatEntry{Category: "time"}

	got := annotations.VerifyConditionalRequiredFields(entry)

	want := annotations.FieldErrors{"time_format": {"Required"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %+v, want %+v", got, want)
	}
}

func TestVerifyConditionalRequiredFields_FeatureUnits(t *testing.T) {
	missing := annotations.FlatEntry{Category: "feature"}
	if got := annotations.VerifyConditionalRequiredFields(missing); len(got["units"]) == 0 {
		t.Errorf("expected Required error for units, got %+v", got)
	}

	present := annotations.FlatEntry{
		Category: "feature",
		Feature:  annotations.FeatureFields{Units: "m"},
	}
	if got := annotations.VerifyConditionalRequiredFields(present); !got.Empty() {
		t.Errorf("expected no errors, got %+v", got)
	}
}

func TestValidateRequirements(t *testing.T) {
	complete := map[string]annotations.FlatEntry{
		"value": {Category: "feature"},
		"dated": {Category: "time", Primary: true},
	}
	report := annotations.ValidateRequirements(complete)
	if report.Blocked() || len(report.Warnings) != 0 {
		t.Errorf("expected clean report, got %+v", report)
	}

	noFeature := map[string]annotations.FlatEntry{
		"dated": {Category: "time", Primary: true},
	}
	report = annotations.ValidateRequirements(noFeature)
	if !report.Blocked() {
		t.Errorf("expected hard error without a feature, got %+v", report)
	}

	noPrimaryDate := map[string]annotations.FlatEntry{
		"value": {Category: "feature"},
		"dated": {Category: "time"},
	}
	report = annotations.ValidateRequirements(noPrimaryDate)
	if report.Blocked() {
		t.Errorf("missing primary date must not block, got %+v", report)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("expected a warning for missing primary date, got %+v", report)
	}
}
