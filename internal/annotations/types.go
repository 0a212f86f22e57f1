package annotations

// RawEntry is one backend-shaped annotation record. The backend stores
// annotations in three categorized arrays (see AnnotationSet); each
// entry carries the common fields plus the fields of its own category.
type RawEntry struct {
	Name          string            `json:"name"`
	Type          string            `json:"type,omitempty"`
	DisplayName   string            `json:"display_name"`
	Description   string            `json:"description,omitempty"`
	Aliases       map[string]string `json:"aliases,omitempty"`
	Qualifies     []string          `json:"qualifies,omitempty"`
	QualifierRole string            `json:"qualifierrole,omitempty"`

	// geo
	GeoType       string `json:"geo_type,omitempty"`
	PrimaryGeo    bool   `json:"primary_geo,omitempty"`
	ResolveToGADM bool   `json:"resolve_to_gadm,omitempty"`
	CoordFormat   string `json:"coord_format,omitempty"`
	GadmLevel     string `json:"gadm_level,omitempty"`
	// IsGeoPair names the paired column for lat/lon pairs.
	IsGeoPair string `json:"is_geo_pair,omitempty"`

	// date
	DateType    string `json:"date_type,omitempty"`
	PrimaryDate bool   `json:"primary_date,omitempty"`
	TimeFormat  string `json:"time_format,omitempty"`
	// AssociatedColumns maps a date part name ("Day", "Month", "Year")
	// to the column holding that part, for composite dates.
	AssociatedColumns map[string]string `json:"associated_columns,omitempty"`

	// feature
	FeatureType      string `json:"feature_type,omitempty"`
	Units            string `json:"units,omitempty"`
	UnitsDescription string `json:"units_description,omitempty"`
}

// AnnotationSet groups raw entries the way the backend stores and
// serves them.
type AnnotationSet struct {
	Geo     []RawEntry `json:"geo"`
	Date    []RawEntry `json:"date"`
	Feature []RawEntry `json:"feature"`
}

// Alias is one ordered, editable old→new value mapping.
type Alias struct {
	Current string `json:"current"`
	New     string `json:"new"`
	ID      int    `json:"id"`
}

// GeoFields holds the geo-specific part of a FlatEntry.
type GeoFields struct {
	GeoType       string `json:"geo_type,omitempty"`
	ResolveToGADM bool   `json:"resolve_to_gadm,omitempty"`
	CoordFormat   string `json:"coord_format,omitempty"`
	GadmLevel     string `json:"gadm_level,omitempty"`

	// Coordinate pair (lat/lon spread over two columns).
	CoordinatePair       bool   `json:"coordinate_pair,omitempty"`
	CoordinatePairColumn string `json:"coordinate_pair_column,omitempty"`

	// Multi-admin composite ("build a geo" from country/state/county/town).
	MultiColumn bool   `json:"multi_column,omitempty"`
	Admin0      string `json:"admin0,omitempty"`
	Admin1      string `json:"admin1,omitempty"`
	Admin2      string `json:"admin2,omitempty"`
	Admin3      string `json:"admin3,omitempty"`
}

// Admin returns the member column recorded for the given admin level.
func (g GeoFields) Admin(level string) string {
	switch level {
	case "admin0":
		return g.Admin0
	case "admin1":
		return g.Admin1
	case "admin2":
		return g.Admin2
	case "admin3":
		return g.Admin3
	}
	return ""
}

// SetAdmin records the member column for the given admin level.
func (g *GeoFields) SetAdmin(level, column string) {
	switch level {
	case "admin0":
		g.Admin0 = column
	case "admin1":
		g.Admin1 = column
	case "admin2":
		g.Admin2 = column
	case "admin3":
		g.Admin3 = column
	}
}

// DateParts is the fixed-shape record for a composite (multi-column)
// date: which column carries each part, and each part's time format.
type DateParts struct {
	Day   string `json:"day,omitempty"`
	Month string `json:"month,omitempty"`
	Year  string `json:"year,omitempty"`

	DayFormat   string `json:"day_format,omitempty"`
	MonthFormat string `json:"month_format,omitempty"`
	YearFormat  string `json:"year_format,omitempty"`
}

// Column returns the column recorded for a date part.
func (p DateParts) Column(part string) string {
	switch part {
	case DatePartDay:
		return p.Day
	case DatePartMonth:
		return p.Month
	case DatePartYear:
		return p.Year
	}
	return ""
}

// SetColumn records the column for a date part.
func (p *DateParts) SetColumn(part, column string) {
	switch part {
	case DatePartDay:
		p.Day = column
	case DatePartMonth:
		p.Month = column
	case DatePartYear:
		p.Year = column
	}
}

// Format returns the recorded time format for a date part.
func (p DateParts) Format(part string) string {
	switch part {
	case DatePartDay:
		return p.DayFormat
	case DatePartMonth:
		return p.MonthFormat
	case DatePartYear:
		return p.YearFormat
	}
	return ""
}

// SetFormat records the time format for a date part.
func (p *DateParts) SetFormat(part, format string) {
	switch part {
	case DatePartDay:
		p.DayFormat = format
	case DatePartMonth:
		p.MonthFormat = format
	case DatePartYear:
		p.YearFormat = format
	}
}

// DateFields holds the time-specific part of a FlatEntry.
type DateFields struct {
	DateType    string    `json:"date_type,omitempty"`
	TimeFormat  string    `json:"time_format,omitempty"`
	MultiColumn bool      `json:"multi_column,omitempty"`
	Parts       DateParts `json:"parts,omitzero"`
}

// FeatureFields holds the feature-specific part of a FlatEntry.
type FeatureFields struct {
	FeatureType      string `json:"feature_type,omitempty"`
	Units            string `json:"units,omitempty"`
	UnitsDescription string `json:"units_description,omitempty"`
}

// FlatEntry is the UI-facing shape: one record per annotated column or
// composite name. Category-specific data lives in typed sub-records
// rather than the dynamic field names the UI layer renders them as.
type FlatEntry struct {
	Category    string  `json:"category"`
	DisplayName string  `json:"display_name"`
	Description string  `json:"description,omitempty"`
	Aliases     []Alias `json:"aliases,omitempty"`

	Primary       bool     `json:"primary,omitempty"`
	IsQualifies   bool     `json:"is_qualifies,omitempty"`
	Qualifies     []string `json:"qualifies,omitempty"`
	QualifierRole string   `json:"qualifierrole,omitempty"`

	// Annotated marks entries that came from a saved annotation, as
	// opposed to hint-derived defaults.
	Annotated bool `json:"annotated,omitempty"`

	// MultiPartBase names the underlying column that anchors a
	// composite; empty for simple single-column entries.
	MultiPartBase string `json:"multi_part_base,omitempty"`

	Geo     GeoFields     `json:"geo,omitzero"`
	Date    DateFields    `json:"date,omitzero"`
	Feature FeatureFields `json:"feature,omitzero"`
}

// IsZero reports whether the entry carries no annotation at all.
func (e FlatEntry) IsZero() bool {
	return e.Category == ""
}

// Composite records that several underlying columns collectively
// represent one logical annotated field (coordinate pair, Y/M/D date,
// or multi-admin geography). Name is the synthetic "colA + colB" key
// into the flat mapping; BaseColumn is always one of Members.
type Composite struct {
	Name       string   `json:"name"`
	Members    []string `json:"members"`
	BaseColumn string   `json:"base_column"`
	Category   string   `json:"category"`
}

// FlatSet is the full Normalize output: the flat annotation mapping
// plus the composite descriptors keyed by their synthetic names.
type FlatSet struct {
	Annotations map[string]FlatEntry `json:"annotations"`
	MultiPart   map[string]Composite `json:"multi_part"`
}
