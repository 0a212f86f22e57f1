package annotations

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// formatAliasesOut converts the ordered alias list back into the
// mapping the backend stores. Always returns a non-nil map.
func formatAliasesOut(aliases []Alias) map[string]string {
	out := make(map[string]string, len(aliases))
	for _, a := range aliases {
		out[a.Current] = a.New
	}
	return out
}

// baseRecord builds the outgoing record from the fields every category
// shares. The flat category becomes the raw type; qualifier links are
// cleared whenever the qualifier toggle is off, so stale selections
// never reach the backend.
func baseRecord(name string, e FlatEntry) RawEntry {
	r := RawEntry{
		Name:          name,
		Type:          e.Category,
		DisplayName:   e.DisplayName,
		Description:   e.Description,
		Aliases:       formatAliasesOut(e.Aliases),
		Qualifies:     e.Qualifies,
		QualifierRole: e.QualifierRole,
	}

	if !e.IsQualifies || r.Qualifies == nil {
		r.Qualifies = []string{}
	}

	return r
}

func oppositeCoordinate(geoType string) string {
	if geoType == GeoTypeLongitude {
		return GeoTypeLatitude
	}
	return GeoTypeLongitude
}

// denormalizeDate emits the backend records for one flat time entry.
// A composite date expands into one record per member column (each
// with its own date_type and time_format), with the base record last
// carrying associated_columns.
func denormalizeDate(name string, e FlatEntry, out *AnnotationSet) {
	rec := baseRecord(name, e)
	// NOTE the flat shape says "time", the backend endpoints say "date".
	rec.Type = "date"
	rec.PrimaryDate = e.Primary
	rec.DateType = e.Date.DateType
	rec.TimeFormat = e.Date.TimeFormat

	if e.MultiPartBase == "" {
		out.Date = append(out.Date, rec)
		return
	}

	rec.Name = e.MultiPartBase
	rec.AssociatedColumns = map[string]string{}

	var memberParts []string
	for _, part := range []string{DatePartDay, DatePartMonth, DatePartYear} {
		column := e.Date.Parts.Column(part)
		if column == "" || column == e.MultiPartBase {
			continue
		}
		rec.AssociatedColumns[titleCaser.String(part)] = column
		memberParts = append(memberParts, part)
	}

	for _, part := range memberParts {
		member := rec
		member.Name = e.Date.Parts.Column(part)
		member.DateType = part
		member.TimeFormat = e.Date.Parts.Format(part)
		member.AssociatedColumns = nil
		out.Date = append(out.Date, member)
	}

	out.Date = append(out.Date, rec)
}

// denormalizeGeo emits the backend records for one flat geo entry.
// Multi-admin composites expand into one record per selected admin
// member; coordinate pairs emit the pair column first and the base
// (carrying is_geo_pair) last.
func denormalizeGeo(name string, e FlatEntry, out *AnnotationSet) {
	rec := baseRecord(name, e)
	rec.PrimaryGeo = e.Primary
	rec.GeoType = e.Geo.GeoType
	rec.ResolveToGADM = e.Geo.ResolveToGADM
	rec.CoordFormat = e.Geo.CoordFormat

	isCoordinatePair := e.Geo.CoordinatePair && e.Geo.CoordinatePairColumn != ""

	// gadm_level only travels out on primary coordinate columns.
	if e.Primary && (e.Geo.GeoType == GeoTypeCoordinates || isCoordinatePair) {
		rec.GadmLevel = e.Geo.GadmLevel
	}

	if e.MultiPartBase != "" {
		rec.Name = e.MultiPartBase

		switch {
		case e.Geo.MultiColumn:
			for _, level := range AdminLevels {
				column := e.Geo.Admin(level)
				// Unselected build-a-geo slots are empty; skip them.
				if column == "" || column == e.MultiPartBase {
					continue
				}
				member := rec
				member.Name = column
				member.GeoType = GeoAdmins[level]
				out.Geo = append(out.Geo, member)
			}
		case isCoordinatePair:
			rec.IsGeoPair = e.Geo.CoordinatePairColumn

			pair := rec
			pair.Name = e.Geo.CoordinatePairColumn
			pair.GeoType = oppositeCoordinate(rec.GeoType)
			pair.IsGeoPair = ""
			out.Geo = append(out.Geo, pair)
		}
	}

	out.Geo = append(out.Geo, rec)
}

// Denormalize converts the UI's flat mapping back into the backend's
// three categorized arrays, expanding composites into one record per
// underlying column. Entries are processed in sorted key order so the
// output is deterministic.
func Denormalize(flat map[string]FlatEntry) AnnotationSet {
	out := AnnotationSet{
		Geo:     []RawEntry{},
		Date:    []RawEntry{},
		Feature: []RawEntry{},
	}

	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := flat[name]
		if e.IsZero() {
			continue
		}

		switch e.Category {
		case CategoryFeature:
			rec := baseRecord(name, e)
			rec.FeatureType = e.Feature.FeatureType
			rec.Units = e.Feature.Units
			rec.UnitsDescription = e.Feature.UnitsDescription
			out.Feature = append(out.Feature, rec)
		case CategoryTime:
			denormalizeDate(name, e, &out)
		case CategoryGeo:
			denormalizeGeo(name, e, &out)
		}
	}

	return out
}
