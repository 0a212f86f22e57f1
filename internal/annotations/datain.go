package annotations

import (
	"sort"
	"strings"
)

// nameSeparator joins member column names into a composite's synthetic key.
const nameSeparator = " + "

// formatAliasesIn converts the backend alias mapping into the ordered
// list form the UI edits. IDs are 1-based. Keys are visited in sorted
// order so ids are stable across runs.
func formatAliasesIn(aliases map[string]string) []Alias {
	if aliases == nil {
		return nil
	}

	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Alias, 0, len(keys))
	for i, k := range keys {
		out = append(out, Alias{Current: k, New: aliases[k], ID: i + 1})
	}
	return out
}

// flatten applies the common per-entry transform: the raw type becomes
// the flat category ("date" → "time"), the per-category primary flags
// merge into one, and the category-specific fields move into their
// typed sub-record.
func flatten(e RawEntry) FlatEntry {
	category := e.Type
	if category == "date" {
		category = CategoryTime
	}

	flat := FlatEntry{
		Category:      category,
		DisplayName:   e.DisplayName,
		Description:   e.Description,
		Aliases:       formatAliasesIn(e.Aliases),
		Primary:       e.PrimaryGeo || e.PrimaryDate,
		IsQualifies:   len(e.Qualifies) > 0,
		Qualifies:     e.Qualifies,
		QualifierRole: e.QualifierRole,
		Annotated:     true,
	}

	switch e.Type {
	case "geo":
		flat.Geo = GeoFields{
			GeoType:       e.GeoType,
			ResolveToGADM: e.ResolveToGADM,
			CoordFormat:   e.CoordFormat,
			GadmLevel:     e.GadmLevel,
		}
	case "date":
		flat.Date = DateFields{
			DateType:   e.DateType,
			TimeFormat: e.TimeFormat,
		}
	case "feature":
		flat.Feature = FeatureFields{
			FeatureType:      e.FeatureType,
			Units:            e.Units,
			UnitsDescription: e.UnitsDescription,
		}
	}

	return flat
}

// flattenEntry formats one raw entry for the flat mapping. For
// composite dates and coordinate pairs it returns the synthetic
// "a + b" key and the non-base member columns; simple entries return
// the column name and no members.
func flattenEntry(e RawEntry) (name string, flat FlatEntry, members []string) {
	name = e.Name
	flat = flatten(e)

	switch {
	case e.Type == "date" && len(e.AssociatedColumns) > 0:
		// Composite date. Non-base parts join the name in canonical
		// year/month/day order (the backend's map has no order of its own).
		for _, part := range []string{DatePartYear, DatePartMonth, DatePartDay} {
			for key, column := range e.AssociatedColumns {
				if strings.ToLower(key) != part || column == "" {
					continue
				}
				members = append(members, column)
				flat.Date.Parts.SetColumn(part, column)
			}
		}

		name = strings.Join(append([]string{e.Name}, members...), nameSeparator)
		flat.Date.Parts.SetColumn(e.DateType, e.Name)
		flat.Date.Parts.SetFormat(e.DateType, e.TimeFormat)
		flat.Date.MultiColumn = true
		flat.MultiPartBase = e.Name

	case e.Type == "geo" && e.IsGeoPair != "":
		// Coordinate pair; the annotated column anchors the pair.
		flat.Geo.CoordinatePair = true
		flat.Geo.CoordinatePairColumn = e.IsGeoPair
		name = e.Name + nameSeparator + e.IsGeoPair
		members = []string{e.IsGeoPair}
		flat.MultiPartBase = e.Name
	}

	return name, flat, members
}

// flattenAdminComposite merges ≥2 primary admin-level geo entries into
// one "build a geo" flat entry. The first-discovered column is the
// template and the composite base; the synthetic name preserves
// discovery order.
func flattenAdminComposite(columns []string, entries map[string]RawEntry) (string, FlatEntry) {
	flat := flatten(entries[columns[0]])
	flat.Primary = true
	flat.Geo.MultiColumn = true
	flat.Geo.GadmLevel = ""
	flat.MultiPartBase = columns[0]

	for _, column := range columns {
		e := entries[column]
		flat.Geo.SetAdmin(adminLevelForGeoType(e.GeoType), e.Name)
	}

	return strings.Join(columns, nameSeparator), flat
}

// Normalize converts the backend's categorized annotation arrays into
// the flat per-column mapping the UI edits, plus the composite
// descriptors for every multi-part relationship found.
func Normalize(set AnnotationSet) FlatSet {
	out := FlatSet{
		Annotations: map[string]FlatEntry{},
		MultiPart:   map[string]Composite{},
	}

	// Pre-pass: ≥2 columns annotated as primary admin regions indicate
	// a multi-admin composite (the backend never flags it explicitly).
	// A single such column stays a normal standalone geo annotation.
	var adminColumns []string
	adminEntries := map[string]RawEntry{}
	for _, g := range set.Geo {
		if g.PrimaryGeo && adminLevelForGeoType(g.GeoType) != "" {
			adminColumns = append(adminColumns, g.Name)
			adminEntries[g.Name] = g
		}
	}

	targetGeo := set.Geo
	if len(adminColumns) > 1 {
		targetGeo = make([]RawEntry, 0, len(set.Geo))
		for _, g := range set.Geo {
			if _, ok := adminEntries[g.Name]; !ok {
				targetGeo = append(targetGeo, g)
			}
		}
	}

	ungrouped := make([]RawEntry, 0, len(targetGeo)+len(set.Date)+len(set.Feature))
	ungrouped = append(ungrouped, targetGeo...)
	ungrouped = append(ungrouped, set.Date...)
	ungrouped = append(ungrouped, set.Feature...)

	for _, e := range ungrouped {
		name, flat, members := flattenEntry(e)
		out.Annotations[name] = flat

		if len(members) > 0 {
			out.MultiPart[name] = Composite{
				Name:       name,
				Members:    append([]string{e.Name}, members...),
				BaseColumn: e.Name,
				Category:   flat.Category,
			}
		}
	}

	if len(adminColumns) > 1 {
		name, flat := flattenAdminComposite(adminColumns, adminEntries)
		out.Annotations[name] = flat
		out.MultiPart[name] = Composite{
			Name:       name,
			Members:    adminColumns,
			BaseColumn: adminColumns[0],
			Category:   CategoryGeo,
		}
	}

	// Backfill each date composite's per-part formats from the members'
	// own standalone entries before those get dropped.
	for name, composite := range out.MultiPart {
		entry, ok := out.Annotations[name]
		if !ok || !entry.Date.MultiColumn {
			continue
		}
		for _, member := range composite.Members {
			if member == composite.BaseColumn {
				continue
			}
			memberEntry, ok := out.Annotations[member]
			if !ok {
				continue
			}
			entry.Date.Parts.SetFormat(memberEntry.Date.DateType, memberEntry.Date.TimeFormat)
		}
		out.Annotations[name] = entry
	}

	// Composites replace their members entirely in the flat mapping:
	// the member columns must not also appear standalone.
	for _, composite := range out.MultiPart {
		for _, member := range composite.Members {
			if member == composite.BaseColumn {
				continue
			}
			delete(out.Annotations, member)
		}
	}

	return out
}
