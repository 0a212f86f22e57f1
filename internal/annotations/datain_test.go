package annotations_test

import (
	"reflect"
	"testing"

	"github.com/DataAtlasHQ/DA-Backend/internal/annotations"
)

func TestNormalize_SingleFeature(t *testing.T) {
	input := annotations.AnnotationSet{
		Feature: []annotations.RawEntry{{
			Name:             "sample-feature",
			Type:             "feature",
			DisplayName:      "display-name2",
			Description:      "some desc",
			FeatureType:      "float",
			Units:            "m",
			UnitsDescription: "mm",
			Qualifies:        []string{"crop_production", "malnutrition_rate"},
			QualifierRole:    "breakdown",
			Aliases:          map[string]string{"0": "1", "2": "3"},
		}},
	}

	out := annotations.Normalize(input)

	want := map[string]annotations.FlatEntry{
		"sample-feature": {
			Category:    "feature",
			DisplayName: "display-name2",
			Description: "some desc",
			Aliases: []annotations.Alias{
				{Current: "0", New: "1", ID: 1},
				{Current: "2", New: "3", ID: 2},
			},
			IsQualifies:   true,
			Qualifies:     []string{"crop_production", "malnutrition_rate"},
			QualifierRole: "breakdown",
			Annotated:     true,
			Feature: annotations.FeatureFields{
				FeatureType:      "float",
				Units:            "m",
				UnitsDescription: "mm",
			},
		},
	}

	if !reflect.DeepEqual(out.Annotations, want) {
		t.Errorf("Normalize annotations = %+v, want %+v", out.Annotations, want)
	}
	if len(out.MultiPart) != 0 {
		t.Errorf("expected no composites, got %+v", out.MultiPart)
	}
}

func TestNormalize_GeoKeepsGadmLevel(t *testing.T) {
	input := annotations.AnnotationSet{
		Geo: []annotations.RawEntry{{
			Name:          "sample-geo",
			Type:          "geo",
			DisplayName:   "display-name3",
			Description:   "some desc2",
			GeoType:       "coordinates",
			PrimaryGeo:    true,
			ResolveToGADM: false,
			CoordFormat:   "lonlat",
			GadmLevel:     "admin2",
			Aliases:       map[string]string{"a": "b"},
		}},
	}

	out := annotations.Normalize(input)

	entry, ok := out.Annotations["sample-geo"]
	if !ok {
		t.Fatalf("expected entry for sample-geo, got %+v", out.Annotations)
	}
	if entry.Geo.GadmLevel != "admin2" {
		t.Errorf("expected gadm_level admin2, got %q", entry.Geo.GadmLevel)
	}
	if !entry.Primary {
		t.Error("expected primary to be set")
	}
	if entry.Category != "geo" {
		t.Errorf("expected category geo, got %q", entry.Category)
	}
}

func TestNormalize_SimpleGeo(t *testing.T) {
	input := annotations.AnnotationSet{
		Geo: []annotations.RawEntry{{
			Name:          "sample-geo",
			Type:          "geo",
			DisplayName:   "display-name3",
			Description:   "some desc2",
			GeoType:       "latitude",
			PrimaryGeo:    true,
			ResolveToGADM: true,
			CoordFormat:   "lonlat",
			Aliases:       map[string]string{"a": "b"},
		}},
	}

	out := annotations.Normalize(input)

	want := map[string]annotations.FlatEntry{
		"sample-geo": {
			Category:    "geo",
			DisplayName: "display-name3",
			Description: "some desc2",
			Aliases:     []annotations.Alias{{Current: "a", New: "b", ID: 1}},
			Primary:     true,
			Annotated:   true,
			Geo: annotations.GeoFields{
				GeoType:       "latitude",
				ResolveToGADM: true,
				CoordFormat:   "lonlat",
			},
		},
	}

	if !reflect.DeepEqual(out.Annotations, want) {
		t.Errorf("Normalize annotations = %+v, want %+v", out.Annotations, want)
	}
}

func TestNormalize_SinglePrimaryCountryIsNotComposite(t *testing.T) {
	// A lone primary admin-level geo is a normal standalone annotation;
	// composite detection requires at least two of them.
	input := annotations.AnnotationSet{
		Geo: []annotations.RawEntry{{
			Name:        "sample-geo",
			Type:        "geo",
			DisplayName: "display-name3",
			Description: "some desc2",
			GeoType:     "country",
			PrimaryGeo:  true,
			Aliases:     map[string]string{"a": "b"},
		}},
	}

	out := annotations.Normalize(input)

	entry, ok := out.Annotations["sample-geo"]
	if !ok {
		t.Fatalf("expected standalone entry for sample-geo, got %+v", out.Annotations)
	}
	if entry.Geo.MultiColumn {
		t.Error("single primary admin geo must not become a composite")
	}
	if entry.Geo.GeoType != "country" || !entry.Primary {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if len(out.MultiPart) != 0 {
		t.Errorf("expected no composites, got %+v", out.MultiPart)
	}
}

func TestNormalize_SimpleDate(t *testing.T) {
	input := annotations.AnnotationSet{
		Date: []annotations.RawEntry{{
			Name:        "sample-date",
			Type:        "date",
			DisplayName: "display-date",
			Description: "some desc for date",
			DateType:    "year",
			PrimaryDate: true,
			TimeFormat:  "%y",
			Aliases:     map[string]string{"a": "b"},
		}},
	}

	out := annotations.Normalize(input)

	want := map[string]annotations.FlatEntry{
		"sample-date": {
			Category:    "time",
			DisplayName: "display-date",
			Description: "some desc for date",
			Aliases:     []annotations.Alias{{Current: "a", New: "b", ID: 1}},
			Primary:     true,
			Annotated:   true,
			Date: annotations.DateFields{
				DateType:   "year",
				TimeFormat: "%y",
			},
		},
	}

	if !reflect.DeepEqual(out.Annotations, want) {
		t.Errorf("Normalize annotations = %+v, want %+v", out.Annotations, want)
	}
}

func TestNormalize_CoordinatePair(t *testing.T) {
	input := annotations.AnnotationSet{
		Geo: []annotations.RawEntry{{
			Name:          "sample-geo-lat",
			Type:          "geo",
			DisplayName:   "display-name3",
			Description:   "some desc2",
			GeoType:       "latitude",
			PrimaryGeo:    true,
			ResolveToGADM: true,
			IsGeoPair:     "sample-geo-lon",
			CoordFormat:   "lonlat",
			Aliases:       map[string]string{"a": "b"},
		}, {
			Name:          "sample-geo-lon",
			Type:          "geo",
			DisplayName:   "display-name3",
			Description:   "some desc2",
			GeoType:       "longitude",
			PrimaryGeo:    true,
			ResolveToGADM: true,
			CoordFormat:   "lonlat",
		}},
	}

	out := annotations.Normalize(input)

	want := map[string]annotations.FlatEntry{
		"sample-geo-lat + sample-geo-lon": {
			Category:      "geo",
			DisplayName:   "display-name3",
			Description:   "some desc2",
			Aliases:       []annotations.Alias{{Current: "a", New: "b", ID: 1}},
			Primary:       true,
			Annotated:     true,
			MultiPartBase: "sample-geo-lat",
			Geo: annotations.GeoFields{
				GeoType:              "latitude",
				ResolveToGADM:        true,
				CoordFormat:          "lonlat",
				CoordinatePair:       true,
				CoordinatePairColumn: "sample-geo-lon",
			},
		},
	}

	if !reflect.DeepEqual(out.Annotations, want) {
		t.Errorf("Normalize annotations = %+v, want %+v", out.Annotations, want)
	}

	wantComposite := annotations.Composite{
		Name:       "sample-geo-lat + sample-geo-lon",
		Members:    []string{"sample-geo-lat", "sample-geo-lon"},
		BaseColumn: "sample-geo-lat",
		Category:   "geo",
	}
	if got := out.MultiPart["sample-geo-lat + sample-geo-lon"]; !reflect.DeepEqual(got, wantComposite) {
		t.Errorf("composite = %+v, want %+v", got, wantComposite)
	}
}

func TestNormalize_MultiPartDate(t *testing.T) {
	input := annotations.AnnotationSet{
		Date: []annotations.RawEntry{{
			Name:        "date-year",
			Type:        "date",
			DateType:    "year",
			Description: "A description for multipart field",
			TimeFormat:  "%y",
			AssociatedColumns: map[string]string{
				"Month": "date-month",
				"Day":   "date-day",
			},
			PrimaryDate: true,
		}, {
			Name:        "date-month",
			Type:        "date",
			DateType:    "month",
			TimeFormat:  "%m",
			Description: "A description for multipart field",
			PrimaryDate: true,
		}, {
			Name:        "date-day",
			Type:        "date",
			DateType:    "day",
			TimeFormat:  "%d",
			Description: "A description for multipart field",
			PrimaryDate: true,
		}},
	}

	out := annotations.Normalize(input)

	want := map[string]annotations.FlatEntry{
		"date-year + date-month + date-day": {
			Category:      "time",
			Description:   "A description for multipart field",
			Primary:       true,
			Annotated:     true,
			MultiPartBase: "date-year",
			Date: annotations.DateFields{
				DateType:    "year",
				TimeFormat:  "%y",
				MultiColumn: true,
				Parts: annotations.DateParts{
					Day:         "date-day",
					Month:       "date-month",
					Year:        "date-year",
					DayFormat:   "%d",
					MonthFormat: "%m",
					YearFormat:  "%y",
				},
			},
		},
	}

	if !reflect.DeepEqual(out.Annotations, want) {
		t.Errorf("Normalize annotations = %+v, want %+v", out.Annotations, want)
	}

	wantComposite := annotations.Composite{
		Name:       "date-year + date-month + date-day",
		Members:    []string{"date-year", "date-month", "date-day"},
		BaseColumn: "date-year",
		Category:   "time",
	}
	if got := out.MultiPart["date-year + date-month + date-day"]; !reflect.DeepEqual(got, wantComposite) {
		t.Errorf("composite = %+v, want %+v", got, wantComposite)
	}
}

func multiAdminGeoEntry(name, geoType string, primary bool) annotations.RawEntry {
	return annotations.RawEntry{
		Name:          name,
		Type:          "geo",
		GeoType:       geoType,
		Description:   "merged geo description from multi admin",
		DisplayName:   "SUPER_GGEO",
		PrimaryGeo:    primary,
		Aliases:       map[string]string{},
		Qualifies:     []string{},
		QualifierRole: "breakdown",
	}
}

func TestNormalize_MultiAdminGeo(t *testing.T) {
	// Discovery order (admin1 first) must survive into the synthetic name.
	input := annotations.AnnotationSet{
		Geo: []annotations.RawEntry{
			multiAdminGeoEntry("admin1", "state/territory", true),
			multiAdminGeoEntry("admin2", "county/district", true),
			multiAdminGeoEntry("admin3", "municipality/town", true),
			multiAdminGeoEntry("admin0", "country", true),
		},
	}

	out := annotations.Normalize(input)

	want := map[string]annotations.FlatEntry{
		"admin1 + admin2 + admin3 + admin0": {
			Category:      "geo",
			DisplayName:   "SUPER_GGEO",
			Description:   "merged geo description from multi admin",
			Aliases:       []annotations.Alias{},
			Qualifies:     []string{},
			QualifierRole: "breakdown",
			Primary:       true,
			Annotated:     true,
			MultiPartBase: "admin1",
			Geo: annotations.GeoFields{
				GeoType:     "state/territory",
				MultiColumn: true,
				Admin0:      "admin0",
				Admin1:      "admin1",
				Admin2:      "admin2",
				Admin3:      "admin3",
			},
		},
	}

	if !reflect.DeepEqual(out.Annotations, want) {
		t.Errorf("Normalize annotations = %+v, want %+v", out.Annotations, want)
	}

	wantComposite := annotations.Composite{
		Name:       "admin1 + admin2 + admin3 + admin0",
		Members:    []string{"admin1", "admin2", "admin3", "admin0"},
		BaseColumn: "admin1",
		Category:   "geo",
	}
	if got := out.MultiPart["admin1 + admin2 + admin3 + admin0"]; !reflect.DeepEqual(got, wantComposite) {
		t.Errorf("composite = %+v, want %+v", got, wantComposite)
	}
}

func TestNormalize_NonPrimaryAdminsStaySeparate(t *testing.T) {
	input := annotations.AnnotationSet{
		Geo: []annotations.RawEntry{
			multiAdminGeoEntry("admin1", "state/territory", false),
			multiAdminGeoEntry("admin2", "county/district", false),
			multiAdminGeoEntry("admin3", "municipality/town", false),
			multiAdminGeoEntry("admin0", "country", false),
		},
	}

	out := annotations.Normalize(input)

	if len(out.Annotations) != 4 {
		t.Fatalf("expected 4 standalone annotations, got %d: %+v", len(out.Annotations), out.Annotations)
	}
	if len(out.MultiPart) != 0 {
		t.Errorf("expected no composites, got %+v", out.MultiPart)
	}

	for name, geoType := range map[string]string{
		"admin0": "country",
		"admin1": "state/territory",
		"admin2": "county/district",
		"admin3": "municipality/town",
	} {
		entry, ok := out.Annotations[name]
		if !ok {
			t.Errorf("missing standalone entry for %s", name)
			continue
		}
		if entry.Geo.GeoType != geoType || entry.Primary || entry.Geo.MultiColumn {
			t.Errorf("entry %s = %+v, want standalone non-primary %s", name, entry, geoType)
		}
	}
}

func TestNormalize_CompositeMembersAreDisjoint(t *testing.T) {
	input := annotations.AnnotationSet{
		Geo: []annotations.RawEntry{{
			Name:       "lat",
			Type:       "geo",
			GeoType:    "latitude",
			PrimaryGeo: true,
			IsGeoPair:  "lon",
		}, {
			Name:    "lon",
			Type:    "geo",
			GeoType: "longitude",
		}},
		Date: []annotations.RawEntry{{
			Name:              "yy",
			Type:              "date",
			DateType:          "year",
			TimeFormat:        "%y",
			AssociatedColumns: map[string]string{"Month": "mm", "Day": "dd"},
		}, {
			Name: "mm", Type: "date", DateType: "month", TimeFormat: "%m",
		}, {
			Name: "dd", Type: "date", DateType: "day", TimeFormat: "%d",
		}},
	}

	out := annotations.Normalize(input)

	if len(out.MultiPart) != 2 {
		t.Fatalf("expected 2 composites, got %+v", out.MultiPart)
	}

	seen := map[string]string{}
	for name, composite := range out.MultiPart {
		for _, member := range composite.Members {
			if other, dup := seen[member]; dup {
				t.Errorf("column %s belongs to both %s and %s", member, other, name)
			}
			seen[member] = name
		}
	}

	// Members must not survive as standalone flat entries.
	for _, member := range []string{"lon", "mm", "dd"} {
		if _, ok := out.Annotations[member]; ok {
			t.Errorf("member %s still present as standalone entry", member)
		}
	}
}
