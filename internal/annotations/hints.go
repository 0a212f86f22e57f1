package annotations

import "strings"

// ColumnHint is the per-column output of the type inference service,
// merged into a column's default annotation when the user has not
// annotated it yet.
type ColumnHint struct {
	Category      string `json:"category"`
	Subcategory   string `json:"subcategory"`
	Format        string `json:"format"`
	TypeInference string `json:"type_inference"`
	MatchType     string `json:"match_type,omitempty"`
	FuzzyColumn   string `json:"fuzzyColumn,omitempty"`
}

// DefaultEntry returns the editable defaults for a column with no
// saved annotation and no hint.
func DefaultEntry() FlatEntry {
	return FlatEntry{
		Category:      CategoryFeature,
		QualifierRole: "breakdown",
		Geo: GeoFields{
			GeoType:     GeoTypeLatitude,
			CoordFormat: "lonlat",
			GadmLevel:   "admin3",
		},
		Date: DateFields{
			DateType: DatePartYear,
		},
		Feature: FeatureFields{
			FeatureType: "float",
		},
	}
}

// InitialValues merges an inference hint into the defaults. Empty hint
// fields never clobber a default value. columns lists the dataset's
// column names, used to guess the other half of a coordinate pair.
func InitialValues(hint *ColumnHint, columns []string) FlatEntry {
	entry := DefaultEntry()
	if hint == nil {
		return entry
	}

	category := hint.Category
	if !isKnownCategory(category) {
		// Inference can time out and report odd categories; treat the
		// column as an ordinary feature.
		category = CategoryFeature
	}
	entry.Category = category

	if hint.TypeInference != "" {
		entry.Feature.FeatureType = hint.TypeInference
	}

	switch category {
	case CategoryGeo:
		if hint.Subcategory != "" {
			entry.Geo.GeoType = strings.ToLower(hint.Subcategory)
		}
		if pair := matchCoordinatePair(hint.Subcategory, columns); pair != "" {
			entry.Geo.CoordinatePairColumn = pair
		}
	case CategoryTime:
		if hint.Subcategory != "" {
			entry.Date.DateType = hint.Subcategory
		}
		if hint.Format != "" {
			entry.Date.TimeFormat = hint.Format
		}
	}

	return entry
}

func isKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// matchCoordinatePair scans the dataset's columns for a name commonly
// used for the other half of a lat/lon pair.
func matchCoordinatePair(subcategory string, columns []string) string {
	if subcategory != GeoTypeLatitude && subcategory != GeoTypeLongitude {
		return ""
	}

	for _, candidate := range LatLonMappings[oppositeCoordinate(subcategory)] {
		for _, column := range columns {
			if strings.EqualFold(column, candidate) {
				return column
			}
		}
	}
	return ""
}
