package annotations

// Categories used by the flat (UI-facing) annotation shape.
// NOTE the backend wire shape calls the time category "date"; the flat
// shape uses "time". Normalize/Denormalize translate between the two.
const (
	CategoryTime    = "time"
	CategoryGeo     = "geo"
	CategoryFeature = "feature"
)

// Categories lists every valid flat category.
var Categories = []string{CategoryTime, CategoryGeo, CategoryFeature}

// AdminLevels is the canonical GADM admin-level order.
var AdminLevels = []string{"admin0", "admin1", "admin2", "admin3"}

// GeoAdmins maps a GADM admin level to the backend geo_type it stores.
var GeoAdmins = map[string]string{
	"admin0": "country",
	"admin1": "state/territory",
	"admin2": "county/district",
	"admin3": "municipality/town",
}

// adminLevelForGeoType inverts GeoAdmins. Returns "" for non-admin geo types.
func adminLevelForGeoType(geoType string) string {
	for _, level := range AdminLevels {
		if GeoAdmins[level] == geoType {
			return level
		}
	}
	return ""
}

// Geo types for coordinate columns.
const (
	GeoTypeLatitude    = "latitude"
	GeoTypeLongitude   = "longitude"
	GeoTypeCoordinates = "coordinates"
)

// Date part names, used for composite (multi-column) dates. Backends
// send them capitalized ("Day") in associated_columns keys.
const (
	DatePartDay   = "day"
	DatePartMonth = "month"
	DatePartYear  = "year"
)

// LatLonMappings lists column names commonly seen for lat/lon columns
// in historical data. Used to guess a coordinate pair column when only
// one half of the pair has an inference hint.
var LatLonMappings = map[string][]string{
	GeoTypeLatitude: {
		"latitude",
		"lat",
		"y",
		"GPS: Latitude",
		"d_latitude",
		"destination_latitude",
		"start_latitude",
		"end_latitude",
		"Decimal degree latitude",
		"port_latitude",
		"origin city",
	},
	GeoTypeLongitude: {
		"longitude",
		"lon",
		"x",
		"lng",
		"long",
		"Decimal degree longitude",
		"GPS: Longitude",
		"d_longitude",
		"Groundwater Site",
		"destination_longitude",
		"end_longitude",
		"lat_bounds",
		"port_longitude",
		"start_longitude",
		"origin city",
		"y",
	},
}
