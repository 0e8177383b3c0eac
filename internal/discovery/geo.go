package discovery

import (
	"math"
	"strconv"
)

// earthRadiusKm is the WGS84 mean Earth radius.
const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance between two points using the
// haversine formula. Inputs are decimal degrees; the result is in kilometers
// and never negative.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// ParseLatLng parses coordinate strings as stored on events. Malformed or
// out-of-range values report ok=false, which callers must treat as
// "distance unknown" rather than an error.
func ParseLatLng(latStr, lngStr string) (lat, lng float64, ok bool) {
	if latStr == "" || lngStr == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}
