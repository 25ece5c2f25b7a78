package geo

import "math"

// EarthRadiusMiles is the mean Earth radius used for all proximity math.
const EarthRadiusMiles = 3959.0

// Distance returns the great-circle distance in miles between two
// latitude/longitude pairs, computed with the haversine formula.
// Inputs are degrees. Identical coordinates yield exactly 0.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}
