package chat

import (
	"encoding/json"
	"strconv"
)

// Point is a user-shared coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// ParsePoint reads a coordinate pair out of a loosely-typed location
// payload. Both short and long key forms are accepted. A missing,
// non-numeric, or zero coordinate means no usable location; (0, 0) is in
// the Gulf of Guinea and always indicates an unset client field here.
func ParsePoint(loc map[string]any) (Point, bool) {
	if loc == nil {
		return Point{}, false
	}
	lat, latOK := coordinate(loc, "lat", "latitude")
	lon, lonOK := coordinate(loc, "lng", "longitude")
	if !latOK || !lonOK || lat == 0 || lon == 0 {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

func coordinate(loc map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := loc[key]; ok {
			return coerceFloat(v)
		}
	}
	return 0, false
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
