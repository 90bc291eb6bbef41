// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"encoding/json"
	"math"
	"strconv"
)

// Coordinate is a geographic point in latitude/longitude order.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid reports whether both components are finite numbers.
func (c Coordinate) IsValid() bool {
	return isFinite(c.Lat) && isFinite(c.Lng)
}

// Location is a validated coordinate pair with an optional free-text address.
// A location is either fully present or absent; partial coordinate data is
// never represented as a Location.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Coordinate returns the location's coordinate pair.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}

// NormalizeLocation converts an arbitrary upstream location payload into a
// canonical Location. Both coordinates must be present and coerce to finite
// numbers, otherwise the location is absent. The address is passed through
// verbatim. Normalization is total: malformed input never raises an error.
func NormalizeLocation(lat, lng any, address string) (*Location, bool) {
	latitude, ok := coerceCoordinate(lat)
	if !ok {
		return nil, false
	}

	longitude, ok := coerceCoordinate(lng)
	if !ok {
		return nil, false
	}

	return &Location{Lat: latitude, Lng: longitude, Address: address}, true
}

// coerceCoordinate converts loosely-typed upstream values into a finite
// float64. JSON decoding may hand back float64, json.Number or a numeric
// string depending on the upstream serializer.
func coerceCoordinate(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, isFinite(value)
	case float32:
		return float64(value), isFinite(float64(value))
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}

		return parsed, isFinite(parsed)
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}

		return parsed, isFinite(parsed)
	default:
		return 0, false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
