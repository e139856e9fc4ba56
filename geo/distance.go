package geo

import (
	"math"

	"github.com/poiesic/schoolfinder/core"
)

// EarthRadiusMiles is the mean Earth radius used by DistanceMiles.
const EarthRadiusMiles = 3958.8

// Unbounded is returned when a distance cannot be computed.
// It sorts and filters as farther than any real distance.
var Unbounded = math.Inf(1)

// DistanceMiles returns the great-circle distance between a and b in miles,
// rounded to one decimal place. Returns Unbounded if either side is nil.
func DistanceMiles(a, b *core.Coordinate) float64 {
	if a == nil || b == nil {
		return Unbounded
	}

	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// clamp for float error near antipodes
	h = math.Min(1, h)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(EarthRadiusMiles*c*10) / 10
}

// IsBounded reports whether d is a real distance.
func IsBounded(d float64) bool {
	return !math.IsInf(d, 1)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
