package geo

import (
	"math"

	"github.com/poiesic/schoolfinder/core"
)

// Coordinates extracts the coordinates of institutions that have one.
func Coordinates(institutions []core.Institution) []core.Coordinate {
	coords := make([]core.Coordinate, 0, len(institutions))
	for i := range institutions {
		if institutions[i].Coords != nil {
			coords = append(coords, *institutions[i].Coords)
		}
	}
	return coords
}

// Spread returns the diagonal of the bounding box around the institutions'
// coordinates in miles. It is a cheap proxy for how scattered a set is.
// Returns 0 when fewer than two institutions have coordinates.
func Spread(institutions []core.Institution) float64 {
	coords := Coordinates(institutions)
	if len(coords) < 2 {
		return 0
	}

	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	for _, c := range coords {
		minLat = math.Min(minLat, c.Lat)
		maxLat = math.Max(maxLat, c.Lat)
		minLng = math.Min(minLng, c.Lng)
		maxLng = math.Max(maxLng, c.Lng)
	}

	return DistanceMiles(
		&core.Coordinate{Lat: minLat, Lng: minLng},
		&core.Coordinate{Lat: maxLat, Lng: maxLng},
	)
}

// Centroid returns the arithmetic mean of the institutions' coordinates.
// The second result is false when no institution has coordinates.
func Centroid(institutions []core.Institution) (core.Coordinate, bool) {
	coords := Coordinates(institutions)
	if len(coords) == 0 {
		return core.Coordinate{}, false
	}

	var latSum, lngSum float64
	for _, c := range coords {
		latSum += c.Lat
		lngSum += c.Lng
	}
	n := float64(len(coords))
	return core.Coordinate{Lat: latSum / n, Lng: lngSum / n}, true
}
