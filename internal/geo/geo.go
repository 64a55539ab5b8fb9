// Package geo computes the centre of a set of coordinates and ranks reference
// points by great-circle distance. Everything here is pure: no I/O, no state.
package geo

import (
	"errors"
	"math"
	"slices"
)

// EarthRadiusMeters is the equatorial radius used for distance calculations.
const EarthRadiusMeters = 6378137.0

// ErrEmptyInput is returned by Centroid when it is given no points.
var ErrEmptyInput = errors.New("geo: empty input")

// Point is a WGS-84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Centroid returns the geographic centre of points.
//
// Each point is projected onto the unit sphere, the cartesian vectors are
// averaged and the mean vector is projected back to latitude/longitude. This
// behaves correctly across the antimeridian, unlike a plain average of degrees.
// A single point is returned unchanged.
func Centroid(points []Point) (Point, error) {
	switch len(points) {
	case 0:
		return Point{}, ErrEmptyInput
	case 1:
		return points[0], nil
	}

	var x, y, z float64
	for _, p := range points {
		lat, lng := radians(p.Lat), radians(p.Lng)
		x += math.Cos(lat) * math.Cos(lng)
		y += math.Cos(lat) * math.Sin(lng)
		z += math.Sin(lat)
	}
	n := float64(len(points))
	x, y, z = x/n, y/n, z/n

	lng := math.Atan2(y, x)
	lat := math.Atan2(z, math.Hypot(x, y))
	return Point{Lat: degrees(lat), Lng: degrees(lng)}, nil
}

// Distance returns the haversine great-circle distance between a and b in metres.
func Distance(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Ranked pairs a candidate with its distance from the ranking origin.
type Ranked[T any] struct {
	Item     T
	Distance float64
}

// RankByDistance orders candidates ascending by distance from origin. The sort
// is stable: candidates at equal distance keep their input order. at extracts
// the coordinate of a candidate. The input slice is not modified.
func RankByDistance[T any](origin Point, candidates []T, at func(T) Point) []Ranked[T] {
	ranked := make([]Ranked[T], len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked[T]{Item: c, Distance: Distance(origin, at(c))}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return ranked
}

// Nearest returns at most limit candidates closest to origin, nearest first.
func Nearest[T any](origin Point, candidates []T, at func(T) Point, limit int) []Ranked[T] {
	ranked := RankByDistance(origin, candidates, at)
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
