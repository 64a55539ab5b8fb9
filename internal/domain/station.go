package domain

import "time"

// Station is read-only reference data: a transit stop that can be suggested
// as a convening point.
type Station struct {
	ID        int64
	Name      string
	Line      string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

// RankedStation is a station together with its great-circle distance in metres
// from a suggestion's centroid.
type RankedStation struct {
	Station
	DistanceMeters float64
}

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Suggestion is the result of a place suggestion. A nil Center means no places
// have been proposed yet; Stations is then empty.
type Suggestion struct {
	Center   *Coordinate
	Stations []RankedStation
}

// Empty reports whether the suggestion carries no centroid.
func (s Suggestion) Empty() bool {
	return s.Center == nil
}
