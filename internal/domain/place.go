package domain

import "time"

// Place is a coordinate proposed by a member as a candidate meeting location.
// Latitude and Longitude are WGS-84 degrees.
type Place struct {
	ID        int64
	MemberID  int64
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}
