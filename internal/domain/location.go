package domain

import "time"

// Location is a point in degrees with an optional human readable address.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Valid reports whether the coordinates are inside the WGS84 ranges.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// LocationSample is one entry in a driver's location history.
type LocationSample struct {
	ID         string
	DriverID   string
	Latitude   float64
	Longitude  float64
	Speed      *float64
	Heading    *float64
	RecordedAt time.Time
}
