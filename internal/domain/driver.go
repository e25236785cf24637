package domain

import "time"

// DefaultDriverRating is assigned to every new driver.
const DefaultDriverRating = 5.0

// Vehicle describes the car a driver operates.
type Vehicle struct {
	Make        string
	Model       string
	Year        int
	PlateNumber string
	Color       string
}

// Driver represents a driver in the system. Its ID is shared with the
// driver's User record when created through registration.
type Driver struct {
	ID                string
	Name              string
	Phone             string
	Vehicle           *Vehicle
	Location          *Location
	LocationUpdatedAt time.Time
	Rating            float64
	IsOnline          bool
	TotalRides        int
	TotalEarnings     float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
