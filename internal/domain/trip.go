package domain

import "time"

// Trip is a completed, billable unit of driver work used for earnings
// reports. RideID is empty for trips logged directly by a driver.
type Trip struct {
	ID        string
	DriverID  string
	RideID    string
	Fare      float64
	StartTime time.Time
	EndTime   time.Time
	Distance  float64
	CreatedAt time.Time
}
