package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested      RideStatus = "requested"
	RideStatusAccepted       RideStatus = "accepted"
	RideStatusDriverArriving RideStatus = "driverArriving"
	RideStatusInProgress     RideStatus = "inProgress"
	RideStatusCompleted      RideStatus = "completed"
	RideStatusCancelled      RideStatus = "cancelled"
)

// rideStatusRank is the forward order of the non-cancel states.
var rideStatusRank = map[RideStatus]int{
	RideStatusRequested:      0,
	RideStatusAccepted:       1,
	RideStatusDriverArriving: 2,
	RideStatusInProgress:     3,
	RideStatusCompleted:      4,
}

// Valid reports whether s is a known status.
func (s RideStatus) Valid() bool {
	if s == RideStatusCancelled {
		return true
	}
	_, ok := rideStatusRank[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// NextInOrder reports whether to is the immediate successor of from, or a
// cancellation of a non-terminal ride.
func NextInOrder(from, to RideStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == RideStatusCancelled {
		return true
	}
	fromRank, ok := rideStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := rideStatusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// Ride represents a ride request and its lifecycle.
// Fare, Distance and Duration are fixed at creation.
type Ride struct {
	ID          string
	RiderID     string
	DriverID    string
	Pickup      Location
	Destination Location
	Status      RideStatus
	Fare        float64
	Distance    float64
	Duration    string
	CreatedAt   time.Time
	AcceptedAt  time.Time
	CompletedAt time.Time
}
