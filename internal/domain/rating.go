package domain

import "time"

// Rating is one party's score for the other after a ride. Never mutated.
type Rating struct {
	ID        string
	RideID    string
	RaterID   string
	RatedID   string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
