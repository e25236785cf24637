package mongo

import (
	"time"

	"ridehail/internal/domain"
)

type profileDocument struct {
	Name   string `bson:"name,omitempty"`
	Avatar string `bson:"avatar,omitempty"`
}

type userDocument struct {
	ID        string           `bson:"_id"`
	Phone     string           `bson:"phone"`
	UserType  string           `bson:"user_type"`
	Language  string           `bson:"language"`
	Profile   *profileDocument `bson:"profile,omitempty"`
	CreatedAt time.Time        `bson:"created_at"`
}

func newUserDocument(u *domain.User) userDocument {
	doc := userDocument{
		ID:        u.ID,
		Phone:     u.Phone,
		UserType:  string(u.Role),
		Language:  string(u.Language),
		CreatedAt: u.CreatedAt,
	}
	if u.Profile != nil {
		doc.Profile = &profileDocument{Name: u.Profile.Name, Avatar: u.Profile.Avatar}
	}
	return doc
}

func (d userDocument) toDomain() *domain.User {
	u := &domain.User{
		ID:        d.ID,
		Phone:     d.Phone,
		Role:      domain.Role(d.UserType),
		Language:  domain.Language(d.Language),
		CreatedAt: d.CreatedAt,
	}
	if d.Profile != nil {
		u.Profile = &domain.Profile{Name: d.Profile.Name, Avatar: d.Profile.Avatar}
	}
	return u
}

type locationDocument struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
	Address   string  `bson:"address,omitempty"`
}

func newLocationDocument(l domain.Location) locationDocument {
	return locationDocument{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
}

func (d locationDocument) toDomain() domain.Location {
	return domain.Location{Latitude: d.Latitude, Longitude: d.Longitude, Address: d.Address}
}

type vehicleDocument struct {
	Make        string `bson:"make,omitempty"`
	Model       string `bson:"model,omitempty"`
	Year        int    `bson:"year,omitempty"`
	PlateNumber string `bson:"plate_number,omitempty"`
	Color       string `bson:"color,omitempty"`
}

type driverDocument struct {
	ID                string            `bson:"_id"`
	Name              string            `bson:"name,omitempty"`
	Phone             string            `bson:"phone,omitempty"`
	Vehicle           *vehicleDocument  `bson:"vehicle,omitempty"`
	CurrentLocation   *locationDocument `bson:"current_location,omitempty"`
	LocationUpdatedAt *time.Time        `bson:"location_updated_at,omitempty"`
	Rating            float64           `bson:"rating"`
	IsOnline          bool              `bson:"is_online"`
	TotalRides        int               `bson:"total_rides"`
	TotalEarnings     float64           `bson:"total_earnings"`
	CreatedAt         time.Time         `bson:"created_at"`
	UpdatedAt         time.Time         `bson:"updated_at"`
}

func newDriverDocument(d *domain.Driver) driverDocument {
	doc := driverDocument{
		ID:            d.ID,
		Name:          d.Name,
		Phone:         d.Phone,
		Rating:        d.Rating,
		IsOnline:      d.IsOnline,
		TotalRides:    d.TotalRides,
		TotalEarnings: d.TotalEarnings,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Vehicle != nil {
		doc.Vehicle = &vehicleDocument{
			Make:        d.Vehicle.Make,
			Model:       d.Vehicle.Model,
			Year:        d.Vehicle.Year,
			PlateNumber: d.Vehicle.PlateNumber,
			Color:       d.Vehicle.Color,
		}
	}
	if d.Location != nil {
		loc := newLocationDocument(*d.Location)
		doc.CurrentLocation = &loc
	}
	if !d.LocationUpdatedAt.IsZero() {
		at := d.LocationUpdatedAt
		doc.LocationUpdatedAt = &at
	}
	return doc
}

func (d driverDocument) toDomain() *domain.Driver {
	driver := &domain.Driver{
		ID:            d.ID,
		Name:          d.Name,
		Phone:         d.Phone,
		Rating:        d.Rating,
		IsOnline:      d.IsOnline,
		TotalRides:    d.TotalRides,
		TotalEarnings: d.TotalEarnings,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Vehicle != nil {
		driver.Vehicle = &domain.Vehicle{
			Make:        d.Vehicle.Make,
			Model:       d.Vehicle.Model,
			Year:        d.Vehicle.Year,
			PlateNumber: d.Vehicle.PlateNumber,
			Color:       d.Vehicle.Color,
		}
	}
	if d.CurrentLocation != nil {
		loc := d.CurrentLocation.toDomain()
		driver.Location = &loc
	}
	if d.LocationUpdatedAt != nil {
		driver.LocationUpdatedAt = *d.LocationUpdatedAt
	}
	return driver
}

type locationSampleDocument struct {
	ID        string    `bson:"_id"`
	DriverID  string    `bson:"driver_id"`
	Latitude  float64   `bson:"latitude"`
	Longitude float64   `bson:"longitude"`
	Speed     *float64  `bson:"speed,omitempty"`
	Heading   *float64  `bson:"heading,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

type rideDocument struct {
	ID          string           `bson:"_id"`
	RiderID     string           `bson:"rider_id"`
	DriverID    *string          `bson:"driver_id"`
	Pickup      locationDocument `bson:"pickup"`
	Destination locationDocument `bson:"destination"`
	Status      string           `bson:"status"`
	Fare        float64          `bson:"fare"`
	Distance    float64          `bson:"distance"`
	Duration    string           `bson:"duration"`
	CreatedAt   time.Time        `bson:"created_at"`
	AcceptedAt  *time.Time       `bson:"accepted_at,omitempty"`
	CompletedAt *time.Time       `bson:"completed_at,omitempty"`
}

func newRideDocument(r *domain.Ride) rideDocument {
	doc := rideDocument{
		ID:          r.ID,
		RiderID:     r.RiderID,
		Pickup:      newLocationDocument(r.Pickup),
		Destination: newLocationDocument(r.Destination),
		Status:      string(r.Status),
		Fare:        r.Fare,
		Distance:    r.Distance,
		Duration:    r.Duration,
		CreatedAt:   r.CreatedAt,
		AcceptedAt:  timePtr(r.AcceptedAt),
		CompletedAt: timePtr(r.CompletedAt),
	}
	if r.DriverID != "" {
		id := r.DriverID
		doc.DriverID = &id
	}
	return doc
}

func (d rideDocument) toDomain() *domain.Ride {
	ride := &domain.Ride{
		ID:          d.ID,
		RiderID:     d.RiderID,
		Pickup:      d.Pickup.toDomain(),
		Destination: d.Destination.toDomain(),
		Status:      domain.RideStatus(d.Status),
		Fare:        d.Fare,
		Distance:    d.Distance,
		Duration:    d.Duration,
		CreatedAt:   d.CreatedAt,
	}
	if d.DriverID != nil {
		ride.DriverID = *d.DriverID
	}
	if d.AcceptedAt != nil {
		ride.AcceptedAt = *d.AcceptedAt
	}
	if d.CompletedAt != nil {
		ride.CompletedAt = *d.CompletedAt
	}
	return ride
}

type ratingDocument struct {
	ID        string    `bson:"_id"`
	RideID    string    `bson:"ride_id"`
	RaterID   string    `bson:"rater_id"`
	RatedID   string    `bson:"rated_id"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

type tripDocument struct {
	ID        string     `bson:"_id"`
	DriverID  string     `bson:"driver_id"`
	RideID    string     `bson:"ride_id,omitempty"`
	Fare      float64    `bson:"fare"`
	StartTime *time.Time `bson:"start_time,omitempty"`
	EndTime   *time.Time `bson:"end_time,omitempty"`
	Distance  float64    `bson:"distance"`
	CreatedAt time.Time  `bson:"created_at"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
