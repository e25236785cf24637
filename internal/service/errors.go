package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDestinationLocation is returned when destination coordinates are invalid.
	ErrInvalidDestinationLocation = errors.New("invalid destination location")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidRideStatus is returned for an unknown status value.
	ErrInvalidRideStatus = errors.New("invalid ride status")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("ride status transition not allowed")

	// ErrRideNotInRequestedState is returned when accepting a ride that is no longer requested.
	ErrRideNotInRequestedState = errors.New("ride not in requested state")

	// ErrRideAlreadyTaken is returned to the loser of an accept race.
	ErrRideAlreadyTaken = errors.New("ride already accepted by another driver")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidRatingParty is returned when rater or rated ID is empty.
	ErrInvalidRatingParty = errors.New("rater and rated ids are required")

	// ErrInvalidPhone is returned when a phone number is empty.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidRole is returned for a role other than rider or driver.
	ErrInvalidRole = errors.New("invalid user type")

	// ErrInvalidLanguage is returned for an unsupported language.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidCode is returned when a verification code is wrong, expired or already used.
	ErrInvalidCode = errors.New("invalid or expired verification code")

	// ErrInvalidFare is returned when a trip fare is negative.
	ErrInvalidFare = errors.New("invalid fare")

	// ErrInvalidTimeRange is returned when start is after end.
	ErrInvalidTimeRange = errors.New("start must not be after end")

	// ErrInvalidDriverName is returned when registering a driver without a name.
	ErrInvalidDriverName = errors.New("driver name is required")
)
