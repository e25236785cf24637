package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// respondBadRequest sends a 400 with msg.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// notFoundError names the missing entity while still matching repository.ErrNotFound.
type notFoundError struct {
	entity string
	err    error
}

func (e *notFoundError) Error() string { return e.entity + " not found" }
func (e *notFoundError) Unwrap() error { return e.err }

// describe renames a not-found error after entity and passes others through.
func describe(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &notFoundError{entity: entity, err: err}
	}
	return err
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDestinationLocation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidRideStatus),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidRatingParty),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidLanguage),
		errors.Is(err, service.ErrInvalidFare),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidDriverName):
		return http.StatusBadRequest

	// Lifecycle errors the caller resolves by re-fetching the ride
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRideNotInRequestedState),
		errors.Is(err, service.ErrRideAlreadyTaken):
		return http.StatusBadRequest

	// Verification errors
	case errors.Is(err, service.ErrInvalidCode):
		return http.StatusBadRequest

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// LocationBody is a point on the wire.
type LocationBody struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Address   string   `json:"address,omitempty"`
}

func (l LocationBody) toDomain() domain.Location {
	return domain.Location{Latitude: *l.Latitude, Longitude: *l.Longitude, Address: l.Address}
}

// LocationResponse is a point in a response.
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

func toLocationResponse(l domain.Location) LocationResponse {
	return LocationResponse{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
}

// formatTime renders t as RFC 3339, or "" when unset.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTimeQuery reads an optional RFC 3339 or YYYY-MM-DD query parameter.
// A bare date used as an end bound covers the whole day.
func parseTimeQuery(c *gin.Context, key string, endOfDay bool) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("invalid " + key + ": expected RFC 3339 timestamp or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
