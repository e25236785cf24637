package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for requesting a ride.
// The rider may be given as the rider_id query parameter instead.
type CreateRideRequest struct {
	RiderID     string       `json:"riderId,omitempty"`
	Pickup      LocationBody `json:"pickup"`
	Destination LocationBody `json:"destination"`
}

// UpdateRideRequest is the HTTP request body for a status update.
type UpdateRideRequest struct {
	Status string `json:"status" binding:"required"`
}

// RideResponse is the HTTP response for ride data.
type RideResponse struct {
	ID          string           `json:"id"`
	RiderID     string           `json:"riderId"`
	DriverID    *string          `json:"driverId"`
	Pickup      LocationResponse `json:"pickup"`
	Destination LocationResponse `json:"destination"`
	Status      string           `json:"status"`
	Fare        float64          `json:"fare"`
	Distance    float64          `json:"distance"`
	Duration    string           `json:"duration"`
	CreatedAt   string           `json:"createdAt"`
	AcceptedAt  string           `json:"acceptedAt,omitempty"`
	CompletedAt string           `json:"completedAt,omitempty"`
}

func toRideResponse(r *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:          r.ID,
		RiderID:     r.RiderID,
		Pickup:      toLocationResponse(r.Pickup),
		Destination: toLocationResponse(r.Destination),
		Status:      string(r.Status),
		Fare:        r.Fare,
		Distance:    r.Distance,
		Duration:    r.Duration,
		CreatedAt:   formatTime(r.CreatedAt),
		AcceptedAt:  formatTime(r.AcceptedAt),
		CompletedAt: formatTime(r.CompletedAt),
	}
	if r.DriverID != "" {
		id := r.DriverID
		resp.DriverID = &id
	}
	return resp
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	out := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, toRideResponse(r))
	}
	return out
}

// CreateRide handles POST /api/rides?rider_id=
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	riderID := c.Query("rider_id")
	if riderID == "" {
		riderID = req.RiderID
	}

	ride, err := h.rideService.RequestRide(c.Request.Context(), service.RequestRideRequest{
		RiderID:     riderID,
		Pickup:      req.Pickup.toDomain(),
		Destination: req.Destination.toDomain(),
	})
	if err != nil {
		respondError(c, describe(err, "Rider"))
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// ListAvailable handles GET /api/rides/available
func (h *RideHandler) ListAvailable(c *gin.Context) {
	rides, err := h.rideService.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// ListByRider handles GET /api/rides/rider/:id
func (h *RideHandler) ListByRider(c *gin.Context) {
	rides, err := h.rideService.ListByRider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// ListByDriver handles GET /api/rides/driver/:id
func (h *RideHandler) ListByDriver(c *gin.Context) {
	rides, err := h.rideService.ListByDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetRide handles GET /api/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, describe(err, "Ride"))
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// UpdateRide handles PUT /api/rides/:id
func (h *RideHandler) UpdateRide(c *gin.Context) {
	var req UpdateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ride, err := h.rideService.UpdateStatus(c.Request.Context(), c.Param("id"), domain.RideStatus(req.Status))
	if err != nil {
		respondError(c, describe(err, "Ride"))
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}
