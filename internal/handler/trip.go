package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// TripHandler handles driver trip logging and earnings reports.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for logging a trip.
type CreateTripRequest struct {
	Fare      *float64   `json:"fare" binding:"required"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Distance  float64    `json:"distance,omitempty"`
}

// TripResponse is the HTTP response for trip data.
type TripResponse struct {
	ID        string  `json:"id"`
	DriverID  string  `json:"driverId"`
	RideID    string  `json:"rideId,omitempty"`
	Fare      float64 `json:"fare"`
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	Distance  float64 `json:"distance"`
	CreatedAt string  `json:"createdAt"`
}

func toTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:        t.ID,
		DriverID:  t.DriverID,
		RideID:    t.RideID,
		Fare:      t.Fare,
		StartTime: formatTime(t.StartTime),
		EndTime:   formatTime(t.EndTime),
		Distance:  t.Distance,
		CreatedAt: formatTime(t.CreatedAt),
	}
}

// TripEarningResponse is one trip's fee breakdown.
type TripEarningResponse struct {
	TripID string  `json:"tripId"`
	Fare   float64 `json:"fare"`
	Fee    float64 `json:"fee"`
	Net    float64 `json:"net"`
}

// EarningsResponse is the HTTP response for an earnings report.
type EarningsResponse struct {
	DriverID   string                `json:"driverId"`
	Start      string                `json:"start"`
	End        string                `json:"end"`
	TripCount  int                   `json:"tripCount"`
	TotalFares float64               `json:"totalFares"`
	TotalFees  float64               `json:"totalFees"`
	NetAmount  float64               `json:"netAmount"`
	Trips      []TripEarningResponse `json:"trips"`
}

// CreateTrip handles POST /api/drivers/:id/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	svcReq := service.RecordTripRequest{
		DriverID: c.Param("id"),
		Fare:     *req.Fare,
		Distance: req.Distance,
	}
	if req.StartTime != nil {
		svcReq.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		svcReq.EndTime = *req.EndTime
	}

	trip, err := h.tripService.RecordTrip(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, describe(err, "Driver"))
		return
	}
	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// ListTrips handles GET /api/drivers/:id/trips?start=&end=
func (h *TripHandler) ListTrips(c *gin.Context) {
	window, ok := bindWindow(c)
	if !ok {
		return
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		respondError(c, describe(err, "Driver"))
		return
	}

	resp := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		resp = append(resp, toTripResponse(t))
	}
	respondJSON(c, http.StatusOK, resp)
}

// Earnings handles GET /api/drivers/:id/earnings?start=&end=
func (h *TripHandler) Earnings(c *gin.Context) {
	window, ok := bindWindow(c)
	if !ok {
		return
	}

	summary, err := h.tripService.Earnings(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		respondError(c, describe(err, "Driver"))
		return
	}

	trips := make([]TripEarningResponse, 0, len(summary.Trips))
	for _, t := range summary.Trips {
		trips = append(trips, TripEarningResponse{TripID: t.TripID, Fare: t.Fare, Fee: t.Fee, Net: t.Net})
	}
	respondJSON(c, http.StatusOK, EarningsResponse{
		DriverID:   summary.DriverID,
		Start:      formatTime(summary.Start),
		End:        formatTime(summary.End),
		TripCount:  summary.TripCount,
		TotalFares: summary.TotalFares,
		TotalFees:  summary.TotalFees,
		NetAmount:  summary.NetAmount,
		Trips:      trips,
	})
}

// bindWindow reads start and end, writing a 400 on bad input.
func bindWindow(c *gin.Context) (service.Window, bool) {
	start, err := parseTimeQuery(c, "start", false)
	if err != nil {
		respondBadRequest(c, err.Error())
		return service.Window{}, false
	}
	end, err := parseTimeQuery(c, "end", true)
	if err != nil {
		respondBadRequest(c, err.Error())
		return service.Window{}, false
	}
	return service.Window{Start: start, End: end}, true
}
