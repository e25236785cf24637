package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService   *service.DriverService
	matchingService *service.MatchingService
	rideService     *service.RideService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(
	driverService *service.DriverService,
	matchingService *service.MatchingService,
	rideService *service.RideService,
) *DriverHandler {
	return &DriverHandler{
		driverService:   driverService,
		matchingService: matchingService,
		rideService:     rideService,
	}
}

// VehicleBody describes a driver's vehicle on the wire.
type VehicleBody struct {
	Make  string `json:"make" binding:"required"`
	Model string `json:"model" binding:"required"`
	Plate string `json:"plate" binding:"required"`
	Color string `json:"color,omitempty"`
	Year  int    `json:"year,omitempty"`
}

func (v *VehicleBody) toDomain() *domain.Vehicle {
	if v == nil {
		return nil
	}
	return &domain.Vehicle{Make: v.Make, Model: v.Model, Year: v.Year, PlateNumber: v.Plate, Color: v.Color}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name    string       `json:"name" binding:"required"`
	Phone   string       `json:"phone" binding:"required"`
	Vehicle *VehicleBody `json:"vehicle" binding:"required"`
}

// UpdateLocationRequest is the HTTP request body for PUT /drivers/:id/location.
type UpdateLocationRequest = LocationBody

// RecordLocationRequest is the HTTP request body for POST /drivers/:id/location.
type RecordLocationRequest struct {
	Lat     *float64 `json:"lat" binding:"required"`
	Lng     *float64 `json:"lng" binding:"required"`
	Speed   *float64 `json:"speed,omitempty"`
	Heading *float64 `json:"heading,omitempty"`
}

// UpdateStatusRequest is the HTTP request body for toggling availability.
type UpdateStatusRequest struct {
	IsOnline *bool `json:"isOnline" binding:"required"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name,omitempty"`
	Phone             string            `json:"phone,omitempty"`
	Vehicle           *VehicleBody      `json:"vehicle,omitempty"`
	Location          *LocationResponse `json:"location"`
	LocationUpdatedAt string            `json:"locationUpdatedAt,omitempty"`
	Rating            float64           `json:"rating"`
	IsOnline          bool              `json:"isOnline"`
	TotalRides        int               `json:"totalRides"`
	TotalEarnings     float64           `json:"totalEarnings"`
	CreatedAt         string            `json:"createdAt"`
	UpdatedAt         string            `json:"updatedAt"`
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	resp := DriverResponse{
		ID:                d.ID,
		Name:              d.Name,
		Phone:             d.Phone,
		LocationUpdatedAt: formatTime(d.LocationUpdatedAt),
		Rating:            d.Rating,
		IsOnline:          d.IsOnline,
		TotalRides:        d.TotalRides,
		TotalEarnings:     d.TotalEarnings,
		CreatedAt:         formatTime(d.CreatedAt),
		UpdatedAt:         formatTime(d.UpdatedAt),
	}
	if d.Vehicle != nil {
		resp.Vehicle = &VehicleBody{
			Make:  d.Vehicle.Make,
			Model: d.Vehicle.Model,
			Plate: d.Vehicle.PlateNumber,
			Color: d.Vehicle.Color,
			Year:  d.Vehicle.Year,
		}
	}
	if d.Location != nil {
		loc := toLocationResponse(*d.Location)
		resp.Location = &loc
	}
	return resp
}

// Register handles POST /api/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		Name:    req.Name,
		Phone:   req.Phone,
		Vehicle: req.Vehicle.toDomain(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// GetDriver handles GET /api/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, describe(err, "Driver"))
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// Nearby handles GET /api/drivers/nearby?latitude=&longitude=&radius=
func (h *DriverHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		respondBadRequest(c, "latitude is required and must be a number")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		respondBadRequest(c, "longitude is required and must be a number")
		return
	}

	var radius float64
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
			respondBadRequest(c, "radius must be a positive number")
			return
		}
	}

	drivers, err := h.matchingService.FindNearby(c.Request.Context(), service.NearbyRequest{
		Point:    domain.Location{Latitude: lat, Longitude: lng},
		RadiusKm: radius,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		resp = append(resp, toDriverResponse(d))
	}
	respondJSON(c, http.StatusOK, resp)
}

// UpdateLocation handles PUT /api/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	driver, err := h.driverService.UpdateLocation(c.Request.Context(), service.UpdateLocationRequest{
		DriverID: c.Param("id"),
		Location: req.toDomain(),
	})
	if err != nil {
		respondError(c, describe(err, "Driver"))
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// RecordLocation handles POST /api/drivers/:id/location
func (h *DriverHandler) RecordLocation(c *gin.Context) {
	var req RecordLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	driver, err := h.driverService.UpdateLocation(c.Request.Context(), service.UpdateLocationRequest{
		DriverID: c.Param("id"),
		Location: domain.Location{Latitude: *req.Lat, Longitude: *req.Lng},
		Speed:    req.Speed,
		Heading:  req.Heading,
	})
	if err != nil {
		respondError(c, describe(err, "Driver"))
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// UpdateStatus handles PUT /api/drivers/:id/status
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	h.setOnline(c, *req.IsOnline)
}

// GoOnline handles POST /api/drivers/:id/online
func (h *DriverHandler) GoOnline(c *gin.Context) {
	h.setOnline(c, true)
}

// GoOffline handles POST /api/drivers/:id/offline
func (h *DriverHandler) GoOffline(c *gin.Context) {
	h.setOnline(c, false)
}

func (h *DriverHandler) setOnline(c *gin.Context, online bool) {
	driver, err := h.driverService.SetOnline(c.Request.Context(), c.Param("id"), online)
	if err != nil {
		respondError(c, describe(err, "Driver"))
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// AcceptRide handles PUT /api/drivers/:id/accept-ride?ride_id=
func (h *DriverHandler) AcceptRide(c *gin.Context) {
	rideID := c.Query("ride_id")
	if rideID == "" {
		respondBadRequest(c, "ride_id is required")
		return
	}

	ride, err := h.rideService.AcceptRide(c.Request.Context(), rideID, c.Param("id"))
	if err != nil {
		respondError(c, describe(err, "Ride or driver"))
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}
