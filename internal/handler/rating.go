package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// CreateRatingRequest is the HTTP request body for rating a ride.
// The rater may be given as the rater_id query parameter instead.
type CreateRatingRequest struct {
	RideID  string `json:"rideId" binding:"required"`
	RaterID string `json:"raterId,omitempty"`
	RatedID string `json:"ratedId" binding:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// RatingResponse is the HTTP response for rating data.
type RatingResponse struct {
	ID        string `json:"id"`
	RideID    string `json:"rideId"`
	RaterID   string `json:"raterId"`
	RatedID   string `json:"ratedId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func toRatingResponse(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		RideID:    r.RideID,
		RaterID:   r.RaterID,
		RatedID:   r.RatedID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: formatTime(r.CreatedAt),
	}
}

// CreateRating handles POST /api/ratings?rater_id=
func (h *RatingHandler) CreateRating(c *gin.Context) {
	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	raterID := c.Query("rater_id")
	if raterID == "" {
		raterID = req.RaterID
	}

	rating, err := h.ratingService.Submit(c.Request.Context(), service.SubmitRatingRequest{
		RideID:  req.RideID,
		RaterID: raterID,
		RatedID: req.RatedID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, describe(err, "Ride"))
		return
	}
	respondJSON(c, http.StatusCreated, toRatingResponse(rating))
}

// ListRatings handles GET /api/ratings/:id
func (h *RatingHandler) ListRatings(c *gin.Context) {
	ratings, err := h.ratingService.ListReceived(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		resp = append(resp, toRatingResponse(r))
	}
	respondJSON(c, http.StatusOK, resp)
}
