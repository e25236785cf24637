package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ride_hailing"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RidesRequested = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rides_requested_total", Help: "Rides created"})

	// RideAccepts is labelled by outcome: accepted, lost_race.
	RideAccepts = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ride_accepts_total", Help: "Ride accept attempts by outcome"},
		[]string{"outcome"},
	)
	RideStatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ride_status_updates_total", Help: "Generic ride status updates by target status"},
		[]string{"status"},
	)
	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "ratings_submitted_total", Help: "Ratings stored"})

	// CodeVerifications is labelled by outcome: verified, rejected.
	CodeVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "code_verifications_total", Help: "Verification code checks by outcome"},
		[]string{"outcome"},
	)
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "events_published_total", Help: "Ride events by type and result"},
		[]string{"type", "result"},
	)
	NearbyDrivers = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "nearby_drivers",
		Help:      "Drivers returned per nearby query",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
	})
)
