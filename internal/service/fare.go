package service

import (
	"fmt"
	"math"

	"ridehail/internal/domain"
)

const (
	kmPerDegree = 111.0

	milesPerKm  = 0.621371
	ratePerMile = 1.00
	minimumFare = 7.00

	flatBaseFare  = 50.0
	flatPerKmRate = 15.0

	averageSpeedKmh = 30.0
)

// Distance approximates the kilometers between a and b as planar degrees
// scaled by 111. It ignores the earth's curvature.
func Distance(a, b domain.Location) float64 {
	dLat := a.Latitude - b.Latitude
	dLng := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat+dLng*dLng) * kmPerDegree
}

// FareCalculator prices a ride from its distance in kilometers.
type FareCalculator interface {
	Name() string
	Fare(distanceKm float64) float64
}

// MileFare charges per mile in USD with a minimum fare.
type MileFare struct{}

func (MileFare) Name() string { return "mile" }

func (MileFare) Fare(distanceKm float64) float64 {
	fare := distanceKm * milesPerKm * ratePerMile
	if fare < minimumFare {
		fare = minimumFare
	}
	return round2(fare)
}

// FlatFare charges a base fare plus a per-kilometer rate in local currency.
type FlatFare struct{}

func (FlatFare) Name() string { return "flat" }

func (FlatFare) Fare(distanceKm float64) float64 {
	return flatBaseFare + distanceKm*flatPerKmRate
}

// NewFareCalculator returns the calculator for model ("mile" or "flat").
func NewFareCalculator(model string) (FareCalculator, error) {
	switch model {
	case "mile", "":
		return MileFare{}, nil
	case "flat":
		return FlatFare{}, nil
	default:
		return nil, fmt.Errorf("unknown fare model %q", model)
	}
}

// ServiceFee is the flat platform fee charged against a trip fare.
func ServiceFee(fare float64) float64 {
	switch {
	case fare <= 10:
		return 1.0
	case fare < 20:
		return 2.0
	case fare <= 30:
		return 2.0
	default:
		return 3.0
	}
}

// EstimateDuration renders the drive time at an average city speed,
// rounded up to whole minutes.
func EstimateDuration(distanceKm float64) string {
	minutes := int(math.Ceil(distanceKm / averageSpeedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
