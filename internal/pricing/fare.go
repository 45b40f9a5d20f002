package pricing

import (
	"math"

	"duomate/internal/domain"
)

// FareForDistance computes the fare for a shared ride, rounded to the
// nearest whole rupee. The per-km rate is tiered on the total distance
// (not marginal per tier): longer rides get a cheaper rate across the
// whole distance.
//
// The vehicle type is part of the contract for future per-vehicle rates
// but does not affect the fare today.
func FareForDistance(distanceKm float64, vehicleType domain.VehicleType) int {
	var rate float64
	switch {
	case distanceKm <= 3:
		rate = 7
	case distanceKm <= 7:
		rate = 6
	case distanceKm <= 12:
		rate = 4.5
	default:
		rate = 3.5
	}
	return int(math.Round(distanceKm * rate))
}
