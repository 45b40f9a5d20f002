package pricing

import (
	"testing"

	"duomate/internal/domain"
)

func TestFareForDistance_TierBoundaries(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		distance float64
		want     int
	}{
		{name: "short hop", distance: 1, want: 7},
		{name: "top of short tier", distance: 3, want: 21},
		{name: "just past short tier", distance: 3.5, want: 21}, // 3.5*6 = 21
		{name: "mid tier", distance: 5, want: 30},
		{name: "top of mid tier", distance: 7, want: 42},
		{name: "long tier", distance: 10, want: 45},
		{name: "top of long tier", distance: 12, want: 54},
		{name: "cross campus", distance: 20, want: 70},
		{name: "fractional rounds up", distance: 2.5, want: 18}, // 17.5 rounds to 18
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := FareForDistance(tc.distance, domain.VehicleTypeBike)
			if got != tc.want {
				t.Errorf("FareForDistance(%v) = %d, want %d", tc.distance, got, tc.want)
			}
		})
	}
}

func TestFareForDistance_RateAppliesToWholeDistance(t *testing.T) {
	t.Parallel()

	// Crossing a tier boundary can make a longer ride cheaper because
	// the lower rate applies to the full distance, not the marginal km.
	atBoundary := FareForDistance(3, domain.VehicleTypeCar)
	pastBoundary := FareForDistance(3.2, domain.VehicleTypeCar)
	if pastBoundary >= atBoundary {
		t.Errorf("expected fare at 3.2km (%d) below fare at 3km (%d)", pastBoundary, atBoundary)
	}
}

func TestFareForDistance_SameForAllVehicleTypes(t *testing.T) {
	t.Parallel()

	types := []domain.VehicleType{domain.VehicleTypeBike, domain.VehicleTypeCar, domain.VehicleTypeAuto}
	want := FareForDistance(8, types[0])
	for _, vt := range types[1:] {
		if got := FareForDistance(8, vt); got != want {
			t.Errorf("fare for %s = %d, want %d", vt, got, want)
		}
	}
}
