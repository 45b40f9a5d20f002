package domain

import "time"

// RideStatus represents the current status of a posted ride.
type RideStatus string

const (
	RideStatusActive    RideStatus = "active"
	RideStatusCancelled RideStatus = "cancelled"
	RideStatusCompleted RideStatus = "completed"
)

// VehicleType represents the vehicle used for a ride.
type VehicleType string

const (
	VehicleTypeBike VehicleType = "bike"
	VehicleTypeCar  VehicleType = "car"
	VehicleTypeAuto VehicleType = "auto"
)

// Ride represents a ride posting on the RideMate board.
// JSON field names match the persisted key-space shape, so records
// round-trip unchanged through the rides and myRides collections.
type Ride struct {
	ID             string      `json:"id"`
	StartPlace     string      `json:"startPlace"`
	Destination    string      `json:"destination"`
	Landmarks      []string    `json:"landmarks"`
	VehicleNumber  string      `json:"vehicleNumber"`
	VehicleType    VehicleType `json:"vehicleType"`
	AvailableSeats int         `json:"availableSeats"`
	DepartureTime  string      `json:"departureTime"`
	Notes          string      `json:"notes"`
	Timestamp      time.Time   `json:"timestamp"`
	Status         RideStatus  `json:"status"`
	Riders         []string    `json:"riders"`
}

// departureLayouts are the accepted departureTime formats. The first is
// what datetime-local inputs produce; the rest cover API clients.
var departureLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDeparture parses the ride's departureTime in local time.
// Returns a zero time and false when the value is unparsable.
func (r *Ride) ParseDeparture() (time.Time, bool) {
	for _, layout := range departureLayouts {
		if t, err := time.ParseInLocation(layout, r.DepartureTime, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
