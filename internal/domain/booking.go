package domain

import "time"

// BookingStatus represents the current status of a join request.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	// BookingStatusRideCancelled is cascaded into the passenger view when
	// the parent ride is cancelled by its poster.
	BookingStatusRideCancelled BookingStatus = "ride_cancelled"
)

// Booking is a passenger's request to join a posted ride. The same record
// lives in the global rideRequests collection and the passenger-scoped
// myBookings collection.
type Booking struct {
	ID                   string        `json:"id"`
	RideID               string        `json:"rideId"`
	RiderDestination     string        `json:"riderDestination"`
	PassengerDestination string        `json:"passengerDestination"`
	Distance             float64       `json:"distance"`
	Fare                 int           `json:"fare"`
	VehicleType          VehicleType   `json:"vehicleType"`
	VehicleNumber        string        `json:"vehicleNumber"`
	DepartureTime        string        `json:"departureTime"`
	Timestamp            time.Time     `json:"timestamp"`
	Status               BookingStatus `json:"status"`
}
