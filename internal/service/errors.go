package service

import "errors"

var (
	// ErrRideNotFound is returned when the referenced ride does not exist.
	ErrRideNotFound = errors.New("ride not found")

	// ErrRideNotActive is returned when joining a ride that is not open.
	ErrRideNotActive = errors.New("ride is not active")

	// ErrMissingStartPlace is returned when a ride is posted without a start place.
	ErrMissingStartPlace = errors.New("start place is required")

	// ErrMissingDestination is returned when a ride is posted without a destination.
	ErrMissingDestination = errors.New("destination is required")

	// ErrMissingVehicleNumber is returned when a ride is posted without a vehicle number.
	ErrMissingVehicleNumber = errors.New("vehicle number is required")

	// ErrMissingDepartureTime is returned when a ride is posted without a departure time.
	ErrMissingDepartureTime = errors.New("departure time is required")

	// ErrInvalidSeatCount is returned when a ride is posted with no seats.
	ErrInvalidSeatCount = errors.New("available seats must be at least 1")

	// ErrInvalidVehicleType is returned for a vehicle type outside bike/car/auto.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotPending is returned when responding to or cancelling a
	// booking that already left the pending state.
	ErrBookingNotPending = errors.New("booking is not pending")

	// ErrBookingNotConfirmed is returned when completing a booking that was
	// never confirmed.
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")

	// ErrMissingPassengerDestination is returned when a join request has no destination.
	ErrMissingPassengerDestination = errors.New("passenger destination is required")

	// ErrInvalidDistance is returned when a join request distance is outside the 0.5 to 50 km range.
	ErrInvalidDistance = errors.New("distance must be between 0.5 and 50 km")

	// ErrOrderNotFound is returned when the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrMissingOrderDetails is returned when an order is placed without details.
	ErrMissingOrderDetails = errors.New("order details are required")

	// ErrMissingOrderDestination is returned when an order is placed without a destination.
	ErrMissingOrderDestination = errors.New("order destination is required")

	// ErrInvalidDeliveryType is returned for a delivery type outside regular/asap.
	ErrInvalidDeliveryType = errors.New("invalid delivery type")

	// ErrOrderNotPending is returned when accepting an order that is no longer open.
	ErrOrderNotPending = errors.New("order is not pending")

	// ErrOrderNotAccepted is returned when completing a delivery that was never accepted.
	ErrOrderNotAccepted = errors.New("order is not accepted")

	// ErrInvalidCoinAmount is returned for zero or negative ledger amounts.
	ErrInvalidCoinAmount = errors.New("coin amount must be positive")

	// ErrInsufficientCoins is returned when a debit exceeds the balance.
	// The balance and history are left untouched.
	ErrInsufficientCoins = errors.New("insufficient coin balance")

	// ErrVoucherNotFound is returned when redeeming an unknown voucher.
	ErrVoucherNotFound = errors.New("voucher not found")
)
