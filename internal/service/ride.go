package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"duomate/internal/domain"
	"duomate/internal/observability"
	"duomate/internal/storage"
)

// boardingGrace is how long after its departure time a ride stays
// boardable in the active listing.
const boardingGrace = 120 * time.Minute

// RideService handles ride postings and their lifecycle. Every mutation
// touches the global rides collection and the poster-scoped myRides
// collection in a single commit, so the two views cannot drift.
type RideService struct {
	store  storage.Store
	lock   storage.Locker
	logger *slog.Logger
}

// NewRideService creates a new RideService.
func NewRideService(store storage.Store, lock storage.Locker, logger *slog.Logger) *RideService {
	return &RideService{store: store, lock: lock, logger: logger}
}

// PostRideRequest contains the parameters for posting a ride.
type PostRideRequest struct {
	StartPlace     string
	Destination    string
	Landmarks      []string
	VehicleNumber  string
	VehicleType    domain.VehicleType
	AvailableSeats int
	DepartureTime  string
	Notes          string
}

// PostRide validates and stores a new ride posting.
func (s *RideService) PostRide(ctx context.Context, req PostRideRequest) (*domain.Ride, error) {
	if err := validatePostRequest(req); err != nil {
		return nil, err
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	notes := req.Notes
	if notes == "" {
		notes = "No additional notes"
	}

	ride := domain.Ride{
		ID:             uuid.New().String(),
		StartPlace:     req.StartPlace,
		Destination:    req.Destination,
		Landmarks:      cleanLandmarks(req.Landmarks),
		VehicleNumber:  req.VehicleNumber,
		VehicleType:    req.VehicleType,
		AvailableSeats: req.AvailableSeats,
		DepartureTime:  req.DepartureTime,
		Notes:          notes,
		Timestamp:      time.Now(),
		Status:         domain.RideStatusActive,
		Riders:         []string{},
	}

	var rides, myRides []domain.Ride
	if err := s.store.ReadList(ctx, storage.KeyRides, &rides); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyRides, &myRides); err != nil {
		return nil, err
	}

	batch := storage.NewBatch().
		Set(storage.KeyRides, append(rides, ride)).
		Set(storage.KeyMyRides, append(myRides, ride))
	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	observability.LedgerMutations.WithLabelValues("ride", "post").Inc()
	s.logger.Info("ride posted", "ride_id", ride.ID, "destination", ride.Destination)
	return &ride, nil
}

// ListActiveRides returns rides that are still boardable at now: status
// active, seats left, and departure in the future or within the grace
// window. Rides with an unparsable departure time are excluded and logged
// as a data-integrity warning, never surfaced as a user error.
func (s *RideService) ListActiveRides(ctx context.Context, now time.Time) ([]domain.Ride, error) {
	var rides []domain.Ride
	if err := s.store.ReadList(ctx, storage.KeyRides, &rides); err != nil {
		return nil, err
	}

	active := make([]domain.Ride, 0, len(rides))
	for _, ride := range rides {
		if ride.Status != domain.RideStatusActive || ride.AvailableSeats <= 0 {
			continue
		}
		departure, ok := ride.ParseDeparture()
		if !ok {
			s.logger.Warn("ride has unparsable departure time",
				"ride_id", ride.ID, "departure_time", ride.DepartureTime)
			continue
		}
		if now.Sub(departure) > boardingGrace {
			continue
		}
		active = append(active, ride)
	}
	return active, nil
}

// ListMyRides returns the poster-scoped view.
func (s *RideService) ListMyRides(ctx context.Context) ([]domain.Ride, error) {
	var myRides []domain.Ride
	if err := s.store.ReadList(ctx, storage.KeyMyRides, &myRides); err != nil {
		return nil, err
	}
	return myRides, nil
}

// CancelRide marks the ride cancelled in both ride collections and
// cascades: pending requests become cancelled in rideRequests and
// ride_cancelled in the passenger's myBookings view. Cancelling an
// already-cancelled ride is a no-op success.
func (s *RideService) CancelRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var rides, myRides []domain.Ride
	if err := s.store.ReadList(ctx, storage.KeyRides, &rides); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyRides, &myRides); err != nil {
		return nil, err
	}

	var cancelled *domain.Ride
	for i := range rides {
		if rides[i].ID != rideID {
			continue
		}
		if rides[i].Status == domain.RideStatusCancelled {
			ride := rides[i]
			return &ride, nil
		}
		rides[i].Status = domain.RideStatusCancelled
		ride := rides[i]
		cancelled = &ride
	}
	if cancelled == nil {
		return nil, ErrRideNotFound
	}
	for i := range myRides {
		if myRides[i].ID == rideID {
			myRides[i].Status = domain.RideStatusCancelled
		}
	}

	var requests, bookings []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyRideRequests, &requests); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyBookings, &bookings); err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].RideID == rideID {
			requests[i].Status = domain.BookingStatusCancelled
		}
	}
	for i := range bookings {
		if bookings[i].RideID == rideID {
			bookings[i].Status = domain.BookingStatusRideCancelled
		}
	}

	batch := storage.NewBatch().
		Set(storage.KeyRides, rides).
		Set(storage.KeyMyRides, myRides).
		Set(storage.KeyRideRequests, requests).
		Set(storage.KeyMyBookings, bookings)
	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	observability.LedgerMutations.WithLabelValues("ride", "cancel").Inc()
	s.logger.Info("ride cancelled", "ride_id", rideID)
	return cancelled, nil
}

// CompleteRide removes the ride from both ride collections and removes
// every booking referencing it from the passenger view. Completion
// deletes rather than flips status, unlike order completion.
func (s *RideService) CompleteRide(ctx context.Context, rideID string) error {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	var rides, myRides []domain.Ride
	if err := s.store.ReadList(ctx, storage.KeyRides, &rides); err != nil {
		return err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyRides, &myRides); err != nil {
		return err
	}

	remaining := rides[:0]
	found := false
	for _, ride := range rides {
		if ride.ID == rideID {
			found = true
			continue
		}
		remaining = append(remaining, ride)
	}
	if !found {
		return ErrRideNotFound
	}

	myRemaining := myRides[:0]
	for _, ride := range myRides {
		if ride.ID != rideID {
			myRemaining = append(myRemaining, ride)
		}
	}

	var bookings []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyMyBookings, &bookings); err != nil {
		return err
	}
	keptBookings := bookings[:0]
	for _, b := range bookings {
		if b.RideID != rideID {
			keptBookings = append(keptBookings, b)
		}
	}

	batch := storage.NewBatch().
		Set(storage.KeyRides, remaining).
		Set(storage.KeyMyRides, myRemaining).
		Set(storage.KeyMyBookings, keptBookings)
	if err := s.store.Commit(ctx, batch); err != nil {
		return err
	}

	observability.LedgerMutations.WithLabelValues("ride", "complete").Inc()
	s.logger.Info("ride completed", "ride_id", rideID)
	return nil
}

// ResetRideData clears the four ride-side collections in one commit.
// Order and coin data are untouched.
func (s *RideService) ResetRideData(ctx context.Context) error {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	batch := storage.NewBatch().
		Del(storage.KeyRides).
		Del(storage.KeyMyRides).
		Del(storage.KeyRideRequests).
		Del(storage.KeyMyBookings)
	if err := s.store.Commit(ctx, batch); err != nil {
		return err
	}

	observability.LedgerMutations.WithLabelValues("ride", "reset").Inc()
	s.logger.Warn("ride data reset")
	return nil
}

func validatePostRequest(req PostRideRequest) error {
	if req.StartPlace == "" {
		return ErrMissingStartPlace
	}
	if req.Destination == "" {
		return ErrMissingDestination
	}
	if req.VehicleNumber == "" {
		return ErrMissingVehicleNumber
	}
	if req.DepartureTime == "" {
		return ErrMissingDepartureTime
	}
	if req.AvailableSeats < 1 {
		return ErrInvalidSeatCount
	}
	switch req.VehicleType {
	case domain.VehicleTypeBike, domain.VehicleTypeCar, domain.VehicleTypeAuto:
		return nil
	default:
		return ErrInvalidVehicleType
	}
}

func cleanLandmarks(landmarks []string) []string {
	out := make([]string, 0, len(landmarks))
	for _, l := range landmarks {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
