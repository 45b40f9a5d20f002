package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"duomate/internal/domain"
	"duomate/internal/observability"
	"duomate/internal/pricing"
	"duomate/internal/storage"
)

const (
	minJoinDistanceKm = 0.5
	maxJoinDistanceKm = 50
)

// BookingService handles join requests from passengers. Records live in
// the global rideRequests collection and the passenger-scoped myBookings
// collection, always written together.
type BookingService struct {
	store  storage.Store
	lock   storage.Locker
	logger *slog.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(store storage.Store, lock storage.Locker, logger *slog.Logger) *BookingService {
	return &BookingService{store: store, lock: lock, logger: logger}
}

// SubmitJoinRequestParams contains the parameters for joining a ride.
type SubmitJoinRequestParams struct {
	RideID               string
	PassengerDestination string
	DistanceKm           float64
}

// SubmitJoinRequest computes the fare for the passenger's distance and
// records a pending request in both collections.
func (s *BookingService) SubmitJoinRequest(ctx context.Context, params SubmitJoinRequestParams) (*domain.Booking, error) {
	if params.PassengerDestination == "" {
		return nil, ErrMissingPassengerDestination
	}
	if params.DistanceKm < minJoinDistanceKm || params.DistanceKm > maxJoinDistanceKm {
		return nil, ErrInvalidDistance
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var rides []domain.Ride
	if err := s.store.ReadList(ctx, storage.KeyRides, &rides); err != nil {
		return nil, err
	}
	var ride *domain.Ride
	for i := range rides {
		if rides[i].ID == params.RideID {
			ride = &rides[i]
			break
		}
	}
	if ride == nil {
		return nil, ErrRideNotFound
	}
	if ride.Status != domain.RideStatusActive {
		return nil, ErrRideNotActive
	}

	booking := domain.Booking{
		ID:                   uuid.New().String(),
		RideID:               ride.ID,
		RiderDestination:     ride.Destination,
		PassengerDestination: params.PassengerDestination,
		Distance:             params.DistanceKm,
		Fare:                 pricing.FareForDistance(params.DistanceKm, ride.VehicleType),
		VehicleType:          ride.VehicleType,
		VehicleNumber:        ride.VehicleNumber,
		DepartureTime:        ride.DepartureTime,
		Timestamp:            time.Now(),
		Status:               domain.BookingStatusPending,
	}

	var requests, bookings []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyRideRequests, &requests); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyBookings, &bookings); err != nil {
		return nil, err
	}

	batch := storage.NewBatch().
		Set(storage.KeyRideRequests, append(requests, booking)).
		Set(storage.KeyMyBookings, append(bookings, booking))
	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	observability.LedgerMutations.WithLabelValues("booking", "submit").Inc()
	s.logger.Info("join request submitted", "booking_id", booking.ID, "ride_id", ride.ID, "fare", booking.Fare)
	return &booking, nil
}

// ListPendingRequests returns pending requests from the global
// collection, the rider's notification view.
func (s *BookingService) ListPendingRequests(ctx context.Context) ([]domain.Booking, error) {
	var requests []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyRideRequests, &requests); err != nil {
		return nil, err
	}
	pending := make([]domain.Booking, 0, len(requests))
	for _, req := range requests {
		if req.Status == domain.BookingStatusPending {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

// ListMyBookings returns the passenger-scoped view.
func (s *BookingService) ListMyBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyMyBookings, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// RespondToRequest resolves a pending request. Accepting confirms it in
// both collections and decrements the parent ride's seats, floored at
// zero, in rides and myRides; rejecting only flips the status.
func (s *BookingService) RespondToRequest(ctx context.Context, requestID string, accept bool) (*domain.Booking, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var requests, bookings []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyRideRequests, &requests); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyBookings, &bookings); err != nil {
		return nil, err
	}

	next := domain.BookingStatusRejected
	if accept {
		next = domain.BookingStatusConfirmed
	}

	var resolved *domain.Booking
	for i := range requests {
		if requests[i].ID != requestID {
			continue
		}
		if requests[i].Status != domain.BookingStatusPending {
			return nil, ErrBookingNotPending
		}
		requests[i].Status = next
		req := requests[i]
		resolved = &req
	}
	if resolved == nil {
		return nil, ErrBookingNotFound
	}
	for i := range bookings {
		if bookings[i].ID == requestID {
			bookings[i].Status = next
		}
	}

	batch := storage.NewBatch().
		Set(storage.KeyRideRequests, requests).
		Set(storage.KeyMyBookings, bookings)

	if accept {
		var rides, myRides []domain.Ride
		if err := s.store.ReadList(ctx, storage.KeyRides, &rides); err != nil {
			return nil, err
		}
		if err := s.store.ReadList(ctx, storage.KeyMyRides, &myRides); err != nil {
			return nil, err
		}
		for i := range rides {
			if rides[i].ID == resolved.RideID {
				rides[i].AvailableSeats = max(0, rides[i].AvailableSeats-1)
			}
		}
		for i := range myRides {
			if myRides[i].ID == resolved.RideID {
				myRides[i].AvailableSeats = max(0, myRides[i].AvailableSeats-1)
			}
		}
		batch.Set(storage.KeyRides, rides).Set(storage.KeyMyRides, myRides)
	}

	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	action := "reject"
	if accept {
		action = "accept"
	}
	observability.LedgerMutations.WithLabelValues("booking", action).Inc()
	s.logger.Info("join request resolved", "booking_id", requestID, "status", resolved.Status)
	return resolved, nil
}

// CancelBooking is the passenger-initiated cancellation of a pending
// request, recorded in both collections.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var requests, bookings []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyRideRequests, &requests); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyBookings, &bookings); err != nil {
		return nil, err
	}

	var cancelled *domain.Booking
	for i := range bookings {
		if bookings[i].ID != bookingID {
			continue
		}
		if bookings[i].Status != domain.BookingStatusPending {
			return nil, ErrBookingNotPending
		}
		bookings[i].Status = domain.BookingStatusCancelled
		b := bookings[i]
		cancelled = &b
	}
	if cancelled == nil {
		return nil, ErrBookingNotFound
	}
	for i := range requests {
		if requests[i].ID == bookingID {
			requests[i].Status = domain.BookingStatusCancelled
		}
	}

	batch := storage.NewBatch().
		Set(storage.KeyRideRequests, requests).
		Set(storage.KeyMyBookings, bookings)
	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	observability.LedgerMutations.WithLabelValues("booking", "cancel").Inc()
	s.logger.Info("booking cancelled", "booking_id", bookingID)
	return cancelled, nil
}

// MarkBookingComplete is the passenger's "reached destination" action:
// the booking is deleted from myBookings and the parent ride is deleted
// from myRides, mirroring the rider-side completion asymmetry.
func (s *BookingService) MarkBookingComplete(ctx context.Context, bookingID string) error {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	var bookings []domain.Booking
	if err := s.store.ReadList(ctx, storage.KeyMyBookings, &bookings); err != nil {
		return err
	}

	var completed *domain.Booking
	kept := bookings[:0]
	for _, b := range bookings {
		if b.ID == bookingID {
			if b.Status != domain.BookingStatusConfirmed {
				return ErrBookingNotConfirmed
			}
			booking := b
			completed = &booking
			continue
		}
		kept = append(kept, b)
	}
	if completed == nil {
		return ErrBookingNotFound
	}

	var myRides []domain.Ride
	if err := s.store.ReadList(ctx, storage.KeyMyRides, &myRides); err != nil {
		return err
	}
	keptRides := myRides[:0]
	for _, ride := range myRides {
		if ride.ID != completed.RideID {
			keptRides = append(keptRides, ride)
		}
	}

	batch := storage.NewBatch().
		Set(storage.KeyMyBookings, kept).
		Set(storage.KeyMyRides, keptRides)
	if err := s.store.Commit(ctx, batch); err != nil {
		return err
	}

	observability.LedgerMutations.WithLabelValues("booking", "complete").Inc()
	s.logger.Info("booking completed", "booking_id", bookingID, "ride_id", completed.RideID)
	return nil
}
