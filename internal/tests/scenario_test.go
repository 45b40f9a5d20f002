package tests

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"duomate/internal/domain"
	"duomate/internal/service"
	"duomate/internal/storage"
)

// ──────────────────────────────────────────────
// FULL LIFECYCLE SCENARIOS
// ──────────────────────────────────────────────

func TestRideLifecycle_PostJoinAcceptExhaustsSeats(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	locker := NewMockLocker()
	logger := NewTestLogger()
	rideService := service.NewRideService(store, locker, logger)
	bookingService := service.NewBookingService(store, locker, logger)

	ctx := context.Background()
	departure := time.Now().Add(2 * time.Hour)

	ride, err := rideService.PostRide(ctx, service.PostRideRequest{
		StartPlace:     "Hostel Gate",
		Destination:    "Tech Park",
		VehicleNumber:  "KA-01-AB-1234",
		VehicleType:    domain.VehicleTypeCar,
		AvailableSeats: 1,
		DepartureTime:  departure.Format("2006-01-02T15:04"),
	})
	if err != nil {
		t.Fatalf("post ride: %v", err)
	}

	booking, err := bookingService.SubmitJoinRequest(ctx, service.SubmitJoinRequestParams{
		RideID:               ride.ID,
		PassengerDestination: "Main Block",
		DistanceKm:           5,
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if booking.Fare != 30 {
		t.Errorf("expected fare 30 for 5km, got %d", booking.Fare)
	}

	if _, err := bookingService.RespondToRequest(ctx, booking.ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// The only seat is taken: the ride drops out of the active listing.
	active, err := rideService.ListActiveRides(ctx, time.Now())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no boardable rides left, got %v", active)
	}

	// Both sides still see the confirmed pairing.
	bookings, err := bookingService.ListMyBookings(ctx)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 1 || bookings[0].Status != domain.BookingStatusConfirmed {
		t.Errorf("expected one confirmed booking, got %v", bookings)
	}
	myRides, err := rideService.ListMyRides(ctx)
	if err != nil {
		t.Fatalf("list my rides: %v", err)
	}
	if len(myRides) != 1 || myRides[0].AvailableSeats != 0 {
		t.Errorf("expected posted ride with 0 seats, got %v", myRides)
	}
}

func TestDeliveryLifecycle_OrderToRewardRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	locker := NewMockLocker()
	logger := NewTestLogger()
	coinService := service.NewCoinService(store, locker, logger)
	orderService := service.NewOrderService(store, locker, coinService,
		rand.New(rand.NewSource(3)), logger)

	ctx := context.Background()

	order, err := orderService.PlaceOrder(ctx, service.PlaceOrderRequest{
		Details:     "Chicken biryani from the mess",
		Destination: "Hostel Block C",
		Type:        domain.DeliveryTypeASAP,
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if _, err := orderService.AcceptOrder(ctx, order.ID, "You"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	result, err := orderService.CompleteDelivery(ctx, order.ID)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// The reward must match the tier persisted at placement, not a
	// re-roll at completion time.
	wantBase := 15
	if order.ValueTier == domain.ValueTierHigh {
		wantBase = 20
	}
	if result.Reward.Base != wantBase || result.Reward.ASAPBonus != 5 || result.Reward.OnTimeBonus != 5 {
		t.Errorf("reward %+v does not match persisted tier %s", result.Reward, order.ValueTier)
	}

	balance, err := coinService.Balance(ctx)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != result.NewCoins {
		t.Errorf("reported balance %d differs from stored %d", result.NewCoins, balance)
	}

	// Earned coins pay for the next delivery once they cover the cost.
	if _, err := coinService.Credit(ctx, 100, "Top up", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
	paid, err := orderService.PlaceOrder(ctx, service.PlaceOrderRequest{
		Details:      "Charger cable",
		Destination:  "Main Block",
		Type:         domain.DeliveryTypeRegular,
		PayWithCoins: true,
	})
	if err != nil {
		t.Fatalf("coin-paid order: %v", err)
	}
	if !paid.PaidWithCoins {
		t.Error("expected coin-paid order after topping up")
	}

	var myOrders []domain.Order
	store.Get(storage.KeyMyOrders, &myOrders)
	if len(myOrders) != 2 || !myOrders[1].PaidWithCoins {
		t.Errorf("expected paidWithCoins persisted on the poster copy, got %v", myOrders)
	}
}

func TestRideCancellation_PassengerSeesRideCancelled(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	locker := NewMockLocker()
	logger := NewTestLogger()
	rideService := service.NewRideService(store, locker, logger)
	bookingService := service.NewBookingService(store, locker, logger)

	ctx := context.Background()

	ride, err := rideService.PostRide(ctx, service.PostRideRequest{
		StartPlace:     "Hostel Gate",
		Destination:    "Tech Park",
		VehicleNumber:  "KA-01-AB-1234",
		VehicleType:    domain.VehicleTypeBike,
		AvailableSeats: 2,
		DepartureTime:  time.Now().Add(time.Hour).Format("2006-01-02T15:04"),
	})
	if err != nil {
		t.Fatalf("post ride: %v", err)
	}
	if _, err := bookingService.SubmitJoinRequest(ctx, service.SubmitJoinRequestParams{
		RideID:               ride.ID,
		PassengerDestination: "Main Block",
		DistanceKm:           3,
	}); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := rideService.CancelRide(ctx, ride.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	bookings, err := bookingService.ListMyBookings(ctx)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 1 || bookings[0].Status != domain.BookingStatusRideCancelled {
		t.Errorf("expected ride_cancelled in the passenger view, got %v", bookings)
	}

	// The rider's notification feed no longer shows the request.
	pending, err := bookingService.ListPendingRequests(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending requests after cancellation, got %v", pending)
	}
}
