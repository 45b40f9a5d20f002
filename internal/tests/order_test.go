package tests

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"duomate/internal/domain"
	"duomate/internal/service"
	"duomate/internal/storage"
)

// ──────────────────────────────────────────────
// ORDER PLACEMENT
// ──────────────────────────────────────────────

func newOrderService(store *MockStore) *service.OrderService {
	logger := NewTestLogger()
	locker := NewMockLocker()
	coins := service.NewCoinService(store, locker, logger)
	rng := rand.New(rand.NewSource(7))
	return service.NewOrderService(store, locker, coins, rng, logger)
}

func validPlaceRequest() service.PlaceOrderRequest {
	return service.PlaceOrderRequest{
		Details:     "Notebook and pens",
		Destination: "Hostel Block C",
		Type:        domain.DeliveryTypeRegular,
	}
}

func TestPlaceOrder_ValidInput_WritesBothCollections(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	orderService := newOrderService(store)

	order, err := orderService.PlaceOrder(context.Background(), validPlaceRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if order.ID == "" {
		t.Error("expected order ID to be set")
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected pending, got %s", order.Status)
	}
	if order.Landmark != "No landmark specified" {
		t.Errorf("expected default landmark, got %q", order.Landmark)
	}
	if order.ValueTier == "" {
		t.Error("expected value tier assigned at placement")
	}

	var orders, myOrders []domain.Order
	store.Get(storage.KeyOrders, &orders)
	store.Get(storage.KeyMyOrders, &myOrders)
	if len(orders) != 1 || len(myOrders) != 1 {
		t.Fatalf("expected the order in both collections, got %d and %d", len(orders), len(myOrders))
	}
	if orders[0].ValueTier != myOrders[0].ValueTier {
		t.Error("expected the same persisted tier in both collections")
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*service.PlaceOrderRequest)
		wantErr error
	}{
		{
			name:    "missing details",
			mutate:  func(r *service.PlaceOrderRequest) { r.Details = "" },
			wantErr: service.ErrMissingOrderDetails,
		},
		{
			name:    "missing destination",
			mutate:  func(r *service.PlaceOrderRequest) { r.Destination = "" },
			wantErr: service.ErrMissingOrderDestination,
		},
		{
			name:    "unknown delivery type",
			mutate:  func(r *service.PlaceOrderRequest) { r.Type = "teleport" },
			wantErr: service.ErrInvalidDeliveryType,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewMockStore()
			orderService := newOrderService(store)

			req := validPlaceRequest()
			tc.mutate(&req)

			_, err := orderService.PlaceOrder(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPlaceOrder_PayWithCoins_DebitsInSameCommit(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Seed(storage.KeyUserCoins, 150)
	orderService := newOrderService(store)

	req := validPlaceRequest()
	req.PayWithCoins = true

	order, err := orderService.PlaceOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !order.PaidWithCoins {
		t.Error("expected paidWithCoins set")
	}

	var balance int
	store.Get(storage.KeyUserCoins, &balance)
	if balance != 50 {
		t.Errorf("expected balance 50 after debit, got %d", balance)
	}

	var history []domain.CoinEntry
	store.Get(storage.KeyCoinHistory, &history)
	if len(history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(history))
	}
	if history[0].Type != domain.CoinEntrySpent || history[0].Amount != 100 {
		t.Errorf("expected spent 100, got %s %d", history[0].Type, history[0].Amount)
	}
	if history[0].Reason != "Free delivery order" {
		t.Errorf("unexpected reason %q", history[0].Reason)
	}
	if int(store.CommitCallCount) != 1 {
		t.Errorf("expected a single commit for order plus debit, got %d", store.CommitCallCount)
	}
}

func TestPlaceOrder_PayWithCoins_InsufficientBalance_SkipsDiscount(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Seed(storage.KeyUserCoins, 40)
	orderService := newOrderService(store)

	req := validPlaceRequest()
	req.PayWithCoins = true

	order, err := orderService.PlaceOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("expected order to succeed without the discount, got: %v", err)
	}
	if order.PaidWithCoins {
		t.Error("expected paidWithCoins false on insufficient balance")
	}

	var balance int
	store.Get(storage.KeyUserCoins, &balance)
	if balance != 40 {
		t.Errorf("expected balance untouched, got %d", balance)
	}
	if store.Has(storage.KeyCoinHistory) {
		t.Error("expected no history entry without a debit")
	}
}

// ──────────────────────────────────────────────
// ORDER LISTINGS
// ──────────────────────────────────────────────

func TestListPendingOrders_DestinationFilter(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Seed(storage.KeyOrders, []domain.Order{
		{ID: "o1", Destination: "Hostel Block C", Status: domain.OrderStatusPending},
		{ID: "o2", Destination: "Main Block", Status: domain.OrderStatusPending},
		{ID: "o3", Destination: "Hostel Block C", Status: domain.OrderStatusAccepted},
	})
	orderService := newOrderService(store)

	all, err := orderService.ListPendingOrders(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 pending orders, got %d", len(all))
	}

	filtered, err := orderService.ListPendingOrders(context.Background(), "Hostel Block C")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "o1" {
		t.Errorf("expected only o1 for the destination, got %v", filtered)
	}
}

// ──────────────────────────────────────────────
// ORDER ACCEPTANCE
// ──────────────────────────────────────────────

func seedPendingOrder(store *MockStore, id string, orderType domain.DeliveryType, tier domain.ValueTier) {
	order := domain.Order{
		ID:          id,
		Details:     "Notebook and pens",
		Destination: "Hostel Block C",
		Type:        orderType,
		ValueTier:   tier,
		Status:      domain.OrderStatusPending,
	}
	store.Seed(storage.KeyOrders, []domain.Order{order})
	store.Seed(storage.KeyMyOrders, []domain.Order{order})
}

func TestAcceptOrder_CourierLabelsDivergeByView(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPendingOrder(store, "o1", domain.DeliveryTypeRegular, domain.ValueTierLow)
	orderService := newOrderService(store)

	accepted, err := orderService.AcceptOrder(context.Background(), "o1", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if accepted.Status != domain.OrderStatusAccepted {
		t.Errorf("expected accepted, got %s", accepted.Status)
	}
	if accepted.DeliveryPartner != "You" {
		t.Errorf("expected default courier label You, got %q", accepted.DeliveryPartner)
	}

	var orders, myOrders, deliveries []domain.Order
	store.Get(storage.KeyOrders, &orders)
	store.Get(storage.KeyMyOrders, &myOrders)
	store.Get(storage.KeyMyDeliveries, &deliveries)
	if orders[0].DeliveryPartner != "You" {
		t.Errorf("expected courier label in global view, got %q", orders[0].DeliveryPartner)
	}
	if myOrders[0].DeliveryPartner != "Partner assigned" {
		t.Errorf("expected anonymized poster view, got %q", myOrders[0].DeliveryPartner)
	}
	if len(deliveries) != 1 || deliveries[0].ID != "o1" || deliveries[0].Status != domain.OrderStatusAccepted {
		t.Errorf("expected courier copy in myDeliveries, got %v", deliveries)
	}
}

func TestAcceptOrder_NotPending(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.Seed(storage.KeyOrders, []domain.Order{
		{ID: "o1", Status: domain.OrderStatusAccepted},
	})
	orderService := newOrderService(store)

	_, err := orderService.AcceptOrder(context.Background(), "o1", "")
	if !errors.Is(err, service.ErrOrderNotPending) {
		t.Errorf("expected ErrOrderNotPending, got %v", err)
	}
}

// ──────────────────────────────────────────────
// DELIVERY COMPLETION AND REWARD
// ──────────────────────────────────────────────

func TestCompleteDelivery_CreditsRewardFromPersistedTier(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPendingOrder(store, "o1", domain.DeliveryTypeASAP, domain.ValueTierHigh)
	orderService := newOrderService(store)

	if _, err := orderService.AcceptOrder(context.Background(), "o1", "You"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	result, err := orderService.CompleteDelivery(context.Background(), "o1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	want := domain.CoinBreakdown{Base: 20, ASAPBonus: 5, OnTimeBonus: 5}
	if result.Reward != want {
		t.Errorf("expected reward %+v, got %+v", want, result.Reward)
	}
	if result.NewCoins != 30 {
		t.Errorf("expected balance 30, got %d", result.NewCoins)
	}

	var orders, myOrders, deliveries []domain.Order
	store.Get(storage.KeyOrders, &orders)
	store.Get(storage.KeyMyOrders, &myOrders)
	store.Get(storage.KeyMyDeliveries, &deliveries)
	for _, view := range [][]domain.Order{orders, myOrders, deliveries} {
		if view[0].Status != domain.OrderStatusDelivered {
			t.Errorf("expected delivered in every view, got %s", view[0].Status)
		}
	}

	var history []domain.CoinEntry
	store.Get(storage.KeyCoinHistory, &history)
	if len(history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.Type != domain.CoinEntryEarned || entry.Amount != 30 {
		t.Errorf("expected earned 30, got %s %d", entry.Type, entry.Amount)
	}
	if entry.Reason != fmt.Sprintf("Delivery completed - Order #%s", "o1") {
		t.Errorf("unexpected reason %q", entry.Reason)
	}
	if entry.Breakdown == nil || *entry.Breakdown != want {
		t.Errorf("expected breakdown %+v on the entry, got %v", want, entry.Breakdown)
	}
}

func TestCompleteDelivery_RequiresAccepted(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPendingOrder(store, "o1", domain.DeliveryTypeRegular, domain.ValueTierLow)
	orderService := newOrderService(store)

	_, err := orderService.CompleteDelivery(context.Background(), "o1")
	if !errors.Is(err, service.ErrOrderNotAccepted) {
		t.Errorf("expected ErrOrderNotAccepted, got %v", err)
	}
	if store.Has(storage.KeyCoinHistory) {
		t.Error("expected no coins credited for a rejected completion")
	}
}

func TestCompleteDelivery_NotFound(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	orderService := newOrderService(store)

	_, err := orderService.CompleteDelivery(context.Background(), "missing")
	if !errors.Is(err, service.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestCompleteDelivery_CommitFailure_NothingApplied(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPendingOrder(store, "o1", domain.DeliveryTypeRegular, domain.ValueTierMedium)
	orderService := newOrderService(store)

	if _, err := orderService.AcceptOrder(context.Background(), "o1", "You"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	store.CommitError = errors.New("backend down")
	if _, err := orderService.CompleteDelivery(context.Background(), "o1"); err == nil {
		t.Fatal("expected commit failure to surface")
	} else if !strings.Contains(err.Error(), "backend down") {
		t.Errorf("unexpected error: %v", err)
	}

	var orders []domain.Order
	store.Get(storage.KeyOrders, &orders)
	if orders[0].Status != domain.OrderStatusAccepted {
		t.Errorf("expected status unchanged on failed commit, got %s", orders[0].Status)
	}
	if store.Has(storage.KeyCoinHistory) {
		t.Error("expected no coin history on failed commit")
	}
}
