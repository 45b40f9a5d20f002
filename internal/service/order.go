package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"duomate/internal/domain"
	"duomate/internal/observability"
	"duomate/internal/pricing"
	"duomate/internal/storage"
)

// freeDeliveryCost is the coin price of a coin-paid delivery.
const freeDeliveryCost = 100

// OrderService handles delivery orders across the orders, myOrders and
// myDeliveries collections, and drives the coin ledger for coin-paid
// orders and delivery rewards.
type OrderService struct {
	store  storage.Store
	lock   storage.Locker
	coins  *CoinService
	rng    *rand.Rand
	logger *slog.Logger
}

// NewOrderService creates a new OrderService. The rng decides the value
// tier persisted on each new order.
func NewOrderService(store storage.Store, lock storage.Locker, coins *CoinService, rng *rand.Rand, logger *slog.Logger) *OrderService {
	return &OrderService{store: store, lock: lock, coins: coins, rng: rng, logger: logger}
}

// PlaceOrderRequest contains the parameters for placing a delivery order.
type PlaceOrderRequest struct {
	Details      string
	Landmark     string
	Destination  string
	Type         domain.DeliveryType
	PayWithCoins bool
}

// PlaceOrder validates and stores a new delivery order. When paying with
// coins and the balance covers it, 100 coins are debited in the same
// commit; an insufficient balance silently skips the discount rather than
// failing the order.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if req.Details == "" {
		return nil, ErrMissingOrderDetails
	}
	if req.Destination == "" {
		return nil, ErrMissingOrderDestination
	}
	if req.Type != domain.DeliveryTypeRegular && req.Type != domain.DeliveryTypeASAP {
		return nil, ErrInvalidDeliveryType
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	landmark := req.Landmark
	if landmark == "" {
		landmark = "No landmark specified"
	}

	batch := storage.NewBatch()

	paidWithCoins := false
	if req.PayWithCoins {
		if _, err := s.coins.stageDebit(ctx, batch, freeDeliveryCost, "Free delivery order"); err == nil {
			paidWithCoins = true
		} else if !errors.Is(err, ErrInsufficientCoins) {
			return nil, err
		}
	}

	order := domain.Order{
		ID:            uuid.New().String(),
		Details:       req.Details,
		Landmark:      landmark,
		Destination:   req.Destination,
		Type:          req.Type,
		ValueTier:     pricing.AssignValueTier(req.Details, s.rng),
		Timestamp:     time.Now(),
		Status:        domain.OrderStatusPending,
		PaidWithCoins: paidWithCoins,
	}

	var orders, myOrders []domain.Order
	if err := s.store.ReadList(ctx, storage.KeyOrders, &orders); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyOrders, &myOrders); err != nil {
		return nil, err
	}

	batch.Set(storage.KeyOrders, append(orders, order)).
		Set(storage.KeyMyOrders, append(myOrders, order))
	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	observability.LedgerMutations.WithLabelValues("order", "place").Inc()
	s.logger.Info("order placed", "order_id", order.ID,
		"tier", order.ValueTier, "paid_with_coins", paidWithCoins)
	return &order, nil
}

// ListPendingOrders returns open orders, optionally filtered by exact
// destination match.
func (s *OrderService) ListPendingOrders(ctx context.Context, destination string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.store.ReadList(ctx, storage.KeyOrders, &orders); err != nil {
		return nil, err
	}
	pending := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status != domain.OrderStatusPending {
			continue
		}
		if destination != "" && order.Destination != destination {
			continue
		}
		pending = append(pending, order)
	}
	return pending, nil
}

// ListMyOrders returns the poster-scoped view.
func (s *OrderService) ListMyOrders(ctx context.Context) ([]domain.Order, error) {
	var myOrders []domain.Order
	if err := s.store.ReadList(ctx, storage.KeyMyOrders, &myOrders); err != nil {
		return nil, err
	}
	return myOrders, nil
}

// ListMyDeliveries returns the courier-scoped view.
func (s *OrderService) ListMyDeliveries(ctx context.Context) ([]domain.Order, error) {
	var deliveries []domain.Order
	if err := s.store.ReadList(ctx, storage.KeyMyDeliveries, &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// AcceptOrder moves a pending order to accepted. The courier label lands
// in the global collection and the courier copy; the poster view only
// sees "Partner assigned".
func (s *OrderService) AcceptOrder(ctx context.Context, orderID, courierLabel string) (*domain.Order, error) {
	if courierLabel == "" {
		courierLabel = "You"
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var orders, myOrders, deliveries []domain.Order
	if err := s.store.ReadList(ctx, storage.KeyOrders, &orders); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyOrders, &myOrders); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyDeliveries, &deliveries); err != nil {
		return nil, err
	}

	var accepted *domain.Order
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if orders[i].Status != domain.OrderStatusPending {
			return nil, ErrOrderNotPending
		}
		orders[i].Status = domain.OrderStatusAccepted
		orders[i].DeliveryPartner = courierLabel
		order := orders[i]
		accepted = &order
	}
	if accepted == nil {
		return nil, ErrOrderNotFound
	}
	for i := range myOrders {
		if myOrders[i].ID == orderID {
			myOrders[i].Status = domain.OrderStatusAccepted
			myOrders[i].DeliveryPartner = "Partner assigned"
		}
	}

	batch := storage.NewBatch().
		Set(storage.KeyOrders, orders).
		Set(storage.KeyMyOrders, myOrders).
		Set(storage.KeyMyDeliveries, append(deliveries, *accepted))
	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	observability.LedgerMutations.WithLabelValues("order", "accept").Inc()
	s.logger.Info("order accepted", "order_id", orderID, "courier", courierLabel)
	return accepted, nil
}

// CompleteDeliveryResult reports the delivered order and the coins
// credited for it.
type CompleteDeliveryResult struct {
	Order    *domain.Order
	Reward   domain.CoinBreakdown
	NewCoins int
}

// CompleteDelivery marks the order delivered in orders, myOrders and
// myDeliveries, and credits the courier's reward in the same commit. The
// reward is computed from the tier persisted at placement.
func (s *OrderService) CompleteDelivery(ctx context.Context, orderID string) (*CompleteDeliveryResult, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var orders, myOrders, deliveries []domain.Order
	if err := s.store.ReadList(ctx, storage.KeyOrders, &orders); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyOrders, &myOrders); err != nil {
		return nil, err
	}
	if err := s.store.ReadList(ctx, storage.KeyMyDeliveries, &deliveries); err != nil {
		return nil, err
	}

	var delivered *domain.Order
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if orders[i].Status != domain.OrderStatusAccepted {
			return nil, ErrOrderNotAccepted
		}
		orders[i].Status = domain.OrderStatusDelivered
		order := orders[i]
		delivered = &order
	}
	if delivered == nil {
		return nil, ErrOrderNotFound
	}
	for i := range myOrders {
		if myOrders[i].ID == orderID {
			myOrders[i].Status = domain.OrderStatusDelivered
		}
	}
	for i := range deliveries {
		if deliveries[i].ID == orderID {
			deliveries[i].Status = domain.OrderStatusDelivered
		}
	}

	reward := pricing.RewardFor(delivered.ValueTier, delivered.Type)
	breakdown := reward

	batch := storage.NewBatch().
		Set(storage.KeyOrders, orders).
		Set(storage.KeyMyOrders, myOrders).
		Set(storage.KeyMyDeliveries, deliveries)

	reason := fmt.Sprintf("Delivery completed - Order #%s", orderID)
	balance, err := s.coins.stageCredit(ctx, batch, reward.Total(), reason, &breakdown)
	if err != nil {
		return nil, err
	}

	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, err
	}

	observability.LedgerMutations.WithLabelValues("order", "deliver").Inc()
	observability.CoinBalance.Set(float64(balance))
	s.logger.Info("delivery completed", "order_id", orderID,
		"coins", reward.Total(), "balance", balance)
	return &CompleteDeliveryResult{Order: delivered, Reward: reward, NewCoins: balance}, nil
}
