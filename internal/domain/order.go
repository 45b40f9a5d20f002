package domain

import "time"

// OrderStatus represents the current status of a delivery order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// DeliveryType represents the urgency of a delivery order.
type DeliveryType string

const (
	DeliveryTypeRegular DeliveryType = "regular"
	DeliveryTypeASAP    DeliveryType = "asap"
)

// ValueTier is the coarse order-value bucket used to size the coin reward.
// It is assigned once when the order is placed and read at every later
// display and award point, so the estimate a courier sees always matches
// the coins actually credited on completion.
type ValueTier string

const (
	ValueTierHigh   ValueTier = "high"
	ValueTierMedium ValueTier = "medium"
	ValueTierLow    ValueTier = "low"
)

// Order is a delivery request on the DeliveryMate board. It is replicated
// into the global orders collection, the poster-scoped myOrders collection
// and, once accepted, the courier-scoped myDeliveries collection.
type Order struct {
	ID              string       `json:"id"`
	Details         string       `json:"details"`
	Landmark        string       `json:"landmark"`
	Destination     string       `json:"destination"`
	Type            DeliveryType `json:"type"`
	ValueTier       ValueTier    `json:"valueTier"`
	Timestamp       time.Time    `json:"timestamp"`
	Status          OrderStatus  `json:"status"`
	DeliveryPartner string       `json:"deliveryPartner,omitempty"`
	PaidWithCoins   bool         `json:"paidWithCoins,omitempty"`
}
