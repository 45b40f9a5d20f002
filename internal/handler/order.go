package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"duomate/internal/domain"
	"duomate/internal/service"
)

// OrderHandler handles HTTP requests for delivery orders.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrderRequest is the HTTP request body for placing an order.
type PlaceOrderRequest struct {
	Details      string `json:"details"`
	Landmark     string `json:"landmark,omitempty"`
	Destination  string `json:"destination"`
	Type         string `json:"type"`
	PayWithCoins bool   `json:"payWithCoins,omitempty"`
}

// AcceptOrderRequest is the HTTP request body for accepting an order.
type AcceptOrderRequest struct {
	Courier string `json:"courier,omitempty"`
}

// CompleteDeliveryResponse is the HTTP response for a completed delivery.
type CompleteDeliveryResponse struct {
	Order    *domain.Order        `json:"order"`
	Reward   domain.CoinBreakdown `json:"reward"`
	NewCoins int                  `json:"newCoins"`
}

// Place handles POST /v1/orders
func (h *OrderHandler) Place(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	orderType := req.Type
	if orderType == "" {
		orderType = string(domain.DeliveryTypeRegular)
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), service.PlaceOrderRequest{
		Details:      req.Details,
		Landmark:     req.Landmark,
		Destination:  req.Destination,
		Type:         domain.DeliveryType(orderType),
		PayWithCoins: req.PayWithCoins,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListPending handles GET /v1/orders?destination=
func (h *OrderHandler) ListPending(c *gin.Context) {
	orders, err := h.orderService.ListPendingOrders(c.Request.Context(), c.Query("destination"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListMine handles GET /v1/orders/mine
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.orderService.ListMyOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListDeliveries handles GET /v1/orders/deliveries
func (h *OrderHandler) ListDeliveries(c *gin.Context) {
	deliveries, err := h.orderService.ListMyDeliveries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

// Accept handles POST /v1/orders/:id/accept
func (h *OrderHandler) Accept(c *gin.Context) {
	var req AcceptOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	order, err := h.orderService.AcceptOrder(c.Request.Context(), c.Param("id"), req.Courier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Deliver handles POST /v1/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	result, err := h.orderService.CompleteDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CompleteDeliveryResponse{
		Order:    result.Order,
		Reward:   result.Reward,
		NewCoins: result.NewCoins,
	})
}
