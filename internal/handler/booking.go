package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"duomate/internal/service"
)

// BookingHandler handles HTTP requests for join requests.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// SubmitJoinRequest is the HTTP request body for joining a ride.
type SubmitJoinRequest struct {
	RideID               string  `json:"rideId"`
	PassengerDestination string  `json:"passengerDestination"`
	Distance             float64 `json:"distance"`
}

// Submit handles POST /v1/bookings
func (h *BookingHandler) Submit(c *gin.Context) {
	var req SubmitJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.SubmitJoinRequest(c.Request.Context(), service.SubmitJoinRequestParams{
		RideID:               req.RideID,
		PassengerDestination: req.PassengerDestination,
		DistanceKm:           req.Distance,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListPending handles GET /v1/bookings/requests, the rider's
// notification feed of open requests.
func (h *BookingHandler) ListPending(c *gin.Context) {
	requests, err := h.bookingService.ListPendingRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListMine handles GET /v1/bookings/mine
func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.bookingService.ListMyBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Accept handles POST /v1/bookings/:id/accept
func (h *BookingHandler) Accept(c *gin.Context) {
	booking, err := h.bookingService.RespondToRequest(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Reject handles POST /v1/bookings/:id/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	booking, err := h.bookingService.RespondToRequest(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Complete handles POST /v1/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	if err := h.bookingService.MarkBookingComplete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
