package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"duomate/internal/domain"
	"duomate/internal/service"
)

// RideHandler handles HTTP requests for ride postings.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// PostRideRequest is the HTTP request body for posting a ride.
type PostRideRequest struct {
	StartPlace     string   `json:"startPlace"`
	Destination    string   `json:"destination"`
	Landmarks      []string `json:"landmarks,omitempty"`
	VehicleNumber  string   `json:"vehicleNumber"`
	VehicleType    string   `json:"vehicleType"`
	AvailableSeats int      `json:"availableSeats"`
	DepartureTime  string   `json:"departureTime"`
	Notes          string   `json:"notes,omitempty"`
}

// PostRide handles POST /v1/rides
func (h *RideHandler) PostRide(c *gin.Context) {
	var req PostRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = string(domain.VehicleTypeBike)
	}

	ride, err := h.rideService.PostRide(c.Request.Context(), service.PostRideRequest{
		StartPlace:     req.StartPlace,
		Destination:    req.Destination,
		Landmarks:      req.Landmarks,
		VehicleNumber:  req.VehicleNumber,
		VehicleType:    domain.VehicleType(vehicleType),
		AvailableSeats: req.AvailableSeats,
		DepartureTime:  req.DepartureTime,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ride)
}

// ListActive handles GET /v1/rides
func (h *RideHandler) ListActive(c *gin.Context) {
	rides, err := h.rideService.ListActiveRides(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

// ListMine handles GET /v1/rides/mine
func (h *RideHandler) ListMine(c *gin.Context) {
	rides, err := h.rideService.ListMyRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

// Cancel handles POST /v1/rides/:id/cancel
func (h *RideHandler) Cancel(c *gin.Context) {
	ride, err := h.rideService.CancelRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ride)
}

// Complete handles POST /v1/rides/:id/complete
func (h *RideHandler) Complete(c *gin.Context) {
	if err := h.rideService.CompleteRide(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// ResetRideData handles POST /v1/admin/reset-rides
func (h *RideHandler) ResetRideData(c *gin.Context) {
	if err := h.rideService.ResetRideData(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
