package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"duomate/internal/service"
	"duomate/internal/storage"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/storage errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrRideNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrVoucherNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingStartPlace),
		errors.Is(err, service.ErrMissingDestination),
		errors.Is(err, service.ErrMissingVehicleNumber),
		errors.Is(err, service.ErrMissingDepartureTime),
		errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrMissingPassengerDestination),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrMissingOrderDetails),
		errors.Is(err, service.ErrMissingOrderDestination),
		errors.Is(err, service.ErrInvalidDeliveryType),
		errors.Is(err, service.ErrInvalidCoinAmount):
		return http.StatusBadRequest

	// Conflict errors - record exists but is in the wrong state
	case errors.Is(err, service.ErrRideNotActive),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingNotConfirmed),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderNotAccepted),
		errors.Is(err, service.ErrInsufficientCoins):
		return http.StatusConflict

	// Another mutation holds the namespace lock
	case errors.Is(err, storage.ErrNamespaceBusy):
		return http.StatusServiceUnavailable

	// Default to internal server error (includes ErrCorruptCollection)
	default:
		return http.StatusInternalServerError
	}
}
