package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhijeet-0165/ridefusion/service"
	"github.com/abhijeet-0165/ridefusion/storage"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(c),
	})
}

// respondServiceError maps service failures onto HTTP statuses.
func (h *handler) respondServiceError(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", errFields(c, err)...)
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	respondError(c, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired, "insufficient_funds"
	case errors.Is(err, service.ErrBookingInFlight),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRideFull):
		return http.StatusConflict, "conflict"
	case service.IsValidation(err):
		return http.StatusBadRequest, "validation_error"
	case service.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, service.ErrConnection):
		return http.StatusServiceUnavailable, "unavailable"
	case storage.IsDataIntegrity(err):
		return http.StatusBadGateway, "data_integrity"
	}
	return http.StatusInternalServerError, "internal_error"
}
