// Package handler exposes the site's REST API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ceylon-tours-be/internal/blog"
	"ceylon-tours-be/internal/booking"
	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/payment"
	"ceylon-tours-be/internal/tour"
	"ceylon-tours-be/internal/user"
	"ceylon-tours-be/internal/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
	Page  int   `json:"page"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeError maps domain errors to HTTP responses. Unmapped errors are logged
// and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tour.ErrTourNotFound),
		errors.Is(err, tour.ErrDestinationNotFound),
		errors.Is(err, blog.ErrPostNotFound),
		errors.Is(err, payment.ErrOrderNotFound),
		errors.Is(err, payment.ErrPaymentNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, tour.ErrInvalidTour),
		errors.Is(err, tour.ErrInvalidDestination),
		errors.Is(err, blog.ErrInvalidPost),
		errors.Is(err, booking.ErrInvalidBooking),
		errors.Is(err, payment.ErrInvalidCheckout):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, payment.ErrNotPayable):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, user.ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, payment.ErrConfiguration):
		utils.WriteJSONError(w, "payments are temporarily unavailable", http.StatusServiceUnavailable)
	default:
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
