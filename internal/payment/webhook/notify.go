package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/payment"

	"go.uber.org/zap"
)

// maxNotifyBody bounds the urlencoded notification body.
const maxNotifyBody = 64 << 10

// Handler receives the gateway's server-to-server payment notifications.
type Handler struct {
	PaymentSvc payment.Service
}

func NewNotifyHandler(paymentSvc payment.Service) *Handler {
	return &Handler{PaymentSvc: paymentSvc}
}

// ParseNotification reads the gateway's form fields. The amount is kept exactly
// as sent because the signature covers that text.
func ParseNotification(r *http.Request) (payment.Notification, json.RawMessage, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxNotifyBody)
	if err := r.ParseForm(); err != nil {
		return payment.Notification{}, nil, fmt.Errorf("invalid form body: %w", err)
	}

	f := r.PostForm
	n := payment.Notification{
		MerchantID: f.Get("merchant_id"),
		OrderID:    f.Get("order_id"),
		PaymentID:  f.Get("payment_id"),
		Amount:     f.Get("payhere_amount"),
		Currency:   f.Get("payhere_currency"),
		StatusCode: f.Get("status_code"),
		Signature:  f.Get("md5sig"),
		Method:     f.Get("method"),
		Message:    f.Get("status_message"),
	}

	for _, required := range []string{"merchant_id", "order_id", "payhere_amount", "payhere_currency", "status_code", "md5sig"} {
		if f.Get(required) == "" {
			return n, nil, fmt.Errorf("missing field %s", required)
		}
	}

	flat := make(map[string]string, len(f))
	for k := range f {
		flat[k] = f.Get(k)
	}
	payload, err := json.Marshal(flat)
	if err != nil {
		return n, nil, err
	}
	return n, payload, nil
}

func (h *Handler) NotifyHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "handler"),
		zap.String("method", "NotifyHandler"),
	)

	n, payload, err := ParseNotification(r)
	if err != nil {
		log.Warn("rejected malformed notification", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = h.PaymentSvc.HandleNotification(r.Context(), n, payload)
	switch {
	case err == nil:
	case errors.Is(err, payment.ErrSignatureMismatch):
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	case errors.Is(err, payment.ErrInvalidTransition):
		// Acknowledged so the gateway stops redelivering; already logged.
	case errors.Is(err, payment.ErrOrderNotFound):
		http.Error(w, "unknown order", http.StatusNotFound)
		return
	case errors.Is(err, payment.ErrConfiguration):
		http.Error(w, "payment service misconfigured", http.StatusServiceUnavailable)
		return
	default:
		http.Error(w, "failed to process notification", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
