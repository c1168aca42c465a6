package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ceylon-tours-be/internal/event"
	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/metrics"

	"go.uber.org/zap"
)

// Order is the booking view the payment flow needs.
type Order struct {
	Reference     string
	Amount        float64
	Currency      string
	CustomerName  string
	Email         string
	Phone         string
	Address       string
	City          string
	Country       string
	TourName      string
	PaymentStatus Status
}

// OrderStore is implemented by the booking service.
type OrderStore interface {
	CheckoutOrder(ctx context.Context, reference string) (*Order, error)
	ApplyPaymentStatus(ctx context.Context, reference string, status Status) (previous Status, changed bool, err error)
}

type Service interface {
	StartCheckout(ctx context.Context, reference string) (*CheckoutRequest, error)
	HandleNotification(ctx context.Context, n Notification, payload json.RawMessage) (*NotificationResult, error)
	LatestPayment(ctx context.Context, reference string) (*Payment, error)
}

type service struct {
	repo     Repository
	orders   OrderStore
	settings SettingsSource
	gateway  Gateway
	events   event.Publisher
}

func NewService(repo Repository, orders OrderStore, settings SettingsSource, gateway Gateway, events event.Publisher) Service {
	if events == nil {
		events = event.NopPublisher{}
	}
	return &service{
		repo:     repo,
		orders:   orders,
		settings: settings,
		gateway:  gateway,
		events:   events,
	}
}

func (s *service) StartCheckout(ctx context.Context, reference string) (*CheckoutRequest, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "StartCheckout"),
		zap.String("order_id", reference),
	)

	order, err := s.orders.CheckoutOrder(ctx, reference)
	if err != nil {
		log.Warn("failed to load booking for checkout", zap.Error(err))
		return nil, err
	}

	if order.PaymentStatus != StatusPending {
		log.Warn("booking not payable", zap.String("payment_status", string(order.PaymentStatus)))
		return nil, ErrNotPayable
	}

	merchant, err := LoadMerchantConfig(ctx, s.settings)
	if err != nil {
		metrics.IncCheckout(metrics.ResultConfigError)
		log.Error("payment gateway misconfigured", zap.Error(err))
		return nil, err
	}

	req, err := s.gateway.Checkout(merchant, CheckoutInput{
		OrderID:  order.Reference,
		Amount:   order.Amount,
		Currency: order.Currency,
		FullName: order.CustomerName,
		Email:    order.Email,
		Phone:    order.Phone,
		Address:  order.Address,
		City:     order.City,
		Country:  order.Country,
		TourName: order.TourName,
	})
	if err != nil {
		metrics.IncCheckout(metrics.ResultError)
		log.Error("failed to build checkout", zap.Error(err))
		return nil, err
	}

	p := &Payment{
		OrderID:  order.Reference,
		Amount:   req.Fields["amount"],
		Currency: req.Fields["currency"],
		Hash:     req.Fields["hash"],
		Status:   StatusPending,
		Sandbox:  merchant.Sandbox,
	}
	if err := s.repo.SavePayment(ctx, p); err != nil {
		metrics.IncCheckout(metrics.ResultError)
		log.Error("failed to save payment", zap.Error(err))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	metrics.IncCheckout(metrics.ResultOK)
	log.Info("checkout prepared",
		zap.String("amount", p.Amount),
		zap.String("currency", p.Currency),
		zap.Bool("sandbox", merchant.Sandbox),
	)
	return req, nil
}

// HandleNotification authenticates a gateway notification and applies the
// status it claims. An unverified notification changes nothing.
func (s *service) HandleNotification(ctx context.Context, n Notification, payload json.RawMessage) (*NotificationResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "HandleNotification"),
		zap.String("order_id", n.OrderID),
		zap.String("payment_id", n.PaymentID),
		zap.String("status_code", n.StatusCode),
	)

	merchant, err := LoadMerchantConfig(ctx, s.settings)
	if err != nil {
		metrics.IncNotification(metrics.ResultError)
		log.Error("payment gateway misconfigured", zap.Error(err))
		return nil, err
	}

	if !s.gateway.Verify(merchant, n) {
		metrics.IncNotification(metrics.ResultMismatch)
		log.Warn("payment signature mismatch",
			zap.String("audit", "security"),
			zap.String("merchant_id", n.MerchantID),
			zap.String("amount", n.Amount),
			zap.String("currency", n.Currency),
		)
		if _, _, err := s.repo.SaveNotification(ctx, s.gateway.Name(), n, payload, false); err != nil {
			log.Error("failed to record rejected notification", zap.Error(err))
		}
		return nil, ErrSignatureMismatch
	}

	id, processed, err := s.repo.SaveNotification(ctx, s.gateway.Name(), n, payload, true)
	if err != nil {
		metrics.IncNotification(metrics.ResultError)
		log.Error("failed to record notification", zap.Error(err))
		return nil, err
	}

	status := MapStatusCode(n.StatusCode)
	result := &NotificationResult{OrderID: n.OrderID, Status: status}

	if processed {
		metrics.IncNotification(metrics.ResultDuplicate)
		log.Info("duplicate notification ignored")
		result.Duplicate = true
		return result, nil
	}

	previous, changed, err := s.orders.ApplyPaymentStatus(ctx, n.OrderID, status)
	result.Previous = previous
	result.Changed = changed
	if err != nil {
		if markErr := s.repo.MarkNotificationFailed(ctx, id, err.Error()); markErr != nil {
			log.Error("failed to mark notification failed", zap.Error(markErr))
		}
		if errors.Is(err, ErrInvalidTransition) {
			metrics.IncNotification(metrics.ResultInvalidTransition)
			log.Warn("rejected payment status transition",
				zap.String("from", string(previous)),
				zap.String("to", string(status)),
			)
			return result, err
		}
		metrics.IncNotification(metrics.ResultError)
		log.Error("failed to apply payment status", zap.Error(err))
		return nil, err
	}

	if err := s.repo.UpdatePaymentStatus(ctx, n.OrderID, status); err != nil {
		log.Error("failed to update payment record", zap.Error(err))
	}
	if err := s.repo.MarkNotificationProcessed(ctx, id); err != nil {
		log.Error("failed to mark notification processed", zap.Error(err))
	}

	if changed {
		err := s.events.Publish(ctx, event.Event{
			Type:     event.TypePaymentStatusChanged,
			OrderID:  n.OrderID,
			Status:   string(status),
			Previous: string(previous),
		})
		if err != nil {
			log.Error("failed to publish payment event", zap.Error(err))
		}
	}

	metrics.IncNotification(metrics.ResultApplied)
	log.Info("payment notification applied",
		zap.String("status", string(status)),
		zap.String("previous", string(previous)),
		zap.Bool("changed", changed),
	)
	return result, nil
}

func (s *service) LatestPayment(ctx context.Context, reference string) (*Payment, error) {
	return s.repo.GetLatestPayment(ctx, reference)
}
