package booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/payment"
	"ceylon-tours-be/internal/tour"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MaxTravelers      = 50
	travelDateLayout  = "2006-01-02"
	maxStatusAttempts = 2
)

// TourLookup resolves the tour a booking is made for.
type TourLookup interface {
	GetTour(ctx context.Context, slug string, includeUnpublished bool) (*tour.Tour, error)
}

type ReferenceGenerator interface {
	Next() string
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	List(ctx context.Context, filter ListFilter, limit, page int) ([]Booking, int64, error)

	CheckoutOrder(ctx context.Context, reference string) (*payment.Order, error)
	ApplyPaymentStatus(ctx context.Context, reference string, status payment.Status) (payment.Status, bool, error)
}

type service struct {
	repo  Repository
	tours TourLookup
	refs  ReferenceGenerator
	now   func() time.Time
}

func NewService(repo Repository, tours TourLookup, refs ReferenceGenerator) Service {
	return &service{repo: repo, tours: tours, refs: refs, now: time.Now}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Booking, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.String("tour", in.TourSlug),
	)

	travelDate, err := s.validate(&in)
	if err != nil {
		log.Info("rejected booking input", zap.Error(err))
		return nil, err
	}

	t, err := s.tours.GetTour(ctx, in.TourSlug, false)
	if err != nil {
		if errors.Is(err, tour.ErrTourNotFound) {
			return nil, fmt.Errorf("%w: unknown tour %q", ErrInvalidBooking, in.TourSlug)
		}
		log.Error("failed to load tour", zap.Error(err))
		return nil, err
	}

	b := &Booking{
		Reference:     s.refs.Next(),
		TourID:        t.ID,
		TourName:      t.Name,
		CustomerName:  in.CustomerName,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		Country:       in.Country,
		Travelers:     in.Travelers,
		TravelDate:    travelDate,
		Amount:        t.Price.Mul(decimal.NewFromInt(int64(in.Travelers))),
		Currency:      t.Currency,
		PaymentStatus: payment.StatusPending,
	}
	if b.Country == "" {
		b.Country = payment.DefaultCountry
	}
	if b.Currency == "" {
		b.Currency = payment.DefaultCurrency
	}

	if err := s.repo.Create(ctx, b); err != nil {
		log.Error("failed to create booking", zap.Error(err))
		return nil, err
	}

	log.Info("booking created",
		zap.String("reference", b.Reference),
		zap.String("amount", b.Amount.StringFixed(2)),
		zap.Int("travelers", b.Travelers),
	)
	return b, nil
}

func (s *service) validate(in *CreateInput) (time.Time, error) {
	in.TourSlug = strings.TrimSpace(in.TourSlug)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	switch {
	case in.TourSlug == "":
		return time.Time{}, fmt.Errorf("%w: tour is required", ErrInvalidBooking)
	case in.CustomerName == "":
		return time.Time{}, fmt.Errorf("%w: name is required", ErrInvalidBooking)
	case in.Phone == "":
		return time.Time{}, fmt.Errorf("%w: phone is required", ErrInvalidBooking)
	case in.Travelers < 1 || in.Travelers > MaxTravelers:
		return time.Time{}, fmt.Errorf("%w: travelers must be between 1 and %d", ErrInvalidBooking, MaxTravelers)
	}

	if _, err := mail.ParseAddress(in.Email); err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid email", ErrInvalidBooking)
	}

	date, err := time.Parse(travelDateLayout, strings.TrimSpace(in.TravelDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: travel date must be YYYY-MM-DD", ErrInvalidBooking)
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return time.Time{}, fmt.Errorf("%w: travel date is in the past", ErrInvalidBooking)
	}
	return date, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	return s.repo.GetByReference(ctx, strings.TrimSpace(reference))
}

func (s *service) List(ctx context.Context, filter ListFilter, limit, page int) ([]Booking, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidBooking, filter.Status)
	}
	return s.repo.List(ctx, filter, limit, page)
}

// CheckoutOrder exposes a booking to the payment flow.
func (s *service) CheckoutOrder(ctx context.Context, reference string) (*payment.Order, error) {
	b, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return &payment.Order{
		Reference:     b.Reference,
		Amount:        b.Amount.InexactFloat64(),
		Currency:      b.Currency,
		CustomerName:  b.CustomerName,
		Email:         b.Email,
		Phone:         b.Phone,
		Address:       b.Address,
		City:          b.City,
		Country:       b.Country,
		TourName:      b.TourName,
		PaymentStatus: b.PaymentStatus,
	}, nil
}

// ApplyPaymentStatus moves the booking to status if the transition is allowed.
// Applying the status the booking already has is a no-op. A lost race against
// a concurrent writer is retried once against the fresh row.
func (s *service) ApplyPaymentStatus(ctx context.Context, reference string, status payment.Status) (payment.Status, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApplyPaymentStatus"),
		zap.String("reference", reference),
		zap.String("status", string(status)),
	)

	for attempt := 0; attempt < maxStatusAttempts; attempt++ {
		b, err := s.repo.GetByReference(ctx, reference)
		if err != nil {
			return "", false, err
		}

		previous := b.PaymentStatus
		next, changed, err := payment.Transition(previous, status)
		if err != nil {
			return previous, false, err
		}
		if !changed {
			log.Debug("payment status already applied")
			return previous, false, nil
		}

		ok, err := s.repo.UpdatePaymentStatus(ctx, reference, previous, next)
		if err != nil {
			return previous, false, err
		}
		if ok {
			log.Info("booking payment status updated", zap.String("previous", string(previous)))
			return previous, true, nil
		}

		log.Warn("payment status changed underneath update, retrying", zap.Int("attempt", attempt+1))
	}

	return "", false, ErrConcurrentUpdate
}
