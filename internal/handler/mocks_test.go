package handler

import (
	"context"
	"encoding/json"

	"ceylon-tours-be/internal/blog"
	"ceylon-tours-be/internal/booking"
	"ceylon-tours-be/internal/media"
	"ceylon-tours-be/internal/payment"
	"ceylon-tours-be/internal/tour"
	"ceylon-tours-be/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockTourService struct {
	mock.Mock
}

func (m *MockTourService) ListTours(ctx context.Context, filter tour.TourFilter, limit, page int) ([]tour.Tour, int64, error) {
	args := m.Called(ctx, filter, limit, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]tour.Tour), args.Get(1).(int64), args.Error(2)
}

func (m *MockTourService) GetTour(ctx context.Context, slug string, includeUnpublished bool) (*tour.Tour, error) {
	args := m.Called(ctx, slug, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Tour), args.Error(1)
}

func (m *MockTourService) SaveTour(ctx context.Context, slug string, t tour.Tour) (*tour.Tour, error) {
	args := m.Called(ctx, slug, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Tour), args.Error(1)
}

func (m *MockTourService) DeleteTour(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *MockTourService) ListDestinations(ctx context.Context) ([]tour.Destination, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tour.Destination), args.Error(1)
}

func (m *MockTourService) GetDestination(ctx context.Context, slug string) (*tour.Destination, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Destination), args.Error(1)
}

func (m *MockTourService) SaveDestination(ctx context.Context, slug string, d tour.Destination) (*tour.Destination, error) {
	args := m.Called(ctx, slug, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Destination), args.Error(1)
}

func (m *MockTourService) DeleteDestination(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *MockTourService) ImageRefs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, in booking.CreateInput) (*booking.Booking, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) GetByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, filter booking.ListFilter, limit, page int) ([]booking.Booking, int64, error) {
	args := m.Called(ctx, filter, limit, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]booking.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingService) CheckoutOrder(ctx context.Context, reference string) (*payment.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockBookingService) ApplyPaymentStatus(ctx context.Context, reference string, status payment.Status) (payment.Status, bool, error) {
	args := m.Called(ctx, reference, status)
	return args.Get(0).(payment.Status), args.Bool(1), args.Error(2)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) StartCheckout(ctx context.Context, reference string) (*payment.CheckoutRequest, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutRequest), args.Error(1)
}

func (m *MockPaymentService) HandleNotification(ctx context.Context, n payment.Notification, payload json.RawMessage) (*payment.NotificationResult, error) {
	args := m.Called(ctx, n, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.NotificationResult), args.Error(1)
}

func (m *MockPaymentService) LatestPayment(ctx context.Context, reference string) (*payment.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) List(ctx context.Context, includeUnpublished bool) ([]blog.Post, error) {
	args := m.Called(ctx, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blog.Post), args.Error(1)
}

func (m *MockBlogService) Get(ctx context.Context, slug string, includeUnpublished bool) (*blog.Post, error) {
	args := m.Called(ctx, slug, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockBlogService) Save(ctx context.Context, slug string, p blog.Post) (*blog.Post, error) {
	args := m.Called(ctx, slug, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockBlogService) ImageRefs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*user.Admin, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Admin), args.Error(1)
}

type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) Usage(ctx context.Context) (media.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(media.Report), args.Error(1)
}

type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) Resolve(ctx context.Context, key string) (string, string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.String(1), args.Bool(2)
}

func (m *MockSettings) Sources() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockSettings) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}
