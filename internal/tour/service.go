package tour

import (
	"context"
	"fmt"
	"strings"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/utils"

	"go.uber.org/zap"
)

const DefaultCurrency = "LKR"

type Service interface {
	ListTours(ctx context.Context, filter TourFilter, limit, page int) ([]Tour, int64, error)
	GetTour(ctx context.Context, slug string, includeUnpublished bool) (*Tour, error)
	SaveTour(ctx context.Context, slug string, t Tour) (*Tour, error)
	DeleteTour(ctx context.Context, slug string) error

	ListDestinations(ctx context.Context) ([]Destination, error)
	GetDestination(ctx context.Context, slug string) (*Destination, error)
	SaveDestination(ctx context.Context, slug string, d Destination) (*Destination, error)
	DeleteDestination(ctx context.Context, slug string) error

	ImageRefs(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListTours(ctx context.Context, filter TourFilter, limit, page int) ([]Tour, int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListTours"),
	)

	tours, total, err := s.repo.ListTours(ctx, filter, limit, page)
	if err != nil {
		log.Error("failed to list tours", zap.Error(err))
		return nil, 0, err
	}

	log.Debug("ListTours success", zap.Int("count", len(tours)), zap.Int64("total", total))
	return tours, total, nil
}

// GetTour hides unpublished tours unless includeUnpublished is set.
func (s *service) GetTour(ctx context.Context, slug string, includeUnpublished bool) (*Tour, error) {
	t, err := s.repo.GetTourBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !t.Published && !includeUnpublished {
		return nil, ErrTourNotFound
	}
	return t, nil
}

func (s *service) SaveTour(ctx context.Context, slug string, t Tour) (*Tour, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SaveTour"),
		zap.String("slug", slug),
	)

	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTour)
	}
	if t.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidTour)
	}
	if t.DurationDays < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidTour)
	}

	t.Slug = utils.Slugify(slug)
	if t.Slug == "" {
		t.Slug = utils.Slugify(t.Name)
	}
	if t.Slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidTour)
	}
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	t.Currency = strings.ToUpper(t.Currency)
	if t.Gallery == nil {
		t.Gallery = []string{}
	}

	saved, err := s.repo.UpsertTour(ctx, t)
	if err != nil {
		log.Error("failed to save tour", zap.Error(err))
		return nil, err
	}

	log.Info("tour saved", zap.Uint("tour_id", saved.ID))
	return saved, nil
}

func (s *service) DeleteTour(ctx context.Context, slug string) error {
	if err := s.repo.DeleteTour(ctx, slug); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("tour deleted", zap.String("slug", slug))
	return nil
}

func (s *service) ListDestinations(ctx context.Context) ([]Destination, error) {
	return s.repo.ListDestinations(ctx)
}

func (s *service) GetDestination(ctx context.Context, slug string) (*Destination, error) {
	return s.repo.GetDestinationBySlug(ctx, slug)
}

func (s *service) SaveDestination(ctx context.Context, slug string, d Destination) (*Destination, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDestination)
	}

	d.Slug = utils.Slugify(slug)
	if d.Slug == "" {
		d.Slug = utils.Slugify(d.Name)
	}
	if d.Slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidDestination)
	}

	saved, err := s.repo.UpsertDestination(ctx, d)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to save destination", zap.String("slug", d.Slug), zap.Error(err))
		return nil, err
	}
	return saved, nil
}

func (s *service) DeleteDestination(ctx context.Context, slug string) error {
	if err := s.repo.DeleteDestination(ctx, slug); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("destination deleted", zap.String("slug", slug))
	return nil
}

func (s *service) ImageRefs(ctx context.Context) ([]string, error) {
	return s.repo.ListImageRefs(ctx)
}
