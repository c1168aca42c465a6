package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, includeUnpublished bool) ([]Post, error)
	Get(ctx context.Context, slug string, includeUnpublished bool) (*Post, error)
	Save(ctx context.Context, slug string, p Post) (*Post, error)
	ImageRefs(ctx context.Context) ([]string, error)
}

// service reads from the database and falls back to the file mirror when the
// database is unavailable. Writes go to the database and are mirrored to the file.
type service struct {
	primary  Repository
	fallback Repository
	now      func() time.Time
}

func NewService(primary, fallback Repository) Service {
	return &service{primary: primary, fallback: fallback, now: time.Now}
}

func (s *service) List(ctx context.Context, includeUnpublished bool) ([]Post, error) {
	posts, err := s.primary.List(ctx, includeUnpublished)
	if err == nil || s.fallback == nil {
		return posts, err
	}

	logger.FromCtx(ctx).Warn("blog database unavailable, serving file fallback", zap.Error(err))
	return s.fallback.List(ctx, includeUnpublished)
}

func (s *service) Get(ctx context.Context, slug string, includeUnpublished bool) (*Post, error) {
	p, err := s.primary.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrPostNotFound) && s.fallback != nil {
		logger.FromCtx(ctx).Warn("blog database unavailable, serving file fallback",
			zap.String("slug", slug),
			zap.Error(err),
		)
		p, err = s.fallback.GetBySlug(ctx, slug)
	}
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeUnpublished {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *service) Save(ctx context.Context, slug string, p Post) (*Post, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SavePost"),
	)

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPost)
	}
	p.Slug = utils.Slugify(slug)
	if p.Slug == "" {
		p.Slug = utils.Slugify(p.Title)
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidPost)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Published && p.PublishedAt == nil {
		now := s.now().UTC()
		p.PublishedAt = &now
	}

	saved, err := s.primary.Upsert(ctx, p)
	if err != nil {
		log.Error("failed to save post", zap.String("slug", p.Slug), zap.Error(err))
		return nil, err
	}

	if s.fallback != nil {
		if _, err := s.fallback.Upsert(ctx, *saved); err != nil {
			log.Warn("failed to mirror post to file fallback", zap.String("slug", p.Slug), zap.Error(err))
		}
	}

	log.Info("post saved", zap.String("slug", saved.Slug))
	return saved, nil
}

// ImageRefs returns cover images plus any post body that embeds uploads.
func (s *service) ImageRefs(ctx context.Context) ([]string, error) {
	posts, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	var refs []string
	for _, p := range posts {
		if p.CoverImage != "" {
			refs = append(refs, p.CoverImage)
		}
		if strings.Contains(p.Content, "/uploads/") {
			refs = append(refs, p.Content)
		}
	}
	return refs, nil
}
