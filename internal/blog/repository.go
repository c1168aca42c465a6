package blog

import (
	"context"
	"database/sql"
	"errors"

	"ceylon-tours-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, includeUnpublished bool) ([]Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Upsert(ctx context.Context, p Post) (*Post, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const postColumns = `slug, title, excerpt, content, cover_image, tags, published, published_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var publishedAt sql.NullTime
	err := row.Scan(&p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.CoverImage, pq.Array(&p.Tags), &p.Published, &publishedAt)
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, err
}

func (r *repository) List(ctx context.Context, includeUnpublished bool) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	if !includeUnpublished {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY published_at DESC NULLS LAST, slug ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed ListPosts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Upsert(ctx context.Context, p Post) (*Post, error) {
	var publishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (slug, title, excerpt, content, cover_image, tags, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content,
			cover_image = EXCLUDED.cover_image,
			tags = EXCLUDED.tags,
			published = EXCLUDED.published,
			published_at = COALESCE(blog_posts.published_at, EXCLUDED.published_at),
			updated_at = NOW()
		RETURNING published_at`,
		p.Slug, p.Title, p.Excerpt, p.Content, p.CoverImage, pq.Array(p.Tags), p.Published, p.PublishedAt,
	).Scan(&publishedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("UpsertPost failed", zap.String("slug", p.Slug), zap.Error(err))
		return nil, err
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return &p, nil
}
