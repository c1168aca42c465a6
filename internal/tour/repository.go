package tour

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListTours(ctx context.Context, filter TourFilter, limit, page int) ([]Tour, int64, error)
	GetTourBySlug(ctx context.Context, slug string) (*Tour, error)
	UpsertTour(ctx context.Context, t Tour) (*Tour, error)
	DeleteTour(ctx context.Context, slug string) error

	ListDestinations(ctx context.Context) ([]Destination, error)
	GetDestinationBySlug(ctx context.Context, slug string) (*Destination, error)
	UpsertDestination(ctx context.Context, d Destination) (*Destination, error)
	DeleteDestination(ctx context.Context, slug string) error

	ListImageRefs(ctx context.Context) ([]string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const tourColumns = `
	t.id, t.slug, t.name, t.summary, t.description, t.destination_id,
	t.duration_days, t.price, t.currency, t.image_url, t.gallery,
	t.featured, t.published, t.created_at, t.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(row rowScanner, extra ...any) (Tour, error) {
	var t Tour
	var destID sql.NullInt64
	dest := []any{
		&t.ID, &t.Slug, &t.Name, &t.Summary, &t.Description, &destID,
		&t.DurationDays, &t.Price, &t.Currency, &t.ImageURL, pq.Array(&t.Gallery),
		&t.Featured, &t.Published, &t.CreatedAt, &t.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return t, err
	}
	if destID.Valid {
		id := uint(destID.Int64)
		t.DestinationID = &id
	}
	if t.Gallery == nil {
		t.Gallery = []string{}
	}
	return t, nil
}

func (r *repository) ListTours(ctx context.Context, filter TourFilter, limit, page int) ([]Tour, int64, error) {
	limit, page, offset := utils.Paginate(limit, page)

	log := logger.FromCtx(ctx).With(
		zap.String("destination", filter.Destination),
		zap.Int("limit", limit),
		zap.Int("page", page),
	)
	log.Debug("ListTours started")

	query := `SELECT` + tourColumns + `, COUNT(*) OVER() AS total_count
		FROM tours t
		LEFT JOIN destinations d ON d.id = t.destination_id`

	where := []string{}
	args := []any{}

	if !filter.IncludeUnpublished {
		where = append(where, "t.published = TRUE")
	}
	if filter.Destination != "" {
		where = append(where, fmt.Sprintf("d.slug = $%d", len(args)+1))
		args = append(args, filter.Destination)
	}
	if filter.Featured != nil {
		where = append(where, fmt.Sprintf("t.featured = $%d", len(args)+1))
		args = append(args, *filter.Featured)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY t.featured DESC, t.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed ListTours", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	tours := []Tour{}
	var total int64
	for rows.Next() {
		t, err := scanTour(rows, &total)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, 0, err
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, 0, err
	}

	return tours, total, nil
}

func (r *repository) GetTourBySlug(ctx context.Context, slug string) (*Tour, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+tourColumns+` FROM tours t WHERE t.slug = $1`, slug)
	t, err := scanTour(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		logger.FromCtx(ctx).Error("GetTourBySlug failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *repository) UpsertTour(ctx context.Context, t Tour) (*Tour, error) {
	var destID any
	if t.DestinationID != nil {
		destID = int64(*t.DestinationID)
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tours (
			slug, name, summary, description, destination_id, duration_days,
			price, currency, image_url, gallery, featured, published
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			summary = EXCLUDED.summary,
			description = EXCLUDED.description,
			destination_id = EXCLUDED.destination_id,
			duration_days = EXCLUDED.duration_days,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			image_url = EXCLUDED.image_url,
			gallery = EXCLUDED.gallery,
			featured = EXCLUDED.featured,
			published = EXCLUDED.published,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		t.Slug, t.Name, t.Summary, t.Description, destID, t.DurationDays,
		t.Price, t.Currency, t.ImageURL, pq.Array(t.Gallery), t.Featured, t.Published,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("UpsertTour failed", zap.String("slug", t.Slug), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *repository) DeleteTour(ctx context.Context, slug string) error {
	return r.deleteBySlug(ctx, "DELETE FROM tours WHERE slug = $1", slug, ErrTourNotFound)
}

func (r *repository) ListDestinations(ctx context.Context) ([]Destination, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, name, region, description, image_url, created_at, updated_at
		FROM destinations
		ORDER BY name ASC`)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed ListDestinations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	destinations := []Destination{}
	for rows.Next() {
		var d Destination
		if err := rows.Scan(&d.ID, &d.Slug, &d.Name, &d.Region, &d.Description, &d.ImageURL, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

func (r *repository) GetDestinationBySlug(ctx context.Context, slug string) (*Destination, error) {
	var d Destination
	err := r.db.QueryRowContext(ctx, `
		SELECT id, slug, name, region, description, image_url, created_at, updated_at
		FROM destinations
		WHERE slug = $1`, slug,
	).Scan(&d.ID, &d.Slug, &d.Name, &d.Region, &d.Description, &d.ImageURL, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) UpsertDestination(ctx context.Context, d Destination) (*Destination, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO destinations (slug, name, region, description, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			region = EXCLUDED.region,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		d.Slug, d.Name, d.Region, d.Description, d.ImageURL,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("UpsertDestination failed", zap.String("slug", d.Slug), zap.Error(err))
		return nil, err
	}
	return &d, nil
}

func (r *repository) DeleteDestination(ctx context.Context, slug string) error {
	return r.deleteBySlug(ctx, "DELETE FROM destinations WHERE slug = $1", slug, ErrDestinationNotFound)
}

func (r *repository) deleteBySlug(ctx context.Context, query, slug string, notFound error) error {
	res, err := r.db.ExecContext(ctx, query, slug)
	if err != nil {
		logger.FromCtx(ctx).Error("delete failed", zap.String("slug", slug), zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// ListImageRefs returns every image URL referenced by tours and destinations.
func (r *repository) ListImageRefs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT image_url FROM tours WHERE image_url <> ''
		UNION
		SELECT unnest(gallery) FROM tours
		UNION
		SELECT image_url FROM destinations WHERE image_url <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
