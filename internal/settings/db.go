package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ceylon-tours-be/internal/cache"
	"ceylon-tours-be/internal/logger"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	cacheHash = "settings"
	cacheTTL  = 5 * time.Minute
)

// DBProvider reads the persisted site_settings table through a cache. The
// breaker keeps a failing database from stalling every lookup.
type DBProvider struct {
	db      *sql.DB
	cache   cache.Store
	breaker *gobreaker.CircuitBreaker
}

func NewDBProvider(db *sql.DB, store cache.Store) *DBProvider {
	return &DBProvider{
		db:    db,
		cache: store,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "site_settings",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (p *DBProvider) Name() string { return "db" }

func (p *DBProvider) Lookup(ctx context.Context, key string) (string, bool) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "settings"),
		zap.String("provider", p.Name()),
		zap.String("key", key),
	)

	if p.cache != nil {
		v, err := p.cache.HGet(ctx, cacheHash, key)
		if err == nil {
			return v, v != ""
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("settings cache read failed", zap.Error(err))
		}
	}

	res, err := p.breaker.Execute(func() (interface{}, error) {
		var value string
		err := p.db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE key = $1`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return value, err
	})
	if err != nil {
		log.Warn("settings lookup failed", zap.Error(err))
		return "", false
	}

	value := res.(string)
	if p.cache != nil {
		if err := p.cache.HSet(ctx, cacheHash, key, value, cacheTTL); err != nil {
			log.Warn("settings cache write failed", zap.Error(err))
		}
	}
	return value, value != ""
}

// Set upserts a persisted setting and drops the cached copy.
func (p *DBProvider) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO site_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	if err != nil {
		return err
	}
	if p.cache != nil {
		if err := p.cache.Delete(ctx, cacheHash); err != nil {
			logger.FromCtx(ctx).Warn("settings cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}
