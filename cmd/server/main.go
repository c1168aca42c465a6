package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ceylon-tours-be/internal/auth"
	"ceylon-tours-be/internal/blog"
	"ceylon-tours-be/internal/booking"
	"ceylon-tours-be/internal/cache"
	"ceylon-tours-be/internal/config"
	"ceylon-tours-be/internal/db"
	"ceylon-tours-be/internal/event"
	"ceylon-tours-be/internal/filestore"
	"ceylon-tours-be/internal/handler"
	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/media"
	"ceylon-tours-be/internal/middleware"
	"ceylon-tours-be/internal/payment"
	"ceylon-tours-be/internal/payment/webhook"
	"ceylon-tours-be/internal/settings"
	"ceylon-tours-be/internal/tour"
	"ceylon-tours-be/internal/user"
	"ceylon-tours-be/internal/utils"

	"go.uber.org/zap"
)

const (
	sweepInterval = time.Minute
	visitorIdle   = 3 * time.Minute
	shutdownGrace = 10 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, addr, h)
}

func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	sessions, err := auth.NewSessions(cfg.JWTSecret, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	refs, err := utils.NewReferenceGenerator("BOOK", cfg.SnowflakeNodeID)
	if err != nil {
		return nil, err
	}

	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisStore := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, 0)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisStore.Ping(pingCtx); err != nil {
			logger.L().Warn("redis unreachable, settings reads will fall through to the database",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		store = redisStore
		onShutdown(ctx, "redis", redisStore.Close)
	}

	fileSettings := settings.NewFileProvider(cfg.SettingsFile)
	dbSettings := settings.NewDBProvider(database, store)
	cascade := settings.NewCascade(
		settings.NewEnvProvider(settings.DefaultEnvKeys),
		dbSettings,
		fileSettings,
	)

	publisher := event.New(cfg.KafkaBrokers, cfg.KafkaPaymentTopic)
	onShutdown(ctx, "events", publisher.Close)

	tourSvc := tour.NewService(tour.NewRepository(database))
	blogSvc := blog.NewService(
		blog.NewRepository(database),
		blog.NewFileRepository(filestore.New(cfg.BlogFallbackFile)),
	)
	bookingSvc := booking.NewService(booking.NewRepository(database), tourSvc, refs)
	paymentSvc := payment.NewService(
		payment.NewRepository(database),
		bookingSvc,
		cascade,
		payment.NewPayHereGateway(payment.LegacyHasher),
		publisher,
	)
	userSvc := user.NewService(user.NewRepository(database), user.MigrationMode{Until: cfg.MigrationModeUntil})
	if cfg.MigrationModeUntil != nil && time.Now().Before(*cfg.MigrationModeUntil) {
		logger.L().Warn("admin password migration mode enabled", zap.Time("until", *cfg.MigrationModeUntil))
	}

	buckets := middleware.NewTokenBucketStore()
	windows := middleware.NewWindowStore()
	go buckets.Run(ctx, sweepInterval, visitorIdle)
	go windows.Run(ctx, sweepInterval)

	return setupRouter(routes{
		tours:    handler.NewTourHandler(tourSvc),
		blog:     handler.NewBlogHandler(blogSvc),
		bookings: handler.NewBookingHandler(bookingSvc, paymentSvc),
		auth:     handler.NewAuthHandler(userSvc, sessions),
		admin: handler.NewAdminHandler(
			media.NewScanner(cfg.UploadDir, tourSvc, blogSvc),
			cascade,
			dbSettings,
		),
		notify:      webhook.NewNotifyHandler(paymentSvc).NotifyHandler,
		sessions:    sessions,
		general:     buckets,
		login:       windows,
		corsOrigins: cfg.CORSOrigins,
		publicDir:   cfg.PublicDir,
	}), nil
}

func onShutdown(ctx context.Context, name string, closeFn func() error) {
	go func() {
		<-ctx.Done()
		if err := closeFn(); err != nil {
			logger.L().Warn("close failed", zap.String("component", name), zap.Error(err))
		}
	}()
}

func startServer(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
