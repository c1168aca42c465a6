package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"ceylon-tours-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*Admin, error)
}

// MigrationMode lets admins without a stored password sign in with any
// password until the deadline. A nil Until disables it.
type MigrationMode struct {
	Until *time.Time
}

func (m MigrationMode) Active(now time.Time) bool {
	return m.Until != nil && now.Before(*m.Until)
}

type service struct {
	repo      Repository
	migration MigrationMode
	now       func() time.Time
}

func NewService(repo Repository, migration MigrationMode) Service {
	return &service{repo: repo, migration: migration, now: time.Now}
}

func (s *service) Login(ctx context.Context, email, password string) (*Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
		zap.String("email", email),
	)

	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			log.Warn("login for unknown admin")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	log = log.With(zap.Uint("admin_id", a.ID))

	if a.PasswordHash == "" {
		return s.migrationLogin(ctx, log, a, password)
	}

	ok, err := CheckPassword(a.PasswordVersion, a.PasswordHash, password)
	if err != nil {
		log.Error("stored password hash unusable", zap.Int("version", int(a.PasswordVersion)), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn("password mismatch")
		return nil, ErrInvalidCredentials
	}

	if a.PasswordVersion == PasswordLegacySHA256 {
		if err := s.storePassword(ctx, a, password); err != nil {
			log.Error("failed to upgrade legacy password hash", zap.Error(err))
		} else {
			log.Info("upgraded legacy password hash", zap.String("audit", "security"))
		}
	}

	log.Info("admin logged in")
	return a, nil
}

func (s *service) migrationLogin(ctx context.Context, log *zap.Logger, a *Admin, password string) (*Admin, error) {
	now := s.now()
	if !s.migration.Active(now) {
		log.Warn("admin has no password and migration mode is disabled")
		return nil, ErrInvalidCredentials
	}

	log.Warn("migration mode login",
		zap.String("audit", "security"),
		zap.Time("until", *s.migration.Until),
	)
	if err := s.storePassword(ctx, a, password); err != nil {
		log.Error("failed to store password during migration login", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *service) storePassword(ctx context.Context, a *Admin, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, a.ID, hash, PasswordArgon2id); err != nil {
		return err
	}
	a.PasswordHash = hash
	a.PasswordVersion = PasswordArgon2id
	return nil
}
