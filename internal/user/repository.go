package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"ceylon-tours-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	UpdatePassword(ctx context.Context, id uint, hash string, version PasswordVersion) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	var hash sql.NullString
	var version sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, password_version, created_at FROM admins WHERE LOWER(email) = $1",
		strings.ToLower(email),
	).Scan(&a.ID, &a.Email, &hash, &version, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		logger.FromCtx(ctx).Error("db: failed to load admin", zap.Error(err))
		return nil, err
	}

	a.PasswordHash = hash.String
	a.PasswordVersion = PasswordVersion(version.Int64)
	return &a, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id uint, hash string, version PasswordVersion) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE admins SET password_hash = $1, password_version = $2, updated_at = NOW() WHERE id = $3",
		hash, int(version), id,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to update admin password",
			zap.Uint("admin_id", id),
			zap.Error(err),
		)
	}
	return err
}
