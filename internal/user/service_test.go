package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"ceylon-tours-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, id uint, hash string, version PasswordVersion) error {
	return m.Called(ctx, id, hash, version).Error(0)
}

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository, until *time.Time) *service {
	s := NewService(repo, MigrationMode{Until: until}).(*service)
	s.now = func() time.Time { return fixedNow }
	return s
}

func isArgon2id(hash string) bool {
	ok, err := CheckPassword(PasswordArgon2id, hash, "new-password")
	return err == nil && ok
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	email := "admin@example.com"

	t.Run("Argon2id success", func(t *testing.T) {
		repo := new(MockRepository)
		hash, err := HashPassword("secret")
		require.NoError(t, err)
		repo.On("FindByEmail", ctx, email).Return(&Admin{ID: 1, Email: email, PasswordHash: hash, PasswordVersion: PasswordArgon2id}, nil)

		a, err := newTestService(repo, nil).Login(ctx, " Admin@Example.com ", "secret")
		require.NoError(t, err)
		assert.Equal(t, uint(1), a.ID)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		hash, err := HashPassword("secret")
		require.NoError(t, err)
		repo.On("FindByEmail", ctx, email).Return(&Admin{ID: 1, PasswordHash: hash, PasswordVersion: PasswordArgon2id}, nil)

		_, err = newTestService(repo, nil).Login(ctx, email, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown admin", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(nil, ErrAdminNotFound)

		_, err := newTestService(repo, nil).Login(ctx, email, "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Empty password", func(t *testing.T) {
		_, err := newTestService(new(MockRepository), nil).Login(ctx, email, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(nil, errors.New("db down"))

		_, err := newTestService(repo, nil).Login(ctx, email, "secret")
		assert.EqualError(t, err, "db down")
	})

	t.Run("Legacy hash upgrades to argon2id", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(&Admin{ID: 2, PasswordHash: legacyHash("new-password"), PasswordVersion: PasswordLegacySHA256}, nil)
		repo.On("UpdatePassword", ctx, uint(2), mock.MatchedBy(isArgon2id), PasswordArgon2id).Return(nil)

		a, err := newTestService(repo, nil).Login(ctx, email, "new-password")
		require.NoError(t, err)
		assert.Equal(t, PasswordArgon2id, a.PasswordVersion)
		repo.AssertExpectations(t)
	})

	t.Run("Legacy upgrade failure still logs in", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(&Admin{ID: 2, PasswordHash: legacyHash("new-password"), PasswordVersion: PasswordLegacySHA256}, nil)
		repo.On("UpdatePassword", ctx, uint(2), mock.Anything, PasswordArgon2id).Return(errors.New("db down"))

		a, err := newTestService(repo, nil).Login(ctx, email, "new-password")
		require.NoError(t, err)
		assert.Equal(t, PasswordLegacySHA256, a.PasswordVersion)
	})

	t.Run("Unknown hash version rejected", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(&Admin{ID: 3, PasswordHash: "abc", PasswordVersion: 9}, nil)

		_, err := newTestService(repo, nil).Login(ctx, email, "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_MigrationMode(t *testing.T) {
	ctx := context.Background()
	email := "admin@example.com"
	noHash := func() *Admin { return &Admin{ID: 5, Email: email} }

	t.Run("Active window stores password and audits", func(t *testing.T) {
		core, observed := observer.New(zapcore.WarnLevel)
		restore := logger.Replace(zap.New(core))
		defer restore()

		until := fixedNow.Add(time.Hour)
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(noHash(), nil)
		repo.On("UpdatePassword", ctx, uint(5), mock.MatchedBy(isArgon2id), PasswordArgon2id).Return(nil)

		a, err := newTestService(repo, &until).Login(ctx, email, "new-password")
		require.NoError(t, err)
		assert.Equal(t, PasswordArgon2id, a.PasswordVersion)
		repo.AssertExpectations(t)

		logs := observed.FilterMessage("migration mode login").All()
		require.Len(t, logs, 1)
		assert.Equal(t, "security", logs[0].ContextMap()["audit"])
		assert.Equal(t, uint64(5), logs[0].ContextMap()["admin_id"])
	})

	t.Run("Expired window rejects", func(t *testing.T) {
		until := fixedNow.Add(-time.Second)
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(noHash(), nil)

		_, err := newTestService(repo, &until).Login(ctx, email, "anything")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Disabled rejects", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(noHash(), nil)

		_, err := newTestService(repo, nil).Login(ctx, email, "anything")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Store failure rejects", func(t *testing.T) {
		until := fixedNow.Add(time.Hour)
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, email).Return(noHash(), nil)
		repo.On("UpdatePassword", ctx, uint(5), mock.Anything, PasswordArgon2id).Return(errors.New("db down"))

		_, err := newTestService(repo, &until).Login(ctx, email, "new-password")
		assert.EqualError(t, err, "db down")
	})

	t.Run("Active only before deadline", func(t *testing.T) {
		until := fixedNow
		assert.False(t, MigrationMode{Until: &until}.Active(fixedNow))
		assert.True(t, MigrationMode{Until: &until}.Active(fixedNow.Add(-time.Nanosecond)))
		assert.False(t, MigrationMode{}.Active(fixedNow))
	})
}
