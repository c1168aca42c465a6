package blog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ceylon-tours-be/internal/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, includeUnpublished bool) ([]Post, error) {
	args := m.Called(ctx, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Post), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, p Post) (*Post, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func newFileFallback(t *testing.T) Repository {
	return NewFileRepository(filestore.New(filepath.Join(t.TempDir(), "blog.json")))
}

func TestService_FallbackReads(t *testing.T) {
	ctx := context.Background()
	fallback := newFileFallback(t)
	_, err := fallback.Upsert(ctx, Post{Slug: "ella-guide", Title: "Ella guide", Published: true})
	require.NoError(t, err)

	t.Run("List uses fallback when the database fails", func(t *testing.T) {
		primary := new(MockRepository)
		primary.On("List", ctx, false).Return(nil, errors.New("connection refused"))
		svc := NewService(primary, fallback)

		posts, err := svc.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "ella-guide", posts[0].Slug)
	})

	t.Run("Get uses fallback when the database fails", func(t *testing.T) {
		primary := new(MockRepository)
		primary.On("GetBySlug", ctx, "ella-guide").Return(nil, errors.New("connection refused"))
		svc := NewService(primary, fallback)

		p, err := svc.Get(ctx, "ella-guide", false)
		require.NoError(t, err)
		assert.Equal(t, "Ella guide", p.Title)
	})

	t.Run("Not found in database is authoritative", func(t *testing.T) {
		primary := new(MockRepository)
		primary.On("GetBySlug", ctx, "ella-guide").Return(nil, ErrPostNotFound)
		svc := NewService(primary, fallback)

		_, err := svc.Get(ctx, "ella-guide", false)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("Unpublished hidden from public", func(t *testing.T) {
		primary := new(MockRepository)
		primary.On("GetBySlug", ctx, "draft").Return(&Post{Slug: "draft"}, nil)
		svc := NewService(primary, nil)

		_, err := svc.Get(ctx, "draft", false)
		assert.ErrorIs(t, err, ErrPostNotFound)

		p, err := svc.Get(ctx, "draft", true)
		require.NoError(t, err)
		assert.Equal(t, "draft", p.Slug)
	})
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Writes database then mirrors to file", func(t *testing.T) {
		primary := new(MockRepository)
		fallback := newFileFallback(t)
		svc := NewService(primary, fallback).(*service)
		svc.now = func() time.Time { return now }

		primary.On("Upsert", ctx, mock.MatchedBy(func(p Post) bool {
			return p.Slug == "best-beaches" && p.PublishedAt != nil && p.PublishedAt.Equal(now)
		})).Return(&Post{Slug: "best-beaches", Title: "Best Beaches", Published: true, PublishedAt: &now}, nil)

		saved, err := svc.Save(ctx, "", Post{Title: "Best Beaches", Published: true})
		require.NoError(t, err)
		assert.Equal(t, "best-beaches", saved.Slug)

		mirrored, err := fallback.GetBySlug(ctx, "best-beaches")
		require.NoError(t, err)
		assert.Equal(t, "Best Beaches", mirrored.Title)
	})

	t.Run("Database failure is not masked", func(t *testing.T) {
		primary := new(MockRepository)
		svc := NewService(primary, newFileFallback(t))
		primary.On("Upsert", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.Save(ctx, "x", Post{Title: "X"})
		assert.EqualError(t, err, "db down")
	})

	t.Run("Title required", func(t *testing.T) {
		svc := NewService(new(MockRepository), nil)
		_, err := svc.Save(ctx, "x", Post{})
		assert.ErrorIs(t, err, ErrInvalidPost)
	})
}

func TestService_ImageRefs(t *testing.T) {
	ctx := context.Background()
	primary := new(MockRepository)
	primary.On("List", ctx, true).Return([]Post{
		{Slug: "a", CoverImage: "/uploads/a.jpg", Content: "no images"},
		{Slug: "b", Content: `see ![x](/uploads/b.png)`},
	}, nil)

	refs, err := NewService(primary, nil).ImageRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg", `see ![x](/uploads/b.png)`}, refs)
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()
	repo := newFileFallback(t)
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	_, err := repo.Upsert(ctx, Post{Slug: "old", Published: true, PublishedAt: &first})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, Post{Slug: "new", Published: true, PublishedAt: &second})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, Post{Slug: "draft"})
	require.NoError(t, err)

	public, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "new", public[0].Slug)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Republishing keeps the original publish date.
	later := second.Add(time.Hour)
	got, err := repo.Upsert(ctx, Post{Slug: "old", Title: "edited", Published: true, PublishedAt: &later})
	require.NoError(t, err)
	assert.True(t, got.PublishedAt.Equal(first))

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
