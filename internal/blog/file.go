package blog

import (
	"context"
	"sort"

	"ceylon-tours-be/internal/filestore"
)

type fileDocument struct {
	Posts []Post `json:"posts"`
}

type fileRepository struct {
	store *filestore.Store
}

// NewFileRepository serves posts from a JSON document of the form {"posts": [...]}.
func NewFileRepository(store *filestore.Store) Repository {
	return &fileRepository{store: store}
}

func (r *fileRepository) load() ([]Post, error) {
	var doc fileDocument
	if _, err := r.store.Load(&doc); err != nil {
		return nil, err
	}
	return doc.Posts, nil
}

func (r *fileRepository) List(_ context.Context, includeUnpublished bool) ([]Post, error) {
	all, err := r.load()
	if err != nil {
		return nil, err
	}

	posts := []Post{}
	for _, p := range all {
		if p.Published || includeUnpublished {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishedAt, posts[j].PublishedAt
		switch {
		case a == nil && b == nil:
			return posts[i].Slug < posts[j].Slug
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return posts, nil
}

func (r *fileRepository) GetBySlug(_ context.Context, slug string) (*Post, error) {
	posts, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *fileRepository) Upsert(_ context.Context, p Post) (*Post, error) {
	var doc fileDocument
	err := r.store.Update(&doc, func() error {
		for i := range doc.Posts {
			if doc.Posts[i].Slug == p.Slug {
				if prev := doc.Posts[i].PublishedAt; prev != nil {
					p.PublishedAt = prev
				}
				doc.Posts[i] = p
				return nil
			}
		}
		doc.Posts = append(doc.Posts, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
