package blog

import (
	"errors"
	"time"
)

type Post struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrInvalidPost  = errors.New("invalid blog post")
)
