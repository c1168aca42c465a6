package settings

import (
	"context"
	"strings"
)

// Provider is one configuration source in the cascade.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, key string) (string, bool)
}

// Cascade consults providers in order; the first non-empty value wins.
type Cascade struct {
	providers []Provider
}

func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{providers: providers}
}

func (c *Cascade) Lookup(ctx context.Context, key string) (string, bool) {
	v, _, ok := c.Resolve(ctx, key)
	return v, ok
}

// Resolve is Lookup plus the name of the provider that answered.
func (c *Cascade) Resolve(ctx context.Context, key string) (value, source string, ok bool) {
	for _, p := range c.providers {
		v, found := p.Lookup(ctx, key)
		if !found || strings.TrimSpace(v) == "" {
			continue
		}
		return v, p.Name(), true
	}
	return "", "", false
}

func (c *Cascade) Sources() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}
