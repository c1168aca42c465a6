package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Tier is a named rate policy. Token buckets use Limit and Burst; fixed
// windows allow Burst requests per Window.
type Tier struct {
	Name   string
	Limit  rate.Limit
	Burst  int
	Window time.Duration
}

var (
	// Login and payment endpoints.
	TierStrict = Tier{Name: "strict", Limit: rate.Limit(2), Burst: 5, Window: time.Minute}
	// Everything else.
	TierGeneral = Tier{Name: "general", Limit: rate.Limit(10), Burst: 20, Window: time.Minute}
)

type Limiter interface {
	Allow(key string, tier Tier) bool
}

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucketStore keeps one x/time/rate limiter per key.
type TokenBucketStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewTokenBucketStore() *TokenBucketStore {
	return &TokenBucketStore{visitors: make(map[string]*visitor), now: time.Now}
}

func (s *TokenBucketStore) Allow(key string, tier Tier) bool {
	s.mu.Lock()
	now := s.now()
	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(tier.Limit, tier.Burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	s.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Sweep drops visitors idle for longer than maxIdle and returns how many were removed.
func (s *TokenBucketStore) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for key, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, key)
			removed++
		}
	}
	return removed
}

func (s *TokenBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// Run sweeps every interval until ctx is cancelled.
func (s *TokenBucketStore) Run(ctx context.Context, interval, maxIdle time.Duration) {
	runSweeper(ctx, interval, func() int { return s.Sweep(maxIdle) })
}

type window struct {
	count   int
	expires time.Time
}

// WindowStore counts requests per key in fixed windows.
type WindowStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewWindowStore() *WindowStore {
	return &WindowStore{windows: make(map[string]*window), now: time.Now}
}

func (s *WindowStore) Allow(key string, tier Tier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.expires) {
		w = &window{expires: now.Add(tier.Window)}
		s.windows[key] = w
	}
	if w.count >= tier.Burst {
		return false
	}
	w.count++
	return true
}

// Sweep drops expired windows and returns how many were removed.
func (s *WindowStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.expires) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *WindowStore) Run(ctx context.Context, interval time.Duration) {
	runSweeper(ctx, interval, s.Sweep)
}

func runSweeper(ctx context.Context, interval time.Duration, sweep func() int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sweep(); n > 0 {
				logger.L().Debug("rate limiter sweep", zap.Int("removed", n))
			}
		}
	}
}

// RateLimit rejects requests once the caller exhausts its quota for tier.
func RateLimit(l Limiter, tier Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateKey(r, tier)
			if !l.Allow(key, tier) {
				logger.FromCtx(r.Context()).Warn("rate limit exceeded",
					zap.String("key", key),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(tier.Window.Seconds())))
				utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateKey combines caller identity and tier, e.g. "user:1:strict".
func rateKey(r *http.Request, tier Tier) string {
	var identity string
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		identity = fmt.Sprintf("user:%d", userID)
	} else {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		identity = "ip:" + ip
	}
	return identity + ":" + tier.Name
}
