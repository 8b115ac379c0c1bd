// Package guard is a client for the auth context snapshot endpoint. It lets
// frontend-facing processes (SSR renderers, BFF layers) gate UI actions on
// the server's capability decisions without re-implementing them.
//
// The guard is a mirror, never an authority: it caches the snapshot briefly
// for cheap repeated checks, and the request gate still enforces every rule
// when the action reaches the API.
package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

const (
	defaultCacheTTL = 2 * time.Minute
	defaultTimeout  = 5 * time.Second

	contextPath = "/api/auth/context"
)

// Options configures a Guard.
type Options struct {
	// BaseURL is the origin of the shopfront service, without trailing slash.
	BaseURL string

	// HTTPClient is used for snapshot fetches. The client must be configured
	// to forward the caller's session cookie (for example a cookie-jar client
	// bound to one user, or a per-request header transport).
	HTTPClient *http.Client

	// CacheTTL bounds how long a fetched snapshot is reused.
	CacheTTL time.Duration
}

// Guard fetches and caches the capability snapshot for one principal.
type Guard struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration

	mu        sync.Mutex
	snapshot  domainauth.ContextSnapshot
	fetchedAt time.Time
}

// New constructs a Guard.
func New(opts Options) (*Guard, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("guard: BaseURL is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Guard{
		baseURL: opts.BaseURL,
		client:  client,
		ttl:     ttl,
	}, nil
}

// Snapshot returns the current capability snapshot, served from cache when
// fresh.
func (g *Guard) Snapshot(ctx context.Context) (domainauth.ContextSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.fetchedAt.IsZero() && time.Since(g.fetchedAt) < g.ttl {
		return g.snapshot, nil
	}

	snap, err := g.fetch(ctx)
	if err != nil {
		return domainauth.ContextSnapshot{}, err
	}

	g.snapshot = snap
	g.fetchedAt = time.Now()
	return snap, nil
}

// Invalidate drops the cached snapshot. Call it after a customer switch or
// sign-out so the next check sees the new scope immediately.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchedAt = time.Time{}
	g.snapshot = domainauth.ContextSnapshot{}
}

func (g *Guard) fetch(ctx context.Context) (domainauth.ContextSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+contextPath, nil)
	if err != nil {
		return domainauth.ContextSnapshot{}, fmt.Errorf("guard: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domainauth.ContextSnapshot{}, fmt.Errorf("guard: fetch context: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domainauth.ContextSnapshot{}, fmt.Errorf("guard: context endpoint returned %d", resp.StatusCode)
	}

	var snap domainauth.ContextSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return domainauth.ContextSnapshot{}, fmt.Errorf("guard: decode context: %w", err)
	}
	return snap, nil
}
