// Package revocation keeps bearer tokens that were invalidated before their
// natural expiry. State is process-local and empty at start.
package revocation

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dtroode/todo-server/internal/logger"
	"github.com/dtroode/todo-server/internal/model"
)

// DefaultSweepInterval is how often Run removes expired entries.
const DefaultSweepInterval = time.Hour

var _ model.RevocationRegistry = (*Registry)(nil)

// Stats describes the registry content.
type Stats struct {
	Entries int `json:"entries"`
}

// Registry is a concurrency-safe token blacklist.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// Option configures Registry.
type Option func(*Registry)

// WithSweepInterval sets the period used by Run.
func WithSweepInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithClock sets the time source used by Run.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *logger.Logger, opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[string]time.Time),
		interval: DefaultSweepInterval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Revoke records token until expiresAt. Revoking twice keeps the first entry.
func (r *Registry) Revoke(token string, expiresAt time.Time) {
	r.mu.Lock()
	if _, ok := r.entries[token]; !ok {
		r.entries[token] = expiresAt
	}
	total := len(r.entries)
	r.mu.Unlock()

	r.logger.Debug("Revocation registry: token revoked", "expires_at", expiresAt, "total", total)
}

// IsRevoked reports whether token was revoked and not yet swept.
func (r *Registry) IsRevoked(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[token]
	return ok
}

// Sweep removes every entry that expired at or before now and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, expiresAt := range r.entries {
		if !expiresAt.After(now) {
			delete(r.entries, token)
			removed++
		}
	}
	return removed
}

// Stats returns the current registry size.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{Entries: len(r.entries)}
}

// Run sweeps the registry every interval until ctx is done.
// A panic inside a sweep is logged and does not stop the loop.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Revocation registry: sweeper started", "interval", r.interval.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Revocation registry: sweeper stopped")
			return
		case <-ticker.C:
			if err := r.safeSweep(); err != nil {
				r.logger.Error("Revocation registry: sweep failed", "error", err.Error())
			}
		}
	}
}

func (r *Registry) safeSweep() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during sweep: %v\n%s", p, debug.Stack())
		}
	}()

	if removed := r.Sweep(r.now()); removed > 0 {
		r.logger.Info("Revocation registry: expired tokens removed", "removed", removed, "total", r.Stats().Entries)
	}
	return nil
}
