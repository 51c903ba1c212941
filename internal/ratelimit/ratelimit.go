// Package ratelimit throttles how fast the resolver engine re-probes any
// single name server. A glue-less delegation chain or a CNAME loop that
// keeps landing on the same authority could otherwise turn a single
// resolve call into a flood against one IP; a per-server token bucket
// bounds that without touching the depth-limited traversal logic itself.
package ratelimit

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config controls the per-nameserver token bucket.
type Config struct {
	// QueriesPerSecond is the steady-state rate allowed to any one
	// nameserver IP.
	QueriesPerSecond float64

	// Burst is the largest instantaneous burst allowed.
	Burst int

	// CleanupInterval is how often the per-IP limiter table is discarded;
	// every server's bucket starts afresh then, not only idle ones.
	CleanupInterval time.Duration
}

// DefaultConfig returns reasonable per-nameserver limits: generous enough
// not to slow down a well-behaved delegation chain, but low enough to blunt
// a misbehaving one that keeps referring back to the same address.
func DefaultConfig() Config {
	return Config{
		QueriesPerSecond: 20,
		Burst:            40,
		CleanupInterval:  5 * time.Minute,
	}
}

// Limiter is a per-nameserver token bucket limiter.
type Limiter struct {
	mu          sync.Mutex
	byServer    map[string]*rate.Limiter
	qps         rate.Limit
	burst       int
	cleanup     time.Duration
	lastCleanup time.Time
}

// New creates a Limiter with cfg, filling in DefaultConfig's values for any
// zero fields.
func New(cfg Config) *Limiter {
	if cfg.QueriesPerSecond == 0 {
		cfg.QueriesPerSecond = DefaultConfig().QueriesPerSecond
	}
	if cfg.Burst == 0 {
		cfg.Burst = DefaultConfig().Burst
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}

	return &Limiter{
		byServer:    make(map[string]*rate.Limiter),
		qps:         rate.Limit(cfg.QueriesPerSecond),
		burst:       cfg.Burst,
		cleanup:     cfg.CleanupInterval,
		lastCleanup: time.Now(),
	}
}

// Allow reports whether a query to ns should proceed now. A false result
// means the caller should treat this nameserver as temporarily exhausted
// and move on to the next candidate rather than block waiting for tokens;
// the resolver engine's retry loop already has other servers to try.
func (l *Limiter) Allow(ns net.IP) bool {
	key := ns.String()

	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) > l.cleanup {
		l.byServer = make(map[string]*rate.Limiter, len(l.byServer))
		l.lastCleanup = time.Now()
	}

	lim, ok := l.byServer[key]
	if !ok {
		lim = rate.NewLimiter(l.qps, l.burst)
		l.byServer[key] = lim
	}
	return lim.Allow()
}
