// Package retrylimit provides per-key rate limiting and retry with
// exponential backoff for calls against rate-limited APIs.
//
// Example usage:
//
//	lim := retrylimit.NewKeyed(1, 3)
//	if !lim.Allow(userID, time.Now()) {
//	    return errSlowDown
//	}
//
//	err := retrylimit.Do(ctx, retrylimit.DefaultConfig(), func() error {
//	    return send()
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter
// =============================================================================

// Keyed holds one token bucket per key.
type Keyed struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyed returns a limiter granting each key perSecond events per second
// with bursts of up to burst.
func NewKeyed(perSecond float64, burst int) *Keyed {
	return &Keyed{
		limit:   rate.Limit(perSecond),
		burst:   max(burst, 1),
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether key may proceed at now, spending a token if so.
func (k *Keyed) Allow(key string, now time.Time) bool {
	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now
	k.mu.Unlock()
	return b.limiter.AllowN(now, 1)
}

// Prune forgets keys idle for longer than idle.
func (k *Keyed) Prune(idle time.Duration, now time.Time) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	removed := 0
	for key, b := range k.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(k.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// =============================================================================
// Errors
// =============================================================================

// StatusError is implemented by errors that carry an HTTP status code.
type StatusError interface {
	error
	StatusCode() int
}

// RetryAfterError is implemented by errors that know how long the server
// asked the client to wait.
type RetryAfterError interface {
	error
	RetryAfter() time.Duration
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err so that Do stops retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retryable reports whether err is worth another attempt: rate limits, 5xx
// responses and errors without a status. Client errors are final.
func Retryable(err error) bool {
	var p *permanentError
	if errors.As(err, &p) {
		return false
	}
	var se StatusError
	if errors.As(err, &se) {
		code := se.StatusCode()
		return code == http.StatusTooManyRequests || code >= 500
	}
	return true
}

// =============================================================================
// Retry
// =============================================================================

// Config configures Do.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
	OnRetry      func(attempt int, err error, wait time.Duration)
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
		Jitter:       true,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Printf("[WARN] attempt %d failed: %v; retrying in %v", attempt, err, wait)
		},
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, the context
// ends or MaxAttempts is reached. A server-provided retry delay takes
// precedence over the backoff schedule.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		var ra RetryAfterError
		if errors.As(err, &ra) && ra.RetryAfter() > 0 {
			wait = ra.RetryAfter()
		} else if cfg.Jitter {
			wait = addJitter(wait)
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}
	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
}

// addJitter adds up to 25% of delay.
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + rand.N(delay/4)
}
