package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type statusErr struct {
	code  int
	after time.Duration
}

func (e statusErr) Error() string             { return http.StatusText(e.code) }
func (e statusErr) StatusCode() int           { return e.code }
func (e statusErr) RetryAfter() time.Duration { return e.after }

func fastConfig(attempts int) Config {
	return Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestKeyedAllow(t *testing.T) {
	lim := NewKeyed(1, 2)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if !lim.Allow("u1", now) || !lim.Allow("u1", now) {
		t.Fatal("burst of two should pass")
	}
	if lim.Allow("u1", now) {
		t.Fatal("third call in the same instant should be throttled")
	}
	if !lim.Allow("u2", now) {
		t.Fatal("keys must not share a bucket")
	}
	if !lim.Allow("u1", now.Add(time.Second)) {
		t.Fatal("a token should refill after one second")
	}

	if removed := lim.Prune(time.Minute, now.Add(2*time.Minute)); removed != 2 || lim.Len() != 0 {
		t.Fatalf("prune removed %d, %d left", removed, lim.Len())
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		if calls < 3 {
			return statusErr{code: http.StatusBadGateway}
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("err = %v after %d calls", err, calls)
	}
}

func TestDoStopsOnFinalErrors(t *testing.T) {
	tests := map[string]error{
		"client error": statusErr{code: http.StatusForbidden},
		"permanent":    Permanent(errors.New("bad input")),
	}
	for name, failure := range tests {
		t.Run(name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), fastConfig(5), func() error {
				calls++
				return failure
			})
			if calls != 1 || err == nil {
				t.Fatalf("calls = %d, err = %v", calls, err)
			}
		})
	}
}

func TestDoGivesUp(t *testing.T) {
	boom := errors.New("flaky")
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return boom
	})
	if calls != 3 || !errors.Is(err, boom) {
		t.Fatalf("calls = %d, err = %v", calls, err)
	}
}

func TestDoHonoursRetryAfterAndContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var waits []time.Duration
	cfg := fastConfig(5)
	cfg.OnRetry = func(_ int, _ error, wait time.Duration) {
		waits = append(waits, wait)
		cancel()
	}

	err := Do(ctx, cfg, func() error {
		return statusErr{code: http.StatusTooManyRequests, after: time.Hour}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(waits) != 1 || waits[0] != time.Hour {
		t.Fatalf("waits = %v, want the server-provided delay", waits)
	}
}
