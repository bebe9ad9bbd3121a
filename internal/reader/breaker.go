package reader

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
)

// BreakerState is the state of a CircuitBreaker.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // reads pass through
	BreakerOpen                         // reads are rejected
	BreakerHalfOpen                     // trial reads test recovery
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// CircuitBreaker guards a remote reader. Only errors that say something about
// the reader's health count against it: a document without text, a malformed
// or rejected file and a cancelled read leave the breaker alone. It is safe
// for concurrent use.
type CircuitBreaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	trials    int
	now       func() time.Time
	logger    *slog.Logger

	mu        sync.Mutex
	state     BreakerState
	failures  int // consecutive, while closed
	successes int // trial reads passed, while half-open
	openedAt  time.Time
}

// BreakerOption configures a CircuitBreaker.
type BreakerOption func(*CircuitBreaker)

// WithBreakerThreshold sets the consecutive reader failures that open the breaker.
func WithBreakerThreshold(n int) BreakerOption {
	return func(cb *CircuitBreaker) { cb.threshold = n }
}

// WithBreakerResetTimeout sets how long the breaker stays open.
func WithBreakerResetTimeout(d time.Duration) BreakerOption {
	return func(cb *CircuitBreaker) { cb.cooldown = d }
}

// WithBreakerHalfOpenMax sets the successful trial reads needed to close again.
func WithBreakerHalfOpenMax(n int) BreakerOption {
	return func(cb *CircuitBreaker) { cb.trials = n }
}

// WithBreakerClock replaces time.Now.
func WithBreakerClock(fn func() time.Time) BreakerOption {
	return func(cb *CircuitBreaker) { cb.now = fn }
}

// WithBreakerLogger logs state changes under the given reader name.
func WithBreakerLogger(logger *slog.Logger, name string) BreakerOption {
	return func(cb *CircuitBreaker) { cb.logger, cb.name = logger, name }
}

// NewCircuitBreaker opens after 5 reader failures, stays open 60s and closes
// after 2 successful trial reads.
func NewCircuitBreaker(opts ...BreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		threshold: 5,
		cooldown:  60 * time.Second,
		trials:    2,
		now:       time.Now,
	}
	for _, o := range opts {
		o(cb)
	}
	return cb
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.cool()
	return cb.state
}

// Allow reports whether a read may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.cool()
	return cb.state != BreakerOpen
}

// Record feeds the outcome of one read to the breaker.
func (cb *CircuitBreaker) Record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch {
	case err == nil:
		cb.succeeded()
	case countsAgainstReader(err):
		cb.failed()
	}
}

// countsAgainstReader separates reader outages (network, quota, timeouts,
// unusable replies) from outcomes caused by the document or the caller.
func countsAgainstReader(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, os.ErrNotExist) {
		return false
	}
	return !Permanent(err)
}

func (cb *CircuitBreaker) succeeded() {
	switch cb.state {
	case BreakerHalfOpen:
		cb.successes++
		if cb.successes >= cb.trials {
			cb.moveTo(BreakerClosed)
		}
	case BreakerClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) failed() {
	switch cb.state {
	case BreakerClosed:
		cb.failures++
		if cb.failures >= cb.threshold {
			cb.moveTo(BreakerOpen)
		}
	case BreakerHalfOpen:
		cb.moveTo(BreakerOpen)
	}
}

// cool moves an open breaker to half-open once the cooldown has passed.
// Callers hold mu.
func (cb *CircuitBreaker) cool() {
	if cb.state == BreakerOpen && cb.now().Sub(cb.openedAt) >= cb.cooldown {
		cb.moveTo(BreakerHalfOpen)
	}
}

func (cb *CircuitBreaker) moveTo(s BreakerState) {
	if cb.logger != nil {
		cb.logger.Warn("reader circuit breaker", "reader", cb.name, "from", cb.state.String(), "to", s.String())
	}
	cb.state = s
	cb.failures, cb.successes = 0, 0
	if s == BreakerOpen {
		cb.openedAt = cb.now()
	}
}
