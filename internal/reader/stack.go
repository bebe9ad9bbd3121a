package reader

import (
	"log/slog"
	"time"
)

// Options describe the standard reading stack.
type Options struct {
	Validator *Validator
	Timeout   time.Duration
	Retries   int
	Backoff   time.Duration
	// Fallback is tried when the text layer yields nothing; it is guarded by
	// Breaker when one is set.
	Fallback Reader
	Breaker  *CircuitBreaker
	Logger   *slog.Logger
}

// New wraps primary with logging, validation, a timeout, retries and the
// optional fallback:
//
//	Logging -> Validation -> Fallback(Breaker(Timeout(fallback))) -> Retry -> Timeout -> primary
func New(primary Reader, o Options) Reader {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mws := []Middleware{Logging(logger)}
	if o.Validator != nil {
		mws = append(mws, WithValidation(o.Validator))
	}
	if o.Fallback != nil {
		fb := o.Fallback
		if o.Breaker != nil {
			fb = Chain(WithCircuitBreaker(o.Breaker, "gemini"), WithTimeout(o.Timeout))(fb)
		} else {
			fb = WithTimeout(o.Timeout)(fb)
		}
		mws = append(mws, WithFallback(fb, "gemini", logger))
	}
	mws = append(mws, WithRetry(o.Retries, o.Backoff, logger), WithTimeout(o.Timeout))
	return Chain(mws...)(primary)
}
