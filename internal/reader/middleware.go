package reader

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// Middleware wraps a Reader with cross-cutting behaviour.
type Middleware func(next Reader) Reader

// Chain composes middlewares left to right: the first one is the outermost
// wrapper.
//
//	r := Chain(Logging(l), WithTimeout(d), WithRetry(3, time.Second, l))(NewPDFReader())
func Chain(mws ...Middleware) Middleware {
	return func(next Reader) Reader {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Logging logs every read with its duration and span count.
func Logging(logger *slog.Logger) Middleware {
	return func(next Reader) Reader {
		return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
			start := time.Now()
			spans, err := next.Read(ctx, path)
			dur := time.Since(start)
			if err != nil {
				logger.WarnContext(ctx, "read failed",
					"path", path,
					"duration_ms", dur.Milliseconds(),
					"error", err)
			} else {
				logger.DebugContext(ctx, "read ok",
					"path", path,
					"duration_ms", dur.Milliseconds(),
					"spans", len(spans))
			}
			return spans, err
		})
	}
}

// WithValidation runs v before every read and skips the read when the file is
// rejected.
func WithValidation(v *Validator) Middleware {
	return func(next Reader) Reader {
		return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
			if _, err := v.Check(ctx, path); err != nil {
				return nil, err
			}
			return next.Read(ctx, path)
		})
	}
}

// WithTimeout bounds each read. A zero timeout disables it.
func WithTimeout(timeout time.Duration) Middleware {
	return func(next Reader) Reader {
		return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return next.Read(ctx, path)
		})
	}
}

// WithRetry retries failed reads with exponential backoff. maxRetries counts
// the attempts after the first one. Permanent errors and cancellation are
// returned immediately.
func WithRetry(maxRetries int, baseBackoff time.Duration, logger *slog.Logger) Middleware {
	return func(next Reader) Reader {
		return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
			var lastErr error
			for attempt := 0; attempt <= maxRetries; attempt++ {
				spans, err := next.Read(ctx, path)
				if err == nil {
					return spans, nil
				}
				lastErr = err
				if ctx.Err() != nil || Permanent(err) || errors.Is(err, os.ErrNotExist) {
					return nil, err
				}
				if attempt < maxRetries {
					wait := baseBackoff * (1 << uint(attempt))
					if logger != nil {
						logger.WarnContext(ctx, "retrying read",
							"path", path,
							"attempt", attempt+1,
							"max_retries", maxRetries,
							"backoff_ms", wait.Milliseconds(),
							"error", err)
					}
					select {
					case <-ctx.Done():
						return nil, lastErr
					case <-time.After(wait):
					}
				}
			}
			return nil, lastErr
		})
	}
}

// WithCircuitBreaker rejects reads while cb is open and reports every
// outcome to it.
func WithCircuitBreaker(cb *CircuitBreaker, name string) Middleware {
	return func(next Reader) Reader {
		return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
			if !cb.Allow() {
				return nil, &ErrCircuitOpen{Reader: name}
			}
			spans, err := next.Read(ctx, path)
			cb.Record(err)
			return spans, err
		})
	}
}

// WithFallback reads with fallback when the wrapped reader fails. Rejected
// input and cancellation are not retried elsewhere: the caller gave up or the
// file itself is unusable.
func WithFallback(fallback Reader, name string, logger *slog.Logger) Middleware {
	return func(next Reader) Reader {
		if fallback == nil {
			return next
		}
		return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
			spans, err := next.Read(ctx, path)
			if err == nil {
				return spans, nil
			}
			if ctx.Err() != nil || rejectedInput(err) {
				return nil, err
			}
			if logger != nil {
				logger.WarnContext(ctx, "primary reader failed, falling back",
					"path", path,
					"fallback", name,
					"error", err)
			}
			return fallback.Read(ctx, path)
		})
	}
}

func rejectedInput(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, ErrNotPDF) ||
		errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrTooLarge) ||
		errors.Is(err, ErrTooManyPages) ||
		errors.Is(err, ErrEncrypted)
}
