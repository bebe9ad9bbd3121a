package reader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var errFlaky = errors.New("flaky")

// failing returns err for the first n calls, then one span.
func failing(n int32, err error, calls *atomic.Int32) Reader {
	return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
		if calls.Add(1) <= n {
			return nil, err
		}
		return []outline.TextSpan{{Text: "ok", Page: 1, FontSize: 12}}, nil
	})
}

func TestWithRetry(t *testing.T) {
	var calls atomic.Int32
	r := WithRetry(3, time.Millisecond, quiet)(failing(2, errFlaky, &calls))
	spans, err := r.Read(context.Background(), "doc.pdf")
	if err != nil || len(spans) != 1 {
		t.Fatalf("Read = %v, %v", spans, err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	r := WithRetry(2, time.Millisecond, nil)(failing(10, errFlaky, &calls))
	if _, err := r.Read(context.Background(), "doc.pdf"); !errors.Is(err, errFlaky) {
		t.Errorf("err = %v, want errFlaky", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestWithRetrySkipsPermanentErrors(t *testing.T) {
	for _, perm := range []error{ErrEncrypted, ErrNoText, &ErrCircuitOpen{Reader: "x"}} {
		var calls atomic.Int32
		r := WithRetry(3, time.Millisecond, quiet)(failing(10, perm, &calls))
		if _, err := r.Read(context.Background(), "doc.pdf"); err == nil {
			t.Errorf("%v: expected error", perm)
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("%v: calls = %d, want 1", perm, got)
		}
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	r := WithRetry(5, time.Hour, quiet)(ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
		calls.Add(1)
		cancel()
		return nil, errFlaky
	}))
	if _, err := r.Read(ctx, "doc.pdf"); !errors.Is(err, errFlaky) {
		t.Errorf("err = %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestWithTimeout(t *testing.T) {
	slow := ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err := WithTimeout(10*time.Millisecond)(slow).Read(context.Background(), "doc.pdf")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestWithFallback(t *testing.T) {
	var fbCalls atomic.Int32
	fb := ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
		fbCalls.Add(1)
		return []outline.TextSpan{{Text: "from fallback", Page: 1, FontSize: 12}}, nil
	})
	tests := []struct {
		name     string
		primary  error
		wantFB   bool
		wantText string
	}{
		{"no text", ErrNoText, true, "from fallback"},
		{"malformed", ErrMalformed, true, "from fallback"},
		{"encrypted", ErrEncrypted, false, ""},
		{"too large", ErrTooLarge, false, ""},
		{"ok", nil, false, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fbCalls.Store(0)
			var calls atomic.Int32
			n := int32(0)
			if tt.primary != nil {
				n = 1
			}
			r := WithFallback(fb, "test", quiet)(failing(n, tt.primary, &calls))
			spans, err := r.Read(context.Background(), "doc.pdf")
			if got := fbCalls.Load() == 1; got != tt.wantFB {
				t.Errorf("fallback used = %v, want %v", got, tt.wantFB)
			}
			if tt.wantText == "" {
				if !errors.Is(err, tt.primary) {
					t.Errorf("err = %v, want %v", err, tt.primary)
				}
				return
			}
			if err != nil || spans[0].Text != tt.wantText {
				t.Errorf("Read = %v, %v", spans, err)
			}
		})
	}
}

func TestWithFallbackNil(t *testing.T) {
	var calls atomic.Int32
	base := failing(0, nil, &calls)
	spans, err := WithFallback(nil, "none", quiet)(base).Read(context.Background(), "doc.pdf")
	if err != nil || len(spans) != 1 {
		t.Errorf("Read = %v, %v", spans, err)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next Reader) Reader {
			return ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
				order = append(order, name)
				return next.Read(ctx, path)
			})
		}
	}
	var calls atomic.Int32
	_, _ = Chain(mark("a"), mark("b"), mark("c"))(failing(0, nil, &calls)).Read(context.Background(), "x")
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v", order)
	}
}

func TestWithCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker(WithBreakerThreshold(2))
	var calls atomic.Int32
	r := WithCircuitBreaker(cb, "gemini")(failing(100, errFlaky, &calls))
	for i := 0; i < 2; i++ {
		if _, err := r.Read(context.Background(), "doc.pdf"); !errors.Is(err, errFlaky) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	_, err := r.Read(context.Background(), "doc.pdf")
	var open *ErrCircuitOpen
	if !errors.As(err, &open) || open.Reader != "gemini" {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestNewStackFallsBackOnScannedPDF(t *testing.T) {
	path := writePDF(t, nil)
	var fbCalls atomic.Int32
	fb := ReaderFunc(func(ctx context.Context, path string) ([]outline.TextSpan, error) {
		fbCalls.Add(1)
		return []outline.TextSpan{{Text: "Scanned Title", Page: 1, FontSize: 20}}, nil
	})
	r := New(NewPDFReader(), Options{
		Timeout:  time.Second,
		Retries:  2,
		Backoff:  time.Millisecond,
		Fallback: fb,
		Breaker:  NewCircuitBreaker(),
		Logger:   quiet,
	})
	spans, err := r.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(spans) != 1 || spans[0].Text != "Scanned Title" || fbCalls.Load() != 1 {
		t.Errorf("spans = %+v, fallback calls = %d", spans, fbCalls.Load())
	}
}
