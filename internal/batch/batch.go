// Package batch processes many documents concurrently with a bounded number
// of workers and summarizes the outcome.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Func processes one document.
type Func func(ctx context.Context, path string) error

// Result is the outcome of one document.
type Result struct {
	Path     string        `json:"path"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration_ns"`
}

// ErrorDetail names a failed document.
type ErrorDetail struct {
	Path  string `json:"file"`
	Error string `json:"error"`
}

// Summary totals a batch run. Results are in input order.
type Summary struct {
	Total        int           `json:"total_files"`
	Processed    int           `json:"processed"`
	Errors       int           `json:"errors"`
	SuccessRate  float64       `json:"success_rate"`
	ErrorDetails []ErrorDetail `json:"error_details"`
	Results      []Result      `json:"-"`
}

// Runner runs a Func over many paths.
type Runner struct {
	workers int
	logger  *slog.Logger
}

// NewRunner returns a runner with at most workers documents in flight.
func NewRunner(workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{workers: workers, logger: logger}
}

// Run processes every path and waits for all of them. Once ctx is done the
// remaining paths are not started and are reported with the context error.
func (r *Runner) Run(ctx context.Context, paths []string, fn Func) Summary {
	results := make([]Result, len(paths))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, p := range paths {
		results[i].Path = p
		select {
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			start := time.Now()
			err := fn(ctx, p)
			results[i].Duration = time.Since(start)
			results[i].Err = err
			if err != nil {
				r.logger.ErrorContext(ctx, "document failed", "path", p, "error", err)
			} else {
				r.logger.DebugContext(ctx, "document done", "path", p, "duration_ms", results[i].Duration.Milliseconds())
			}
		}(i, p)
	}
	wg.Wait()

	s := Summarize(results)
	r.logger.InfoContext(ctx, "batch complete",
		"total", s.Total,
		"processed", s.Processed,
		"errors", s.Errors,
		"success_rate", s.SuccessRate)
	return s
}

// Summarize totals results. SuccessRate is a percentage, zero for an empty batch.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), ErrorDetails: []ErrorDetail{}, Results: results}
	for _, res := range results {
		if res.Err != nil {
			s.Errors++
			s.ErrorDetails = append(s.ErrorDetails, ErrorDetail{Path: res.Path, Error: res.Err.Error()})
			continue
		}
		s.Processed++
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Processed) / float64(s.Total) * 100
	}
	return s
}
