package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-outline/internal/batch"
	"github.com/thywilljoshua/pdf-outline/internal/config"
	"github.com/thywilljoshua/pdf-outline/internal/convert"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
	"github.com/thywilljoshua/pdf-outline/internal/reader"
	"github.com/thywilljoshua/pdf-outline/internal/render"
)

type extractFlags struct {
	config    string
	out       string
	format    string
	workers   int
	ai        bool
	debug     bool
	logLevel  string
	logFormat string
}

func extractCmd() *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "extract <pdf>...",
		Short: "Write the outline of each PDF as JSON or Markdown",
		Long: `Extract reads each PDF, picks the document title and up to the configured
number of H1-H3 headings, and writes one outline per input. Without --out the
outlines are printed to stdout and the batch summary goes to stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("workers") {
				cfg.Workers = f.workers
			}
			if flags.Changed("ai") {
				cfg.Gemini.Enabled = f.ai
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = f.logLevel
			}
			if flags.Changed("log-format") {
				cfg.Log.Format = f.logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			format, err := render.ParseFormat(f.format)
			if err != nil {
				return err
			}

			logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
			opts := convert.Options{OutDir: f.out, Format: format, Debug: f.debug}
			conv, err := newConverter(cmd.Context(), cfg, opts, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}

			sum := batch.NewRunner(cfg.Workers, logger).Run(cmd.Context(), args, func(ctx context.Context, path string) error {
				_, err := conv.Run(ctx, path)
				return err
			})

			report := cmd.OutOrStdout()
			if f.out == "" {
				report = cmd.ErrOrStderr()
			}
			if err := writeSummary(report, sum); err != nil {
				return err
			}
			if sum.Errors > 0 {
				return fmt.Errorf("%d of %d documents failed", sum.Errors, sum.Total)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fl.StringVarP(&f.out, "out", "o", "", "output directory (default: stdout)")
	fl.StringVarP(&f.format, "format", "f", "json", "output format: json|markdown")
	fl.IntVarP(&f.workers, "workers", "w", 4, "documents processed concurrently")
	fl.BoolVar(&f.ai, "ai", false, "fall back to Gemini for scanned PDFs (needs GOOGLE_API_KEY)")
	fl.BoolVar(&f.debug, "debug", false, "also write <name>.debug.json with font profile and candidate scores")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	fl.StringVar(&f.logFormat, "log-format", "text", "log format: text|json")
	return cmd
}

// newConverter wires the reading stack and the analyzer from cfg.
func newConverter(ctx context.Context, cfg config.Cfg, opts convert.Options, out io.Writer, logger *slog.Logger) (*convert.Converter, error) {
	analyzer, err := outline.NewAnalyzer(cfg.Outline, outline.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	ro := reader.Options{
		Validator: reader.NewValidator(cfg.Reader.MaxBytes(), cfg.Reader.MaxPages),
		Timeout:   cfg.Reader.Timeout,
		Retries:   cfg.Reader.Retries,
		Backoff:   cfg.Reader.Backoff,
		Logger:    logger,
	}
	if cfg.Gemini.Enabled {
		g, err := reader.NewGeminiReader(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			return nil, err
		}
		ro.Fallback = g
		ro.Breaker = reader.NewCircuitBreaker(reader.WithBreakerLogger(logger, "gemini"))
	}
	return convert.New(reader.New(reader.NewPDFReader(), ro), analyzer, opts, out, logger), nil
}

func writeSummary(w io.Writer, sum batch.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
