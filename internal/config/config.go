// Package config loads runtime settings from a YAML file, a .env file and
// PDFOUTLINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PDFOUTLINE_"

// ReaderCfg holds the document reading limits and resilience settings.
type ReaderCfg struct {
	MaxFileMB int           `yaml:"max_file_mb"`
	MaxPages  int           `yaml:"max_pages"`
	Timeout   time.Duration `yaml:"timeout"`
	Retries   int           `yaml:"retries"`
	Backoff   time.Duration `yaml:"backoff"`
}

// MaxBytes returns the file size limit in bytes.
func (r ReaderCfg) MaxBytes() int64 {
	return int64(r.MaxFileMB) << 20
}

// GeminiCfg configures the fallback reader for scanned documents.
type GeminiCfg struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	// APIKey is only read from the environment.
	APIKey string `yaml:"-"`
}

// LogCfg selects the slog handler.
type LogCfg struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// Cfg is the full runtime configuration.
type Cfg struct {
	Outline outline.Config `yaml:"outline"`
	Reader  ReaderCfg      `yaml:"reader"`
	Gemini  GeminiCfg      `yaml:"gemini"`
	Log     LogCfg         `yaml:"log"`
	Workers int            `yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() Cfg {
	return Cfg{
		Outline: outline.DefaultConfig(),
		Reader: ReaderCfg{
			MaxFileMB: 100,
			MaxPages:  1000,
			Timeout:   300 * time.Second,
			Retries:   2,
			Backoff:   time.Second,
		},
		Gemini:  GeminiCfg{Model: "gemini-2.5-flash"},
		Log:     LogCfg{Level: "info", Format: "text"},
		Workers: 4,
	}
}

// Load builds the configuration from, in increasing priority: the defaults,
// the YAML file at path (skipped when path is empty), a .env file in the
// working directory and PDFOUTLINE_* environment variables. The result is
// validated.
func Load(path string) (Cfg, error) {
	// Best-effort: a missing .env is not an error.
	_ = godotenv.Load()
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Cfg, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Cfg, getenv func(string) string) error {
	env := envReader{getenv: getenv}
	env.asFloat("THRESHOLD", &cfg.Outline.Filter.Threshold)
	env.asInt("MAX_HEADINGS", &cfg.Outline.Assemble.MaxHeadings)
	env.asFloat("H1_RATIO", &cfg.Outline.Classify.Ratios.H1)
	env.asFloat("H2_RATIO", &cfg.Outline.Classify.Ratios.H2)
	env.asFloat("H3_RATIO", &cfg.Outline.Classify.Ratios.H3)
	env.asBool("REQUIRE_PROMINENCE", &cfg.Outline.Filter.RequireProminence)
	env.asBool("EXCLUDE_TITLE", &cfg.Outline.Assemble.ExcludeTitle)
	env.asInt("MAX_FILE_MB", &cfg.Reader.MaxFileMB)
	env.asInt("MAX_PAGES", &cfg.Reader.MaxPages)
	env.asDuration("TIMEOUT", &cfg.Reader.Timeout)
	env.asInt("RETRIES", &cfg.Reader.Retries)
	env.asDuration("BACKOFF", &cfg.Reader.Backoff)
	env.asInt("WORKERS", &cfg.Workers)
	env.asString("LOG_LEVEL", &cfg.Log.Level)
	env.asString("LOG_FORMAT", &cfg.Log.Format)
	env.asBool("GEMINI", &cfg.Gemini.Enabled)
	env.asString("GEMINI_MODEL", &cfg.Gemini.Model)

	// GOOGLE_API_KEY is the name the Gemini SDK documents.
	for _, k := range []string{EnvPrefix + "GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			cfg.Gemini.APIKey = v
			break
		}
	}
	return errors.Join(env.errs...)
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) lookup(name string) (string, bool) {
	v := strings.TrimSpace(e.getenv(EnvPrefix + name))
	return v, v != ""
}

func (e *envReader) fail(name, raw string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%s%s=%q: %w", EnvPrefix, name, raw, err))
}

func (e *envReader) asString(name string, dst *string) {
	if v, ok := e.lookup(name); ok {
		*dst = v
	}
}

func (e *envReader) asInt(name string, dst *int) {
	v, ok := e.lookup(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = n
}

func (e *envReader) asFloat(name string, dst *float64) {
	v, ok := e.lookup(name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = f
}

func (e *envReader) asBool(name string, dst *bool) {
	v, ok := e.lookup(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = b
}

func (e *envReader) asDuration(name string, dst *time.Duration) {
	v, ok := e.lookup(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = d
}

// Validate checks the runtime settings and the outline configuration.
func (c Cfg) Validate() error {
	if err := c.Outline.Validate(); err != nil {
		return err
	}
	switch {
	case c.Reader.MaxFileMB < 1:
		return &outline.ConfigError{Field: "reader.max_file_mb", Reason: "must be at least 1"}
	case c.Reader.MaxPages < 1:
		return &outline.ConfigError{Field: "reader.max_pages", Reason: "must be at least 1"}
	case c.Reader.Timeout < 0:
		return &outline.ConfigError{Field: "reader.timeout", Reason: "must not be negative"}
	case c.Reader.Retries < 0:
		return &outline.ConfigError{Field: "reader.retries", Reason: "must not be negative"}
	case c.Reader.Backoff < 0:
		return &outline.ConfigError{Field: "reader.backoff", Reason: "must not be negative"}
	case c.Workers < 1:
		return &outline.ConfigError{Field: "workers", Reason: "must be at least 1"}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &outline.ConfigError{Field: "log.level", Reason: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &outline.ConfigError{Field: "log.format", Reason: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	if c.Gemini.Enabled && c.Gemini.APIKey == "" {
		return &outline.ConfigError{Field: "gemini.api_key", Reason: "required when gemini is enabled (set GOOGLE_API_KEY)"}
	}
	return nil
}
