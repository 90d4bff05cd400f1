package configloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/config"
)

// ValidationError describes one invalid setting.
type ValidationError struct {
	// File is the configuration file the setting came from, if known.
	File string

	// Field is the dotted key of the setting, e.g. "server.cache_ttl".
	Field string

	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Field + ": " + e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	return msg
}

// Problems are the findings of Validate. Errors reject the configuration;
// warnings are reported and loading continues.
type Problems struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// Err joins the errors, or returns nil when there are none.
func (p *Problems) Err() error {
	errs := make([]error, len(p.Errors))
	for i, e := range p.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// WarningMessages returns the warnings as text.
func (p *Problems) WarningMessages() []string {
	msgs := make([]string, len(p.Warnings))
	for i, w := range p.Warnings {
		msgs[i] = w.Error()
	}
	return msgs
}

func (p *Problems) fail(file, field string, value any, format string, args ...any) {
	p.Errors = append(p.Errors, &ValidationError{
		File: file, Field: field, Value: value, Message: fmt.Sprintf(format, args...),
	})
}

func (p *Problems) warn(file, field string, value any, format string, args ...any) {
	p.Warnings = append(p.Warnings, &ValidationError{
		File: file, Field: field, Value: value, Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks cfg, attributing findings to file when it is not empty.
// Zero values stand for unset settings and pass.
func Validate(cfg *config.Config, file string) *Problems {
	p := &Problems{}
	if cfg == nil {
		return p
	}

	if cfg.MaxWidth < 0 {
		p.fail(file, "max_width", cfg.MaxWidth, "must be positive, got %d", cfg.MaxWidth)
	}
	if n := cfg.BlankLinesUpperBound; n != nil && *n < 0 {
		p.fail(file, "blank_lines_upper_bound", *n, "must not be negative, got %d", *n)
	}
	if cfg.Jobs < 0 {
		p.fail(file, "jobs", cfg.Jobs, "must not be negative (0 means one per CPU)")
	}
	if cfg.Server.CacheTTL < 0 {
		p.fail(file, "server.cache_ttl", cfg.Server.CacheTTL, "must not be negative")
	}

	oneOf(p, file, "output", string(cfg.Output), cfg.Output.IsValid(), "text, json, diff, summary, table")
	oneOf(p, file, "color", string(cfg.Color), cfg.Color.IsValid(), "auto, always, never")
	oneOf(p, file, "backups", string(cfg.Backups), cfg.Backups.IsValid(), "none, sidecar")

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			p.warn(file, fmt.Sprintf("extensions[%d]", i), ext, "%q never matches; extensions start with a dot", ext)
		}
	}
	globs(p, file, "include", cfg.Include)
	globs(p, file, "exclude", cfg.Exclude)
	return p
}

func oneOf(p *Problems, file, field, value string, valid bool, choices string) {
	if value != "" && !valid {
		p.fail(file, field, value, "unknown value %q; want one of %s", value, choices)
	}
}

func globs(p *Problems, file, field string, patterns []string) {
	for i, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			p.fail(file, fmt.Sprintf("%s[%d]", field, i), pattern, "bad glob: %v", err)
		}
	}
}
