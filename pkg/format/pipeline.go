// Package format runs the formatter over files with the safety steps needed
// to rewrite them in place.
package format

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/pkg/cache"
	"github.com/yaklabco/gotypstyle/pkg/config"
	"github.com/yaklabco/gotypstyle/pkg/diff"
	"github.com/yaklabco/gotypstyle/pkg/fsutil"
	"github.com/yaklabco/gotypstyle/pkg/langdetect"
	"github.com/yaklabco/gotypstyle/pkg/mdembed"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// Pipeline error types for categorization.
var (
	// ErrParseFailure wraps typstyle.ErrSyntax for files that do not parse.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Options controls pipeline behavior.
type Options struct {
	Format typstyle.Options

	// Markdown formats Typst blocks embedded in Markdown files.
	Markdown bool

	// Write rewrites changed files in place.
	Write bool

	// Diff attaches a unified diff to changed results.
	Diff bool

	Backup config.BackupMode

	// Cache stores formatted output. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// OptionsFromConfig derives pipeline options from configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Format: typstyle.Options{
			MaxWidth:             cfg.MaxWidth,
			BlankLinesUpperBound: cfg.BlankLines(),
		},
		Markdown: cfg.Markdown,
		Write:    cfg.Inplace,
		Diff:     cfg.Diff || cfg.Output == config.OutputDiff,
		Backup:   cfg.Backups,
		CacheTTL: cfg.Server.CacheTTL,
	}
}

// Result is the outcome of processing one file.
type Result struct {
	Path     string
	Language langdetect.Language

	Original  []byte
	Formatted []byte

	// Changed is true when Formatted differs from Original.
	Changed bool

	Diff *diff.Diff

	// Blocks counts embedded Typst blocks in Markdown input.
	Blocks int

	// BlockErrors lists embedded blocks left unformatted.
	BlockErrors []error

	CacheHit      bool
	Written       bool
	BackupCreated bool

	// Skipped is set when the file changed on disk while it was formatted.
	Skipped    bool
	SkipReason string
}

// Summary returns a short human-readable status.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "needs formatting"
	default:
		return "ok"
	}
}

// Pipeline formats files with fixed options. It is safe for concurrent use.
type Pipeline struct {
	opts      Options
	formatter *typstyle.Formatter
	cache     cache.Cache
}

// NewPipeline creates a pipeline.
func NewPipeline(opts Options) *Pipeline {
	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Pipeline{
		opts:      opts,
		formatter: typstyle.New(opts.Format),
		cache:     c,
	}
}

// Formatter returns the formatter used by the pipeline.
func (p *Pipeline) Formatter() *typstyle.Formatter {
	return p.formatter
}

// ProcessFile formats one file:
//  1. Read and hash the file.
//  2. Format the content.
//  3. Attach a diff if requested.
//  4. In write mode, confirm the file is unchanged on disk, back it up
//     if configured and replace it atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := p.ProcessContent(ctx, path, snap.Content, p.language(path))
	if err != nil {
		return nil, err
	}
	if !p.opts.Write || !result.Changed {
		return result, nil
	}

	if err := snap.Verify(ctx); err != nil {
		if errors.Is(err, fsutil.ErrFileModified) {
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return result, nil
		}
		return nil, fmt.Errorf("check modified: %w", err)
	}

	if p.opts.Backup == config.BackupSidecar {
		created, err := fsutil.CreateBackup(ctx, path, snap.Content, snap.Mode)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.Formatted, snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logging.FromContext(ctx).Debug("file rewritten",
		logging.FieldPath, path,
		"backup", result.BackupCreated,
	)
	return result, nil
}

// ProcessContent formats in-memory content without touching the disk.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	lang langdetect.Language,
) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	result := &Result{
		Path:     path,
		Language: lang,
		Original: content,
	}

	if lang == langdetect.Markdown {
		embedded, err := mdembed.Format(ctx, content, p.formatter)
		if err != nil {
			return nil, err
		}
		result.Formatted = embedded.Content
		result.Blocks = embedded.Blocks
		result.BlockErrors = embedded.Errors
	} else {
		formatted, hit, err := p.formatTypst(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, path, err)
		}
		result.Formatted = formatted
		result.CacheHit = hit
	}

	result.Changed = string(result.Formatted) != string(content)
	if result.Changed && p.opts.Diff {
		result.Diff = diff.Compute(path, string(content), string(result.Formatted))
	}
	return result, nil
}

// CacheKey returns the cache key used for content.
func (p *Pipeline) CacheKey(content []byte) string {
	return cache.Key(content, p.formatter.Options())
}

func (p *Pipeline) formatTypst(ctx context.Context, content []byte) ([]byte, bool, error) {
	logger := logging.FromContext(ctx)
	key := p.CacheKey(content)

	cached, hit, err := p.cache.Get(ctx, key)
	if err != nil {
		logger.Debug("cache read failed", logging.FieldError, err)
	}
	if hit {
		return cached, true, nil
	}

	out, err := p.formatter.FormatContent(string(content))
	if err != nil {
		return nil, false, err
	}
	formatted := []byte(out)

	if err := p.cache.Set(ctx, key, formatted, p.opts.CacheTTL); err != nil {
		logger.Debug("cache write failed", logging.FieldError, err)
	}
	return formatted, false, nil
}

func (p *Pipeline) language(path string) langdetect.Language {
	lang := langdetect.Detect(path, nil)
	if lang == langdetect.Markdown && p.opts.Markdown {
		return langdetect.Markdown
	}
	return langdetect.Typst
}

// IsPipelineError reports whether err is a known pipeline error.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure) ||
		errors.Is(err, fsutil.ErrFileNotFound) ||
		errors.Is(err, fsutil.ErrPermissionDenied)
}
