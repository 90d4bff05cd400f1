package format_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/cache"
	"github.com/yaklabco/gotypstyle/pkg/config"
	"github.com/yaklabco/gotypstyle/pkg/format"
	"github.com/yaklabco/gotypstyle/pkg/fsutil"
	"github.com/yaklabco/gotypstyle/pkg/langdetect"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func defaultOptions() format.Options {
	return format.Options{Format: typstyle.DefaultOptions()}
}

func TestProcessContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("changed", func(t *testing.T) {
		t.Parallel()

		opts := defaultOptions()
		opts.Diff = true
		res, err := format.NewPipeline(opts).ProcessContent(ctx, "a.typ", []byte("#f(a,b)\n"), langdetect.Typst)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, "#f(a, b)\n", string(res.Formatted))
		require.NotNil(t, res.Diff)
		assert.Contains(t, res.Diff.String(), "+#f(a, b)")
		assert.Equal(t, "needs formatting", res.Summary())
	})

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		res, err := format.NewPipeline(defaultOptions()).ProcessContent(ctx, "a.typ", []byte("#f(a, b)\n"), langdetect.Typst)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Nil(t, res.Diff)
		assert.Equal(t, "ok", res.Summary())
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		_, err := format.NewPipeline(defaultOptions()).ProcessContent(ctx, "bad.typ", []byte("#\"open"), langdetect.Typst)
		require.Error(t, err)
		assert.True(t, errors.Is(err, format.ErrParseFailure))
		assert.True(t, errors.Is(err, typstyle.ErrSyntax))
		assert.True(t, format.IsPipelineError(err))
		assert.Contains(t, err.Error(), "bad.typ")
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		src := "# Doc\n\n```typ\n#f(a,b)\n```\n"
		res, err := format.NewPipeline(defaultOptions()).ProcessContent(ctx, "README.md", []byte(src), langdetect.Markdown)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, 1, res.Blocks)
		assert.Equal(t, "# Doc\n\n```typ\n#f(a, b)\n```\n", string(res.Formatted))
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := format.NewPipeline(defaultOptions()).ProcessContent(cctx, "a.typ", []byte("x"), langdetect.Typst)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestProcessFileCheckDoesNotWrite(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "doc.typ", "#f(a,b)\n")

	res, err := format.NewPipeline(defaultOptions()).ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#f(a,b)\n", string(data))
}

func TestProcessFileWrites(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "doc.typ", "#f(a,b)\n")

	opts := defaultOptions()
	opts.Write = true
	opts.Backup = config.BackupSidecar

	res, err := format.NewPipeline(opts).ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.True(t, res.BackupCreated)
	assert.Equal(t, "formatted (backup created)", res.Summary())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#f(a, b)\n", string(data))

	backup, err := os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "#f(a,b)\n", string(backup))
}

func TestProcessFileMissing(t *testing.T) {
	t.Parallel()

	_, err := format.NewPipeline(defaultOptions()).ProcessFile(context.Background(), filepath.Join(t.TempDir(), "nope.typ"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fsutil.ErrFileNotFound))
}

func TestProcessContentUsesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	opts := defaultOptions()
	opts.Cache = store
	pipeline := format.NewPipeline(opts)

	src := []byte("#f(a,b)\n")
	first, err := pipeline.ProcessContent(ctx, "a.typ", src, langdetect.Typst)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := pipeline.ProcessContent(ctx, "a.typ", src, langdetect.Typst)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, string(first.Formatted), string(second.Formatted))

	_, hit, err := store.Get(ctx, pipeline.CacheKey(src))
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MaxWidth = 60
	cfg.SetBlankLines(0)
	cfg.Inplace = true
	cfg.Output = config.OutputDiff

	opts := format.OptionsFromConfig(cfg)
	assert.Equal(t, 60, opts.Format.MaxWidth)
	assert.Equal(t, 0, opts.Format.BlankLinesUpperBound)
	assert.True(t, opts.Write)
	assert.True(t, opts.Diff)
}
