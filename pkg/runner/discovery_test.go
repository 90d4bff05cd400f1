package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/runner"
)

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"main.typ":                "a",
		"chapters/one.typ":        "b",
		"chapters/notes.txt":      "c",
		"README.md":               "d",
		".hidden/skip.typ":        "e",
		"vendor/lib/skip.typ":     "f",
		"node_modules/x/skip.typ": "g",
		"out/gen.typ":             "h",
	})

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			opts: runner.Options{},
			want: []string{"chapters/one.typ", "main.typ", "out/gen.typ"},
		},
		{
			name: "exclude glob",
			opts: runner.Options{ExcludeGlobs: []string{"out/**"}},
			want: []string{"chapters/one.typ", "main.typ"},
		},
		{
			name: "include glob",
			opts: runner.Options{IncludeGlobs: []string{"chapters/**"}},
			want: []string{"chapters/one.typ"},
		},
		{
			name: "markdown mode",
			opts: runner.Options{Markdown: true, ExcludeGlobs: []string{"out"}},
			want: []string{"README.md", "chapters/one.typ", "main.typ"},
		},
		{
			name: "explicit file with other extension",
			opts: runner.Options{Paths: []string{"chapters/notes.txt", "main.typ", "main.typ"}},
			want: []string{"chapters/notes.txt", "main.typ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = root
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, root, files))
		})
	}
}

func TestDiscoverMissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"absent.typ"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.typ")
}

func TestDiscoverCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"main.typ", "*.typ", true},
		{"a/b/main.typ", "*.typ", true},
		{"a/b/main.typ", "a/*.typ", false},
		{"vendor/x.typ", "vendor/**", true},
		{"vendorx/x.typ", "vendor/**", false},
		{"a/build", "**/build", true},
		{"docs/a/b.typ", "docs/**/*.typ", true},
		{"src/a/b.typ", "docs/**/*.typ", false},
		{"anything/at/all", "**", true},
		{"docs/b.typ", "docs/**/*.typ", true},
		{"build", "**/build", true},
		{"vendor", "vendor/**", true},
		{"ch/x.typ", "ch/{x,y}.typ", true},
		{"a.typ", "[", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, runner.MatchGlob(tt.path, tt.pattern), "%s ~ %s", tt.path, tt.pattern)
	}
}
