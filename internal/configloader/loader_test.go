package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/config"
)

func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		NonInteractive:     true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolatedOptions(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.DefaultMaxWidth, result.Config.MaxWidth)
	assert.Equal(t, config.DefaultBlankLinesUpperBound, result.Config.BlankLines())
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".gotypstyle.yml"), "max_width: 80\nblank_lines_upper_bound: 0\n")
	sub := filepath.Join(root, "chapters", "one")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolatedOptions(sub))
	require.NoError(t, err)

	assert.Equal(t, 80, result.Config.MaxWidth)
	assert.Equal(t, 0, result.Config.BlankLines())
	assert.Equal(t, []string{filepath.Join(root, ".gotypstyle.yml")}, result.LoadedFrom)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".gotypstyle.yml"), "max_width: 10\n")
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	result, err := Load(context.Background(), isolatedOptions(repo))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxWidth, result.Config.MaxWidth)
}

func TestLoad_TOMLConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, "typstyle.toml"), "column = 72\nblank_lines_upper_bound = 1\nreorder = true\n")

	result, err := Load(context.Background(), isolatedOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "typstyle.toml"), result.Paths.TOML)
	assert.Empty(t, result.Paths.Project)
	assert.Equal(t, 72, result.Config.MaxWidth)
	assert.Equal(t, 1, result.Config.BlankLines())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"reorder"`)
}

func TestLoad_YAMLWinsOverTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gotypstyle.yml"), "max_width: 90\n")
	writeFile(t, filepath.Join(dir, "typstyle.toml"), "max_width = 30\n")

	paths, err := DiscoverPaths(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".gotypstyle.yml"), paths.Project)
	assert.Empty(t, paths.TOML)
}

func TestLoad_JSONProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gotypstyle.json"), `{"max_width": 72, "jobs": 2}`)

	result, err := Load(context.Background(), isolatedOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, 72, result.Config.MaxWidth)
	assert.Equal(t, 2, result.Config.Jobs)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".gotypstyle.yml"), "max_width: 90\njobs: 2\noutput: json\n")
	explicit := filepath.Join(dir, "ci", "gotypstyle.yaml")
	writeFile(t, explicit, "max_width: 100\n")

	opts := isolatedOptions(dir)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Jobs: 8, Check: true}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Config.MaxWidth)
	assert.Equal(t, 8, result.Config.Jobs)
	assert.Equal(t, config.OutputJSON, result.Config.Output)
	assert.True(t, result.Config.Check)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_InvalidFileNamesPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".gotypstyle.yml")
	writeFile(t, path, "output: sarif\n")

	_, err := Load(context.Background(), isolatedOptions(dir))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "output", verr.Field)
	assert.Equal(t, path, verr.File)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOTYPSTYLE_MAX_WIDTH", "60")
	t.Setenv("GOTYPSTYLE_BLANK_LINES_UPPER_BOUND", "0")
	t.Setenv("GOTYPSTYLE_MARKDOWN", "true")
	t.Setenv("GOTYPSTYLE_EXCLUDE", " a/** , ,b/*")
	t.Setenv("GOTYPSTYLE_CACHE_TTL", "90s")
	t.Setenv("GOTYPSTYLE_COLOR", "never")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, 60, cfg.MaxWidth)
	assert.Equal(t, 0, cfg.BlankLines())
	assert.True(t, cfg.Markdown)
	assert.Equal(t, []string{"a/**", "b/*"}, cfg.Exclude)
	assert.Equal(t, 90*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, config.ColorNever, cfg.Color)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("GOTYPSTYLE_JOBS", "many")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOTYPSTYLE_JOBS")
}

func TestEnvVars(t *testing.T) {
	t.Parallel()

	vars := EnvVars()
	require.NotEmpty(t, vars)
	for i, v := range vars {
		assert.True(t, strings.HasPrefix(v.Name, EnvPrefix), v.Name)
		assert.NotEmpty(t, v.Field)
		assert.NotEmpty(t, v.Help)
		if i > 0 {
			assert.Less(t, vars[i-1].Name, v.Name)
		}
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	override := &config.Config{
		MaxWidth: 70,
		Exclude:  []string{"x"},
		Server:   config.ServerConfig{RedisAddr: "redis:6379"},
	}
	override.SetBlankLines(0)

	merged := merge(base, override)
	assert.Equal(t, 70, merged.MaxWidth)
	assert.Equal(t, 0, merged.BlankLines())
	assert.Equal(t, []string{".typ"}, merged.Extensions)
	assert.Equal(t, []string{"x"}, merged.Exclude)
	assert.Equal(t, config.DefaultServerAddr, merged.Server.Addr)
	assert.Equal(t, "redis:6379", merged.Server.RedisAddr)

	assert.Same(t, base, merge(base, nil))
	assert.Same(t, override, merge(nil, override))
	assert.Nil(t, MergeAll())
	assert.Equal(t, 70, MergeAll(base, nil, override).MaxWidth)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"negative width", func(c *config.Config) { c.MaxWidth = -1 }, "max_width"},
		{"negative bound", func(c *config.Config) { c.SetBlankLines(-2) }, "blank_lines_upper_bound"},
		{"negative jobs", func(c *config.Config) { c.Jobs = -1 }, "jobs"},
		{"unknown output", func(c *config.Config) { c.Output = "xml" }, "output"},
		{"unknown color", func(c *config.Config) { c.Color = "rainbow" }, "color"},
		{"unknown backups", func(c *config.Config) { c.Backups = "xdg" }, "backups"},
		{"bad glob", func(c *config.Config) { c.Exclude = []string{"[a"} }, "exclude[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)
			problems := Validate(cfg, "")
			require.Error(t, problems.Err())
			assert.Equal(t, tt.field, problems.Errors[0].Field)
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, Validate(config.NewConfig(), "").Err())
	})

	t.Run("extension without dot warns", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Extensions = []string{"typ"}
		problems := Validate(cfg, "cfg.yml")
		assert.NoError(t, problems.Err())
		require.Len(t, problems.Warnings, 1)
		assert.Equal(t, "cfg.yml", problems.Warnings[0].File)
		assert.Contains(t, problems.WarningMessages()[0], "extensions[0]")
	})
}
