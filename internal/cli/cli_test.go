package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/internal/cli"
	"github.com/yaklabco/gotypstyle/internal/configloader"
	"github.com/yaklabco/gotypstyle/pkg/fsutil"
)

var testInfo = cli.BuildInfo{
	Version: "test-version",
	Commit:  "test-commit",
	Date:    "test-date",
}

// execute runs the root command with args and stdin, returning stdout,
// stderr and the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	assert.True(t, strings.HasPrefix(cmd.Use, "gotypstyle"))
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"format", "check", "ast", "serve", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)

	persistent := cmd.PersistentFlags()
	for _, name := range []string{"debug", "config", "color", "width", "blank-lines", "jobs"} {
		assert.NotNil(t, persistent.Lookup(name), "root flag %s", name)
	}
	assert.Equal(t, "c", persistent.Lookup("width").Shorthand)
	assert.Equal(t, "j", persistent.Lookup("jobs").Shorthand)

	formatCmd, _, err := cmd.Find([]string{"format"})
	require.NoError(t, err)
	for _, name := range []string{"inplace", "check", "diff", "markdown", "output"} {
		assert.NotNil(t, formatCmd.Flags().Lookup(name), "format flag %s", name)
	}
	assert.Equal(t, "i", formatCmd.Flags().Lookup("inplace").Shorthand)
	assert.Contains(t, formatCmd.Flags().Lookup("output").Usage, "table")

	astCmd, _, err := cmd.Find([]string{"ast"})
	require.NoError(t, err)
	assert.Equal(t, "tree", astCmd.Flags().Lookup("format").DefValue)
}

func TestFormatStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		in   string
		want string
	}{
		{
			name: "default width",
			args: []string{"format", "-"},
			in:   "#f(a,b)",
			want: "#f(a, b)\n",
		},
		{
			name: "narrow width breaks arguments",
			args: []string{"format", "-c", "5", "-"},
			in:   "#f(a,b)",
			want: "#f(\n  a,\n  b,\n)\n",
		},
		{
			name: "no paths reads stdin",
			args: []string{"format"},
			in:   "Hello   \n",
			want: "Hello\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, tt.in, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestFormatStdinCheck(t *testing.T) {
	t.Parallel()

	_, stderr, err := execute(t, "#f(a,b)", "format", "--check", "-")
	require.ErrorIs(t, err, cli.ErrUnformatted)
	assert.Contains(t, stderr, "<stdin>: needs formatting")

	_, _, err = execute(t, "#f(a, b)\n", "format", "--check", "-")
	require.NoError(t, err)
}

func TestFormatStdinDiff(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "#f(a,b)\n", "format", "--diff", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "-#f(a,b)")
	assert.Contains(t, stdout, "+#f(a, b)")
}

func TestFormatStdinSyntaxError(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := execute(t, "ok\n#\"unclosed", "format", "--color", "never", "-")
	require.ErrorIs(t, err, cli.ErrFilesFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "<stdin>:2:")
	assert.Contains(t, stderr, "#\"unclosed")
	assert.Equal(t, cli.ExitFilesFailed, cli.ExitCode(err))
}

func TestFormatSingleFilePrints(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "main.typ", "#f(a,b)")

	stdout, _, err := execute(t, "", "format", path)
	require.NoError(t, err)
	assert.Equal(t, "#f(a, b)\n", stdout)
	assert.Equal(t, "#f(a,b)", readFile(t, path), "print mode must not write")
}

func TestFormatSeveralFilesNeedsMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.typ", "#f(a,b)")
	writeFile(t, dir, "b.typ", "#g(c,d)")

	_, _, err := execute(t, "", "format", dir)
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestFormatInplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changed := writeFile(t, dir, "a.typ", "#f(a,b)")
	clean := writeFile(t, dir, "b.typ", "#g(c, d)\n")
	ignored := writeFile(t, dir, "notes.txt", "#f(a,b)")

	stdout, _, err := execute(t, "", "format", "-i", "--color", "never", dir)
	require.NoError(t, err)

	assert.Equal(t, "#f(a, b)\n", readFile(t, changed))
	assert.Equal(t, "#g(c, d)\n", readFile(t, clean))
	assert.Equal(t, "#f(a,b)", readFile(t, ignored))
	assert.Contains(t, stdout, "a.typ")
}

func TestFormatInplaceMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	readme := writeFile(t, dir, "README.md", "# Title\n\n```typ\n#f(a,b)\n```\n")

	_, _, err := execute(t, "", "format", "-i", "--markdown", "--color", "never", dir)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n```typ\n#f(a, b)\n```\n", readFile(t, readme))
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.typ", "#f(a,b)")
	writeFile(t, dir, "b.typ", "#g(c, d)\n")

	stdout, _, err := execute(t, "", "check", "--color", "never", dir)
	require.ErrorIs(t, err, cli.ErrUnformatted)
	assert.Equal(t, cli.ExitUnformatted, cli.ExitCode(err))
	assert.Contains(t, stdout, "a.typ")
	assert.Equal(t, "#f(a,b)", readFile(t, path), "check must not write")
}

func TestCheckCommandClean(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.typ", "#f(a, b)\n")

	_, _, err := execute(t, "", "check", "--color", "never", dir)
	require.NoError(t, err)
}

func TestCheckCommandSyntaxError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.typ", "#\"unclosed")

	stdout, _, err := execute(t, "", "check", "--color", "never", dir)
	require.ErrorIs(t, err, cli.ErrFilesFailed)
	assert.Contains(t, stdout, "bad.typ")
}

func TestCheckJSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.typ", "#f(a,b)")

	stdout, _, err := execute(t, "", "check", "--output", "json", dir)
	require.ErrorIs(t, err, cli.ErrUnformatted)
	assert.Contains(t, stdout, `"status": "needs formatting"`)
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"format", "--bogus"}},
		{name: "inplace with check", args: []string{"format", "-i", "--check", "."}},
		{name: "unknown output", args: []string{"format", "--output", "xml", "--check", "."}},
		{name: "unknown ast format", args: []string{"ast", "--format", "png", "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), "bad.yml", "max_width: -3\n")

	_, _, err := execute(t, "#f(a)", "format", "--config", cfgPath, "-")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestConfigFileSetsWidth(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), "narrow.yml", "max_width: 5\n")

	stdout, _, err := execute(t, "#f(a,b)", "format", "--config", cfgPath, "-")
	require.NoError(t, err)
	assert.Equal(t, "#f(\n  a,\n  b,\n)\n", stdout)
}

func TestASTCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "= Title\n", "ast")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Markup [0]"), "got %q", stdout)
	assert.Contains(t, stdout, "Heading")

	stdout, _, err = execute(t, "#f(a)\n", "ast", "--format", "dot", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "digraph syntax {"))
}

func TestASTCommandReadsFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.typ", "// @typstyle off\n#f(a,b)\n")

	stdout, _, err := execute(t, "", "ast", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "disabled")

	_, _, err = execute(t, "", "ast", filepath.Join(t.TempDir(), "missing.typ"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "config.yml")

	_, _, err := execute(t, "", "init", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "max_width: 120")

	_, _, err = execute(t, "", "init", "--output", out)
	require.ErrorIs(t, err, cli.ErrUsage)

	_, _, err = execute(t, "", "init", "--full", "--force", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "server:")
}

func TestInitFromTOML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "typstyle.toml", "column = 90\nblank_lines_upper_bound = 1\n")

	_, _, err := execute(t, "", "init", "--from-toml")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, ".gotypstyle.yml"))
	assert.Contains(t, content, "max_width: 90")
	assert.Contains(t, content, "blank_lines_upper_bound: 1")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "test-version")
	assert.Contains(t, stdout, "test-commit")

	stdout, _, err = execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "test-version\n", stdout)
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "format", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "--inplace")
	assert.Contains(t, stdout, "Global Flags:")

	stdout, _, err = execute(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Environment:")
	assert.Contains(t, stdout, "GOTYPSTYLE_MAX_WIDTH")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "unformatted", err: cli.ErrUnformatted, want: cli.ExitUnformatted},
		{name: "failed", err: cli.ErrFilesFailed, want: cli.ExitFilesFailed},
		{name: "usage", err: fmt.Errorf("%w: bad", cli.ErrUsage), want: cli.ExitInvalidUsage},
		{name: "config", err: errors.Join(cli.ErrConfig, errors.New("x")), want: cli.ExitConfigError},
		{name: "validation", err: &configloader.ValidationError{Field: "jobs"}, want: cli.ExitConfigError},
		{name: "missing file", err: fmt.Errorf("read: %w", fsutil.ErrFileNotFound), want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestIsSignal(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsSignal(cli.ErrUnformatted))
	assert.True(t, cli.IsSignal(cli.ErrFilesFailed))
	assert.False(t, cli.IsSignal(cli.ErrUsage))
}
