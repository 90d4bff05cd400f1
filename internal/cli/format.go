package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/internal/ui/pretty"
	"github.com/yaklabco/gotypstyle/pkg/config"
	"github.com/yaklabco/gotypstyle/pkg/format"
	"github.com/yaklabco/gotypstyle/pkg/langdetect"
	"github.com/yaklabco/gotypstyle/pkg/reporter"
	"github.com/yaklabco/gotypstyle/pkg/runner"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// stdinPath is the display name of standard input.
const stdinPath = "<stdin>"

type formatFlags struct {
	inplace  bool
	check    bool
	diff     bool
	markdown bool
	output   string
}

func newFormatCommand(global *globalFlags) *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format Typst files",
		Long:  formatLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, global, flags)
		},
	}

	addFormatFlags(cmd, flags)

	return cmd
}

func newCheckCommand(global *globalFlags) *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report Typst files that need formatting",
		Long: `Report files whose formatting differs from gotypstyle's output without
modifying them. Exits with status 1 when any file needs formatting.

This is the same as "gotypstyle format --check".`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.check = true
			return runFormat(cmd, args, global, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff for every file that needs formatting")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also check typst blocks in Markdown files")
	cmd.Flags().StringVar(&flags.output, "output", "", "output format: text, json, diff, summary, table")

	return cmd
}

const formatLongDescription = `Format Typst files.

With a single file, or "-" for standard input, the formatted document is
printed to standard output. Directories are walked for .typ files; use
--inplace to rewrite them, or --check to list the files that need
formatting.

Examples:
  gotypstyle format main.typ            # Print formatted main.typ
  gotypstyle format -i .                # Format every .typ file in place
  gotypstyle format --check docs/       # Exit 1 if anything needs formatting
  gotypstyle format --diff main.typ     # Show what would change
  gotypstyle format -c 80 - < main.typ  # Format stdin at width 80
  gotypstyle format -i --markdown .     # Also format typst blocks in .md files`

func addFormatFlags(cmd *cobra.Command, flags *formatFlags) {
	cmd.Flags().BoolVarP(&flags.inplace, "inplace", "i", false, "rewrite files in place")
	cmd.Flags().BoolVar(&flags.check, "check", false, "report files that need formatting and exit 1 if any")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff for every file that would change")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also format typst blocks in Markdown files")
	cmd.Flags().StringVar(&flags.output, "output", "", "output format: text, json, diff, summary, table")
}

func runFormat(cmd *cobra.Command, args []string, global *globalFlags, flags *formatFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	if flags.inplace && flags.check {
		return fmt.Errorf("%w: --inplace and --check cannot be combined", ErrUsage)
	}

	cliCfg := &config.Config{
		Inplace:  flags.inplace,
		Check:    flags.check,
		Diff:     flags.diff,
		Markdown: flags.markdown,
	}
	if flags.output != "" {
		outputFormat, err := reporter.ParseFormat(flags.output)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cliCfg.Output = outputFormat
	}

	cfg, err := loadConfig(cmd, global, cliCfg)
	if err != nil {
		return err
	}
	if cfg.Diff && flags.output == "" {
		cfg.Output = config.OutputDiff
	}

	fileCache, err := localCache(cfg)
	if err != nil {
		return err
	}
	defer fileCache.Close()

	opts := format.OptionsFromConfig(cfg)
	opts.Cache = fileCache
	pipeline := format.NewPipeline(opts)

	printMode := !cfg.Inplace && !cfg.Check && !cfg.Diff && flags.output == ""
	if (len(args) == 1 && args[0] == "-") || (len(args) == 0 && printMode) {
		cfg.Stdin = true
		return runStdin(cmd, pipeline, cfg)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	if printMode {
		return printFile(cmd, pipeline, runOpts, cfg)
	}

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, workDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipeline).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("format run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      cfg.Output,
		Color:       string(cfg.Color),
		Check:       cfg.Check,
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return errFromResult(result, cfg.Check)
}

// printFile formats the single file named by runOpts and writes the result
// to standard output.
func printFile(cmd *cobra.Command, pipeline *format.Pipeline, runOpts runner.Options, cfg *config.Config) error {
	files, err := runner.Discover(commandContext(cmd), runOpts)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}
	switch len(files) {
	case 0:
		return fmt.Errorf("%w: no files to format", ErrUsage)
	case 1:
	default:
		return fmt.Errorf("%w: %d files found; use --inplace, --check or --diff to format several files",
			ErrUsage, len(files))
	}

	result, err := pipeline.ProcessFile(commandContext(cmd), files[0])
	if err != nil {
		return reportFailure(cmd, runner.DisplayPath(files[0], runOpts.WorkingDir), cfg, err)
	}
	if _, err := cmd.OutOrStdout().Write(result.Formatted); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// runStdin formats standard input as a Typst document.
func runStdin(cmd *cobra.Command, pipeline *format.Pipeline, cfg *config.Config) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	result, err := pipeline.ProcessContent(commandContext(cmd), stdinPath, content, langdetect.Typst)
	if err != nil {
		return reportFailure(cmd, stdinPath, cfg, err)
	}

	out := cmd.OutOrStdout()
	switch {
	case cfg.Check:
		if result.Changed {
			fmt.Fprintln(cmd.ErrOrStderr(), stdinPath+": needs formatting")
			return ErrUnformatted
		}
		return nil
	case cfg.Diff:
		if result.Diff != nil {
			fmt.Fprint(out, result.Diff.String())
		}
		return nil
	default:
		if _, err := out.Write(result.Formatted); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
}

// reportFailure prints a formatting failure to stderr. Syntax errors are
// shown with their source line and turned into ErrFilesFailed.
func reportFailure(cmd *cobra.Command, path string, cfg *config.Config, err error) error {
	var syntaxErr *typstyle.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), cmd.ErrOrStderr()))
	fmt.Fprint(cmd.ErrOrStderr(), styles.FormatSyntaxError(path, syntaxErr))
	return ErrFilesFailed
}
