// Package cli provides the Cobra command structure for gotypstyle.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypstyle/internal/configloader"
	"github.com/yaklabco/gotypstyle/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	width      int
	blankLines int
	jobs       int
}

// NewRootCommand creates the root gotypstyle command with all subcommands.
// Given paths and no subcommand, the root command formats them.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}
	fmtFlags := &formatFlags{}

	rootCmd := &cobra.Command{
		Use:   "gotypstyle [paths...]",
		Short: "A beautiful and reliable Typst code formatter",
		Long: `gotypstyle formats Typst documents.

It rewrites code, math and markup structure to a canonical layout within a
maximum line width, while keeping prose, already-multiline lists and
regions disabled with "// @typstyle off" exactly as written. Documents with
syntax errors are never modified.` + envHelp(),
		Version: info.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if global.debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && stdinIsTerminal() {
				return cmd.Help()
			}
			return runFormat(cmd, args, global, fmtFlags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&global.debug, "debug", false, "enable debug logging")
	flags.StringVar(&global.configPath, "config", "", "path to config file")
	flags.StringVar(&global.color, "color", "auto", "colorize output: auto, always, never")
	flags.IntVarP(&global.width, "width", "c", 0, "maximum line width (default 120)")
	flags.IntVar(&global.blankLines, "blank-lines", 0, "maximum consecutive blank lines (default 2)")
	flags.IntVarP(&global.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")

	addFormatFlags(rootCmd, fmtFlags)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newFormatCommand(global))
	rootCmd.AddCommand(newCheckCommand(global))
	rootCmd.AddCommand(newASTCommand())
	rootCmd.AddCommand(newServeCommand(global))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(global.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// envHelp lists the environment overrides for the root help text.
func envHelp() string {
	var b strings.Builder
	b.WriteString("\n\nEnvironment:\n")
	for _, v := range configloader.EnvVars() {
		fmt.Fprintf(&b, "  %-36s %s\n", v.Name, v.Help)
	}
	return strings.TrimRight(b.String(), "\n")
}
