package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypstyle/internal/configloader"
	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/pkg/config"
	"github.com/yaklabco/gotypstyle/pkg/fsutil"
)

const tomlFileName = "typstyle.toml"

type initFlags struct {
	force    bool
	full     bool
	format   string
	output   string
	fromTOML bool
}

// target is the file init writes.
func (f *initFlags) target() string {
	switch {
	case f.output != "":
		return f.output
	case f.format == "json":
		return ".gotypstyle.json"
	default:
		return ".gotypstyle.yml"
	}
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gotypstyle configuration file",
		Long: `Create a .gotypstyle.yml configuration file in the current directory.

With --from-toml, the formatting settings of an existing typstyle.toml are
carried over instead of the defaults.

Examples:
  gotypstyle init                     Create a minimal .gotypstyle.yml
  gotypstyle init --full              Document every setting
  gotypstyle init --format json       Create .gotypstyle.json instead
  gotypstyle init --from-toml         Convert typstyle.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every setting")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"file to write (default .gotypstyle.yml or .gotypstyle.json)")
	cmd.Flags().BoolVar(&flags.fromTOML, "from-toml", false, "convert "+tomlFileName+" in the current directory")
	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	switch {
	case flags.format != "yaml" && flags.format != "json":
		return fmt.Errorf("%w: --format must be yaml or json, got %q", ErrUsage, flags.format)
	case flags.fromTOML && flags.format != "yaml":
		return fmt.Errorf("%w: --from-toml writes YAML only", ErrUsage)
	}

	logger := logging.NewInteractive()
	path := flags.target()

	_, err := os.Stat(path)
	switch {
	case err == nil && !flags.force:
		return fmt.Errorf("%w: %s already exists; use --force to overwrite", ErrUsage, path)
	case err == nil:
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if flags.fromTOML {
		return convertTOML(cmd, path)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}
	if err := fsutil.WriteAtomic(commandContext(cmd), path, content, 0); err != nil {
		return err
	}
	logger.Info("created configuration file", logging.FieldPath, path)
	return nil
}

// convertTOML layers the settings of typstyle.toml over the defaults and
// writes them as YAML.
func convertTOML(cmd *cobra.Command, path string) error {
	logger := logging.NewInteractive()

	res, err := configloader.LoadTOML(tomlFileName)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfig, tomlFileName, err)
	}
	for _, warning := range res.Warnings {
		logger.Warn(warning)
	}

	cfg := configloader.MergeAll(config.NewConfig(), res.Config)
	content, err := cfg.Marshal(config.DefaultTemplateHeader())
	if err != nil {
		return err
	}
	if err := fsutil.WriteAtomic(commandContext(cmd), path, content, 0); err != nil {
		return err
	}

	logger.Info("converted configuration",
		logging.FieldPath, path,
		logging.FieldWidth, cfg.MaxWidth,
		logging.FieldBlankLines, cfg.BlankLines(),
	)
	return nil
}
