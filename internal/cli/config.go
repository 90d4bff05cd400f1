package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gotypstyle/internal/configloader"
	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/pkg/cache"
	"github.com/yaklabco/gotypstyle/pkg/config"
)

// loadConfig resolves the configuration for a command. cliCfg carries
// the command's own flags; global flags are folded in when they were set.
func loadConfig(cmd *cobra.Command, global *globalFlags, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.Default()
	flags := cmd.Flags()

	if flags.Changed("width") {
		cliCfg.MaxWidth = global.width
	}
	if flags.Changed("blank-lines") {
		cliCfg.SetBlankLines(global.blankLines)
	}
	if flags.Changed("jobs") {
		cliCfg.Jobs = global.jobs
	}
	if flags.Changed("color") {
		cliCfg.Color = config.ColorMode(global.color)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: global.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldWidth, cfg.MaxWidth,
		logging.FieldBlankLines, cfg.BlankLines(),
		logging.FieldJobs, cfg.Jobs,
		logging.FieldCheck, cfg.Check,
		logging.FieldInplace, cfg.Inplace,
	)
	return cfg, nil
}

// localCache opens the on-disk result cache when it is enabled.
func localCache(cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			return nil, err
		}
	}
	fileCache, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fileCache, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
