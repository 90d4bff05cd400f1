// Package configloader resolves the configuration for a gotypstyle run from
// configuration files, GOTYPSTYLE_ environment variables and command-line
// flags.
package configloader

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/yaklabco/gotypstyle/pkg/config"
)

// LoadOptions controls Load.
type LoadOptions struct {
	// WorkingDir starts the project config search. Empty means the
	// process working directory.
	WorkingDir string

	// ExplicitPath is the file named by --config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// NonInteractive suppresses hints meant for a person at a terminal.
	NonInteractive bool

	// CLIConfig holds the settings given as flags. Zero fields are unset.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files read, lowest precedence first.
	LoadedFrom []string

	Warnings []string
}

// layer is one configuration file in precedence order.
type layer struct {
	scope string
	path  string
}

func (o LoadOptions) layers(paths *ConfigPaths) []layer {
	var out []layer
	add := func(scope, path string, skip bool) {
		if !skip && path != "" {
			out = append(out, layer{scope: scope, path: path})
		}
	}
	add("system", paths.System, o.IgnoreSystemConfig)
	add("user", paths.User, o.IgnoreUserConfig)
	add("project", paths.Project, o.IgnoreProjectConfig)
	add("project", paths.TOML, o.IgnoreProjectConfig)
	add("explicit", paths.Explicit, false)
	return out
}

// Load resolves the configuration. Later sources override earlier ones:
// defaults, the system file, the user file, the project file (YAML or
// typstyle.toml, found by searching upward), the --config file, the
// environment and finally the flags.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	res := &LoadResult{Config: config.NewConfig(), Paths: paths}
	for _, l := range opts.layers(paths) {
		if err := res.apply(l); err != nil {
			return nil, err
		}
	}
	if paths.TOML != "" && !opts.IgnoreProjectConfig && !opts.NonInteractive &&
		term.IsTerminal(int(os.Stdin.Fd())) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"using %s; run 'gotypstyle init --from-toml' to convert it to .gotypstyle.yml", paths.TOML))
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(res.Config); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	res.Config = merge(res.Config, opts.CLIConfig)

	problems := Validate(res.Config, "")
	if err := problems.Err(); err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, problems.WarningMessages()...)
	return res, nil
}

func (r *LoadResult) apply(l layer) error {
	cfg, warnings, err := readConfigFile(l.path)
	if err != nil {
		return fmt.Errorf("load %s config: %w", l.scope, err)
	}
	r.Config = merge(r.Config, cfg)
	r.LoadedFrom = append(r.LoadedFrom, l.path)
	r.Warnings = append(r.Warnings, warnings...)
	return nil
}

// readConfigFile reads a YAML or TOML file and validates it alone, so
// errors name the file.
func readConfigFile(path string) (*config.Config, []string, error) {
	var (
		cfg      *config.Config
		warnings []string
	)
	if IsTOMLConfig(path) {
		res, err := LoadTOML(path)
		if err != nil {
			return nil, nil, err
		}
		cfg, warnings = res.Config, res.Warnings
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		if cfg, err = config.Parse(data); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	problems := Validate(cfg, path)
	if err := problems.Err(); err != nil {
		return nil, nil, err
	}
	return cfg, append(warnings, problems.WarningMessages()...), nil
}
