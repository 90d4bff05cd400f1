package configloader

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// ConfigPaths are the configuration files found for a run. Empty fields
// mean no file was found.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string

	// TOML is a typstyle.toml found where no YAML project file exists.
	TOML string
}

const (
	appDir         = "gotypstyle"
	tomlConfigFile = "typstyle.toml"
)

var (
	globalConfigNames  = []string{"config.yaml", "config.yml"}
	projectConfigNames = []string{
		".gotypstyle.yml", ".gotypstyle.yaml", ".gotypstyle.json",
		"gotypstyle.yml", "gotypstyle.yaml", "gotypstyle.json",
	}
	vcsMarkers         = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths looks up the system, user and project configuration files
// for a run started in workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	paths := &ConfigPaths{
		System: firstFile(systemConfigDir(), globalConfigNames...),
		User:   firstFile(userConfigDir(), globalConfigNames...),
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	if filepath.Base(project) == tomlConfigFile {
		paths.TOML = project
	} else {
		paths.Project = project
	}
	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appDir)
	}
	if dir := os.Getenv("ProgramData"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	return filepath.Join(`C:\ProgramData`, appDir)
}

// userConfigDir honours XDG_CONFIG_HOME on every platform and falls back to
// ~/.config.
func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// FindProjectConfig returns the nearest project configuration file at or
// above startDir. Within one directory YAML files win over typstyle.toml.
// The search ends at a repository root, the home directory or the
// filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}
	home, _ := os.UserHomeDir()

	candidates := append(slices.Clone(projectConfigNames), tomlConfigFile)
	for dir := range ancestors(start, home) {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstFile(dir, candidates...); path != "" {
			return path, nil
		}
	}
	return "", nil
}

// ancestors yields dir and its parents, ending after a repository root,
// home or the filesystem root.
func ancestors(dir, home string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(dir) || isRepoRoot(dir) || (home != "" && dir == home) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

func isRepoRoot(dir string) bool {
	return slices.ContainsFunc(vcsMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names ...string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// IsTOMLConfig reports whether path names a TOML file.
func IsTOMLConfig(path string) bool {
	return filepath.Ext(path) == ".toml"
}
