package configloader

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/yaklabco/gotypstyle/pkg/config"
)

// tomlConfig mirrors the keys understood in typstyle.toml. column is the
// older spelling of max_width.
type tomlConfig struct {
	MaxWidth             *int `toml:"max_width"`
	Column               *int `toml:"column"`
	BlankLinesUpperBound *int `toml:"blank_lines_upper_bound"`
}

// TOMLResult holds a configuration read from typstyle.toml.
type TOMLResult struct {
	Config *config.Config

	// Warnings lists keys that were ignored.
	Warnings []string
}

// LoadTOML reads a typstyle.toml file. Only the formatting keys are
// recognized; others produce warnings.
func LoadTOML(path string) (*TOMLResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw tomlConfig
	meta, err := toml.Decode(string(content), &raw)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	result := &TOMLResult{Config: &config.Config{}}
	for _, key := range meta.Undecoded() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: unknown key %q; it will be ignored", path, key.String()))
	}

	switch {
	case raw.MaxWidth != nil:
		result.Config.MaxWidth = *raw.MaxWidth
	case raw.Column != nil:
		result.Config.MaxWidth = *raw.Column
	}
	if raw.BlankLinesUpperBound != nil {
		result.Config.SetBlankLines(*raw.BlankLinesUpperBound)
	}
	return result, nil
}
