// Package config defines the configuration types for gotypstyle.
// These types are plain data; loading and merging live in the loader.
package config

import "time"

// Defaults.
const (
	DefaultMaxWidth             = 120
	DefaultBlankLinesUpperBound = 2
	DefaultServerAddr           = ":8080"
	DefaultCacheTTL             = time.Hour
)

// Config is the root configuration structure.
type Config struct {
	// MaxWidth is the target line width.
	MaxWidth int `yaml:"max_width"`

	// BlankLinesUpperBound caps consecutive blank lines. Nil keeps the
	// default; zero is a valid setting.
	BlankLinesUpperBound *int `yaml:"blank_lines_upper_bound,omitempty"`

	// Extensions lists the file extensions formatted when walking
	// directories.
	Extensions []string `yaml:"extensions"`

	// Include and Exclude are glob patterns applied to discovered paths.
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// FollowSymlinks follows symbolic links during discovery.
	FollowSymlinks bool `yaml:"follow_symlinks,omitempty"`

	// Jobs is the number of parallel workers. Zero uses all CPUs.
	Jobs int `yaml:"jobs,omitempty"`

	// Markdown also formats Typst code blocks embedded in Markdown files.
	Markdown bool `yaml:"markdown,omitempty"`

	// Backups selects the backup mode used when writing in place.
	Backups BackupMode `yaml:"backups"`

	// Output selects the reporter.
	Output OutputFormat `yaml:"output"`

	// Color controls styled output.
	Color ColorMode `yaml:"color"`

	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`

	// CLI-level options (not persisted to config files).

	// Check reports files that would change without writing them.
	Check bool `yaml:"-"`

	// Inplace writes formatted output back to the files.
	Inplace bool `yaml:"-"`

	// Diff prints a unified diff for every changed file.
	Diff bool `yaml:"-"`

	// Stdin reads the document from standard input.
	Stdin bool `yaml:"-"`
}

// ServerConfig configures the HTTP formatting service.
type ServerConfig struct {
	Addr      string        `yaml:"addr"`
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// CacheConfig configures the local result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	bound := DefaultBlankLinesUpperBound
	return &Config{
		MaxWidth:             DefaultMaxWidth,
		BlankLinesUpperBound: &bound,
		Extensions:           []string{".typ"},
		Backups:              BackupNone,
		Output:               OutputText,
		Color:                ColorAuto,
		Server: ServerConfig{
			Addr:     DefaultServerAddr,
			CacheTTL: DefaultCacheTTL,
		},
	}
}

// BlankLines returns the blank line bound, or the default when unset.
func (c *Config) BlankLines() int {
	if c.BlankLinesUpperBound == nil {
		return DefaultBlankLinesUpperBound
	}
	return *c.BlankLinesUpperBound
}

// SetBlankLines sets the blank line bound.
func (c *Config) SetBlankLines(n int) {
	c.BlankLinesUpperBound = &n
}
