package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/gotypstyle/pkg/config"
)

// EnvPrefix starts the name of every environment variable read by Load.
const EnvPrefix = "GOTYPSTYLE_"

// EnvVar describes an environment variable that overrides a setting.
type EnvVar struct {
	Name  string
	Field string
	Help  string

	apply func(cfg *config.Config, value string) error
}

// envVars is sorted by name.
var envVars = []EnvVar{
	{EnvPrefix + "BACKUPS", "backups", "backup mode: none or sidecar",
		text(func(c *config.Config, v string) { c.Backups = config.BackupMode(v) })},
	{EnvPrefix + "BLANK_LINES_UPPER_BOUND", "blank_lines_upper_bound", "maximum consecutive blank lines",
		integer((*config.Config).SetBlankLines)},
	{EnvPrefix + "CACHE_TTL", "server.cache_ttl", "lifetime of cached server results",
		duration(func(c *config.Config, d time.Duration) { c.Server.CacheTTL = d })},
	{EnvPrefix + "COLOR", "color", "styled output: auto, always or never",
		text(func(c *config.Config, v string) { c.Color = config.ColorMode(v) })},
	{EnvPrefix + "EXCLUDE", "exclude", "comma-separated exclude globs",
		text(func(c *config.Config, v string) { c.Exclude = splitList(v) })},
	{EnvPrefix + "JOBS", "jobs", "parallel workers, 0 for one per CPU",
		integer(func(c *config.Config, n int) { c.Jobs = n })},
	{EnvPrefix + "MARKDOWN", "markdown", "also format typst blocks in Markdown files",
		boolean(func(c *config.Config, b bool) { c.Markdown = b })},
	{EnvPrefix + "MAX_WIDTH", "max_width", "target line width",
		integer(func(c *config.Config, n int) { c.MaxWidth = n })},
	{EnvPrefix + "OUTPUT", "output", "report format: text, json, diff, summary or table",
		text(func(c *config.Config, v string) { c.Output = config.OutputFormat(v) })},
	{EnvPrefix + "REDIS_ADDR", "server.redis_addr", "Redis address for the server cache",
		text(func(c *config.Config, v string) { c.Server.RedisAddr = v })},
}

// EnvVars lists the supported environment variables by name.
func EnvVars() []EnvVar {
	return envVars
}

// LoadFromEnv applies the GOTYPSTYLE_ variables that are set and not
// empty to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, v := range envVars {
		value := os.Getenv(v.Name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
	}
	return nil
}

func text(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		set(c, v)
		return nil
	}
}

func integer(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%q is not an integer", v)
		}
		set(c, n)
		return nil
	}
}

func boolean(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", v)
		}
		set(c, b)
		return nil
	}
}

func duration(set func(*config.Config, time.Duration)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%q is not a duration", v)
		}
		set(c, d)
		return nil
	}
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
