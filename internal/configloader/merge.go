package configloader

import "github.com/yaklabco/gotypstyle/pkg/config"

// merge layers override on top of base. Zero values in override are
// unset and keep the base value; booleans can only be switched on, and a
// non-nil slice replaces the base slice.
func merge(base, override *config.Config) *config.Config {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	out := *base
	out.MaxWidth = set(out.MaxWidth, override.MaxWidth)
	if n := override.BlankLinesUpperBound; n != nil {
		out.SetBlankLines(*n)
	}
	out.Jobs = set(out.Jobs, override.Jobs)
	out.Backups = set(out.Backups, override.Backups)
	out.Output = set(out.Output, override.Output)
	out.Color = set(out.Color, override.Color)

	out.FollowSymlinks = out.FollowSymlinks || override.FollowSymlinks
	out.Markdown = out.Markdown || override.Markdown
	out.Check = out.Check || override.Check
	out.Inplace = out.Inplace || override.Inplace
	out.Diff = out.Diff || override.Diff
	out.Stdin = out.Stdin || override.Stdin

	out.Extensions = replace(out.Extensions, override.Extensions)
	out.Include = replace(out.Include, override.Include)
	out.Exclude = replace(out.Exclude, override.Exclude)

	out.Server.Addr = set(out.Server.Addr, override.Server.Addr)
	out.Server.RedisAddr = set(out.Server.RedisAddr, override.Server.RedisAddr)
	out.Server.CacheTTL = set(out.Server.CacheTTL, override.Server.CacheTTL)
	out.Cache.Enabled = out.Cache.Enabled || override.Cache.Enabled
	out.Cache.Dir = set(out.Cache.Dir, override.Cache.Dir)
	return &out
}

func set[T comparable](base, override T) T {
	var zero T
	if override == zero {
		return base
	}
	return override
}

func replace[T any](base, override []T) []T {
	if override == nil {
		return base
	}
	return override
}

// MergeAll layers configs in order; later configs win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, cfg := range configs {
		out = merge(out, cfg)
	}
	return out
}
