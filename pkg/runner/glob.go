package runner

import (
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// compiled caches globs by pattern; a nil entry marks a malformed pattern.
var compiled sync.Map

func compileGlob(pattern string) glob.Glob {
	if v, ok := compiled.Load(pattern); ok {
		g, _ := v.(glob.Glob)
		return g
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		g = nil
	}
	compiled.Store(pattern, g)
	return g
}

// MatchGlob matches a relative path against a glob. "*" stops at slashes
// and "**" spans them, including zero directories, so "a/**/b" matches
// "a/b" and "dir/**" matches "dir". A pattern without a slash also
// matches the base name.
func MatchGlob(name, pattern string) bool {
	name = filepath.ToSlash(name)
	pattern = filepath.ToSlash(pattern)

	for _, p := range globVariants(pattern) {
		if g := compileGlob(p); g != nil && g.Match(name) {
			return true
		}
	}
	if !strings.Contains(pattern, "/") {
		if g := compileGlob(pattern); g != nil {
			return g.Match(path.Base(name))
		}
	}
	return false
}

func globVariants(pattern string) []string {
	out := []string{pattern}
	if strings.Contains(pattern, "/**/") {
		out = append(out, strings.ReplaceAll(pattern, "/**/", "/"))
	}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		out = append(out, rest)
	}
	if rest, ok := strings.CutSuffix(pattern, "/**"); ok {
		out = append(out, rest)
	}
	return out
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if MatchGlob(name, p) {
			return true
		}
	}
	return false
}
