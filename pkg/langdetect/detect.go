// Package langdetect classifies input files for the formatter.
//
// Typst sources are recognized by extension. Other files are classified
// with go-enry so that Markdown documents with embedded Typst blocks can be
// told apart from everything else.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language is the kind of document a file holds.
type Language int

const (
	// Unknown is a file the formatter does not handle.
	Unknown Language = iota
	// Typst is a Typst source file.
	Typst
	// Markdown is a Markdown document that may embed Typst code blocks.
	Markdown
)

func (l Language) String() string {
	switch l {
	case Typst:
		return "typst"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}

const (
	enryTypst    = "Typst"
	enryMarkdown = "Markdown"
)

// typstExtensions are matched before consulting enry.
//
//nolint:gochecknoglobals // read-only lookup table
var typstExtensions = map[string]bool{
	".typ": true,
}

// Detect classifies path. content may be nil; when given it lets enry
// resolve extensions shared by several languages. An ambiguous extension
// without content is accepted when any candidate matches.
func Detect(path string, content []byte) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if typstExtensions[ext] {
		return Typst
	}

	candidates := enry.GetLanguagesByExtension(path, content, nil)
	if content != nil && len(candidates) > 1 {
		if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
			candidates = []string{lang}
		}
	}
	for _, lang := range candidates {
		switch lang {
		case enryTypst:
			return Typst
		case enryMarkdown:
			return Markdown
		}
	}
	return Unknown
}

// FromName maps a language name given on the command line.
func FromName(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "typ", "typst":
		return Typst
	case "md", "markdown":
		return Markdown
	default:
		return Unknown
	}
}

// IsVendored reports whether path is a vendored or third-party location
// that should not be rewritten.
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// IsGenerated reports whether the file looks machine generated.
func IsGenerated(path string, content []byte) bool {
	return enry.IsGenerated(path, content)
}
