package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every setting. If false, only the common settings
	// are listed.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// setting documents one top-level key of the template.
type setting struct {
	key     string
	comment string
	value   string
	full    bool
}

//nolint:gochecknoglobals // Static template description.
var settings = []setting{
	{key: "max_width", value: "120", comment: "Target line width. Lines may exceed it only where nothing can break."},
	{key: "blank_lines_upper_bound", value: "2", comment: "Maximum number of consecutive blank lines kept from the source."},
	{key: "extensions", value: "\n  - .typ", comment: "File extensions formatted when walking directories."},
	{key: "exclude", value: "\n  - \"vendor/**\"", comment: "Glob patterns excluded from discovery."},
	{key: "jobs", value: "0", comment: "Number of parallel workers (0 = auto)."},
	{key: "markdown", value: "false", comment: "Also format typst code blocks embedded in Markdown files."},
	{key: "backups", value: "none", comment: "Backup mode when writing in place: none or sidecar.", full: true},
	{key: "output", value: "text", comment: "Output format: text, json, diff, summary or table.", full: true},
	{key: "color", value: "auto", comment: "Styled output: auto, always or never.", full: true},
	{key: "follow_symlinks", value: "false", comment: "Follow symbolic links while walking directories.", full: true},
	{
		key: "server", value: "\n  addr: \":8080\"\n  # redis_addr: localhost:6379\n  cache_ttl: 1h",
		comment: "HTTP service settings used by `gotypstyle serve`. Results are cached in Redis when redis_addr is set.",
		full:    true,
	},
	{
		key: "cache", value: "\n  enabled: false\n  # dir: ~/.cache/gotypstyle",
		comment: "Local cache of formatting results keyed by file content and options.",
		full:    true,
	},
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	for _, s := range settings {
		if s.full && !opts.Full {
			continue
		}
		buf.WriteString("\n# ")
		buf.WriteString(wrapComment(s.comment, commentWrapWidth))
		buf.WriteString("\n")
		if strings.HasPrefix(s.value, "\n") {
			fmt.Fprintf(&buf, "%s:%s\n", s.key, s.value)
		} else {
			fmt.Fprintf(&buf, "%s: %s\n", s.key, s.value)
		}
	}
	return buf.Bytes(), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxWidth:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n# ")
}

// templateToJSON renders the default configuration as JSON, keyed like
// the YAML file.
func templateToJSON() ([]byte, error) {
	yamlBytes, err := NewConfig().Marshal("")
	if err != nil {
		return nil, err
	}

	var generic map[string]any
	if err := yaml.Unmarshal(yamlBytes, &generic); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return `# gotypstyle configuration
# See: https://github.com/yaklabco/gotypstyle`
}
