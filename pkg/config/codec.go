package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// Marshal encodes the file-backed settings as YAML. A non-empty header is
// written first, separated from the settings by a blank line.
func (c *Config) Marshal(header string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(strings.TrimRight(header, "\n"))
		buf.WriteString("\n\n")
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a YAML configuration file. Keys missing from data leave
// their fields zero, so the result is fit for Merge.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// Clone returns a copy of c that shares no slices or pointers with it.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	dup := *c
	dup.Extensions = slices.Clone(c.Extensions)
	dup.Include = slices.Clone(c.Include)
	dup.Exclude = slices.Clone(c.Exclude)
	if c.BlankLinesUpperBound != nil {
		dup.SetBlankLines(*c.BlankLinesUpperBound)
	}
	return &dup
}
