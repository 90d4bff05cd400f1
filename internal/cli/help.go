package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gotypstyle/internal/ui/pretty"
)

// HelpStyles holds the styles used in command help.
type HelpStyles struct {
	Command    lipgloss.Style
	Heading    lipgloss.Style
	Subcommand lipgloss.Style
	Flag       lipgloss.Style
	Example    lipgloss.Style
	Dim        lipgloss.Style
}

// NewHelpStyles returns colored styles, or plain ones when color is off.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{plain, plain, plain, plain, plain, plain}
	}
	return &HelpStyles{
		Command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Example:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable }}
  {{ command .UseLine }}{{ end }}
{{- if .HasAvailableSubCommands }}
  {{ command .CommandPath }} [command]{{ end }}

{{- if gt (len .Aliases) 0 }}

{{ heading "Aliases:" }}
  {{ join .Aliases ", " }}
{{- end }}

{{- if .HasExample }}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end }}

{{- if .HasAvailableSubCommands }}

{{ heading "Commands:" }}
{{- range .Commands }}{{ if (or .IsAvailableCommand (eq .Name "help")) }}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{ end }}{{ end }}
{{- end }}

{{- if .HasAvailableLocalFlags }}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end }}

{{- if .HasAvailableInheritedFlags }}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end }}

{{- if .HasAvailableSubCommands }}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end }}
`

const helpTemplate = `{{ with (or .Long .Short) }}{{ trimRight . }}

{{ end }}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":    h.styles.Command.Render,
		"heading":    h.styles.Heading.Render,
		"subcommand": h.styles.Subcommand.Render,
		"example":    h.styles.Example.Render,
		"flags":      h.flagUsages,
		"join":       strings.Join,
		"rpad":       rpad,
		"trimRight":  trimTrailingWhitespaces,
	}
}

// flagUsages styles pflag's usage listing. Flag names are colored and
// value types dimmed; descriptions are left as they are.
func (h *HelpFormatter) flagUsages(fs *pflag.FlagSet) string {
	usages := strings.TrimSuffix(fs.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	// pflag separates the flag column from the description with at least
	// three spaces.
	idx := strings.Index(trimmed, "   ")
	if idx < 0 {
		return line
	}
	names, desc := trimmed[:idx], strings.TrimLeft(trimmed[idx:], " ")

	tokens := strings.Fields(names)
	for i, tok := range tokens {
		if !strings.HasPrefix(tok, "-") {
			tokens[i] = h.styles.Dim.Render(tok)
			continue
		}
		name, comma := strings.CutSuffix(tok, ",")
		tokens[i] = h.styles.Flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}
	return indent + strings.Join(tokens, " ") + "   " + desc
}

// ApplyToCommand installs the styled help and usage output on cmd. Child
// commands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()
	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStdout(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func rpad(s string, padding int) string {
	if len(s) >= padding {
		return s
	}
	return s + strings.Repeat(" ", padding-len(s))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
