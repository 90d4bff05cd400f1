package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypstyle/pkg/attr"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
	"github.com/yaklabco/gotypstyle/pkg/treeviz"
)

// AST output formats.
const (
	astFormatTree = "tree"
	astFormatDOT  = "dot"
	astFormatSVG  = "svg"
)

func newASTCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree of a Typst document",
		Long: `Parse a Typst document and print its syntax tree, annotated with the
attributes the formatter computes (multiline, disabled, unformattable).

Reads standard input when no file or "-" is given.

Examples:
  gotypstyle ast main.typ                       # Indented tree
  gotypstyle ast --format dot main.typ          # Graphviz DOT
  gotypstyle ast --format svg main.typ > ast.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd, args, outputFormat)
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", astFormatTree, "output format: tree, dot, svg")

	return cmd
}

func runAST(cmd *cobra.Command, args []string, outputFormat string) error {
	switch outputFormat {
	case astFormatTree, astFormatDOT, astFormatSVG:
	default:
		return fmt.Errorf("%w: unknown ast format %q", ErrUsage, outputFormat)
	}

	content, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	root := syntax.Parse(string(content))
	store := attr.New(root)
	out := cmd.OutOrStdout()

	switch outputFormat {
	case astFormatDOT:
		_, err = io.WriteString(out, treeviz.ToDOT(root, store))
	case astFormatSVG:
		var svg []byte
		if svg, err = treeviz.RenderSVG(commandContext(cmd), treeviz.ToDOT(root, store)); err == nil {
			_, err = out.Write(svg)
		}
	default:
		err = treeviz.Dump(out, root, store)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", outputFormat, err)
	}
	return nil
}

// readInput reads the file named by args, or standard input.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return content, nil
}
