// Package mdembed formats Typst code blocks embedded in Markdown documents.
package mdembed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gotypstyle/pkg/edit"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// Languages lists the fence info strings treated as Typst.
var Languages = []string{"typ", "typst"}

// Block is a fenced Typst code block.
type Block struct {
	Language string
	// Start and End delimit the block body in the source.
	Start int
	End   int
	// Line is the 1-based line of the first body line.
	Line int
}

// BlockError reports a block that could not be formatted.
type BlockError struct {
	Line int
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("typst block at line %d: %v", e.Line, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// Result is the outcome of formatting a Markdown document.
type Result struct {
	Content []byte
	// Blocks is the number of Typst blocks found.
	Blocks int
	// Changed is the number of blocks whose text changed.
	Changed int
	Errors  []error
}

//nolint:gochecknoglobals // goldmark instances are safe for concurrent parsing
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Blocks returns the Typst code blocks of source in document order. Blocks
// whose body is not a contiguous byte range, such as fences nested in
// block quotes or list items, are left out.
func Blocks(source []byte) []Block {
	doc := markdown.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := string(fenced.Language(source))
		if !isTypst(lang) {
			return ast.WalkSkipChildren, nil
		}
		if block, ok := bodyRange(fenced); ok {
			block.Language = lang
			block.Line = bytes.Count(source[:block.Start], []byte("\n")) + 1
			blocks = append(blocks, block)
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// Format formats every Typst block of source with f. Blocks with syntax
// errors are left unchanged and reported in Result.Errors.
func Format(ctx context.Context, source []byte, f *typstyle.Formatter) (*Result, error) {
	result := &Result{Content: source}
	var edits edit.Builder

	for _, block := range Blocks(source) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("format cancelled: %w", err)
		}
		result.Blocks++

		body := string(source[block.Start:block.End])
		formatted, err := f.FormatContent(body)
		if err != nil {
			result.Errors = append(result.Errors, &BlockError{Line: block.Line, Err: err})
			continue
		}
		if !strings.HasSuffix(body, "\n") {
			formatted = strings.TrimSuffix(formatted, "\n")
		}
		if formatted == body {
			continue
		}
		result.Changed++
		edits.Replace(block.Start, block.End, formatted)
	}

	if edits.Len() == 0 {
		return result, nil
	}
	out, err := edits.Apply(source)
	if err != nil {
		return nil, fmt.Errorf("apply block edits: %w", err)
	}
	result.Content = out
	return result, nil
}

func isTypst(lang string) bool {
	for _, l := range Languages {
		if strings.EqualFold(lang, l) {
			return true
		}
	}
	return false
}

func bodyRange(n *ast.FencedCodeBlock) (Block, bool) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return Block{}, false
	}
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding > 0 {
			return Block{}, false
		}
		if i > 0 && lines.At(i-1).Stop != seg.Start {
			return Block{}, false
		}
	}
	return Block{Start: lines.At(0).Start, End: lines.At(lines.Len() - 1).Stop}, true
}
