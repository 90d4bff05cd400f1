package syntax

import (
	"strings"
)

// newlineMode controls how line feeds inside code are treated.
type newlineMode uint8

const (
	// nlSwallow treats line feeds as ordinary trivia.
	nlSwallow newlineMode = iota
	// nlStop ends the current expression at a line feed.
	nlStop
	// nlContextual ends the current expression at a line feed unless the
	// next token continues it ("else" or ".").
	nlContextual
)

type frame struct {
	mode    lexMode
	newline newlineMode
}

// parser builds the tree from a flat list of nodes: tokens are pushed as
// leaves and wrap folds a suffix of the list into an inner node.
type parser struct {
	lexer  lexer
	frames []frame
	cur    token
	nodes  []*Node

	// stopped masks the current token as End because a line feed ended
	// the expression in nlStop or nlContextual mode.
	stopped bool

	// trailing counts trivia pushed since the last real token.
	trailing int

	// markupStart is the offset where the innermost content body began;
	// markers are recognized there as if at a line start.
	markupStart int
}

// Parse parses a full document in markup mode. Syntax errors are recorded
// as Error nodes; the returned root is never nil.
func Parse(src string) *Node {
	p := newParser(src, modeMarkup, nlSwallow)
	p.markupBody(-1, 0, func(int) bool { return false })
	for !p.atEOF() {
		p.unexpected()
	}
	return p.finish(KindMarkup)
}

// ParseCode parses src as a sequence of code statements.
func ParseCode(src string) *Node {
	p := newParser(src, modeCode, nlSwallow)
	p.codeBody(KindEnd)
	for !p.atEOF() {
		p.unexpected()
	}
	return p.finish(KindCode)
}

// ParseMath parses src as math content.
func ParseMath(src string) *Node {
	p := newParser(src, modeMath, nlSwallow)
	p.mathBody(func() bool { return false })
	for !p.atEOF() {
		p.unexpected()
	}
	return p.finish(KindMath)
}

func newParser(src string, mode lexMode, nl newlineMode) *parser {
	p := &parser{
		lexer:  lexer{src: src},
		frames: []frame{{mode: mode, newline: nl}},
	}
	p.lexAt(0)
	p.skip()
	return p
}

// finish returns the single root node, wrapping stray siblings if needed.
func (p *parser) finish(kind Kind) *Node {
	var root *Node
	if len(p.nodes) == 1 && p.nodes[0].Kind == kind {
		root = p.nodes[0]
	} else {
		root = newInner(kind, p.nodes, 0)
	}
	numberNodes(root)
	return root
}

func (p *parser) mode() lexMode {
	return p.frames[len(p.frames)-1].mode
}

func (p *parser) newline() newlineMode {
	return p.frames[len(p.frames)-1].newline
}

func (p *parser) lexAt(pos int) {
	atStart := pos == p.markupStart || p.lexer.atLineStart(pos)
	p.cur = p.lexer.next(pos, p.mode(), atStart)
	p.stopped = false
}

func (p *parser) current() Kind {
	if p.stopped {
		return KindEnd
	}
	return p.cur.kind
}

func (p *parser) currentText() string {
	return p.lexer.src[p.cur.start:p.cur.end]
}

func (p *parser) at(kind Kind) bool {
	return p.current() == kind
}

func (p *parser) atText(text string) bool {
	return p.at(KindText) && p.currentText() == text
}

func (p *parser) end() bool {
	return p.at(KindEnd)
}

func (p *parser) atEOF() bool {
	return p.cur.kind == KindEnd
}

// directlyAt reports whether the current token follows the previous one
// without intervening trivia.
func (p *parser) directlyAt(kind Kind) bool {
	return p.at(kind) && p.trailing == 0
}

func (p *parser) hadTrivia() bool {
	return p.trailing > 0
}

func (p *parser) marker() int {
	return len(p.nodes)
}

// eat pushes the current token and advances.
func (p *parser) eat() {
	if p.end() {
		return
	}
	text := p.currentText()
	if p.cur.kind == KindError {
		p.nodes = append(p.nodes, newError(text, p.cur.message, p.cur.start))
	} else {
		p.nodes = append(p.nodes, newLeaf(p.cur.kind, text, p.cur.start))
	}
	p.trailing = 0
	p.lexAt(p.cur.end)
	p.skip()
}

// eatNode pushes a prebuilt node spanning the current token and advances.
func (p *parser) eatNode(node *Node) {
	p.nodes = append(p.nodes, node)
	p.trailing = 0
	p.lexAt(p.cur.end)
	p.skip()
}

func (p *parser) eatIf(kind Kind) bool {
	if p.at(kind) {
		p.eat()
		return true
	}
	return false
}

// convert eats the current token under a different kind.
func (p *parser) convert(kind Kind) {
	p.cur.kind = kind
	p.eat()
}

// assert eats a token the caller already checked for.
func (p *parser) assert(kind Kind) {
	if !p.eatIf(kind) {
		p.expected(kind.String())
	}
}

func (p *parser) expect(kind Kind) bool {
	if p.eatIf(kind) {
		return true
	}
	p.expected(strings.ToLower(kind.String()))
	return false
}

func (p *parser) expectClosing(kind Kind) {
	if !p.eatIf(kind) {
		p.errorHere("unclosed delimiter")
	}
}

func (p *parser) expected(what string) {
	p.errorHere("expected " + what)
}

// errorHere inserts a zero-width error before any trailing trivia.
func (p *parser) errorHere(message string) {
	at := len(p.nodes) - p.trailing
	offset := p.cur.start
	if at < len(p.nodes) {
		offset = p.nodes[at].Offset
	}
	errNode := newError("", message, offset)
	p.nodes = append(p.nodes, nil)
	copy(p.nodes[at+1:], p.nodes[at:])
	p.nodes[at] = errNode
}

// unexpected consumes the current token as an error.
func (p *parser) unexpected() {
	if p.atEOF() {
		return
	}
	if p.stopped {
		p.stopped = false
	}
	message := "unexpected " + strings.ToLower(p.cur.kind.String())
	if p.cur.kind == KindError {
		message = p.cur.message
	}
	p.nodes = append(p.nodes, newError(p.currentText(), message, p.cur.start))
	p.trailing = 0
	p.lexAt(p.cur.end)
	p.skip()
}

// wrap folds the nodes pushed since m, excluding trailing trivia, into an
// inner node of the given kind.
func (p *parser) wrap(m int, kind Kind) {
	end := len(p.nodes) - p.trailing
	if end < m {
		end = m
	}
	offset := p.cur.start
	if end < len(p.nodes) {
		offset = p.nodes[end].Offset
	}
	children := make([]*Node, end-m)
	copy(children, p.nodes[m:end])
	node := newInner(kind, children, offset)

	rest := make([]*Node, len(p.nodes)-end)
	copy(rest, p.nodes[end:])
	p.nodes = append(append(p.nodes[:m], node), rest...)
}

// skip pushes trivia in code and math mode, honoring the newline mode.
func (p *parser) skip() {
	if p.mode() == modeMarkup {
		return
	}
	for p.cur.kind.IsTrivia() {
		if p.cur.kind == KindSpace && strings.Contains(p.currentText(), "\n") {
			switch p.newline() {
			case nlStop:
				p.stopped = true
				return
			case nlContextual:
				if !p.continuesAfterNewline() {
					p.stopped = true
					return
				}
			case nlSwallow:
			}
		}
		p.nodes = append(p.nodes, newLeaf(p.cur.kind, p.currentText(), p.cur.start))
		p.trailing++
		p.lexAt(p.cur.end)
	}
}

// continuesAfterNewline looks past trivia for a token that continues the
// expression on the next line.
func (p *parser) continuesAfterNewline() bool {
	pos := p.cur.end
	for {
		tok := p.lexer.next(pos, p.mode(), false)
		if tok.kind.IsTrivia() {
			pos = tok.end
			continue
		}
		return tok.kind == KindElse || tok.kind == KindDot
	}
}

// unskip removes trailing trivia so it can be re-lexed under another mode.
func (p *parser) unskip() {
	pos := p.cur.start
	if p.trailing > 0 {
		first := len(p.nodes) - p.trailing
		pos = p.nodes[first].Offset
		p.nodes = p.nodes[:first]
		p.trailing = 0
	}
	p.lexAt(pos)
}

func (p *parser) enterMode(mode lexMode, nl newlineMode) {
	p.frames = append(p.frames, frame{mode: mode, newline: nl})
}

// exitMode restores the enclosing mode and re-lexes the current token
// under it.
func (p *parser) exitMode() {
	p.frames = p.frames[:len(p.frames)-1]
	p.unskip()
	p.skip()
}

// progress guards loops against tokens no rule consumes.
func (p *parser) progress(start int) {
	if p.cur.start == start && !p.atEOF() && !p.end() {
		p.unexpected()
	}
}
