package syntax

import (
	"strings"
)

// markupBody parses markup until stop reports true. When minIndent is
// positive, a line break to a line indented less than minIndent also ends
// the body. start is the offset treated as a line start, or -1.
func (p *parser) markupBody(start, minIndent int, stop func(nesting int) bool) {
	if start >= 0 {
		p.markupStart = start
	}
	m := p.marker()
	nesting := 0
	for !p.end() {
		if stop(nesting) {
			break
		}
		if minIndent > 0 && p.dedentsBelow(minIndent) {
			break
		}
		before := p.cur.start
		p.markupExpr(&nesting)
		p.progress(before)
	}
	p.wrap(m, KindMarkup)
}

// dedentsBelow reports whether the current token is a line break into a
// line indented less than minIndent.
func (p *parser) dedentsBelow(minIndent int) bool {
	if !p.at(KindSpace) && !p.at(KindParbreak) {
		return false
	}
	text := p.currentText()
	idx := strings.LastIndexByte(text, '\n')
	if idx < 0 {
		return false
	}
	if p.cur.end >= len(p.lexer.src) {
		return true
	}
	return len(text)-idx-1 < minIndent
}

// atLineBreak reports whether the current token contains a line feed.
func (p *parser) atLineBreak() bool {
	return (p.at(KindSpace) || p.at(KindParbreak)) && strings.Contains(p.currentText(), "\n")
}

func (p *parser) markupExpr(nesting *int) {
	switch p.current() {
	case KindLeftBracket:
		*nesting++
		p.convert(KindText)
	case KindRightBracket:
		if *nesting > 0 {
			*nesting--
			p.convert(KindText)
		} else {
			p.unexpected()
		}
	case KindColon:
		p.convert(KindText)
	case KindStar:
		p.strong()
	case KindUnderscore:
		p.emph()
	case KindHeadingMarker:
		p.heading()
	case KindListMarker:
		p.listItem(KindListItem)
	case KindEnumMarker:
		p.listItem(KindEnumItem)
	case KindTermMarker:
		p.termItem()
	case KindHash:
		p.embeddedCode()
	case KindDollar:
		p.equation()
	case KindRaw:
		p.raw()
	case KindRefMarker:
		p.reference()
	case KindError:
		p.unexpected()
	default:
		p.eat()
	}
}

func (p *parser) closesContent(nesting int) bool {
	return nesting == 0 && p.at(KindRightBracket)
}

func (p *parser) strong() {
	m := p.marker()
	p.assert(KindStar)
	p.markupBody(-1, 0, func(nesting int) bool {
		return p.at(KindStar) || p.at(KindParbreak) || p.closesContent(nesting)
	})
	p.expectClosing(KindStar)
	p.wrap(m, KindStrong)
}

func (p *parser) emph() {
	m := p.marker()
	p.assert(KindUnderscore)
	p.markupBody(-1, 0, func(nesting int) bool {
		return p.at(KindUnderscore) || p.at(KindParbreak) || p.closesContent(nesting)
	})
	p.expectClosing(KindUnderscore)
	p.wrap(m, KindEmph)
}

// eatInlineSpace eats a space after a marker when it stays on the line.
func (p *parser) eatInlineSpace() {
	if p.at(KindSpace) && !strings.Contains(p.currentText(), "\n") {
		p.eat()
	}
}

func (p *parser) heading() {
	m := p.marker()
	p.assert(KindHeadingMarker)
	p.eatInlineSpace()
	p.markupBody(-1, 0, func(nesting int) bool {
		return p.atLineBreak() || p.closesContent(nesting)
	})
	p.wrap(m, KindHeading)
}

// column returns the number of characters between the previous line feed
// and pos.
func (p *parser) column(pos int) int {
	lineStart := strings.LastIndexByte(p.lexer.src[:pos], '\n') + 1
	return len(p.lexer.src[lineStart:pos])
}

func (p *parser) listItem(kind Kind) {
	m := p.marker()
	minIndent := p.column(p.cur.start) + 1
	p.eat()
	p.eatInlineSpace()
	p.markupBody(-1, minIndent, p.closesContent)
	p.wrap(m, kind)
}

func (p *parser) termItem() {
	m := p.marker()
	minIndent := p.column(p.cur.start) + 1
	p.assert(KindTermMarker)
	p.eatInlineSpace()
	p.markupBody(-1, 0, func(nesting int) bool {
		return p.at(KindColon) || p.atLineBreak() || p.closesContent(nesting)
	})
	if p.expect(KindColon) {
		p.eatInlineSpace()
		p.markupBody(-1, minIndent, p.closesContent)
	}
	p.wrap(m, KindTermItem)
}

func (p *parser) reference() {
	m := p.marker()
	p.assert(KindRefMarker)
	if p.at(KindLeftBracket) {
		p.contentBlock()
	}
	p.wrap(m, KindRef)
}

// embeddedCode parses "#expr" inside markup or math. The expression ends
// at a line break and does not take binary operators.
func (p *parser) embeddedCode() {
	p.enterMode(modeCode, nlStop)
	p.assert(KindHash)
	if p.hadTrivia() || p.end() {
		p.expected("expression")
	} else {
		p.codeExprPrec(true, 0)
		if p.directlyAt(KindSemicolon) {
			p.eat()
		}
	}
	p.exitMode()
}

func (p *parser) contentBlock() {
	m := p.marker()
	p.enterMode(modeMarkup, nlSwallow)
	p.markupStart = p.cur.end
	p.assert(KindLeftBracket)
	p.markupBody(-1, 0, p.closesContent)
	p.expectClosing(KindRightBracket)
	p.exitMode()
	p.wrap(m, KindContentBlock)
}

func (p *parser) raw() {
	p.eatNode(buildRaw(p.currentText(), p.cur.start))
}

// buildRaw splits raw text into delimiters, language tag, trimmed
// whitespace and content lines. Block raw text is dedented by the common
// indentation of its lines; the stripped indentation is kept in RawTrimmed
// nodes so the tree stays lossless.
func buildRaw(text string, offset int) *Node {
	backticks := 0
	for backticks < len(text) && text[backticks] == '`' {
		backticks++
	}
	var children []*Node
	push := func(kind Kind, s string) {
		if s == "" {
			return
		}
		children = append(children, newLeaf(kind, s, offset))
		offset += len(s)
	}

	if backticks == 2 && len(text) == 2 {
		push(KindRawDelim, "`")
		push(KindRawDelim, "`")
		return newInner(KindRaw, children, offset-2)
	}

	start := offset
	delim := text[:backticks]
	body := text[backticks : len(text)-backticks]
	push(KindRawDelim, delim)

	if backticks < 3 {
		push(KindText, body)
		push(KindRawDelim, delim)
		return newInner(KindRaw, children, start)
	}

	langEnd := 0
	for langEnd < len(body) {
		c := rune(body[langEnd])
		if !isIdentContinue(c) && c != '.' && c != '+' {
			break
		}
		langEnd++
	}
	push(KindRawLang, body[:langEnd])
	rest := body[langEnd:]

	lines := strings.Split(rest, "\n")
	if len(lines) == 1 {
		core := strings.TrimLeft(rest, " \t")
		push(KindRawTrimmed, rest[:len(rest)-len(core)])
		trimmed := strings.TrimRight(core, " \t")
		push(KindText, trimmed)
		push(KindRawTrimmed, core[len(trimmed):])
		push(KindRawDelim, delim)
		return newInner(KindRaw, children, start)
	}

	last := lines[len(lines)-1]
	lastBlank := isBlankLine(last)
	dedent := -1
	for i, line := range lines[1:] {
		idx := i + 1
		if idx == len(lines)-1 && lastBlank {
			if dedent < 0 || len(last) < dedent {
				dedent = len(last)
			}
			continue
		}
		if isBlankLine(line) {
			continue
		}
		if indent := indentWidth(line); dedent < 0 || indent < dedent {
			dedent = indent
		}
	}
	if dedent < 0 {
		dedent = 0
	}

	pending := ""
	flush := func() {
		push(KindRawTrimmed, pending)
		pending = ""
	}

	first := lines[0]
	firstCore := strings.TrimLeft(first, " \t")
	pending = first[:len(first)-len(firstCore)]
	if firstCore != "" {
		flush()
		push(KindText, firstCore)
	}
	for i := 1; i < len(lines); i++ {
		flush()
		line := lines[i]
		if (i == len(lines)-1 && lastBlank) || isBlankLine(line) {
			pending = "\n" + line
			continue
		}
		pending = "\n" + line[:dedent]
		flush()
		push(KindText, line[dedent:])
	}
	flush()
	push(KindRawDelim, delim)
	return newInner(KindRaw, children, start)
}

func isBlankLine(line string) bool {
	return strings.TrimLeft(line, " \t") == ""
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
