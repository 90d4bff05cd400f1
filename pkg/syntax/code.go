package syntax

// codeBody parses statements until the stop token, wrapping them in Code.
func (p *parser) codeBody(stop Kind) {
	m := p.marker()
	for !p.end() && !p.at(stop) {
		before := p.cur.start
		p.enterMode(modeCode, nlContextual)
		p.codeExpr()
		if !p.end() && !p.at(stop) && !p.eatIf(KindSemicolon) {
			p.expected("semicolon or line break")
		}
		p.exitMode()
		p.progress(before)
	}
	p.wrap(m, KindCode)
}

func (p *parser) codeBlock() {
	m := p.marker()
	p.enterMode(modeCode, nlSwallow)
	p.assert(KindLeftBrace)
	p.codeBody(KindRightBrace)
	p.expectClosing(KindRightBrace)
	p.exitMode()
	p.wrap(m, KindCodeBlock)
}

func (p *parser) codeExpr() {
	p.codeExprPrec(false, 0)
}

func unaryPrecedence(k Kind) int {
	if k == KindNot {
		return 4
	}
	return 7
}

// codeExprPrec parses an expression whose binary operators bind at least
// as tightly as minPrec. Atomic expressions, used after "#" in markup, take
// no operators and only take postfix forms directly attached to them.
func (p *parser) codeExprPrec(atomic bool, minPrec int) {
	m := p.marker()
	if !atomic && p.current().IsUnaryOp() {
		op := p.current()
		p.eat()
		p.codeExprPrec(false, unaryPrecedence(op))
		p.wrap(m, KindUnary)
	} else {
		p.codePrimary(atomic)
	}

	for {
		if p.directlyAt(KindLeftParen) || p.directlyAt(KindLeftBracket) {
			p.args()
			p.wrap(m, KindFuncCall)
			continue
		}
		if atomic && p.hadTrivia() {
			break
		}
		if p.at(KindDot) {
			if atomic && !isIdentStart(p.lexer.peekRune(p.cur.end)) {
				break
			}
			p.eat()
			p.expect(KindIdent)
			p.wrap(m, KindFieldAccess)
			continue
		}
		if atomic {
			break
		}

		op := p.current()
		if op == KindNot && !p.notIn() {
			break
		}
		prec, ok := binaryPrecedence(op)
		if !ok || prec < minPrec {
			break
		}
		p.eat()
		if op == KindNot {
			p.expect(KindIn)
		}
		next := prec + 1
		if isAssignOp(op) {
			next = prec
		}
		p.codeExprPrec(false, next)
		p.wrap(m, KindBinary)
	}
}

// notIn reports whether the current "not" starts a "not in" operator.
func (p *parser) notIn() bool {
	pos := p.cur.end
	for {
		tok := p.lexer.next(pos, modeCode, false)
		if tok.kind.IsTrivia() {
			pos = tok.end
			continue
		}
		return tok.kind == KindIn
	}
}

func (p *parser) codePrimary(atomic bool) {
	m := p.marker()
	switch p.current() {
	case KindIdent, KindUnderscore:
		p.eat()
		if !atomic && p.at(KindArrow) {
			p.wrap(m, KindParams)
			p.eat()
			p.codeExpr()
			p.wrap(m, KindClosure)
		}
	case KindNone, KindAuto, KindBool, KindInt, KindFloat, KindNumeric, KindStr, KindLabel:
		p.eat()
	case KindRaw:
		p.raw()
	case KindLeftBrace:
		p.codeBlock()
	case KindLeftBracket:
		p.contentBlock()
	case KindDollar:
		p.equation()
	case KindLeftParen:
		p.parenthesized(atomic)
	case KindLet:
		p.letBinding()
	case KindSet:
		p.setRule()
	case KindShow:
		p.showRule()
	case KindContext:
		p.keywordExpr(KindContext, KindContextual)
	case KindIf:
		p.conditional()
	case KindWhile:
		p.whileLoop()
	case KindFor:
		p.forLoop()
	case KindImport:
		p.moduleImport()
	case KindInclude:
		p.keywordExpr(KindInclude, KindModuleInclude)
	case KindBreak:
		p.eat()
		p.wrap(m, KindLoopBreak)
	case KindContinue:
		p.eat()
		p.wrap(m, KindLoopContinue)
	case KindReturn:
		p.eat()
		if !p.end() && !p.at(KindRightBrace) && !p.at(KindSemicolon) && !p.at(KindRightBracket) {
			p.codeExpr()
		}
		p.wrap(m, KindFuncReturn)
	default:
		if p.end() || p.atClosing() {
			p.expected("expression")
		} else {
			p.unexpected()
		}
	}
}

func (p *parser) atClosing() bool {
	return p.at(KindRightParen) || p.at(KindRightBrace) || p.at(KindRightBracket)
}

func (p *parser) keywordExpr(keyword, kind Kind) {
	m := p.marker()
	p.assert(keyword)
	p.codeExpr()
	p.wrap(m, kind)
}

// collection tracks what kinds of items a parenthesized list holds.
type collection struct {
	items      int
	positional int
	named      int
	keyed      int
	spread     int
	comma      bool
}

// collectionItems parses comma-separated items up to the closing paren.
// keyed allows arbitrary expressions before a colon.
func (p *parser) collectionItems(keyed bool) collection {
	var c collection
	if p.at(KindColon) {
		// "(:)" is the empty dictionary.
		p.eat()
		c.named = 1
		return c
	}
	for !p.end() && !p.at(KindRightParen) {
		before := p.cur.start
		p.collectionItem(&c, keyed)
		c.items++
		if p.eatIf(KindComma) {
			c.comma = true
		} else if !p.at(KindRightParen) {
			p.expected("comma")
			p.progress(before)
			break
		}
	}
	return c
}

func (p *parser) collectionItem(c *collection, keyed bool) {
	m := p.marker()
	if p.at(KindDots) {
		p.eat()
		if !p.at(KindComma) && !p.at(KindRightParen) {
			p.codeExpr()
		}
		p.wrap(m, KindSpread)
		c.spread++
		return
	}
	p.codeExpr()
	if !p.at(KindColon) {
		c.positional++
		return
	}
	key := p.nodes[m]
	p.eat()
	p.codeExpr()
	switch {
	case key.Kind == KindIdent:
		p.wrap(m, KindNamed)
		c.named++
	case keyed:
		p.wrap(m, KindKeyed)
		c.keyed++
	default:
		p.wrap(m, KindNamed)
		p.errorHere("expected identifier")
		c.named++
	}
}

// parenthesized parses "(...)" as a parenthesized expression, array,
// dictionary, closure or destructuring assignment.
func (p *parser) parenthesized(atomic bool) {
	m := p.marker()
	p.enterMode(modeCode, nlSwallow)
	p.assert(KindLeftParen)
	c := p.collectionItems(true)
	p.expectClosing(KindRightParen)
	p.exitMode()

	switch {
	case !atomic && p.at(KindArrow):
		p.wrap(m, KindParams)
		p.retagPatterns(p.nodes[m])
		p.eat()
		p.codeExpr()
		p.wrap(m, KindClosure)
		return
	case !atomic && p.at(KindEq) && (c.items != 1 || c.comma || c.named > 0):
		p.wrap(m, KindDestructuring)
		p.retagPatterns(p.nodes[m])
		p.eat()
		p.codeExpr()
		p.wrap(m, KindDestructAssignment)
		return
	}

	switch {
	case c.named > 0 || c.keyed > 0:
		p.wrap(m, KindDict)
		if c.positional > 0 {
			p.errorHere("expected named or keyed pair")
		}
	case c.items == 1 && !c.comma && c.spread == 0:
		p.wrap(m, KindParenthesized)
	default:
		p.wrap(m, KindArray)
	}
}

// retagPatterns turns nested collections inside a parameter list or
// destructuring pattern into destructuring patterns.
func (p *parser) retagPatterns(node *Node) {
	for _, child := range node.Children {
		switch child.Kind {
		case KindArray, KindDict:
			child.Kind = KindDestructuring
			p.retagPatterns(child)
		case KindNamed:
			p.retagPatterns(child)
		case KindParenthesized:
			p.retagPatterns(child)
		}
	}
}

// args parses a parenthesized argument list followed by any directly
// attached content blocks.
func (p *parser) args() {
	m := p.marker()
	if p.at(KindLeftParen) {
		p.enterMode(modeCode, nlSwallow)
		p.assert(KindLeftParen)
		p.collectionItems(false)
		p.expectClosing(KindRightParen)
		p.exitMode()
	}
	for p.directlyAt(KindLeftBracket) {
		p.contentBlock()
	}
	p.wrap(m, KindArgs)
}

// pattern parses a binding pattern: identifier, placeholder or a
// parenthesized destructuring.
func (p *parser) pattern() {
	switch p.current() {
	case KindIdent, KindUnderscore:
		p.eat()
	case KindLeftParen:
		m := p.marker()
		p.enterMode(modeCode, nlSwallow)
		p.assert(KindLeftParen)
		c := p.collectionItems(true)
		p.expectClosing(KindRightParen)
		p.exitMode()
		if c.items == 1 && !c.comma && c.spread == 0 && c.named == 0 {
			p.wrap(m, KindParenthesized)
		} else {
			p.wrap(m, KindDestructuring)
		}
		p.retagPatterns(p.nodes[m])
	default:
		p.expected("pattern")
	}
}

func (p *parser) params() {
	m := p.marker()
	p.enterMode(modeCode, nlSwallow)
	p.assert(KindLeftParen)
	p.collectionItems(false)
	p.expectClosing(KindRightParen)
	p.exitMode()
	p.wrap(m, KindParams)
	p.retagPatterns(p.nodes[m])
}

func (p *parser) letBinding() {
	m := p.marker()
	p.assert(KindLet)
	if p.at(KindIdent) && p.lexer.peekRune(p.cur.end) == '(' {
		cm := p.marker()
		p.eat()
		p.params()
		p.expect(KindEq)
		p.codeExpr()
		p.wrap(cm, KindClosure)
	} else {
		p.pattern()
		if p.eatIf(KindEq) {
			p.codeExpr()
		}
	}
	p.wrap(m, KindLetBinding)
}

func (p *parser) setRule() {
	m := p.marker()
	p.assert(KindSet)
	tm := p.marker()
	p.expect(KindIdent)
	for p.at(KindDot) {
		p.eat()
		p.expect(KindIdent)
		p.wrap(tm, KindFieldAccess)
	}
	if p.directlyAt(KindLeftParen) {
		p.args()
	} else {
		p.expected("argument list")
	}
	if p.eatIf(KindIf) {
		p.codeExpr()
	}
	p.wrap(m, KindSetRule)
}

func (p *parser) showRule() {
	m := p.marker()
	p.assert(KindShow)
	if !p.at(KindColon) {
		p.codeExpr()
	}
	if p.expect(KindColon) {
		p.codeExpr()
	}
	p.wrap(m, KindShowRule)
}

func (p *parser) block() {
	switch p.current() {
	case KindLeftBrace:
		p.codeBlock()
	case KindLeftBracket:
		p.contentBlock()
	default:
		p.expected("block")
	}
}

func (p *parser) conditional() {
	m := p.marker()
	p.assert(KindIf)
	p.codeExpr()
	p.block()
	if p.eatIf(KindElse) {
		if p.at(KindIf) {
			p.conditional()
		} else {
			p.block()
		}
	}
	p.wrap(m, KindConditional)
}

func (p *parser) whileLoop() {
	m := p.marker()
	p.assert(KindWhile)
	p.codeExpr()
	p.block()
	p.wrap(m, KindWhileLoop)
}

func (p *parser) forLoop() {
	m := p.marker()
	p.assert(KindFor)
	p.pattern()
	if p.expect(KindIn) {
		p.codeExpr()
		p.block()
	}
	p.wrap(m, KindForLoop)
}

func (p *parser) moduleImport() {
	m := p.marker()
	p.assert(KindImport)
	p.codeExpr()
	if p.eatIf(KindAs) {
		p.expect(KindIdent)
	}
	if p.eatIf(KindColon) {
		switch {
		case p.at(KindStar):
			p.eat()
		case p.at(KindLeftParen):
			p.enterMode(modeCode, nlSwallow)
			p.assert(KindLeftParen)
			p.importItems()
			p.expectClosing(KindRightParen)
			p.exitMode()
		default:
			p.importItems()
		}
	}
	p.wrap(m, KindModuleImport)
}

func (p *parser) importItems() {
	m := p.marker()
	for p.at(KindIdent) {
		im := p.marker()
		p.eat()
		if p.eatIf(KindAs) {
			p.expect(KindIdent)
			p.wrap(im, KindRenamedImportItem)
		}
		if !p.eatIf(KindComma) {
			break
		}
	}
	if p.marker() == m {
		p.expected("import item")
	}
	p.wrap(m, KindImportItems)
}
