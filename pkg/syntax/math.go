package syntax

//nolint:gochecknoglobals // Read-only lookup table.
var mathDelims = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
	"⟨": "⟩",
	"⌈": "⌉",
	"⌊": "⌋",
}

func isClosingDelim(text string) bool {
	for _, closing := range mathDelims {
		if closing == text {
			return true
		}
	}
	return false
}

func (p *parser) equation() {
	m := p.marker()
	p.enterMode(modeMath, nlSwallow)
	p.assert(KindDollar)
	p.mathBody(func() bool { return p.at(KindDollar) })
	p.expectClosing(KindDollar)
	p.exitMode()
	p.wrap(m, KindEquation)
}

// mathBody parses math until stop reports true and wraps it in Math.
func (p *parser) mathBody(stop func() bool) {
	m := p.marker()
	for !p.end() && !stop() {
		before := p.cur.start
		p.mathExpr(0, stop)
		p.progress(before)
	}
	p.wrap(m, KindMath)
}

// mathExpr parses one math expression. Attachments are taken below
// precedence 3 and fractions below precedence 2, so the operand of an
// attachment stays a bare atom and "x^2_i" attaches both to x.
func (p *parser) mathExpr(minPrec int, stop func() bool) {
	m := p.marker()
	switch p.current() {
	case KindHash:
		p.embeddedCode()
	case KindMathIdent:
		p.eat()
		for p.directlyAt(KindDot) {
			p.eat()
			if p.at(KindMathIdent) || p.at(KindText) {
				p.eat()
			} else {
				p.expected("identifier")
			}
			p.wrap(m, KindFieldAccess)
		}
		if p.trailing == 0 && p.atText("(") {
			p.mathArgs()
			p.wrap(m, KindFuncCall)
		}
	case KindText:
		if _, ok := mathDelims[p.currentText()]; ok {
			p.mathDelimited()
		} else {
			p.eat()
		}
	case KindRoot:
		p.eat()
		p.mathOperand(2, stop)
		p.wrap(m, KindMathRoot)
	case KindPrime:
		p.primes()
	case KindComma, KindSemicolon, KindDot, KindUnderscore, KindHat, KindSlash:
		p.convert(KindText)
	case KindError:
		p.unexpected()
	default:
		p.eat()
	}

	for {
		attached := false
		if minPrec >= 3 {
			break
		}
		if p.directlyAt(KindPrime) {
			p.primes()
			attached = true
		}
		for p.directlyAt(KindUnderscore) || p.directlyAt(KindHat) {
			p.eat()
			p.mathOperand(3, stop)
			attached = true
		}
		if attached {
			p.wrap(m, KindMathAttach)
			continue
		}
		if minPrec <= 1 && p.at(KindSlash) {
			p.eat()
			p.mathOperand(2, stop)
			p.wrap(m, KindMathFrac)
			continue
		}
		break
	}
}

// mathOperand parses the operand of an attachment, root or fraction.
func (p *parser) mathOperand(minPrec int, stop func() bool) {
	if p.end() || stop() || p.at(KindDollar) {
		p.expected("expression")
		return
	}
	p.mathExpr(minPrec, stop)
}

func (p *parser) primes() {
	m := p.marker()
	p.eat()
	for p.directlyAt(KindPrime) {
		p.eat()
	}
	p.wrap(m, KindMathPrimes)
}

// mathDelimited parses a bracketed math group. Without a closing
// delimiter the group degrades to plain math.
func (p *parser) mathDelimited() {
	m := p.marker()
	p.eat()
	closes := func() bool {
		return p.at(KindDollar) || (p.at(KindText) && isClosingDelim(p.currentText()))
	}
	body := p.marker()
	for !p.end() && !closes() {
		before := p.cur.start
		p.mathExpr(0, closes)
		p.progress(before)
	}
	p.wrap(body, KindMath)
	if p.at(KindText) && isClosingDelim(p.currentText()) {
		p.eat()
		p.wrap(m, KindMathDelimited)
		return
	}
	p.wrap(m, KindMath)
}

// mathArgs parses the arguments of a math function call. Items are
// separated by commas; semicolons separate rows of a two-dimensional call.
func (p *parser) mathArgs() {
	m := p.marker()
	p.convert(KindLeftParen)
	stop := func() bool {
		return p.at(KindComma) || p.at(KindSemicolon) || p.at(KindDollar) || p.atText(")")
	}
	for !p.end() && !p.atText(")") && !p.at(KindDollar) {
		item := p.marker()
		for !p.end() && !stop() {
			before := p.cur.start
			p.mathExpr(0, stop)
			p.progress(before)
		}
		if p.marker() > item+p.trailing {
			p.wrap(item, KindMath)
		}
		if !p.eatIf(KindComma) && !p.eatIf(KindSemicolon) {
			break
		}
	}
	if p.atText(")") {
		p.convert(KindRightParen)
	} else {
		p.errorHere("unclosed delimiter")
	}
	p.wrap(m, KindArgs)
}
