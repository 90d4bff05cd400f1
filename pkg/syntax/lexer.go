package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexMode selects the lexical grammar used for the next token.
type lexMode uint8

const (
	modeMarkup lexMode = iota
	modeCode
	modeMath
)

// token is a lexed span of the source.
type token struct {
	kind    Kind
	start   int
	end     int
	message string
}

// lexer produces tokens on demand. It holds no position state: the parser
// asks for the token at an offset, which makes re-lexing after a mode switch
// a matter of asking again.
type lexer struct {
	src string
}

func (l *lexer) next(pos int, mode lexMode, atStart bool) token {
	if pos >= len(l.src) {
		return token{kind: KindEnd, start: pos, end: pos}
	}
	switch mode {
	case modeCode:
		return l.code(pos)
	case modeMath:
		return l.math(pos)
	default:
		return l.markup(pos, atStart)
	}
}

func (l *lexer) peekRune(pos int) rune {
	if pos >= len(l.src) || pos < 0 {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[pos:])
	return r
}

func (l *lexer) prevRune(pos int) rune {
	if pos <= 0 {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(l.src[:pos])
	return r
}

func (l *lexer) at(pos int, prefix string) bool {
	return strings.HasPrefix(l.src[pos:], prefix)
}

// whitespace lexes a run of whitespace as Space, or Parbreak when it spans
// at least two line feeds and parbreaks are allowed.
func (l *lexer) whitespace(pos int, allowParbreak bool) token {
	end := pos
	newlines := 0
	for end < len(l.src) {
		c := l.src[end]
		if c == '\n' {
			newlines++
		} else if c != ' ' && c != '\t' && c != '\r' {
			break
		}
		end++
	}
	if allowParbreak && newlines >= 2 {
		return token{kind: KindParbreak, start: pos, end: end}
	}
	return token{kind: KindSpace, start: pos, end: end}
}

// comment lexes a line or block comment starting at pos. Block comments nest.
func (l *lexer) comment(pos int) (token, bool) {
	switch {
	case l.at(pos, "//"):
		end := pos + 2
		for end < len(l.src) && l.src[end] != '\n' {
			end++
		}
		return token{kind: KindLineComment, start: pos, end: end}, true
	case l.at(pos, "/*"):
		depth := 0
		end := pos
		for end < len(l.src) {
			switch {
			case l.at(end, "/*"):
				depth++
				end += 2
			case l.at(end, "*/"):
				depth--
				end += 2
				if depth == 0 {
					return token{kind: KindBlockComment, start: pos, end: end}, true
				}
			default:
				end++
			}
		}
		return token{kind: KindError, start: pos, end: end, message: "unclosed block comment"}, true
	}
	return token{}, false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isLabelChar(r rune) bool {
	return isIdentContinue(r) || r == ':' || r == '.'
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isExprStart reports whether '#' followed by r starts embedded code.
func isExprStart(r rune) bool {
	return isIdentStart(r) || r == '{' || r == '[' || r == '(' || r == '"'
}

// atLineStart reports whether only blanks separate pos from the previous
// line feed or the start of the source.
func (l *lexer) atLineStart(pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch l.src[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// endsMarker reports whether the marker ending at pos is followed by
// whitespace or the end of input.
func (l *lexer) endsMarker(pos int) bool {
	return pos >= len(l.src) || isSpace(l.peekRune(pos))
}

func (l *lexer) markup(pos int, atStart bool) token {
	c := l.peekRune(pos)
	size := utf8.RuneLen(c)

	if isSpace(c) {
		return l.whitespace(pos, true)
	}
	if tok, ok := l.comment(pos); ok {
		return tok
	}

	if atStart {
		if tok, ok := l.marker(pos); ok {
			return tok
		}
	}

	switch c {
	case '\\':
		return l.escape(pos)
	case '`':
		return l.raw(pos)
	case '#':
		if isExprStart(l.peekRune(pos + 1)) {
			return token{kind: KindHash, start: pos, end: pos + 1}
		}
	case '$':
		return token{kind: KindDollar, start: pos, end: pos + 1}
	case '[':
		return token{kind: KindLeftBracket, start: pos, end: pos + 1}
	case ']':
		return token{kind: KindRightBracket, start: pos, end: pos + 1}
	case ':':
		return token{kind: KindColon, start: pos, end: pos + 1}
	case '*':
		if !l.inWord(pos, size) {
			return token{kind: KindStar, start: pos, end: pos + 1}
		}
	case '_':
		if !l.inWord(pos, size) {
			return token{kind: KindUnderscore, start: pos, end: pos + 1}
		}
	case '~':
		return token{kind: KindShorthand, start: pos, end: pos + 1}
	case '\'', '"':
		return token{kind: KindSmartQuote, start: pos, end: pos + 1}
	case '-':
		switch {
		case l.at(pos, "---"):
			return token{kind: KindShorthand, start: pos, end: pos + 3}
		case l.at(pos, "--"), l.at(pos, "-?"):
			return token{kind: KindShorthand, start: pos, end: pos + 2}
		}
	case '.':
		if l.at(pos, "...") {
			return token{kind: KindShorthand, start: pos, end: pos + 3}
		}
	case '<':
		if end, ok := l.label(pos); ok {
			return token{kind: KindLabel, start: pos, end: end}
		}
	case '@':
		if isLabelChar(l.peekRune(pos + 1)) {
			return token{kind: KindRefMarker, start: pos, end: l.refEnd(pos + 1)}
		}
	case 'h':
		if l.at(pos, "http://") || l.at(pos, "https://") {
			return token{kind: KindLink, start: pos, end: l.linkEnd(pos)}
		}
	}

	return token{kind: KindText, start: pos, end: l.textEnd(pos)}
}

// marker lexes heading, list, enum and term markers at the start of a line.
func (l *lexer) marker(pos int) (token, bool) {
	switch c := l.src[pos]; {
	case c == '=':
		end := pos
		for end < len(l.src) && l.src[end] == '=' {
			end++
		}
		if l.endsMarker(end) {
			return token{kind: KindHeadingMarker, start: pos, end: end}, true
		}
	case c == '-' && l.endsMarker(pos+1):
		return token{kind: KindListMarker, start: pos, end: pos + 1}, true
	case c == '+' && l.endsMarker(pos+1):
		return token{kind: KindEnumMarker, start: pos, end: pos + 1}, true
	case c == '/' && l.endsMarker(pos+1):
		return token{kind: KindTermMarker, start: pos, end: pos + 1}, true
	case c >= '0' && c <= '9':
		end := pos
		for end < len(l.src) && l.src[end] >= '0' && l.src[end] <= '9' {
			end++
		}
		if end < len(l.src) && l.src[end] == '.' && l.endsMarker(end+1) {
			return token{kind: KindEnumMarker, start: pos, end: end + 1}, true
		}
	}
	return token{}, false
}

func (l *lexer) inWord(pos, size int) bool {
	return isAlnum(l.prevRune(pos)) && isAlnum(l.peekRune(pos+size))
}

func (l *lexer) escape(pos int) token {
	next := l.peekRune(pos + 1)
	switch {
	case next == 0 || isSpace(next):
		return token{kind: KindLinebreak, start: pos, end: pos + 1}
	case next == 'u' && l.at(pos+2, "{"):
		end := strings.IndexByte(l.src[pos:], '}')
		if end < 0 {
			return token{kind: KindError, start: pos, end: len(l.src), message: "unclosed unicode escape"}
		}
		return token{kind: KindEscape, start: pos, end: pos + end + 1}
	default:
		return token{kind: KindEscape, start: pos, end: pos + 1 + utf8.RuneLen(next)}
	}
}

// label returns the end of a <label> starting at pos.
func (l *lexer) label(pos int) (int, bool) {
	end := pos + 1
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if r == '>' {
			return end + 1, end > pos+1
		}
		if !isLabelChar(r) {
			return 0, false
		}
		end += size
	}
	return 0, false
}

func (l *lexer) refEnd(pos int) int {
	end := pos
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if !isLabelChar(r) {
			break
		}
		end += size
	}
	for end > pos && (l.src[end-1] == '.' || l.src[end-1] == ':') {
		end--
	}
	return end
}

func (l *lexer) linkEnd(pos int) int {
	end := pos
	depth := 0
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if isSpace(r) || r == '<' || r == '>' || r == '"' {
			break
		}
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth == 0 {
				return trimLinkPunct(l.src, pos, end)
			}
			depth--
		}
		end += size
	}
	return trimLinkPunct(l.src, pos, end)
}

func trimLinkPunct(src string, start, end int) int {
	for end > start && strings.ContainsRune(".,;:!?'", rune(src[end-1])) {
		end--
	}
	return end
}

// textEnd returns the end of a run of plain text. Characters that could
// start markup end the run unless they would lex as text anyway.
func (l *lexer) textEnd(pos int) int {
	end := pos
	first := true
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if first {
			first = false
			end += size
			continue
		}
		if !l.continuesText(end, r, size) {
			break
		}
		end += size
	}
	return end
}

func (l *lexer) continuesText(pos int, r rune, size int) bool {
	switch r {
	case ' ':
		return isAlnum(l.peekRune(pos + 1))
	case '\t', '\n', '\r', '\\', '`', '$', '[', ']', '~', '\'', '"', ':':
		return false
	case '/':
		return !l.at(pos, "//") && !l.at(pos, "/*")
	case '-':
		return !l.at(pos, "--") && !l.at(pos, "-?")
	case '.':
		return !l.at(pos, "...")
	case 'h':
		return !l.at(pos, "http://") && !l.at(pos, "https://")
	case '@':
		return !isLabelChar(l.peekRune(pos + 1))
	case '#':
		return !isExprStart(l.peekRune(pos + 1))
	case '<':
		_, ok := l.label(pos)
		return !ok
	case '*', '_':
		return l.inWord(pos, size)
	default:
		return true
	}
}

// raw lexes inline or block raw text. The returned token spans the whole
// construct; the parser splits it into delimiters, language tag and lines.
func (l *lexer) raw(pos int) token {
	backticks := 0
	for pos+backticks < len(l.src) && l.src[pos+backticks] == '`' {
		backticks++
	}
	if backticks == 2 {
		return token{kind: KindRaw, start: pos, end: pos + 2}
	}
	delim := strings.Repeat("`", backticks)
	search := pos + backticks
	for search <= len(l.src) {
		idx := strings.Index(l.src[search:], delim)
		if idx < 0 {
			break
		}
		closing := search + idx
		// A longer run of backticks belongs to the content.
		run := 0
		for closing+run < len(l.src) && l.src[closing+run] == '`' {
			run++
		}
		if backticks < 3 || run == backticks {
			return token{kind: KindRaw, start: pos, end: closing + backticks}
		}
		search = closing + run
	}
	return token{kind: KindError, start: pos, end: len(l.src), message: "unclosed raw text"}
}

func (l *lexer) code(pos int) token {
	c := l.peekRune(pos)
	if isSpace(c) {
		return l.whitespace(pos, false)
	}
	if tok, ok := l.comment(pos); ok {
		return tok
	}
	if c == '_' && !isIdentContinue(l.peekRune(pos+1)) {
		return token{kind: KindUnderscore, start: pos, end: pos + 1}
	}
	if isIdentStart(c) {
		return l.ident(pos)
	}
	if unicode.IsDigit(c) || (c == '.' && unicode.IsDigit(l.peekRune(pos+1))) {
		return l.number(pos)
	}

	two := ""
	if pos+2 <= len(l.src) {
		two = l.src[pos : pos+2]
	}
	switch two {
	case "==":
		return token{kind: KindEqEq, start: pos, end: pos + 2}
	case "!=":
		return token{kind: KindExclEq, start: pos, end: pos + 2}
	case "<=":
		return token{kind: KindLtEq, start: pos, end: pos + 2}
	case ">=":
		return token{kind: KindGtEq, start: pos, end: pos + 2}
	case "+=":
		return token{kind: KindPlusEq, start: pos, end: pos + 2}
	case "-=":
		return token{kind: KindHyphEq, start: pos, end: pos + 2}
	case "*=":
		return token{kind: KindStarEq, start: pos, end: pos + 2}
	case "/=":
		return token{kind: KindSlashEq, start: pos, end: pos + 2}
	case "..":
		return token{kind: KindDots, start: pos, end: pos + 2}
	case "=>":
		return token{kind: KindArrow, start: pos, end: pos + 2}
	}

	switch c {
	case '"':
		return l.str(pos)
	case '`':
		return l.raw(pos)
	case '<':
		if end, ok := l.label(pos); ok {
			return token{kind: KindLabel, start: pos, end: end}
		}
		return token{kind: KindLt, start: pos, end: pos + 1}
	}
	if kind, ok := codePunct[c]; ok {
		return token{kind: kind, start: pos, end: pos + 1}
	}
	return token{
		kind:    KindError,
		start:   pos,
		end:     pos + utf8.RuneLen(c),
		message: "the character " + string(c) + " is not valid in code",
	}
}

func (l *lexer) ident(pos int) token {
	end := pos
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if !isIdentContinue(r) {
			break
		}
		end += size
	}
	if kind, ok := keywords[l.src[pos:end]]; ok {
		return token{kind: kind, start: pos, end: end}
	}
	return token{kind: KindIdent, start: pos, end: end}
}

//nolint:gochecknoglobals // Read-only lookup table.
var codePunct = map[rune]Kind{
	'{': KindLeftBrace, '}': KindRightBrace,
	'[': KindLeftBracket, ']': KindRightBracket,
	'(': KindLeftParen, ')': KindRightParen,
	',': KindComma, ';': KindSemicolon, ':': KindColon,
	'*': KindStar, '$': KindDollar, '+': KindPlus, '-': KindMinus,
	'/': KindSlash, '=': KindEq, '>': KindGt, '.': KindDot,
}

//nolint:gochecknoglobals // Read-only lookup table.
var units = map[string]bool{
	"pt": true, "mm": true, "cm": true, "in": true, "deg": true,
	"rad": true, "em": true, "fr": true, "%": true,
}

func (l *lexer) number(pos int) token {
	end := pos
	digits := func() {
		for end < len(l.src) && (isDigitByte(l.src[end]) || l.src[end] == '_') {
			end++
		}
	}

	if l.at(pos, "0x") || l.at(pos, "0b") || l.at(pos, "0o") {
		end = pos + 2
		for end < len(l.src) && isAlnum(rune(l.src[end])) {
			end++
		}
		return token{kind: KindInt, start: pos, end: end}
	}

	kind := KindInt
	digits()
	if end < len(l.src) && l.src[end] == '.' && end+1 < len(l.src) && isDigitByte(l.src[end+1]) {
		kind = KindFloat
		end++
		digits()
	}
	if end < len(l.src) && (l.src[end] == 'e' || l.src[end] == 'E') {
		exp := end + 1
		if exp < len(l.src) && (l.src[exp] == '+' || l.src[exp] == '-') {
			exp++
		}
		if exp < len(l.src) && isDigitByte(l.src[exp]) {
			kind = KindFloat
			end = exp
			digits()
		}
	}

	suffixEnd := end
	if suffixEnd < len(l.src) && l.src[suffixEnd] == '%' {
		suffixEnd++
	} else {
		for suffixEnd < len(l.src) && unicode.IsLetter(rune(l.src[suffixEnd])) {
			suffixEnd++
		}
	}
	if suffixEnd > end {
		if !units[l.src[end:suffixEnd]] {
			return token{kind: KindError, start: pos, end: suffixEnd, message: "invalid number suffix"}
		}
		return token{kind: KindNumeric, start: pos, end: suffixEnd}
	}
	return token{kind: kind, start: pos, end: end}
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

func (l *lexer) str(pos int) token {
	end := pos + 1
	for end < len(l.src) {
		switch l.src[end] {
		case '\\':
			end += 2
			continue
		case '"':
			return token{kind: KindStr, start: pos, end: end + 1}
		}
		end++
	}
	return token{kind: KindError, start: pos, end: len(l.src), message: "unclosed string"}
}

//nolint:gochecknoglobals // Read-only lookup table, longest first.
var mathShorthands = []string{
	"<==>", "<-->", "|->", "|=>", "<=>", "<->", "-->", "<--", "==>", "<==", "::=",
	"...", "->", "<-", "=>", "<=", ">=", "!=", ":=", "=:", "[|", "|]", "||", "<<", ">>", "~~",
}

func (l *lexer) math(pos int) token {
	c := l.peekRune(pos)
	size := utf8.RuneLen(c)
	if isSpace(c) {
		return l.whitespace(pos, false)
	}
	if tok, ok := l.comment(pos); ok {
		return tok
	}

	switch c {
	case '\\':
		return l.escape(pos)
	case '$':
		return token{kind: KindDollar, start: pos, end: pos + 1}
	case '#':
		if isExprStart(l.peekRune(pos + 1)) {
			return token{kind: KindHash, start: pos, end: pos + 1}
		}
	case '"':
		return l.str(pos)
	case '&':
		return token{kind: KindMathAlignPoint, start: pos, end: pos + 1}
	case '_':
		return token{kind: KindUnderscore, start: pos, end: pos + 1}
	case '^':
		return token{kind: KindHat, start: pos, end: pos + 1}
	case '\'':
		return token{kind: KindPrime, start: pos, end: pos + 1}
	case ',':
		return token{kind: KindComma, start: pos, end: pos + 1}
	case ';':
		return token{kind: KindSemicolon, start: pos, end: pos + 1}
	case '√', '∛', '∜':
		return token{kind: KindRoot, start: pos, end: pos + size}
	case '.':
		if unicode.IsLetter(l.peekRune(pos + 1)) && unicode.IsLetter(l.prevRune(pos)) {
			return token{kind: KindDot, start: pos, end: pos + 1}
		}
	}

	for _, sh := range mathShorthands {
		if l.at(pos, sh) {
			return token{kind: KindMathShorthand, start: pos, end: pos + len(sh)}
		}
	}

	if c == '/' {
		return token{kind: KindSlash, start: pos, end: pos + 1}
	}

	if unicode.IsLetter(c) {
		end := pos + size
		for end < len(l.src) {
			r, rsize := utf8.DecodeRuneInString(l.src[end:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			end += rsize
		}
		if end-pos > size {
			return token{kind: KindMathIdent, start: pos, end: end}
		}
		return token{kind: KindText, start: pos, end: end}
	}

	if unicode.IsDigit(c) {
		end := pos + size
		for end < len(l.src) && isDigitByte(l.src[end]) {
			end++
		}
		if end+1 < len(l.src) && l.src[end] == '.' && isDigitByte(l.src[end+1]) {
			end++
			for end < len(l.src) && isDigitByte(l.src[end]) {
				end++
			}
		}
		return token{kind: KindText, start: pos, end: end}
	}

	return token{kind: KindText, start: pos, end: pos + size}
}
