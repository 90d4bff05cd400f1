// Package pretty converts a syntax tree into a document for the renderer.
//
// Every node kind has one conversion rule. Nodes the attribute store marks
// as format-disabled are emitted verbatim; everything else is rebuilt from
// the converted forms of its children and wrapped in a group, so the
// renderer decides line breaks independently for each node.
package pretty

import (
	"github.com/yaklabco/gotypstyle/pkg/attr"
	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// Default layout settings.
const (
	DefaultMaxWidth             = 120
	DefaultBlankLinesUpperBound = 2
)

// indent is the width of one nesting level.
const indent = 2

// Config holds the layout settings of a Printer.
type Config struct {
	// MaxWidth is the target line width in terminal cells.
	MaxWidth int

	// BlankLinesUpperBound caps runs of consecutive blank lines.
	BlankLinesUpperBound int
}

// DefaultConfig returns the default layout settings.
func DefaultConfig() Config {
	return Config{
		MaxWidth:             DefaultMaxWidth,
		BlankLinesUpperBound: DefaultBlankLinesUpperBound,
	}
}

// Mode is the lexical context a node is converted in.
type Mode uint8

const (
	ModeMarkup Mode = iota
	ModeCode
	ModeMath
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMarkup:
		return "markup"
	case ModeCode:
		return "code"
	case ModeMath:
		return "math"
	default:
		return "unknown"
	}
}

// Printer converts the nodes of one tree. A Printer is not safe for
// concurrent use; create one per document.
type Printer struct {
	cfg   Config
	store *attr.Store
	modes []Mode
}

// New creates a printer over the attributes in store.
func New(cfg Config, store *attr.Store) *Printer {
	if cfg.BlankLinesUpperBound < 0 {
		cfg.BlankLinesUpperBound = 0
	}
	return &Printer{cfg: cfg, store: store}
}

// Config returns the printer's layout settings.
func (p *Printer) Config() Config {
	return p.cfg
}

// Convert converts a root node produced by syntax.Parse, ParseCode or
// ParseMath.
func (p *Printer) Convert(root *syntax.Node) doc.Doc {
	switch root.Kind {
	case syntax.KindCode:
		defer p.pushMode(ModeCode)()
		return p.convertCodeRoot(root)
	case syntax.KindMath:
		defer p.pushMode(ModeMath)()
		return p.convertMath(root)
	default:
		return p.convert(root)
	}
}

// Mode returns the innermost lexical mode. Outside any body the printer
// is in markup mode.
func (p *Printer) Mode() Mode {
	if len(p.modes) == 0 {
		return ModeMarkup
	}
	return p.modes[len(p.modes)-1]
}

// pushMode enters a lexical mode and returns the function that leaves it.
// Callers defer the returned function so the stack unwinds on every path.
func (p *Printer) pushMode(m Mode) func() {
	p.modes = append(p.modes, m)
	depth := len(p.modes)
	return func() {
		p.modes = p.modes[:depth-1]
	}
}

// convert applies the conversion rule of n's kind.
func (p *Printer) convert(n *syntax.Node) doc.Doc {
	if p.store.IsFormatDisabled(n) {
		return verbatim(n)
	}
	return doc.Group(p.rule(n.Kind)(n))
}

// verbatim emits the exact source text of n.
func verbatim(n *syntax.Node) doc.Doc {
	return doc.Text(n.FullText())
}

// token emits a leaf's text.
func token(n *syntax.Node) doc.Doc {
	return doc.Text(n.Text)
}

type ruleFunc func(n *syntax.Node) doc.Doc

// rule selects the conversion rule for a kind. The switch lists every
// kind; TestEveryKindHasARule guards against additions.
//
//nolint:gocyclo,cyclop,funlen // One arm per node kind.
func (p *Printer) rule(kind syntax.Kind) ruleFunc {
	switch kind {
	// Markup.
	case syntax.KindMarkup:
		return p.convertMarkup
	case syntax.KindSpace:
		return p.convertSpace
	case syntax.KindParbreak:
		return p.convertParbreak
	case syntax.KindStrong:
		return p.convertStrong
	case syntax.KindEmph:
		return p.convertEmph
	case syntax.KindRaw:
		return p.convertRaw
	case syntax.KindRawTrimmed:
		return p.convertRawTrimmed
	case syntax.KindRef:
		return p.convertRef
	case syntax.KindHeading:
		return p.convertHeading
	case syntax.KindListItem, syntax.KindEnumItem:
		return p.convertListItem
	case syntax.KindTermItem:
		return p.convertTermItem
	case syntax.KindEquation:
		return p.convertEquation
	case syntax.KindText, syntax.KindLinebreak, syntax.KindEscape, syntax.KindShorthand,
		syntax.KindSmartQuote, syntax.KindRawLang, syntax.KindRawDelim, syntax.KindLink,
		syntax.KindLabel, syntax.KindRefMarker, syntax.KindHeadingMarker, syntax.KindListMarker,
		syntax.KindEnumMarker, syntax.KindTermMarker:
		return token

	// Math.
	case syntax.KindMath:
		return p.convertMath
	case syntax.KindMathDelimited:
		return p.convertMathDelimited
	case syntax.KindMathAttach:
		return p.convertMathAttach
	case syntax.KindMathPrimes:
		return p.convertMathPrimes
	case syntax.KindMathFrac:
		return p.convertMathFrac
	case syntax.KindMathRoot:
		return p.convertMathRoot
	case syntax.KindMathIdent, syntax.KindMathShorthand, syntax.KindMathAlignPoint:
		return token

	// Punctuation and keywords.
	case syntax.KindHash, syntax.KindLeftBrace, syntax.KindRightBrace, syntax.KindLeftBracket,
		syntax.KindRightBracket, syntax.KindLeftParen, syntax.KindRightParen, syntax.KindComma,
		syntax.KindSemicolon, syntax.KindColon, syntax.KindStar, syntax.KindUnderscore,
		syntax.KindDollar, syntax.KindPlus, syntax.KindMinus, syntax.KindSlash, syntax.KindHat,
		syntax.KindPrime, syntax.KindDot, syntax.KindEq, syntax.KindEqEq, syntax.KindExclEq,
		syntax.KindLt, syntax.KindLtEq, syntax.KindGt, syntax.KindGtEq, syntax.KindPlusEq,
		syntax.KindHyphEq, syntax.KindStarEq, syntax.KindSlashEq, syntax.KindDots,
		syntax.KindArrow, syntax.KindRoot:
		return token
	case syntax.KindNot, syntax.KindAnd, syntax.KindOr, syntax.KindNone, syntax.KindAuto,
		syntax.KindLet, syntax.KindSet, syntax.KindShow, syntax.KindContext, syntax.KindIf,
		syntax.KindElse, syntax.KindFor, syntax.KindIn, syntax.KindWhile, syntax.KindBreak,
		syntax.KindContinue, syntax.KindReturn, syntax.KindImport, syntax.KindInclude,
		syntax.KindAs:
		return token

	// Code.
	case syntax.KindCode:
		return p.convertCodeRoot
	case syntax.KindIdent, syntax.KindBool, syntax.KindInt, syntax.KindFloat,
		syntax.KindNumeric, syntax.KindStr:
		return token
	case syntax.KindCodeBlock:
		return p.convertCodeBlock
	case syntax.KindContentBlock:
		return p.convertContentBlock
	case syntax.KindParenthesized:
		return p.convertParenthesized
	case syntax.KindArray, syntax.KindDict, syntax.KindDestructuring:
		return p.convertCollection
	case syntax.KindNamed:
		return p.convertNamed
	case syntax.KindKeyed:
		return p.convertKeyed
	case syntax.KindSpread:
		return p.convertSpread
	case syntax.KindUnary:
		return p.convertUnary
	case syntax.KindBinary:
		return p.convertBinary
	case syntax.KindFieldAccess:
		return p.convertFieldAccess
	case syntax.KindFuncCall:
		return p.convertFuncCall
	case syntax.KindArgs:
		return p.convertArgs
	case syntax.KindClosure:
		return p.convertClosure
	case syntax.KindParams:
		return p.convertParams
	case syntax.KindLetBinding:
		return p.convertLetBinding
	case syntax.KindSetRule:
		return p.convertSetRule
	case syntax.KindShowRule:
		return p.convertShowRule
	case syntax.KindContextual, syntax.KindConditional, syntax.KindWhileLoop,
		syntax.KindModuleInclude, syntax.KindFuncReturn:
		return p.convertExprFlow
	case syntax.KindForLoop:
		return p.convertForLoop
	case syntax.KindModuleImport:
		return p.convertImport
	case syntax.KindImportItems:
		return p.convertImportItems
	case syntax.KindRenamedImportItem:
		return p.convertRenamedImportItem
	case syntax.KindLoopBreak:
		return keyword("break")
	case syntax.KindLoopContinue:
		return keyword("continue")
	case syntax.KindDestructAssignment:
		return p.convertDestructAssignment

	// Trivia and errors.
	case syntax.KindLineComment, syntax.KindBlockComment:
		return convertComment
	case syntax.KindEnd, syntax.KindError:
		return verbatim
	}
	return nil
}

func keyword(s string) ruleFunc {
	return func(*syntax.Node) doc.Doc {
		return doc.Text(s)
	}
}
