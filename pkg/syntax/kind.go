package syntax

// Kind classifies a node of the concrete syntax tree.
type Kind uint16

// Node kinds. The set is closed: every kind the parser can produce is listed
// here and the formatter dispatches over all of them.
const (
	KindEnd Kind = iota
	KindError

	// Markup.
	KindMarkup
	KindText
	KindSpace
	KindLinebreak
	KindParbreak
	KindEscape
	KindShorthand
	KindSmartQuote
	KindStrong
	KindEmph
	KindRaw
	KindRawLang
	KindRawDelim
	KindRawTrimmed
	KindLink
	KindLabel
	KindRef
	KindRefMarker
	KindHeading
	KindHeadingMarker
	KindListItem
	KindListMarker
	KindEnumItem
	KindEnumMarker
	KindTermItem
	KindTermMarker
	KindEquation

	// Math.
	KindMath
	KindMathIdent
	KindMathShorthand
	KindMathAlignPoint
	KindMathDelimited
	KindMathAttach
	KindMathPrimes
	KindMathFrac
	KindMathRoot

	// Punctuation and operators.
	KindHash
	KindLeftBrace
	KindRightBrace
	KindLeftBracket
	KindRightBracket
	KindLeftParen
	KindRightParen
	KindComma
	KindSemicolon
	KindColon
	KindStar
	KindUnderscore
	KindDollar
	KindPlus
	KindMinus
	KindSlash
	KindHat
	KindPrime
	KindDot
	KindEq
	KindEqEq
	KindExclEq
	KindLt
	KindLtEq
	KindGt
	KindGtEq
	KindPlusEq
	KindHyphEq
	KindStarEq
	KindSlashEq
	KindDots
	KindArrow
	KindRoot

	// Keywords.
	KindNot
	KindAnd
	KindOr
	KindNone
	KindAuto
	KindLet
	KindSet
	KindShow
	KindContext
	KindIf
	KindElse
	KindFor
	KindIn
	KindWhile
	KindBreak
	KindContinue
	KindReturn
	KindImport
	KindInclude
	KindAs

	// Code.
	KindCode
	KindIdent
	KindBool
	KindInt
	KindFloat
	KindNumeric
	KindStr
	KindCodeBlock
	KindContentBlock
	KindParenthesized
	KindArray
	KindDict
	KindNamed
	KindKeyed
	KindUnary
	KindBinary
	KindFieldAccess
	KindFuncCall
	KindArgs
	KindSpread
	KindClosure
	KindParams
	KindLetBinding
	KindSetRule
	KindShowRule
	KindContextual
	KindConditional
	KindWhileLoop
	KindForLoop
	KindModuleImport
	KindImportItems
	KindRenamedImportItem
	KindModuleInclude
	KindLoopBreak
	KindLoopContinue
	KindFuncReturn
	KindDestructuring
	KindDestructAssignment

	// Comments.
	KindLineComment
	KindBlockComment

	kindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [kindCount]string{
	KindEnd:                "End",
	KindError:              "Error",
	KindMarkup:             "Markup",
	KindText:               "Text",
	KindSpace:              "Space",
	KindLinebreak:          "Linebreak",
	KindParbreak:           "Parbreak",
	KindEscape:             "Escape",
	KindShorthand:          "Shorthand",
	KindSmartQuote:         "SmartQuote",
	KindStrong:             "Strong",
	KindEmph:               "Emph",
	KindRaw:                "Raw",
	KindRawLang:            "RawLang",
	KindRawDelim:           "RawDelim",
	KindRawTrimmed:         "RawTrimmed",
	KindLink:               "Link",
	KindLabel:              "Label",
	KindRef:                "Ref",
	KindRefMarker:          "RefMarker",
	KindHeading:            "Heading",
	KindHeadingMarker:      "HeadingMarker",
	KindListItem:           "ListItem",
	KindListMarker:         "ListMarker",
	KindEnumItem:           "EnumItem",
	KindEnumMarker:         "EnumMarker",
	KindTermItem:           "TermItem",
	KindTermMarker:         "TermMarker",
	KindEquation:           "Equation",
	KindMath:               "Math",
	KindMathIdent:          "MathIdent",
	KindMathShorthand:      "MathShorthand",
	KindMathAlignPoint:     "MathAlignPoint",
	KindMathDelimited:      "MathDelimited",
	KindMathAttach:         "MathAttach",
	KindMathPrimes:         "MathPrimes",
	KindMathFrac:           "MathFrac",
	KindMathRoot:           "MathRoot",
	KindHash:               "Hash",
	KindLeftBrace:          "LeftBrace",
	KindRightBrace:         "RightBrace",
	KindLeftBracket:        "LeftBracket",
	KindRightBracket:       "RightBracket",
	KindLeftParen:          "LeftParen",
	KindRightParen:         "RightParen",
	KindComma:              "Comma",
	KindSemicolon:          "Semicolon",
	KindColon:              "Colon",
	KindStar:               "Star",
	KindUnderscore:         "Underscore",
	KindDollar:             "Dollar",
	KindPlus:               "Plus",
	KindMinus:              "Minus",
	KindSlash:              "Slash",
	KindHat:                "Hat",
	KindPrime:              "Prime",
	KindDot:                "Dot",
	KindEq:                 "Eq",
	KindEqEq:               "EqEq",
	KindExclEq:             "ExclEq",
	KindLt:                 "Lt",
	KindLtEq:               "LtEq",
	KindGt:                 "Gt",
	KindGtEq:               "GtEq",
	KindPlusEq:             "PlusEq",
	KindHyphEq:             "HyphEq",
	KindStarEq:             "StarEq",
	KindSlashEq:            "SlashEq",
	KindDots:               "Dots",
	KindArrow:              "Arrow",
	KindRoot:               "Root",
	KindNot:                "Not",
	KindAnd:                "And",
	KindOr:                 "Or",
	KindNone:               "None",
	KindAuto:               "Auto",
	KindLet:                "Let",
	KindSet:                "Set",
	KindShow:               "Show",
	KindContext:            "Context",
	KindIf:                 "If",
	KindElse:               "Else",
	KindFor:                "For",
	KindIn:                 "In",
	KindWhile:              "While",
	KindBreak:              "Break",
	KindContinue:           "Continue",
	KindReturn:             "Return",
	KindImport:             "Import",
	KindInclude:            "Include",
	KindAs:                 "As",
	KindCode:               "Code",
	KindIdent:              "Ident",
	KindBool:               "Bool",
	KindInt:                "Int",
	KindFloat:              "Float",
	KindNumeric:            "Numeric",
	KindStr:                "Str",
	KindCodeBlock:          "CodeBlock",
	KindContentBlock:       "ContentBlock",
	KindParenthesized:      "Parenthesized",
	KindArray:              "Array",
	KindDict:               "Dict",
	KindNamed:              "Named",
	KindKeyed:              "Keyed",
	KindUnary:              "Unary",
	KindBinary:             "Binary",
	KindFieldAccess:        "FieldAccess",
	KindFuncCall:           "FuncCall",
	KindArgs:               "Args",
	KindSpread:             "Spread",
	KindClosure:            "Closure",
	KindParams:             "Params",
	KindLetBinding:         "LetBinding",
	KindSetRule:            "SetRule",
	KindShowRule:           "ShowRule",
	KindContextual:         "Contextual",
	KindConditional:        "Conditional",
	KindWhileLoop:          "WhileLoop",
	KindForLoop:            "ForLoop",
	KindModuleImport:       "ModuleImport",
	KindImportItems:        "ImportItems",
	KindRenamedImportItem:  "RenamedImportItem",
	KindModuleInclude:      "ModuleInclude",
	KindLoopBreak:          "LoopBreak",
	KindLoopContinue:       "LoopContinue",
	KindFuncReturn:         "FuncReturn",
	KindDestructuring:      "Destructuring",
	KindDestructAssignment: "DestructAssignment",
	KindLineComment:        "LineComment",
	KindBlockComment:       "BlockComment",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := KindEnd; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsTrivia reports whether the kind is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	return k == KindSpace || k == KindParbreak || k.IsComment()
}

// IsComment reports whether the kind is a line or block comment.
func (k Kind) IsComment() bool {
	return k == KindLineComment || k == KindBlockComment
}

// IsKeyword reports whether the kind is a keyword token that flows as a word.
// None and Auto are excluded because they are expressions in their own right.
func (k Kind) IsKeyword() bool {
	return k >= KindNot && k <= KindAs && k != KindNone && k != KindAuto
}

// IsStmt reports whether the kind is a statement that ends a markup line.
func (k Kind) IsStmt() bool {
	switch k {
	case KindLetBinding, KindSetRule, KindShowRule, KindModuleImport, KindModuleInclude:
		return true
	default:
		return false
	}
}

// IsExpr reports whether a node of this kind is an expression.
func (k Kind) IsExpr() bool {
	switch k {
	case KindText, KindSpace, KindLinebreak, KindParbreak, KindEscape, KindShorthand,
		KindSmartQuote, KindStrong, KindEmph, KindRaw, KindLink, KindLabel, KindRef,
		KindHeading, KindListItem, KindEnumItem, KindTermItem, KindEquation,
		KindMath, KindMathIdent, KindMathShorthand, KindMathAlignPoint, KindMathDelimited,
		KindMathAttach, KindMathPrimes, KindMathFrac, KindMathRoot,
		KindIdent, KindNone, KindAuto, KindBool, KindInt, KindFloat, KindNumeric, KindStr,
		KindCodeBlock, KindContentBlock, KindParenthesized, KindArray, KindDict,
		KindUnary, KindBinary, KindFieldAccess, KindFuncCall, KindClosure,
		KindLetBinding, KindSetRule, KindShowRule, KindContextual, KindConditional,
		KindWhileLoop, KindForLoop, KindModuleImport, KindModuleInclude,
		KindLoopBreak, KindLoopContinue, KindFuncReturn, KindDestructAssignment:
		return true
	default:
		return false
	}
}

// IsUnaryOp reports whether the kind can start a unary expression.
func (k Kind) IsUnaryOp() bool {
	return k == KindPlus || k == KindMinus || k == KindNot
}

// IsBinaryOp reports whether the kind is a binary operator token.
func (k Kind) IsBinaryOp() bool {
	_, ok := binaryPrecedence(k)
	return ok
}

// binaryPrecedence returns the binding power of a binary operator.
func binaryPrecedence(k Kind) (int, bool) {
	switch k {
	case KindStar, KindSlash:
		return 6, true
	case KindPlus, KindMinus:
		return 5, true
	case KindEqEq, KindExclEq, KindLt, KindLtEq, KindGt, KindGtEq, KindIn:
		return 4, true
	case KindNot: // "not in"
		return 4, true
	case KindAnd:
		return 3, true
	case KindOr:
		return 2, true
	case KindEq, KindPlusEq, KindHyphEq, KindStarEq, KindSlashEq:
		return 1, true
	default:
		return 0, false
	}
}

// isAssignOp reports whether the operator is right-associative assignment.
func isAssignOp(k Kind) bool {
	switch k {
	case KindEq, KindPlusEq, KindHyphEq, KindStarEq, KindSlashEq:
		return true
	default:
		return false
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var keywords = map[string]Kind{
	"not":      KindNot,
	"and":      KindAnd,
	"or":       KindOr,
	"none":     KindNone,
	"auto":     KindAuto,
	"let":      KindLet,
	"set":      KindSet,
	"show":     KindShow,
	"context":  KindContext,
	"if":       KindIf,
	"else":     KindElse,
	"for":      KindFor,
	"in":       KindIn,
	"while":    KindWhile,
	"break":    KindBreak,
	"continue": KindContinue,
	"return":   KindReturn,
	"import":   KindImport,
	"include":  KindInclude,
	"as":       KindAs,
	"true":     KindBool,
	"false":    KindBool,
}
