package natsuzora

import "fmt"

// Location pinpoints a byte in template source. Line and Column are
// 1-indexed; Offset is the 0-indexed byte offset from the start of
// the source. Every token and every syntax-tree node carries one, so
// errors can always point back at the exact source position at fault.
type Location struct {
	Line   int
	Column int
	Offset int
}

// String renders the location as "line:column", the form used inside
// error messages.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// TokenKind classifies a Token produced by the lexer.
type TokenKind int

const (
	// TokError is never emitted by lex itself (lexing errors are
	// returned directly), but is reserved for internal bookkeeping.
	TokError TokenKind = iota
	TokText
	TokWhitespace
	TokIdent
	TokEOF

	// Fixed-literal tokens.
	TokTagOpen    // {[
	TokTagClose   // ]}
	TokHash       // #
	TokSlash      // /
	TokDash       // -
	TokDot        // .
	TokComma      // ,
	TokEqual      // =
	TokQuestion   // ?
	TokBang       // !
	TokPercent    // %
	TokBangInclude // !include
	TokBangUnsecure // !unsecure

	// Keywords.
	TokIf
	TokUnless
	TokElse
	TokEach
	TokAs
)

var tokenKindNames = map[TokenKind]string{
	TokError:        "Error",
	TokText:         "Text",
	TokWhitespace:   "Whitespace",
	TokIdent:        "Ident",
	TokEOF:          "EOF",
	TokTagOpen:      "TagOpen",
	TokTagClose:     "TagClose",
	TokHash:         "Hash",
	TokSlash:        "Slash",
	TokDash:         "Dash",
	TokDot:          "Dot",
	TokComma:        "Comma",
	TokEqual:        "Equal",
	TokQuestion:     "Question",
	TokBang:         "Bang",
	TokPercent:      "Percent",
	TokBangInclude:  "BangInclude",
	TokBangUnsecure: "BangUnsecure",
	TokIf:           "If",
	TokUnless:       "Unless",
	TokElse:         "Else",
	TokEach:         "Each",
	TokAs:           "As",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// keywords maps reserved identifier spellings to their keyword kind.
// Only these five participate in the grammar as keywords; the other
// reserved words (§3 invariants) are rejected when used as an
// identifier but never become their own token kind.
var keywords = map[string]TokenKind{
	"if":     TokIf,
	"unless": TokUnless,
	"else":   TokElse,
	"each":   TokEach,
	"as":     TokAs,
}

// reservedWords is the full reserved-word set: none of these may be
// used as an identifier segment, item name, or include argument key.
var reservedWords = map[string]bool{
	"if": true, "unless": true, "else": true, "each": true, "as": true,
	"unsecure": true, "true": true, "false": true, "null": true,
	"include": true, "in": true, "of": true,
}

// Token is a single lexical element: its kind, the literal source text
// it covers, and the location of its first byte.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Loc    Location
}

func (t Token) String() string {
	val := t.Lexeme
	if len(val) > 40 {
		val = val[:37] + "..."
	}
	return fmt.Sprintf("%s(%q)@%s", t.Kind, val, t.Loc)
}
