package syntax

import "minic/logging"

// Token represents a token read in by the scanner
type Token struct {
	Kind  int
	Value string

	// Line is line number starting at 1
	Line int

	// Col is the column of the last character of the token counting tabs as
	// four columns
	Col int
}

// The various kinds of a tokens supported by the scanner
const (
	// keywords
	INT = iota
	RETURN

	// literals (and identifiers)
	IDENTIFIER
	INTLIT

	// assignment and punctuation
	ASSIGN
	COMMA
	SEMICOLON
	LPAREN
	RPAREN

	// arithmetic operators
	PLUS
	MINUS
	STAR
	DIVIDE

	// used in parsing algorithm
	EOF
)

// token patterns (matching strings) for keywords
var keywordPatterns = map[string]int{
	"int":    INT,
	"return": RETURN,
}

// token patterns for symbolic items: all symbols are a single character
var symbolPatterns = map[string]int{
	"=": ASSIGN,
	",": COMMA,
	";": SEMICOLON,
	"(": LPAREN,
	")": RPAREN,
	"+": PLUS,
	"-": MINUS,
	"*": STAR,
	"/": DIVIDE,
}

// kindNames is the display name of each token kind
var kindNames = []string{
	"int",        // INT
	"return",     // RETURN
	"IDENTIFIER", // IDENTIFIER
	"INTLIT",     // INTLIT
	"=",          // ASSIGN
	",",          // COMMA
	";",          // SEMICOLON
	"(",          // LPAREN
	")",          // RPAREN
	"+",          // PLUS
	"-",          // MINUS
	"*",          // STAR
	"/",          // DIVIDE
	"$",          // EOF
}

// KindName returns the display name of a token kind
func KindName(kind int) string {
	if kind < 0 || kind >= len(kindNames) {
		return "?"
	}

	return kindNames[kind]
}

// Repr returns the form a token takes in a token dump: `(kind,value)` where
// the value is only included for identifiers and literals.
func (t *Token) Repr() string {
	switch t.Kind {
	case IDENTIFIER, INTLIT:
		return "(" + KindName(t.Kind) + "," + t.Value + ")"
	default:
		return "(" + KindName(t.Kind) + ",)"
	}
}

// TextPositionOfToken takes in a token and returns its text position
func TextPositionOfToken(tok *Token) *logging.TextPosition {
	return &logging.TextPosition{StartLn: tok.Line, StartCol: tok.Col - len(tok.Value), EndLn: tok.Line, EndCol: tok.Col}
}
