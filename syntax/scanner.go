package syntax

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"minic/logging"
)

// NewScanner creates a scanner for the given file
func NewScanner(fpath string, lctx *logging.LogContext) (*Scanner, bool) {
	f, err := os.Open(fpath)

	if err != nil {
		logging.LogConfigError("File", "error opening file: "+err.Error())
		return nil, false
	}

	s := NewScannerFromReader(f, lctx)
	s.fh = f
	return s, true
}

// NewScannerFromReader creates a scanner reading source text from `r`
func NewScannerFromReader(r io.Reader, lctx *logging.LogContext) *Scanner {
	s := &Scanner{file: bufio.NewReader(r), line: 1, lctx: lctx}
	if lctx != nil {
		s.fpath = lctx.FilePath
	}

	return s
}

// IsLetter tests if a rune is an ASCII character
func IsLetter(r rune) bool {
	return r > '`' && r < '{' || r > '@' && r < '[' // avoid using <= and >= by checking characters on boundaries (same for IsDigit)
}

// IsDigit tests if a rune is an ASCII digit
func IsDigit(r rune) bool {
	return r > '/' && r < ':'
}

// Scanner works like an io.Reader for a file (outputting tokens)
type Scanner struct {
	lctx *logging.LogContext

	// fh is only set if the scanner opened the file itself
	fh    *os.File
	file  *bufio.Reader
	fpath string

	line int
	col  int

	tokBuilder strings.Builder

	curr rune

	// done is set once the EOF token has been produced
	done bool
}

// ReadToken reads a single token from the stream.  True indicates that there is
// a token to be read/processed.  Once the end of the file is reached, EOF
// tokens are returned indefinitely.
func (s *Scanner) ReadToken() (*Token, bool) {
	for !s.done && s.readNext() {
		var tok *Token
		malformed := false

		switch s.curr {
		// ignore whitespace and non-meaningful characters (eg. BOM, form-feeds)
		case ' ', '\t', '\n', '\r', '\f', '\v', 65279:
			s.tokBuilder.Reset()
			continue
		default:
			if IsLetter(s.curr) || s.curr == '_' {
				tok = s.readWord()
			} else if IsDigit(s.curr) {
				tok = s.readNumberLiteral()
			} else if kind, ok := symbolPatterns[string(s.curr)]; ok {
				tok = s.getToken(kind)
			} else {
				// any other character can't begin a token
				malformed = true
			}
		}

		// error out on any malformed tokens (using contents of token builder)
		if malformed {
			logging.LogCompileError(
				s.lctx,
				fmt.Sprintf("malformed token: `%s`", s.tokBuilder.String()),
				logging.LMKToken,
				&logging.TextPosition{StartLn: s.line, StartCol: s.col - 1, EndLn: s.line, EndCol: s.col},
			)

			s.tokBuilder.Reset()
			return nil, false
		}

		// discard the built contents for the current scanned token
		s.tokBuilder.Reset()

		return tok, true
	}

	s.done = true
	return s.makeToken(EOF, ""), true
}

// Close closes the open file handle the scanner is processing if it has one
func (s *Scanner) Close() error {
	if s.fh == nil {
		return nil
	}

	return s.fh.Close()
}

// create a token at the current position from the provided data
func (s *Scanner) makeToken(kind int, value string) *Token {
	tok := &Token{Kind: kind, Value: value, Line: s.line, Col: s.col}
	return tok
}

// collect the contents of the token builder into a string and create a token at
// the current position with the provided kind and token string as its value
func (s *Scanner) getToken(kind int) *Token {
	tokValue := s.tokBuilder.String()
	return s.makeToken(kind, tokValue)
}

// reads a rune from the file stream into the token builder and returns whether
// or not there are more runes to be read (true = no EOF, false = EOF)
func (s *Scanner) readNext() bool {
	r, _, err := s.file.ReadRune()

	if err != nil {
		if err != io.EOF {
			logging.LogConfigError("File", fmt.Sprintf("error reading file %s: %s", s.fpath, err.Error()))
		}

		return false
	}

	// do line and column counting after the newline has been processed (so
	// as to avoid positioning errors)
	if s.curr == '\n' {
		s.line++
		s.col = 0
	}

	s.tokBuilder.WriteRune(r)
	s.curr = r

	// tabs count as four columns for display purposes
	if r == '\t' {
		s.col += 4
	} else {
		s.col++
	}

	return true
}

// peek a rune ahead on the scanner
func (s *Scanner) peek() (rune, bool) {
	r, _, err := s.file.ReadRune()

	if err != nil {
		return 0, false
	}

	s.file.UnreadRune()

	return r, true
}

// reads an identifier or a keyword from the input stream.  The current
// character is assumed to be a valid first character of a word.
func (s *Scanner) readWord() *Token {
	// words containing underscores or digits can't be keywords
	keywordValid := s.curr != '_'

	for {
		c, more := s.peek()

		if !more {
			break
		} else if IsDigit(c) || c == '_' {
			keywordValid = false
		} else if !IsLetter(c) {
			break
		}

		s.readNext()
	}

	tokValue := s.tokBuilder.String()

	if keywordValid {
		if kind, ok := keywordPatterns[tokValue]; ok {
			return s.makeToken(kind, tokValue)
		}
	}

	return s.makeToken(IDENTIFIER, tokValue)
}

// reads a decimal integer literal.  The current character is assumed to be a
// digit.
func (s *Scanner) readNumberLiteral() *Token {
	for c, more := s.peek(); more && IsDigit(c); c, more = s.peek() {
		s.readNext()
	}

	return s.getToken(INTLIT)
}

// -----------------------------------------------------------------------------

// TokenReader is a source of tokens for the parser
type TokenReader interface {
	ReadToken() (*Token, bool)
}

// Tokenize reads every token from `tr` up to and including the EOF token.
// Scanning stops at the first malformed token.
func Tokenize(tr TokenReader) ([]*Token, bool) {
	var tokens []*Token

	for {
		tok, ok := tr.ReadToken()
		if !ok {
			return tokens, false
		}

		tokens = append(tokens, tok)

		if tok.Kind == EOF {
			return tokens, true
		}
	}
}

// TokenList replays an already scanned list of tokens.  The list should end
// with an EOF token; reading past the end produces EOF tokens.
type TokenList struct {
	tokens []*Token
	pos    int
}

// NewTokenList creates a new token list over `tokens`
func NewTokenList(tokens []*Token) *TokenList {
	return &TokenList{tokens: tokens}
}

// ReadToken returns the next token in the list
func (tl *TokenList) ReadToken() (*Token, bool) {
	if tl.pos < len(tl.tokens) {
		tok := tl.tokens[tl.pos]
		tl.pos++
		return tok, true
	}

	if len(tl.tokens) > 0 {
		last := tl.tokens[len(tl.tokens)-1]
		return &Token{Kind: EOF, Line: last.Line, Col: last.Col}, true
	}

	return &Token{Kind: EOF, Line: 1}, true
}
