package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tlog.app/go/errors"
)

// gramLoader reads an EBNF grammar one rune at a time.  Productions have the
// form `name = elements ;` and comments are delimited by `(*` and `*)`.
type gramLoader struct {
	file    *bufio.Reader
	grammar *Grammar
	curr    rune
	line    uint

	// readErr is the first non-EOF error encountered reading the grammar
	readErr error
}

// loadGrammar reads an EBNF grammar from `r` and returns an error if the
// grammar is syntactically invalid
func loadGrammar(r io.Reader) (*Grammar, error) {
	gl := &gramLoader{file: bufio.NewReader(r), grammar: NewGrammar(), line: 1}

	if err := gl.load(); err != nil {
		return nil, err
	}

	if gl.readErr != nil {
		return nil, errors.Wrap(gl.readErr, "reading grammar")
	}

	if len(gl.grammar.Names) == 0 {
		return nil, errors.New("grammar defines no productions")
	}

	return gl.grammar, nil
}

// isSpace reports whether `r` is insignificant between grammar elements
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\uFEFF':
		return true
	}

	return false
}

// isNameRune reports whether `r` can appear in a production name
func isNameRune(r rune) bool {
	return IsLetter(r) || r == '_'
}

func (gl *gramLoader) load() error {
	for gl.next() {
		switch {
		case isSpace(gl.curr):
		case gl.curr == '(' && gl.peekIs('*'):
			gl.skipComment()
		case IsLetter(gl.curr):
			if err := gl.readProduction(); err != nil {
				return err
			}
		default:
			return gl.unexpectedToken()
		}
	}

	return nil
}

// next advances to the next rune.  It returns false at the end of input.
func (gl *gramLoader) next() bool {
	r, _, err := gl.file.ReadRune()
	if err != nil {
		if err != io.EOF {
			gl.readErr = err
		}

		return false
	}

	if r == '\n' {
		gl.line++
	}

	gl.curr = r
	return true
}

// peekIs reports whether the next rune is `r` without consuming it
func (gl *gramLoader) peekIs(r rune) bool {
	b, err := gl.file.Peek(1)
	return err == nil && rune(b[0]) == r
}

// skipComment consumes a comment whose opening `(` is the current rune
func (gl *gramLoader) skipComment() {
	gl.next()

	for gl.next() {
		if gl.curr == '*' && gl.peekIs(')') {
			gl.next()
			return
		}
	}
}

func (gl *gramLoader) errorf(format string, args ...interface{}) error {
	return errors.New("%s on line %d", fmt.Sprintf(format, args...), gl.line)
}

func (gl *gramLoader) unexpectedToken() error {
	return gl.errorf("unexpected token `%c`", gl.curr)
}

// readName reads a run of name runes starting at the current rune
func (gl *gramLoader) readName() string {
	sb := strings.Builder{}
	sb.WriteRune(gl.curr)

	for isNameRune(peekRune(gl.file)) {
		gl.next()
		sb.WriteRune(gl.curr)
	}

	return sb.String()
}

// peekRune returns the next byte of `r` as a rune or 0 at the end of input
func peekRune(r *bufio.Reader) rune {
	b, err := r.Peek(1)
	if err != nil {
		return 0
	}

	return rune(b[0])
}

// readProduction reads `name = elements ;` starting at the first rune of the
// name
func (gl *gramLoader) readProduction() error {
	name := gl.readName()

	for gl.next() {
		switch {
		case isSpace(gl.curr):
		case gl.curr == '=':
			elems, err := gl.parseGroupContent(';')
			if err != nil {
				return err
			}

			if !gl.grammar.Add(name, elems) {
				return gl.errorf("production `%s` redefined", name)
			}

			return nil
		default:
			return gl.unexpectedToken()
		}
	}

	return errors.New("unexpected EOF in production `%s`", name)
}

// parseGroupContent reads grammatical elements up to and including `closer`.
// An alternator consumes the rest of the group: its branches are the elements
// before it and the alternatives that follow, so a group containing `|` is
// returned as a single alternator element.
func (gl *gramLoader) parseGroupContent(closer rune) ([]GrammaticalElement, error) {
	var content []GrammaticalElement

	for gl.next() {
		if isSpace(gl.curr) {
			continue
		}

		if kind, inner, ok := groupKind(gl.curr); ok {
			elems, err := gl.parseGroupContent(inner)
			if err != nil {
				return nil, err
			}

			content = append(content, NewGroupingElement(kind, elems))
			continue
		}

		switch {
		case gl.curr == '|':
			if len(content) == 0 {
				return nil, gl.errorf("empty alternative")
			}

			rest, err := gl.parseGroupContent(closer)
			if err != nil {
				return nil, err
			}

			if alt, ok := rest[0].(*AlternatorElement); ok {
				alt.PushFront(content)
				return rest, nil
			}

			return []GrammaticalElement{NewAlternatorElement(content, rest)}, nil
		case gl.curr == '\'':
			kind, err := gl.readTerminal()
			if err != nil {
				return nil, err
			}

			content = append(content, Terminal(kind))
		case gl.curr == closer:
			if len(content) == 0 {
				return nil, gl.errorf("empty grammatical group")
			}

			return content, nil
		case isNameRune(gl.curr):
			content = append(content, Nonterminal(gl.readName()))
		default:
			return nil, gl.unexpectedToken()
		}
	}

	return nil, errors.New("group not closed by `%c` before EOF", closer)
}

// groupKind returns the kind and closer of the group opened by `r`
func groupKind(r rune) (int, rune, bool) {
	switch r {
	case '(':
		return GKindGroup, ')', true
	case '[':
		return GKindOptional, ']', true
	case '{':
		return GKindRepeat, '}', true
	}

	return 0, 0, false
}

// readTerminal reads a quoted terminal whose opening quote is the current
// rune.  The empty terminal `''` is epsilon and yields -1.
func (gl *gramLoader) readTerminal() (int, error) {
	sb := strings.Builder{}

	for gl.next() {
		if gl.curr != '\'' {
			sb.WriteRune(gl.curr)
			continue
		}

		if sb.Len() == 0 {
			return -1, nil
		}

		if kind, ok := terminalKind(sb.String()); ok {
			return kind, nil
		}

		return 0, gl.errorf("undefined terminal `%s`", sb.String())
	}

	return 0, errors.New("unterminated terminal before EOF")
}

// terminalKind resolves the text of a terminal to a token kind
func terminalKind(text string) (int, bool) {
	if kind, ok := keywordPatterns[text]; ok {
		return kind, true
	}

	if kind, ok := symbolPatterns[text]; ok {
		return kind, true
	}

	switch text {
	case "IDENTIFIER":
		return IDENTIFIER, true
	case "INTLIT":
		return INTLIT, true
	}

	return 0, false
}
