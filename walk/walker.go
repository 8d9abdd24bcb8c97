// Package walk contains the observers that translate a program as the parser
// walks it: semantic analysis, IR generation and reduction recording.
package walk

import (
	"minic/ir"
	"minic/sem"
	"minic/syntax"
)

// stackEntry is an entry on an observer's symbol stack.  The stack mirrors the
// parser's state stack: shifts push the token and reductions replace the
// entries of the rule's body with a single entry for its head.
type stackEntry struct {
	// Tok is the shifted token (nil for nonterminals)
	Tok *syntax.Token

	// Type is the source type synthesized for the entry (declarations only)
	Type sem.Type

	// Value is the IR value synthesized for the entry (expressions only)
	Value ir.Value
}

// symbolStack is the stack of entries used by both observers
type symbolStack []stackEntry

// push pushes an entry onto the stack
func (ss *symbolStack) push(entry stackEntry) {
	*ss = append(*ss, entry)
}

// pop removes the top `n` entries of the stack and returns them in order
// (bottom-most first)
func (ss *symbolStack) pop(n int) []stackEntry {
	if n > len(*ss) {
		n = len(*ss)
	}

	popped := make([]stackEntry, n)
	copy(popped, (*ss)[len(*ss)-n:])
	*ss = (*ss)[:len(*ss)-n]
	return popped
}
