package syntax

import (
	"encoding/gob"
	"minic/common"
	"os"
	"path/filepath"
	"strings"

	"tlog.app/go/errors"
)

// ParsingTable represents our LALR(1) parser's Action-Goto table as well as
// all of the rules it can reduce by
type ParsingTable struct {
	Rows  []*PTableRow
	Rules []*PTableRule

	// GrammarHash identifies the grammar the table was built from so that
	// stale cached tables can be detected
	GrammarHash uint
}

// PTableRow is a particular row in the parsing table.  Any terminal for which
// there is no key in the action table is considered unexpected.
type PTableRow struct {
	Actions map[int]*Action
	Gotos   map[string]int
}

// Action contains two items: a kind and an operand.  The kind indicates what
// type of action to perform (Shift, Reduce, Accept) and the operand is used to
// store any data affiliated with the action (state to shift to for shift
// actions, rule to reduce by for reduce actions, nothing for accept actions)
type Action struct {
	// Kind should one of the action kinds enumerated below (prefix AK)
	Kind int

	Operand int
}

// Three different kinds of valid actions (that can be explicitly included)
const (
	AKReduce = iota
	AKShift
	AKAccept
)

// PTableRule is used to represent a given reduction pattern.  Index is the
// rule's number in the grammar: rules are numbered in definition order.
type PTableRule struct {
	Index int
	Name  string

	// Count is the number of states popped when reducing by the rule
	Count int

	// Symbols are the display names of the rule's body
	Symbols []string
}

// newPTableRule converts a BNF rule into a parsing table rule
func newPTableRule(index int, bnfRule *BNFRule) *PTableRule {
	rule := &PTableRule{Index: index, Name: bnfRule.ProdName}

	if bnfRule.Contents[0].Kind() == BNFKindEpsilon {
		return rule
	}

	rule.Count = len(bnfRule.Contents)
	for _, elem := range bnfRule.Contents {
		rule.Symbols = append(rule.Symbols, elementString(elem))
	}

	return rule
}

// Repr returns the rule in the form `expr -> expr '+' term`
func (r *PTableRule) Repr() string {
	if r.Count == 0 {
		return r.Name + " -> ''"
	}

	return r.Name + " -> " + strings.Join(r.Symbols, " ")
}

// NewParsingTable creates a new parsing table for the EBNF grammar `src`.  If
// `cachePath` is not empty, a table cached there for the same grammar is
// loaded instead of building a new one, and newly built tables are saved
// there.
func NewParsingTable(src string, cachePath string) (*ParsingTable, error) {
	hash := common.GenerateIDFromText(src)

	if cachePath != "" {
		if ptable, err := loadParsingTable(cachePath); err == nil && ptable.GrammarHash == hash {
			return ptable, nil
		}
	}

	g, err := loadGrammar(strings.NewReader(src))
	if err != nil {
		return nil, errors.Wrap(err, "loading grammar")
	}

	ptable, err := constructParsingTable(expandGrammar(g))
	if err != nil {
		return nil, errors.Wrap(err, "building parsing table")
	}

	ptable.GrammarHash = hash

	if cachePath != "" {
		if err := saveParsingTable(ptable, cachePath); err != nil {
			return nil, errors.Wrap(err, "caching parsing table")
		}
	}

	return ptable, nil
}

// loadParsingTable loads a parsing table from a saved file
func loadParsingTable(path string) (*ParsingTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ptable := &ParsingTable{}
	if err := gob.NewDecoder(f).Decode(ptable); err != nil {
		return nil, err
	}

	return ptable, nil
}

// saveParsingTable will dump a parsing table into a file, creating its
// directory if necessary
func saveParsingTable(ptable *ParsingTable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	// we want to truncate the original file or create a new one
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(ptable)
}
