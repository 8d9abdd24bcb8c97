package syntax

import (
	"fmt"
)

// BNFRuleTable is a data structure used to represent the BNF grammar as it is
// converted to a LALR(1) parsing table.  Rules are numbered in the order their
// productions and alternatives appear in the source grammar.
type BNFRuleTable struct {
	// Goal is the name of the goal production
	Goal string

	// represent the expanded set of BNF grammar rules
	RulesByIndex []*BNFRule

	// map production names to the list of rules they are related to (for
	// fast-lookup by production name)
	RulesByProdName map[string][]int
}

// BNFRule is a data structure representing a single BNF rule in the expanded
// grammar (derived from original grammar).  These rules contain only terminals,
// nonterminals, and epsilons.  All other structure is expanded out.
type BNFRule struct {
	// ProdName is the name of the production the rule belongs to
	ProdName string

	// Contents are all of the BNF elements contained in the specific rule
	Contents []BNFElement
}

// BNFElement is a single element of a BNF rule
type BNFElement interface {
	Kind() int // should be one of the enumerated BNF kinds
}

// Different kinds of BNF elements
const (
	BNFKindTerminal = iota
	BNFKindNonterminal
	BNFKindEpsilon
)

// BNFTerminal is a terminal used in a BNF rule (int = token value)
type BNFTerminal int

// Kind of BNFTerminal is BNFKindTerminal
func (BNFTerminal) Kind() int {
	return BNFKindTerminal
}

// BNFNonterminal is a nonterminal used in a BNF rule (string = prod name)
type BNFNonterminal string

// Kind of BNFNonterminal is BNFKindNonterminal
func (BNFNonterminal) Kind() int {
	return BNFKindNonterminal
}

// BNFEpsilon is just an empty byte that stores no meaningful value
type BNFEpsilon struct{}

// Kind of BNFEpsilon is BNFKindEpsilon
func (BNFEpsilon) Kind() int {
	return BNFKindEpsilon
}

// Expander is a struct used to hold the shared state used as the EBNF grammar
// is expanded into the BNF grammar (growing ruletable and anon-name counter)
type Expander struct {
	table *BNFRuleTable

	// used to generate unique anonymous production names
	anonCounter int

	// used to add the suffix to anonymously generated names
	currentProdName string
}

// expandGrammar expands and generates the BNF RuleTable from a given EBNF
// grammar.  Productions are expanded in definition order.
func expandGrammar(g *Grammar) *BNFRuleTable {
	e := &Expander{table: &BNFRuleTable{Goal: g.Goal(), RulesByProdName: make(map[string][]int)}}

	for _, name := range g.Names {
		e.currentProdName = name
		e.expandProduction(name, g.Productions[name])
	}

	return e.table
}

// elementString returns the human readable form of a BNF element
func elementString(elem BNFElement) string {
	switch v := elem.(type) {
	case BNFTerminal:
		return "'" + KindName(int(v)) + "'"
	case BNFNonterminal:
		return string(v)
	default:
		return "''"
	}
}

// expandProduction adds the rules of the production `name`.  Each branch of
// a top-level alternator becomes its own rule.
func (e *Expander) expandProduction(name string, contents Production) {
	if alt, ok := contents[0].(*AlternatorElement); ok {
		for _, branch := range alt.groups {
			e.addRule(name, e.expandGroup(branch))
		}

		return
	}

	body := e.expandGroup(contents)

	// `a = ( ... ) ;` takes over the rules of the anonymous production
	if len(body) == 1 {
		if nt, ok := body[0].(BNFNonterminal); ok && isAnonName(nt) {
			e.renameProduction(nt, name)
			return
		}
	}

	e.addRule(name, body)
}

// expandGroup converts a sequence of grammatical elements into the body of a
// rule.  Nested groups, optionals and repeats are replaced by references to
// anonymous productions which are added as they are encountered.
func (e *Expander) expandGroup(group []GrammaticalElement) []BNFElement {
	body := make([]BNFElement, len(group))

	for i, item := range group {
		body[i] = e.expandElement(item)
	}

	return body
}

func (e *Expander) expandElement(item GrammaticalElement) BNFElement {
	switch v := item.(type) {
	case Terminal:
		if v == -1 {
			return BNFEpsilon{}
		}

		return BNFTerminal(v)
	case Nonterminal:
		return BNFNonterminal(v)
	case *GroupingElement:
		switch v.kind {
		case GKindGroup:
			// a lone non-alternator element needs no production of its own
			if len(v.elements) == 1 && v.elements[0].Kind() != GKindAlternator {
				return e.expandElement(v.elements[0])
			}

			return e.anonProduction(v.elements, false, false)
		case GKindOptional:
			// [ F ] => A where A -> F | ''
			return e.anonProduction(v.elements, true, false)
		case GKindRepeat:
			// { F } => A where A -> F A | ''
			return e.anonProduction(v.elements, true, true)
		}
	}

	// alternators only appear as the sole element of a group and are
	// expanded by expandProduction
	return BNFEpsilon{}
}

// anonProduction expands `elems` into a new anonymous production and returns
// a reference to it.  With `repeat`, every rule of the production ends with a
// reference to itself.  With `epsilon`, an epsilon rule is added last.
func (e *Expander) anonProduction(elems []GrammaticalElement, epsilon, repeat bool) BNFElement {
	name := e.getAnonName()
	e.expandProduction(name, elems)
	ref := BNFNonterminal(name)

	if repeat {
		for _, r := range e.table.RulesByProdName[name] {
			rule := e.table.RulesByIndex[r]
			rule.Contents = append(rule.Contents, ref)
		}
	}

	if epsilon {
		e.addRule(name, []BNFElement{BNFEpsilon{}})
	}

	return ref
}

// addRule appends a rule for `prodName` to the table
func (e *Expander) addRule(prodName string, contents []BNFElement) {
	e.table.RulesByProdName[prodName] = append(e.table.RulesByProdName[prodName], len(e.table.RulesByIndex))
	e.table.RulesByIndex = append(e.table.RulesByIndex, &BNFRule{ProdName: prodName, Contents: contents})
}

// renameProduction moves the rules of `from` to the production `to`
func (e *Expander) renameProduction(from BNFNonterminal, to string) {
	refs := e.table.RulesByProdName[string(from)]
	delete(e.table.RulesByProdName, string(from))
	e.table.RulesByProdName[to] = refs

	for _, r := range refs {
		e.table.RulesByIndex[r].ProdName = to
	}
}

// getAnonName returns a fresh anonymous production name.  Anonymous names
// start with `$` so they never collide with grammar names.
func (e *Expander) getAnonName() string {
	e.anonCounter++
	return fmt.Sprintf("$%d-%s", e.anonCounter, e.currentProdName)
}

func isAnonName(nt BNFNonterminal) bool {
	return len(nt) > 0 && nt[0] == '$'
}
