package walk

import (
	"fmt"

	"minic/logging"
	"minic/sem"
	"minic/syntax"
)

// SemanticAnalyzer checks declarations and uses of names as the program is
// parsed and fills in the symbol table.
type SemanticAnalyzer struct {
	reporter

	symbols *sem.SymbolTable
	stack   symbolStack

	// used is the set of names referenced after their declaration
	used map[string]struct{}
}

// NewSemanticAnalyzer creates a semantic analyzer declaring into `symbols`
func NewSemanticAnalyzer(symbols *sem.SymbolTable, lctx *logging.LogContext) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		reporter: reporter{lctx: lctx},
		symbols:  symbols,
		used:     make(map[string]struct{}),
	}
}

// Symbols returns the symbol table of the analyzer
func (sa *SemanticAnalyzer) Symbols() *sem.SymbolTable {
	return sa.symbols
}

func (sa *SemanticAnalyzer) WhenShift(state int, tok *syntax.Token) {
	sa.stack.push(stackEntry{Tok: tok})
}

func (sa *SemanticAnalyzer) WhenReduce(state int, rule *syntax.PTableRule) {
	body := sa.stack.pop(rule.Count)

	switch rule.Index {
	case syntax.RuleDeclTypeInt:
		sa.stack.push(stackEntry{Type: sem.TypeInt})
		return
	case syntax.RuleStmtDecl:
		// decl_type IDENTIFIER
		sa.declare(body[1].Tok, body[0].Type)
	case syntax.RuleStmtAssign:
		// IDENTIFIER '=' expr
		sa.use(body[0].Tok)
	case syntax.RuleFactorIdentifier:
		sa.use(body[0].Tok)
	}

	sa.stack.push(stackEntry{})
}

// WhenAccept warns about every variable that is declared but never used
func (sa *SemanticAnalyzer) WhenAccept(state int) {
	sa.stack = nil

	for _, sym := range sa.symbols.Symbols() {
		if _, ok := sa.used[sym.Name]; !ok {
			sa.logWarning(fmt.Sprintf("variable `%s` is declared but never used", sym.Name), logging.LMKUsage, sym.Position)
		}
	}
}

// declare declares the name of `tok` with type `typ`
func (sa *SemanticAnalyzer) declare(tok *syntax.Token, typ sem.Type) {
	sym := &sem.Symbol{
		Name:     tok.Value,
		Type:     typ,
		Position: syntax.TextPositionOfToken(tok),
	}

	if !sa.symbols.Declare(sym) {
		sa.logRepeatDef(tok)
	}
}

// use checks that the name of `tok` has been declared
func (sa *SemanticAnalyzer) use(tok *syntax.Token) {
	if !sa.symbols.Has(tok.Value) {
		sa.logUndefined(tok)
		return
	}

	sa.used[tok.Value] = struct{}{}
}
