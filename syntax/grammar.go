package syntax

import (
	_ "embed"
	"minic/common"
	"path/filepath"
	"sync"
)

//go:embed grammar.ebnf
var grammarSource string

// Enumeration of the rules of the minic grammar in definition order
const (
	RuleProgram          = iota // program -> stmt_list
	RuleStmtListMany            // stmt_list -> stmt ';' stmt_list
	RuleStmtListOne             // stmt_list -> stmt ';'
	RuleStmtDecl                // stmt -> decl_type IDENTIFIER
	RuleStmtAssign              // stmt -> IDENTIFIER '=' expr
	RuleStmtReturn              // stmt -> 'return' expr
	RuleDeclTypeInt             // decl_type -> 'int'
	RuleExprAdd                 // expr -> expr '+' term
	RuleExprSub                 // expr -> expr '-' term
	RuleExprTerm                // expr -> term
	RuleTermMul                 // term -> term '*' factor
	RuleTermFactor              // term -> factor
	RuleFactorParen             // factor -> '(' expr ')'
	RuleFactorIdentifier        // factor -> IDENTIFIER
	RuleFactorIntLit            // factor -> INTLIT
)

var (
	minicTable   *ParsingTable
	minicTableMu sync.Mutex
)

// LoadMinicTable returns the parsing table for the minic grammar.  The table
// is built at most once per process.  If `cacheDir` is not empty, the table
// is cached on disk in that directory between runs.
func LoadMinicTable(cacheDir string) (*ParsingTable, error) {
	minicTableMu.Lock()
	defer minicTableMu.Unlock()

	if minicTable != nil {
		return minicTable, nil
	}

	cachePath := ""
	if cacheDir != "" {
		cachePath = filepath.Join(cacheDir, common.TableFileName)
	}

	ptable, err := NewParsingTable(grammarSource, cachePath)
	if err != nil {
		return nil, err
	}

	minicTable = ptable
	return ptable, nil
}
