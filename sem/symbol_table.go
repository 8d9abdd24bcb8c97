package sem

import (
	"strings"

	"github.com/samber/lo"
)

// SymbolTable stores the symbols of a program in order of declaration
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

// NewSymbolTable creates a new, empty symbol table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Has returns whether a symbol named `name` exists in the table
func (st *SymbolTable) Has(name string) bool {
	_, ok := st.symbols[name]
	return ok
}

// Lookup looks up a symbol by name
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Declare adds a new symbol to the table.  It returns false if a symbol by the
// same name is already declared.
func (st *SymbolTable) Declare(sym *Symbol) bool {
	if st.Has(sym.Name) {
		return false
	}

	st.symbols[sym.Name] = sym
	st.order = append(st.order, sym.Name)
	return true
}

// Len returns the number of symbols in the table
func (st *SymbolTable) Len() int {
	return len(st.order)
}

// Symbols returns the symbols in order of declaration
func (st *SymbolTable) Symbols() []*Symbol {
	return lo.Map(st.order, func(name string, _ int) *Symbol {
		return st.symbols[name]
	})
}

// SymbolsOfType returns the symbols of type `typ` in order of declaration
func (st *SymbolTable) SymbolsOfType(typ Type) []*Symbol {
	return lo.Filter(st.Symbols(), func(sym *Symbol, _ int) bool {
		return sym.Type == typ
	})
}

// Repr returns the dump form of the table: one `name<tab>type` line per
// symbol in order of declaration
func (st *SymbolTable) Repr() string {
	sb := strings.Builder{}

	for _, sym := range st.Symbols() {
		sb.WriteString(sym.Name)
		sb.WriteRune('\t')
		sb.WriteString(sym.Type.String())
		sb.WriteRune('\n')
	}

	return sb.String()
}
