package sem

import "minic/logging"

// Type is the source-level type of a symbol
type Type int

// Enumeration of source types
const (
	// TypeUnknown is the type of a name that has been seen but not declared
	TypeUnknown Type = iota
	TypeInt
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	default:
		return "<unknown>"
	}
}

// Symbol represents a named variable
type Symbol struct {
	// Name is the name of the symbol (as it is referenced in source code)
	Name string

	// Type stores the data type of this symbol
	Type Type

	// Position is the text position where this symbol is defined
	Position *logging.TextPosition
}
