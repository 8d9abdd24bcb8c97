package ir

import "strconv"

// Value is an operand of an instruction: either a Variable or an Immediate.
type Value interface {
	// Repr returns the string representation of the value as it appears in
	// the textual form of the IR.
	Repr() string

	isValue()
}

// Variable is a named storage location.  It is either a source variable
// (Name is set) or a synthetic temporary (Temp > 0).  Two variables are the
// same variable iff they compare equal with `==`.
type Variable struct {
	Name string
	Temp int
}

// NewVar returns the variable for the source identifier `name`.
func NewVar(name string) Variable {
	return Variable{Name: name}
}

// NewTemp returns the temporary with id `id`.
func NewTemp(id int) Variable {
	return Variable{Temp: id}
}

// IsTemp indicates whether the variable is a synthetic temporary.
func (v Variable) IsTemp() bool {
	return v.Name == "" && v.Temp > 0
}

// Valid indicates whether the variable has exactly one identity.  The zero
// Variable is never valid.
func (v Variable) Valid() bool {
	return (v.Name != "") != (v.Temp > 0)
}

func (v Variable) Repr() string {
	if v.Name != "" {
		return v.Name
	}

	return "$" + strconv.Itoa(v.Temp)
}

func (Variable) isValue() {}

// Immediate is a literal integer operand.  It never occupies a register.
type Immediate int64

func (im Immediate) Repr() string {
	return strconv.FormatInt(int64(im), 10)
}

func (Immediate) isValue() {}

// reprValue renders a possibly nil operand.
func reprValue(v Value) string {
	if v == nil {
		return "<nil>"
	}

	return v.Repr()
}

func (im Immediate) String() string {
	return im.Repr()
}
