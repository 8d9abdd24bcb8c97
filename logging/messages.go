package logging

// LogContext is the context in which a compile message occurred: the file it
// relates to.  The file path is used to display the offending source text.
type LogContext struct {
	FilePath string
}

// TextPosition represents a positional range in the source text.  Lines start
// at 1; columns start at 0 and the end column is one past the last character.
type TextPosition struct {
	StartLn, StartCol int
	EndLn, EndCol     int
}

// LogMessage is the interface implemented by all the kinds of messages the
// logger can collect and display
type LogMessage interface {
	isError() bool
	display()
}

// CompileMessage is an error or warning produced by bad user code
type CompileMessage struct {
	Message  string
	Kind     int
	Position *TextPosition
	Context  *LogContext
	IsError  bool
}

func (cm *CompileMessage) isError() bool {
	return cm.IsError
}

// Enumeration of the different kinds of compile messages (prefix LMK)
const (
	LMKToken = iota
	LMKSyntax
	LMKName
	LMKDef
	LMKUsage
)

// ConfigError is an error in the module file or in the compiler's options
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool {
	return true
}

// BuildWarning is a warning produced while building that is not attached to a
// position in user code (eg. grammar conflicts, version mismatches)
type BuildWarning struct {
	Kind    string
	Message string
}

func (bw *BuildWarning) isError() bool {
	return false
}

// StdError wraps a standard Go error that caused a compilation phase to fail
type StdError struct {
	Kind string
	Err  error
}

func (se *StdError) isError() bool {
	return true
}
