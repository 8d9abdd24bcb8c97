package logging

import (
	"fmt"
	"os"
)

// logger is a global reference to a shared Logger.  It starts out silent so
// that packages can be used (and tested) without the CLI initializing it.
var logger = newLogger("", LogLevelSilent)

// Initialize initializes the global logger with the provided log level
func Initialize(buildPath string, loglevelname string) {
	var loglevel int
	switch loglevelname {
	case "silent":
		loglevel = LogLevelSilent
	case "error":
		loglevel = LogLevelError
	case "warn", "warning":
		loglevel = LogLevelWarning
	// everything else (including invalid log levels) should default to verbose
	default:
		loglevel = LogLevelVerbose
	}

	logger = newLogger(buildPath, loglevel)
}

// EnableTrace turns on the tracing of individual compiler decisions (register
// assignments, legalizer rewrites, parser actions).  Traces are only displayed
// at the verbose log level.
func EnableTrace() {
	logger.m.Lock()
	logger.trace = true
	logger.m.Unlock()
}

// ShouldProceed indicates whether or not the log module has encountered any
// errors since it was last initialized
func ShouldProceed() bool {
	logger.m.Lock()
	defer logger.m.Unlock()

	return logger.errorCount == 0
}

// ErrorCount returns the number of errors logged since initialization
func ErrorCount() int {
	logger.m.Lock()
	defer logger.m.Unlock()

	return logger.errorCount
}

// -----------------------------------------------------------------------------
// NOTE: All log functions will only display if the appropriate log level is
// set.  Most log functions will simply fail silently if below their appropriate
// log level.  Errors are always counted.

// LogCompileError logs a compilation error (user-induced, bad code)
func LogCompileError(lctx *LogContext, message string, kind int, pos *TextPosition) {
	logger.handleMsg(&CompileMessage{
		Message:  message,
		Kind:     kind,
		Position: pos,
		Context:  lctx,
		IsError:  true,
	})
}

// LogCompileWarning logs a compilation warning (user-induced, problematic code)
func LogCompileWarning(lctx *LogContext, message string, kind int, pos *TextPosition) {
	logger.handleMsg(&CompileMessage{
		Message:  message,
		Kind:     kind,
		Position: pos,
		Context:  lctx,
		IsError:  false,
	})
}

// LogConfigError logs an error related to module or compiler configuration
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogBuildWarning logs a warning in the build process
func LogBuildWarning(kind, warning string) {
	logger.handleMsg(&BuildWarning{Kind: kind, Message: warning})
}

// LogStdError logs a standard Go error that caused a phase of the compiler to
// fail (eg. register exhaustion in the backend)
func LogStdError(kind string, err error) {
	logger.handleMsg(&StdError{Kind: kind, Err: err})
}

// LogTrace displays a trace message if tracing is enabled and the log level is
// verbose.  Trace messages are never collected.
func LogTrace(format string, args ...interface{}) {
	logger.m.Lock()
	defer logger.m.Unlock()

	if logger.trace && logger.LogLevel == LogLevelVerbose {
		displayTrace(fmt.Sprintf(format, args...))
	}
}

// LogFatal logs a fatal compilation error that was not expected: ie. the
// compiler did something it wasn't supposed to.  This exits the program.
func LogFatal(message string) {
	logger.m.Lock()
	displayEndPhase(false)
	displayFatalError(message)
	logger.m.Unlock()

	os.Exit(1)
}

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" log functions that will only run if the log
// level is verbose.

// LogCompileHeader displays the header printed before compilation begins
func LogCompileHeader(moduleName, profileName string) {
	if logger.LogLevel == LogLevelVerbose {
		displayCompileHeader(moduleName, profileName)
	}
}

// LogBeginPhase displays the beginning of a compilation phase
func LogBeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// LogEndPhase displays the end of the current compilation phase
func LogEndPhase(success bool) {
	if logger.LogLevel == LogLevelVerbose {
		displayEndPhase(success)
	}
}

// LogCompilationFinished displays all collected warnings and the concluding
// message of compilation
func LogCompilationFinished() {
	logger.m.Lock()
	defer logger.m.Unlock()

	if logger.LogLevel >= LogLevelWarning {
		for _, warning := range logger.warnings {
			warning.display()
		}
	}

	if logger.LogLevel > LogLevelSilent {
		displayCompilationFinished(logger.errorCount == 0, logger.errorCount, len(logger.warnings))
	}
}
