package walk

import (
	"fmt"

	"minic/logging"
	"minic/syntax"
)

// reporter logs the compile errors of an observer and counts them so that
// the errors of one file can be told apart from those of others being
// compiled at the same time
type reporter struct {
	lctx         *logging.LogContext
	errorCount   int
	warningCount int
}

// ErrorCount returns the number of errors the observer has logged
func (r *reporter) ErrorCount() int {
	return r.errorCount
}

// WarningCount returns the number of warnings the observer has logged
func (r *reporter) WarningCount() int {
	return r.warningCount
}

// logError logs a compile error at the position of `tok`
func (r *reporter) logError(msg string, kind int, tok *syntax.Token) {
	r.errorCount++

	logging.LogCompileError(
		r.lctx,
		msg,
		kind,
		syntax.TextPositionOfToken(tok),
	)
}

// logWarning logs a compile warning at `pos`
func (r *reporter) logWarning(msg string, kind int, pos *logging.TextPosition) {
	r.warningCount++

	logging.LogCompileWarning(
		r.lctx,
		msg,
		kind,
		pos,
	)
}

// logUndefined logs a use of an undeclared name
func (r *reporter) logUndefined(tok *syntax.Token) {
	r.logError(fmt.Sprintf("undefined symbol: `%s`", tok.Value), logging.LMKName, tok)
}

// logRepeatDef logs a second declaration of the same name
func (r *reporter) logRepeatDef(tok *syntax.Token) {
	r.logError(fmt.Sprintf("multiple declarations of `%s`", tok.Value), logging.LMKDef, tok)
}
