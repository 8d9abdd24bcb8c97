package syntax

import (
	"fmt"

	"minic/logging"
)

// ActionObserver is notified of every action the parser takes.  Observers are
// notified in the order they were registered.
type ActionObserver interface {
	// WhenShift is called when `tok` is shifted; `state` is the state the
	// parser was in before the shift
	WhenShift(state int, tok *Token)

	// WhenReduce is called when `rule` is reduced; `state` is the state the
	// parser was in before the reduction
	WhenReduce(state int, rule *PTableRule)

	// WhenAccept is called when the input is accepted
	WhenAccept(state int)
}

// Parser is a table-driven LALR(1) parser.  It builds no tree itself: all
// translation is done by its observers.
type Parser struct {
	lctx *logging.LogContext

	// tokens is the token source being parsed
	tokens TokenReader

	// standard LALR(1) parser state
	lookahead  *Token
	ptable     *ParsingTable
	stateStack []int

	observers []ActionObserver
}

// NewParser creates a new parser for the given parsing table and token source
func NewParser(ptable *ParsingTable, tokens TokenReader, lctx *logging.LogContext) *Parser {
	return &Parser{
		ptable: ptable,
		tokens: tokens,
		lctx:   lctx,
		// set the state stack to the starting/initial state
		stateStack: []int{0},
	}
}

// RegisterObserver adds an observer to be notified of the parser's actions
func (p *Parser) RegisterObserver(obs ActionObserver) {
	p.observers = append(p.observers, obs)
}

// Parse runs the main parsing algorithm on the token source.  It returns
// false if the input was rejected.
func (p *Parser) Parse() bool {
	// initialize the lookahead
	if !p.consume() {
		return false
	}

	for {
		stateNum := p.stateStack[len(p.stateStack)-1]
		state := p.ptable.Rows[stateNum]

		action, ok := state.Actions[p.lookahead.Kind]
		if !ok {
			p.reject()
			return false
		}

		switch action.Kind {
		case AKShift:
			if !p.shift(stateNum, action.Operand) {
				return false
			}
		case AKReduce:
			p.reduce(stateNum, action.Operand)
		case AKAccept:
			for _, obs := range p.observers {
				obs.WhenAccept(stateNum)
			}

			logging.LogTrace("parser: accept in state %d", stateNum)
			return true
		}
	}
}

// reject logs an error for an unexpected lookahead
func (p *Parser) reject() {
	if p.lookahead.Kind == EOF {
		logging.LogCompileError(
			p.lctx,
			"unexpected end of file",
			logging.LMKSyntax,
			nil,
		)
		return
	}

	logging.LogCompileError(
		p.lctx,
		fmt.Sprintf("unexpected token: `%s`", p.lookahead.Value),
		logging.LMKSyntax,
		TextPositionOfToken(p.lookahead),
	)
}

// shift pushes the next state, notifies the observers and reads the next
// lookahead.  It returns false if the next token couldn't be read.
func (p *Parser) shift(from, to int) bool {
	p.stateStack = append(p.stateStack, to)

	for _, obs := range p.observers {
		obs.WhenShift(from, p.lookahead)
	}

	logging.LogTrace("parser: shift %s, goto %d", p.lookahead.Repr(), to)
	return p.consume()
}

// consume reads the next token from the token source into the lookahead
func (p *Parser) consume() bool {
	tok, ok := p.tokens.ReadToken()
	if !ok {
		return false
	}

	p.lookahead = tok
	return true
}

// reduce pops the states of `ruleRef`, notifies the observers and then moves
// to the GOTO state of the rule's production
func (p *Parser) reduce(from, ruleRef int) {
	rule := p.ptable.Rules[ruleRef]

	p.stateStack = p.stateStack[:len(p.stateStack)-rule.Count]

	for _, obs := range p.observers {
		obs.WhenReduce(from, rule)
	}

	currState := p.ptable.Rows[p.stateStack[len(p.stateStack)-1]]
	gotoState, ok := currState.Gotos[rule.Name]
	if !ok {
		logging.LogFatal(fmt.Sprintf("parsing table has no goto on `%s`", rule.Name))
	}

	p.stateStack = append(p.stateStack, gotoState)

	logging.LogTrace("parser: reduce by %s", rule.Repr())
}
