package walk

import (
	"strings"

	"minic/syntax"
)

// ReductionRecorder records the rules reduced by the parser in order
type ReductionRecorder struct {
	Rules    []*syntax.PTableRule
	Accepted bool
}

func (rr *ReductionRecorder) WhenShift(state int, tok *syntax.Token) {}

func (rr *ReductionRecorder) WhenReduce(state int, rule *syntax.PTableRule) {
	rr.Rules = append(rr.Rules, rule)
}

func (rr *ReductionRecorder) WhenAccept(state int) {
	rr.Accepted = true
}

// Repr returns the reductions dump: one rule per line
func (rr *ReductionRecorder) Repr() string {
	sb := strings.Builder{}

	for _, rule := range rr.Rules {
		sb.WriteString(rule.Repr())
		sb.WriteRune('\n')
	}

	return sb.String()
}
