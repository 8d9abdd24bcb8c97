package syntax

import (
	"strings"
)

// itemString renders an LR(0) item with its dot, eg. `expr -> expr . '+' term`
func (ptb *PTableBuilder) itemString(item LRItem) string {
	rule := ptb.BNFRules.RulesByIndex[item.Rule]

	sb := strings.Builder{}
	sb.WriteString(rule.ProdName)
	sb.WriteString(" ->")

	for i, ruleItem := range rule.Contents {
		if i == item.DotPos {
			sb.WriteString(" .")
		}

		sb.WriteRune(' ')
		sb.WriteString(elementString(ruleItem))
	}

	if item.DotPos == len(rule.Contents) {
		sb.WriteString(" .")
	}

	return sb.String()
}
