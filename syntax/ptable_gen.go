package syntax

import (
	"fmt"
	"minic/logging"
	"reflect"

	"github.com/samber/lo"
)

// _augGoal is the name of the augmented goal production
const _augGoal = "_END_"

// _epsilon stands in for epsilon in first sets
const _epsilon = -1

// constructParsingTable takes in an input rule table and attempt to build a
// parsing table for it.  If it fails, a descriptive error is returned.  If it
// succeeds a full parsing table is returned.  NOTE: this function resolves
// shift-reduce conflicts in favor of SHIFT (will warn if it does this)!
func constructParsingTable(brt *BNFRuleTable) (*ParsingTable, error) {
	ptableBuilder := PTableBuilder{BNFRules: brt, firstSets: make(map[string][]int)}

	if err := ptableBuilder.build(); err != nil {
		return nil, err
	}

	return ptableBuilder.Table, nil
}

// LRItem represents an LR(0) item
type LRItem struct {
	// Rule refers to the rule number in the RuleTable not
	// the final rule number in the parsing table
	Rule int

	// DotPos refers to the index the dot is considered to
	// be placed BEFORE (so a dot at the end of the item
	// would have a dot pos == to the length of the rule)
	DotPos int
}

// lookaheadSet is a set of lookahead token kinds
type lookaheadSet map[int]struct{}

// merge adds every lookahead of `other` to the set and returns whether the set
// grew as a result
func (ls lookaheadSet) merge(other lookaheadSet) bool {
	startingLength := len(ls)

	for lookahead := range other {
		ls[lookahead] = struct{}{}
	}

	return len(ls) != startingLength
}

// withoutEpsilon removes epsilon from a first set.  The boolean indicates
// whether or not the set contained epsilon.
func withoutEpsilon(firstSet []int) ([]int, bool) {
	filtered := lo.Filter(firstSet, func(kind int, _ int) bool {
		return kind != _epsilon
	})

	return filtered, len(filtered) != len(firstSet)
}

// LRItemSet represents a complete LR(1) state
type LRItemSet struct {
	// Items matches each LRItem with its lookaheads thereby rendering each
	// entry an LR(1) item
	Items map[LRItem]lookaheadSet

	// Conns represents all of the possible progressions for a given item set
	Conns map[BNFElement]int
}

// PTableBuilder holds the state used to construct the parsing table
type PTableBuilder struct {
	BNFRules *BNFRuleTable
	Table    *ParsingTable

	ItemSets []*LRItemSet

	// allows us to memoize first sets by nonterminals
	firstSets map[string][]int
}

// build uses the current builds a full parsing table for a given rule table
func (ptb *PTableBuilder) build() error {
	// the parsing table's rules mirror the BNF rules one-to-one so that rule
	// numbers stay stable for the parser's observers
	rules := make([]*PTableRule, len(ptb.BNFRules.RulesByIndex))
	for i, bnfRule := range ptb.BNFRules.RulesByIndex {
		rules[i] = newPTableRule(i, bnfRule)
	}

	// augment the rule set
	augRuleNdx := len(ptb.BNFRules.RulesByIndex)
	ptb.BNFRules.RulesByIndex = append(ptb.BNFRules.RulesByIndex,
		&BNFRule{ProdName: _augGoal, Contents: []BNFElement{BNFNonterminal(ptb.BNFRules.Goal)}})
	ptb.BNFRules.RulesByProdName[_augGoal] = []int{augRuleNdx}

	// create the starting LR(1) kernel
	startSet := &LRItemSet{Items: map[LRItem]lookaheadSet{
		{Rule: augRuleNdx, DotPos: 0}: {EOF: struct{}{}},
	}}

	// create an initial LR(0) item with an LR(1) kernel for the start set
	ptb.closureOf(startSet)

	// calculate all of the LR(0) item sets
	ptb.nextLR0Items(startSet)

	// convert all of the LR(0) item sets to LR(1) item sets
	ptb.createLR1Items(startSet)

	// the number of states (rows) will be equivalent to the number of item sets
	// since the merging has already occurred in generating the item sets
	ptb.Table = &ParsingTable{Rows: make([]*PTableRow, len(ptb.ItemSets)), Rules: rules}

	return ptb.buildTableFromSets()
}

// nextLR0Items computes all of the connections for the current item set and
// recursively creates sets as necessary while adding them to an item graph
func (ptb *PTableBuilder) nextLR0Items(itemSet *LRItemSet) {
	// add our item set to the item set graph (assume it has not been added)
	ptb.ItemSets = append(ptb.ItemSets, itemSet)

	// calculate all of the goto kernels that are connected to the item set
	gotoKernels := make(map[BNFElement]*LRItemSet)
	for item := range itemSet.Items {
		bnfRule := ptb.BNFRules.RulesByIndex[item.Rule]

		// we can only apply goto if the dot is not at the end of the rule and
		// we are not dealing with an epsilon rule (and all rules that start
		// with epsilon will be epsilon rules due to how our rules generate)
		if item.DotPos < len(bnfRule.Contents) && bnfRule.Contents[item.DotPos].Kind() != BNFKindEpsilon {
			gotoItem := LRItem{Rule: item.Rule, DotPos: item.DotPos + 1}
			dottedElem := bnfRule.Contents[item.DotPos]

			// in both cases, simply create an empty map for to hold lookaheads
			if gotoKernel, ok := gotoKernels[dottedElem]; ok {
				// if a goto kernel already exists, add our item to the kernel
				gotoKernel.Items[gotoItem] = make(lookaheadSet)
			} else {
				// otherwise, create a new blank item set to hold our goto kernel
				gotoKernels[dottedElem] = &LRItemSet{Items: map[LRItem]lookaheadSet{gotoItem: make(lookaheadSet)}}
			}
		}
	}

	// initialize our goto connections for the starting LR(0) item set
	itemSet.Conns = make(map[BNFElement]int)

	// determine whether or not a goto kernel already has a representative item
	// set in the item graph.  If it does, create a connection to the
	// preexisting set.  Otherwise, add the full item set calculated from the
	// goto kernel to the item graph.  Clean up the gotoKernels map as we go
	// since we no longer need to store its data.
mainloop:
	for elem, gotoKernel := range gotoKernels {
		// remove the goto kernels as we iterate (don't need the map entry now)
		delete(gotoKernels, elem)

		// calculate the closure of the goto kernel so we can compare and/or add it
		ptb.closureOf(gotoKernel)

		for i, otherItemSet := range ptb.ItemSets {
			// if two items have the same items, they will be equivalent
			if reflect.DeepEqual(gotoKernel.Items, otherItemSet.Items) {
				// create a connection to our preexisting item set
				itemSet.Conns[elem] = i
				continue mainloop
			}
		}

		// the connection index will be the next index (length) in the slice of
		// item sets if the item set is being newly added
		connIndex := len(ptb.ItemSets)

		itemSet.Conns[elem] = connIndex

		// calculating depth first vs. breadth first is effectively equivalent
		// here in terms of performance so we can just calculate from here
		ptb.nextLR0Items(gotoKernel)
	}
}

// closureOf calculates all of the items in LR(0) item set based on its item kernel
func (ptb *PTableBuilder) closureOf(itemSet *LRItemSet) {
	for addedMore := true; addedMore; {
		addedMore = false

		for item := range itemSet.Items {
			bnfRule := ptb.BNFRules.RulesByIndex[item.Rule]

			// nothing to calculate if the dot is at the end of rule
			if item.DotPos == len(bnfRule.Contents) {
				continue
			}

			// if we have a nonterminal, add all its rule to the item set
			if nt, ok := bnfRule.Contents[item.DotPos].(BNFNonterminal); ok {
				startingLength := len(itemSet.Items)

				for _, ruleRef := range ptb.BNFRules.RulesByProdName[string(nt)] {
					ruleItem := LRItem{Rule: ruleRef, DotPos: 0}

					if _, ok := itemSet.Items[ruleItem]; !ok {
						itemSet.Items[ruleItem] = make(lookaheadSet)
					}
				}

				// if the length changed, something was added
				if len(itemSet.Items) != startingLength {
					addedMore = true
				}
			}
		}
	}
}

// createLR1Items converts a given LR(0) item set to an LR(1) item set and
// converts all of its connected sets recursively.  Assumes that the input set
// has an LR(1) kernel (already has spontaneously generated lookaheads)
func (ptb *PTableBuilder) createLR1Items(itemSet *LRItemSet) {
	// begin by propagating lookaheads throughout the current item set to
	// convert it to a full LR(1) item set to that spontaneous generation is
	// possible to all connected item sets (otherwise, we can't proceed)
	ptb.propagateLookaheads(itemSet)

	lookaheadsChanged := false

	// next, go through every item in the item set and spontaneously generate
	// lookaheads for any connected kernel items generated from the src item
	for item, lookaheads := range itemSet.Items {
		bnfRule := ptb.BNFRules.RulesByIndex[item.Rule]

		// a connection will only exist if the dot is not at the end of the rule
		if item.DotPos < len(bnfRule.Contents) {
			dottedElem := bnfRule.Contents[item.DotPos]

			if dottedElem.Kind() == BNFKindEpsilon {
				continue
			}

			state := itemSet.Conns[dottedElem]

			connSet := ptb.ItemSets[state]

			// the matching kernel item will have the same rule with an
			// incremented dot position: spontaneously generate lookaheads for
			// it from its source item
			kernelItem := LRItem{Rule: item.Rule, DotPos: item.DotPos + 1}
			if connLookaheads, ok := connSet.Items[kernelItem]; ok && connLookaheads.merge(lookaheads) {
				lookaheadsChanged = true
			}
		}
	}

	// if no lookaheads changed, then we do not need to spontaneously generate
	// any new lookaheads for any connected sets and can just stop here
	if !lookaheadsChanged {
		return
	}

	// go through and recur to each connected set only after we have already
	// fully generated all of its spontaneous lookaheads (given it an LR(1)
	// kernel) so that propagation can occur correctly in connected set
	for _, state := range itemSet.Conns {
		ptb.createLR1Items(ptb.ItemSets[state])
	}
}

// propagateLookaheads propagates lookaheads from an LR(1) item kernel to the
// remaining LR(0) items to convert the input item set into a full LR(1) item by
// making repeated passes through the item set and propagating lookaheads to all
// items as necessary until no meaningful propagations occur
func (ptb *PTableBuilder) propagateLookaheads(itemSet *LRItemSet) {
	for propagated := true; propagated; {
		propagated = false

		for item, itemLookaheads := range itemSet.Items {
			// if we have no lookaheads, then we have nothing to propagate (yet)
			if len(itemLookaheads) == 0 {
				continue
			}

			bnfRule := ptb.BNFRules.RulesByIndex[item.Rule]

			// if our dot is at the end of the rule, there will be nothing to
			// propagate to (ie. no connected nonterminals)
			if item.DotPos == len(bnfRule.Contents) {
				continue
			}

			// only if we have a nonterminal, will we have something to propagate to
			if nt, ok := bnfRule.Contents[item.DotPos].(BNFNonterminal); ok {
				// calculate the lookaheads that we will pass on to the next item:
				// Fi(rest) plus our own lookaheads if the rest can be empty
				var lookaheads lookaheadSet

				if item.DotPos == len(bnfRule.Contents)-1 {
					lookaheads = itemLookaheads
				} else {
					firstSet, nullable := withoutEpsilon(ptb.first(bnfRule.Contents[item.DotPos+1:]))

					lookaheads = make(lookaheadSet)
					for _, first := range firstSet {
						lookaheads[first] = struct{}{}
					}

					if nullable {
						lookaheads.merge(itemLookaheads)
					}
				}

				// pass the lookaheads on to all associated closure items
				for destItem, destLookaheads := range itemSet.Items {
					// associated items have the same name and a dot at the
					// start: kernel items of the same production have their
					// own lookaheads
					if destItem.DotPos == 0 && ptb.BNFRules.RulesByIndex[destItem.Rule].ProdName == string(nt) && destLookaheads.merge(lookaheads) {
						propagated = true
					}
				}
			}
		}
	}
}

// first calculates the first set of a given slice of a BNF rule (can be used
// recursively) NOTE: should not be called with an empty slice (will fail)
func (ptb *PTableBuilder) first(ruleSlice []BNFElement) []int {
	if nt, ok := ruleSlice[0].(BNFNonterminal); ok {
		var firstSet []int

		// start by accumulating all firsts of nonterminal (inc. epsilon) to
		// start with (in next block).  NOTE: string(nt) should be "free"

		// check to see if the nonterminal first set has already been calculated
		if mfs, ok := ptb.firstSets[string(nt)]; ok {
			firstSet = make([]int, len(mfs))

			// copy so that our in-place mutations of the first set don't affect
			// the memoized version (small cost but ultimately trivial)
			copy(firstSet, mfs)
		} else {
			for _, rRef := range ptb.BNFRules.RulesByProdName[string(nt)] {
				// r will never be empty
				ntFirst := ptb.first(ptb.BNFRules.RulesByIndex[rRef].Contents)

				firstSet = append(firstSet, ntFirst...)
			}

			// memoize the base first set (copied for same reasons as above)
			mfs := make([]int, len(firstSet))
			copy(mfs, firstSet)
			ptb.firstSets[string(nt)] = mfs
		}

		// if there are no elements following a given production, then any
		// epsilons will remain in the first set (as nothing follows)
		if len(ruleSlice) == 1 {
			return firstSet
		}

		// if the nonterminal can be empty, the firsts of what follows it are
		// also firsts of the slice (ie. Fi(Aw) = Fi(A) \ { epsilon } U Fi(w))
		if filtered, nullable := withoutEpsilon(firstSet); nullable {
			// can blindly call first here because we already checked for rule
			// slices that could result in a runtime panic (ie. will be empty)
			return append(filtered, ptb.first(ruleSlice[1:])...)
		}

		return firstSet
	} else if _, ok := ruleSlice[0].(BNFEpsilon); ok {
		// apply Fi(epsilon) = { epsilon }.  NOTE: epsilons only occur as
		// solitary rules (always valid)
		return []int{_epsilon}
	}

	// apply Fi(w) = { w } where w is a terminal
	return []int{int(ruleSlice[0].(BNFTerminal))}
}

// buildTableFromSets attempts to convert the itemset graph into a parsing table
// and returns a descriptive error if the operation is unsuccessful
func (ptb *PTableBuilder) buildTableFromSets() error {
	for i, itemSet := range ptb.ItemSets {
		row := &PTableRow{Actions: make(map[int]*Action), Gotos: make(map[string]int)}
		ptb.Table.Rows[i] = row

		// calculate the necessary actions based on our connections
		for conn, state := range itemSet.Conns {
			switch v := conn.(type) {
			case BNFTerminal:
				row.Actions[int(v)] = &Action{Kind: AKShift, Operand: state}
			case BNFNonterminal:
				row.Gotos[string(v)] = state
			}
		}

		// place any reduce actions in the table as necessary
		for item, lookaheads := range itemSet.Items {
			bnfRule := ptb.BNFRules.RulesByIndex[item.Rule]

			// dot is at the end of a rule/epsilon rule => reduction time
			if item.DotPos != len(bnfRule.Contents) && bnfRule.Contents[0].Kind() != BNFKindEpsilon {
				continue
			}

			// reducing by the augmented rule means accepting
			reduceRule := item.Rule
			if bnfRule.ProdName == _augGoal {
				reduceRule = -1
			}

			for lookahead := range lookaheads {
				action, ok := row.Actions[lookahead]

				if !ok {
					if reduceRule == -1 {
						row.Actions[lookahead] = &Action{Kind: AKAccept}
					} else {
						row.Actions[lookahead] = &Action{Kind: AKReduce, Operand: reduceRule}
					}

					continue
				}

				switch action.Kind {
				case AKShift:
					logging.LogBuildWarning("Grammar", fmt.Sprintf(
						"shift/reduce conflict on `%s` resolved in favor of shift (reduce by %s)",
						KindName(lookahead),
						ptb.itemString(item),
					))
				case AKReduce:
					if action.Operand == reduceRule {
						continue
					}

					oldRule, newRule := ptb.Table.Rules[action.Operand], ptb.Table.Rules[reduceRule]

					// two epsilon rules in sequence: resolve in favor of the
					// rule whose GOTO state has the most actions so that no
					// actions are lost (the larger state contains the smaller)
					if oldRule.Count == 0 && newRule.Count == 0 {
						oldGotoActionCount := ptb.getActionCount(row.Gotos[oldRule.Name])
						newGotoActionCount := ptb.getActionCount(row.Gotos[newRule.Name])

						if newGotoActionCount > oldGotoActionCount {
							action.Operand = reduceRule
						}

						continue
					}

					return fmt.Errorf("reduce/reduce conflict on `%s` between %s and %s", KindName(lookahead), oldRule.Repr(), newRule.Repr())
				}

				// ACCEPT collisions should never happen
			}
		}
	}

	return nil
}

// getActionCount calculates the number of actions that are produced by a given
// item set (used in epsilon reduce/reduce conflict resolution)
func (ptb *PTableBuilder) getActionCount(state int) int {
	// if have already calculated the state, we can just count its actions
	if state < len(ptb.Table.Rows) {
		row := ptb.Table.Rows[state]

		if row != nil {
			return len(row.Actions)
		}
	}

	// otherwise, we have to calculate it from the base item set:
	// # of terminal connections + # of unique lookaheads = # of actions
	itemSet := ptb.ItemSets[state]
	shiftActionCount := lo.CountBy(lo.Keys(itemSet.Conns), func(conn BNFElement) bool {
		return conn.Kind() == BNFKindTerminal
	})

	totalLookaheads := make(lookaheadSet)
	for _, lookaheads := range itemSet.Items {
		totalLookaheads.merge(lookaheads)
	}

	return shiftActionCount + len(totalLookaheads)
}
