package toppick

import "github.com/shopspring/decimal"

type tally struct {
	count int64
	score decimal.Decimal
}

// Accumulator consumes events one at a time. State is held per group and only
// covers the items seen in that group, so a group can be dropped (Flush) as
// soon as the caller knows its events are exhausted.
//
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	picker *Picker
	groups map[string]map[string]*tally
}

// NewAccumulator returns an empty streaming accumulator for p.
func (p *Picker) NewAccumulator() *Accumulator {
	return &Accumulator{
		picker: p,
		groups: make(map[string]map[string]*tally),
	}
}

// Add folds one event into its group's state.
func (a *Accumulator) Add(evt PurchaseEvent) {
	items, ok := a.groups[evt.GroupKey]
	if !ok {
		items = make(map[string]*tally)
		a.groups[evt.GroupKey] = items
	}
	t, ok := items[evt.ItemKey]
	if !ok {
		items[evt.ItemKey] = &tally{count: 1, score: a.picker.agg.Initial(evt.Weight)}
		return
	}
	t.count++
	t.score = a.picker.agg.Apply(t.score, evt.Weight)
}

// Len returns the number of groups currently held.
func (a *Accumulator) Len() int { return len(a.groups) }

// Flush returns the winner of one group and releases its state.
// ok is false when the group has no events.
func (a *Accumulator) Flush(group string) (GroupWinner, bool) {
	items, exists := a.groups[group]
	if !exists {
		return GroupWinner{}, false
	}
	delete(a.groups, group)
	return a.picker.winnerOf(group, items), true
}

// Winners returns the winner of every group seen so far, ordered by group key.
// The accumulator state is left intact.
func (a *Accumulator) Winners() []GroupWinner {
	winners := make([]GroupWinner, 0, len(a.groups))
	for group, items := range a.groups {
		winners = append(winners, a.picker.winnerOf(group, items))
	}
	sortWinners(winners)
	return winners
}

func (p *Picker) winnerOf(group string, items map[string]*tally) GroupWinner {
	var (
		best  GroupWinner
		found bool
	)
	for item, t := range items {
		if !found {
			best = GroupWinner{GroupKey: group, ItemKey: item, Count: t.count, Score: t.score}
			found = true
			continue
		}
		c := t.score.Cmp(best.Score)
		if c > 0 || (c == 0 && p.order.Compare(item, best.ItemKey) > 0) {
			best = GroupWinner{GroupKey: group, ItemKey: item, Count: t.count, Score: t.score}
		}
	}
	return best
}
