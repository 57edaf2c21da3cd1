// Package toppick selects, for every group, the item with the highest score.
//
// The computation runs as ordered passes over in-memory collections:
//
//  1. Count: events grouped by (group, item) into GroupCount rows.
//  2. MaxScores: the best score of every group.
//  3. TieBreak: among a group's rows at that score, the greatest item key wins.
//  4. Enrich: winners left-joined to item attributes.
//
// Every pass is a pure function of its input. Groups are independent, so the
// work can be sharded by group key (see PickSharded) or streamed through an
// Accumulator.
package toppick

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Picker runs the passes for one operator and one item key order.
type Picker struct {
	operator string
	agg      Aggregator
	order    KeyOrder
}

// NewPicker builds a picker from registry names. It fails with
// ErrUnknownOperator or ErrNonTotalOrder when either name is not registered.
func NewPicker(operator, keyOrder string) (*Picker, error) {
	order, err := LookupOrder(keyOrder)
	if err != nil {
		return nil, err
	}
	return NewPickerWithOrder(operator, order)
}

// NewPickerWithOrder builds a picker with a caller-supplied order.
// A nil order is rejected with ErrNonTotalOrder.
func NewPickerWithOrder(operator string, order KeyOrder) (*Picker, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: no item key order configured", ErrNonTotalOrder)
	}
	agg, ok := Operators[operator]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, operator)
	}
	return &Picker{operator: operator, agg: agg, order: order}, nil
}

// Operator returns the operator name the picker ranks by.
func (p *Picker) Operator() string { return p.operator }

// Pick runs all passes and returns one TopItem per distinct group key of
// events, ordered by group key.
func (p *Picker) Pick(events []PurchaseEvent, attributes map[string]ItemAttributes) []TopItem {
	counts := p.Count(events)
	return Enrich(p.TieBreak(counts, p.MaxScores(counts)), attributes)
}

// Winners runs the count, max and tie-break passes without enrichment.
func (p *Picker) Winners(events []PurchaseEvent) []GroupWinner {
	counts := p.Count(events)
	return p.TieBreak(counts, p.MaxScores(counts))
}

type pairKey struct {
	group string
	item  string
}

// Count groups events by (group, item). Only observed pairs are emitted, so
// every row has Count >= 1. Rows are ordered by group, then item.
func (p *Picker) Count(events []PurchaseEvent) []GroupCount {
	index := make(map[pairKey]int, len(events))
	counts := make([]GroupCount, 0)

	for _, evt := range events {
		key := pairKey{group: evt.GroupKey, item: evt.ItemKey}
		i, exists := index[key]
		if !exists {
			index[key] = len(counts)
			counts = append(counts, GroupCount{
				GroupKey: evt.GroupKey,
				ItemKey:  evt.ItemKey,
				Count:    1,
				Score:    p.agg.Initial(evt.Weight),
			})
			continue
		}
		counts[i].Count++
		counts[i].Score = p.agg.Apply(counts[i].Score, evt.Weight)
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].GroupKey != counts[j].GroupKey {
			return counts[i].GroupKey < counts[j].GroupKey
		}
		return p.order.Compare(counts[i].ItemKey, counts[j].ItemKey) < 0
	})
	return counts
}

// MaxScores returns the best score of every group present in counts.
func (p *Picker) MaxScores(counts []GroupCount) map[string]decimal.Decimal {
	maxScores := make(map[string]decimal.Decimal)
	for _, c := range counts {
		current, ok := maxScores[c.GroupKey]
		if !ok || c.Score.GreaterThan(current) {
			maxScores[c.GroupKey] = c.Score
		}
	}
	return maxScores
}

// TieBreak keeps, per group, the row whose score equals the group's maximum
// and whose item key is the greatest under the picker's order. Winners are
// ordered by group key.
func (p *Picker) TieBreak(counts []GroupCount, maxScores map[string]decimal.Decimal) []GroupWinner {
	selected := make(map[string]GroupCount, len(maxScores))
	for _, c := range counts {
		maxScore, ok := maxScores[c.GroupKey]
		if !ok || !c.Score.Equal(maxScore) {
			continue
		}
		current, exists := selected[c.GroupKey]
		if !exists || p.order.Compare(c.ItemKey, current.ItemKey) > 0 {
			selected[c.GroupKey] = c
		}
	}

	winners := make([]GroupWinner, 0, len(selected))
	for _, c := range selected {
		winners = append(winners, GroupWinner{
			GroupKey: c.GroupKey,
			ItemKey:  c.ItemKey,
			Count:    c.Count,
			Score:    c.Score,
		})
	}
	sortWinners(winners)
	return winners
}

// Enrich joins winners to attributes. A missing attribute row leaves the
// descriptive fields nil; the winner is never dropped.
func Enrich(winners []GroupWinner, attributes map[string]ItemAttributes) []TopItem {
	items := make([]TopItem, 0, len(winners))
	for _, w := range winners {
		item := TopItem{
			GroupKey: w.GroupKey,
			ItemKey:  w.ItemKey,
			Count:    w.Count,
			Score:    w.Score,
		}
		if attr, ok := attributes[w.ItemKey]; ok {
			name := attr.DisplayName
			secondary := attr.SecondaryAttribute
			item.DisplayName = &name
			item.SecondaryAttribute = &secondary
		}
		items = append(items, item)
	}
	return items
}

// WinnerKeys returns the distinct item keys of winners, in winner order.
func WinnerKeys(winners []GroupWinner) []string {
	seen := make(map[string]struct{}, len(winners))
	keys := make([]string, 0, len(winners))
	for _, w := range winners {
		if _, ok := seen[w.ItemKey]; ok {
			continue
		}
		seen[w.ItemKey] = struct{}{}
		keys = append(keys, w.ItemKey)
	}
	return keys
}

func sortWinners(winners []GroupWinner) {
	sort.Slice(winners, func(i, j int) bool {
		return winners[i].GroupKey < winners[j].GroupKey
	})
}
