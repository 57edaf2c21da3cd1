package toppick

import "github.com/shopspring/decimal"

// PurchaseEvent is one observed occurrence linking a group (e.g. a country)
// to an item (e.g. a track). Weight is only read by the sum operator.
type PurchaseEvent struct {
	GroupKey string
	ItemKey  string
	Weight   decimal.Decimal
}

// ItemAttributes is the descriptive lookup data for one item.
type ItemAttributes struct {
	ItemKey            string
	DisplayName        string
	SecondaryAttribute string
}

// GroupCount is the number of events sharing (GroupKey, ItemKey).
// Score is the operator's reduction of those events; for count it equals Count.
type GroupCount struct {
	GroupKey string
	ItemKey  string
	Count    int64
	Score    decimal.Decimal
}

// GroupWinner is the single selected item of a group.
type GroupWinner struct {
	GroupKey string
	ItemKey  string
	Count    int64
	Score    decimal.Decimal
}

// TopItem is a winner joined to its attributes. Nil descriptive fields mean
// the attribute source had no row for ItemKey.
type TopItem struct {
	GroupKey           string
	ItemKey            string
	Count              int64
	Score              decimal.Decimal
	DisplayName        *string
	SecondaryAttribute *string
}
