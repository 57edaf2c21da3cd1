package toppick

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Supported ranking operators.
const (
	OpCount = "count"
	OpSum   = "sum"
)

// ErrUnknownOperator is returned when a picker is configured with an operator
// that is not registered in Operators.
var ErrUnknownOperator = errors.New("unknown ranking operator")

// Aggregator defines how the events of one (group, item) pair reduce to a score.
type Aggregator interface {
	// Initial returns the score after the first event of a pair.
	Initial(weight decimal.Decimal) decimal.Decimal

	// Apply folds one more event into an existing score.
	Apply(current, weight decimal.Decimal) decimal.Decimal
}

// Operators is the registry of ranking operators, keyed by name.
var Operators = map[string]Aggregator{
	OpCount: countAgg{},
	OpSum:   sumAgg{},
}

// ValidOperator reports whether op is a registered ranking operator.
func ValidOperator(op string) bool {
	_, ok := Operators[op]
	return ok
}

// countAgg scores one point per event; the weight is ignored.
type countAgg struct{}

func (countAgg) Initial(_ decimal.Decimal) decimal.Decimal    { return decimal.NewFromInt(1) }
func (countAgg) Apply(cur, _ decimal.Decimal) decimal.Decimal { return cur.Add(decimal.NewFromInt(1)) }

// sumAgg accumulates event weights.
type sumAgg struct{}

func (sumAgg) Initial(w decimal.Decimal) decimal.Decimal    { return w }
func (sumAgg) Apply(cur, w decimal.Decimal) decimal.Decimal { return cur.Add(w) }
