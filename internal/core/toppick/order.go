package toppick

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Named item key orders.
const (
	OrderInteger   = "integer"
	OrderLexical   = "lexical"
	OrderComposite = "composite"

	compositeSeparator = "|"
)

// ErrNonTotalOrder is returned at setup time when the tie-break has no
// well-defined total order over item keys.
var ErrNonTotalOrder = errors.New("item key order is not a total order")

// KeyOrder is a total order over item keys. Compare returns 0 only for
// identical keys, so the greatest key of any set is unique.
type KeyOrder interface {
	Compare(a, b string) int
}

// KeyOrders is the registry of named total orders.
var KeyOrders = map[string]KeyOrder{
	OrderInteger:   integerOrder{},
	OrderLexical:   lexicalOrder{},
	OrderComposite: compositeOrder{},
}

// LookupOrder resolves a named order. Unknown names fail with ErrNonTotalOrder.
func LookupOrder(name string) (KeyOrder, error) {
	order, ok := KeyOrders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (must be integer, lexical or composite)", ErrNonTotalOrder, name)
	}
	return order, nil
}

// integerOrder compares keys as base-10 integers. Keys that do not parse sort
// after every numeric key and compare lexically among themselves. Numerically
// equal spellings ("7", "007") fall back to byte order.
type integerOrder struct{}

func (integerOrder) Compare(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if ai < bi {
			return -1
		}
		if ai > bi {
			return 1
		}
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

type lexicalOrder struct{}

func (lexicalOrder) Compare(a, b string) int { return strings.Compare(a, b) }

// compositeOrder splits keys on "|" and compares segment by segment with
// integerOrder. A key that is a strict prefix of another sorts first.
type compositeOrder struct{}

func (compositeOrder) Compare(a, b string) int {
	as := strings.Split(a, compositeSeparator)
	bs := strings.Split(b, compositeSeparator)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := (integerOrder{}).Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}
