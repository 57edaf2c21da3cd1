package storage

import (
	"context"

	"github.com/aevon-lab/toppick/internal/core/toppick"
)

// EventQuery selects which purchase events a source returns and how they are keyed.
type EventQuery struct {
	GroupBy string // group dimension name, e.g. "customer_country"
	Item    string // item dimension name, e.g. "track"
	Weight  string // weight name; empty means no weight column
}

// EventSource returns the purchase events a report is computed from.
// Any error aborts the report; sources never return partial results.
type EventSource interface {
	ListPurchaseEvents(ctx context.Context, q EventQuery) ([]toppick.PurchaseEvent, error)
}

// AttributeSource resolves descriptive attributes for item keys of one item
// dimension. Keys without a row are simply absent from the result.
// A nil keys slice means a full-table lookup.
type AttributeSource interface {
	LookupItemAttributes(ctx context.Context, item string, keys []string) (map[string]toppick.ItemAttributes, error)
}

// PushdownQuerier runs the whole count/max/tie-break/enrich chain inside the
// database as one statement of chained CTEs.
type PushdownQuerier interface {
	QueryTopPerGroup(ctx context.Context, q EventQuery) ([]toppick.TopItem, error)
}

// Source is the full data-access surface of one database adapter.
type Source interface {
	EventSource
	AttributeSource
	PushdownQuerier
	Ping(ctx context.Context) error
	Close() error
}
