package storage

import (
	"database/sql"
	"fmt"

	"github.com/aevon-lab/toppick/internal/core/toppick"
	"github.com/shopspring/decimal"
)

// unitPriceScale is the scale of the invoice_items.UnitPrice column.
const unitPriceScale = 2

// ScanPurchaseEvents drains rows produced by BuildEventQuery. The weight is
// quantity, or unit price times quantity when a price is selected; the price
// is rounded to its column scale first so REAL storage cannot leak float error.
// A malformed weight fails the whole scan rather than being skipped.
func ScanPurchaseEvents(rows *sql.Rows) ([]toppick.PurchaseEvent, error) {
	var events []toppick.PurchaseEvent
	for rows.Next() {
		var (
			evt             toppick.PurchaseEvent
			price, quantity sql.NullString
		)
		if err := rows.Scan(&evt.GroupKey, &evt.ItemKey, &price, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan purchase event row: %w", err)
		}
		weight, err := eventWeight(price, quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for item %s: %w", evt.ItemKey, err)
		}
		evt.Weight = weight
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase events: %w", err)
	}
	return events, nil
}

func eventWeight(price, quantity sql.NullString) (decimal.Decimal, error) {
	if !quantity.Valid {
		return decimal.Zero, nil
	}
	qty, err := decimal.NewFromString(quantity.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quantity %q: %w", quantity.String, err)
	}
	if !price.Valid {
		return qty, nil
	}
	p, err := decimal.NewFromString(price.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unit price %q: %w", price.String, err)
	}
	return p.Round(unitPriceScale).Mul(qty), nil
}

// ScanItemAttributes drains attribute rows into dst, keyed by item key.
func ScanItemAttributes(rows *sql.Rows, dst map[string]toppick.ItemAttributes) error {
	for rows.Next() {
		var (
			key                    string
			displayName, secondary sql.NullString
		)
		if err := rows.Scan(&key, &displayName, &secondary); err != nil {
			return fmt.Errorf("failed to scan item attribute row: %w", err)
		}
		dst[key] = toppick.ItemAttributes{
			ItemKey:            key,
			DisplayName:        displayName.String,
			SecondaryAttribute: secondary.String,
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating item attributes: %w", err)
	}
	return nil
}

// ScanTopItems drains rows produced by BuildPushdownQuery. Descriptive fields
// are set only when the attribute join matched, mirroring toppick.Enrich.
func ScanTopItems(rows *sql.Rows) ([]toppick.TopItem, error) {
	items := make([]toppick.TopItem, 0)
	for rows.Next() {
		var (
			item                            toppick.TopItem
			attrKey, displayName, secondary sql.NullString
		)
		if err := rows.Scan(&item.GroupKey, &item.ItemKey, &item.Count, &attrKey, &displayName, &secondary); err != nil {
			return nil, fmt.Errorf("failed to scan top item row: %w", err)
		}
		item.Score = decimal.NewFromInt(item.Count)
		if attrKey.Valid {
			name := displayName.String
			sec := secondary.String
			item.DisplayName = &name
			item.SecondaryAttribute = &sec
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top items: %w", err)
	}
	return items, nil
}
