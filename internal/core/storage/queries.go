package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownDimension is returned for group, item or weight names that are not registered.
var ErrUnknownDimension = errors.New("unknown dimension")

// GroupDimension is a column of the purchase join that events are grouped by.
type GroupDimension struct {
	Name string
	Expr string
}

// ItemDimension is the item events are counted for, plus the lookup that
// describes it.
type ItemDimension struct {
	Name    string
	KeyExpr string
	Joins   string // extra joins the key expression needs

	// AttrSelect yields item_key, display_name, secondary_attribute.
	AttrSelect    string
	AttrKeyColumn string

	// IntegerKeys marks integer key columns; SQL MAX over them agrees with
	// the integer key order, which is what the pushdown query relies on.
	IntegerKeys bool
}

// purchaseFrom joins every invoice line to its invoice and customer.
const purchaseFrom = `
		FROM invoice_items ii
		JOIN invoices i ON i.InvoiceId = ii.InvoiceId
		JOIN customers c ON c.CustomerId = i.CustomerId`

const joinTracks = `
		JOIN tracks t ON t.TrackId = ii.TrackId`

const joinAlbums = `
		JOIN albums al ON al.AlbumId = t.AlbumId`

// GroupDimensions is the registry of group dimensions.
var GroupDimensions = map[string]GroupDimension{
	"customer_country": {Name: "customer_country", Expr: "c.Country"},
	"billing_country":  {Name: "billing_country", Expr: "i.BillingCountry"},
	"billing_city":     {Name: "billing_city", Expr: "i.BillingCity"},
}

// ItemDimensions is the registry of item dimensions.
var ItemDimensions = map[string]ItemDimension{
	"track": {
		Name:    "track",
		KeyExpr: "ii.TrackId",
		AttrSelect: `SELECT t.TrackId AS item_key, t.Name AS display_name, ar.Name AS secondary_attribute
		FROM tracks t
		LEFT JOIN albums al ON al.AlbumId = t.AlbumId
		LEFT JOIN artists ar ON ar.ArtistId = al.ArtistId`,
		AttrKeyColumn: "t.TrackId",
		IntegerKeys:   true,
	},
	"album": {
		Name:    "album",
		KeyExpr: "t.AlbumId",
		Joins:   joinTracks,
		AttrSelect: `SELECT al.AlbumId AS item_key, al.Title AS display_name, ar.Name AS secondary_attribute
		FROM albums al
		LEFT JOIN artists ar ON ar.ArtistId = al.ArtistId`,
		AttrKeyColumn: "al.AlbumId",
		IntegerKeys:   true,
	},
	"artist": {
		Name:    "artist",
		KeyExpr: "al.ArtistId",
		Joins:   joinTracks + joinAlbums,
		AttrSelect: `SELECT ar.ArtistId AS item_key, ar.Name AS display_name, NULL AS secondary_attribute
		FROM artists ar`,
		AttrKeyColumn: "ar.ArtistId",
		IntegerKeys:   true,
	},
	"genre": {
		Name:    "genre",
		KeyExpr: "t.GenreId",
		Joins:   joinTracks,
		AttrSelect: `SELECT g.GenreId AS item_key, g.Name AS display_name, NULL AS secondary_attribute
		FROM genres g`,
		AttrKeyColumn: "g.GenreId",
		IntegerKeys:   true,
	},
}

// WeightColumns selects the per-event weight as separate price and quantity
// columns. ScanPurchaseEvents multiplies them in decimal; SQL arithmetic on
// SQLite REAL prices is not exact.
type WeightColumns struct {
	UnitPrice string
	Quantity  string
}

var noWeight = WeightColumns{UnitPrice: "NULL", Quantity: "NULL"}

// Weights is the registry of per-event weights.
var Weights = map[string]WeightColumns{
	"quantity": {UnitPrice: "NULL", Quantity: "ii.Quantity"},
	"revenue":  {UnitPrice: "ii.UnitPrice", Quantity: "ii.Quantity"},
}

// LookupGroup resolves a group dimension by name.
func LookupGroup(name string) (GroupDimension, error) {
	dim, ok := GroupDimensions[name]
	if !ok {
		return GroupDimension{}, fmt.Errorf("%w: group_by %q (must be one of %s)", ErrUnknownDimension, name, names(GroupDimensions))
	}
	return dim, nil
}

// LookupItem resolves an item dimension by name.
func LookupItem(name string) (ItemDimension, error) {
	dim, ok := ItemDimensions[name]
	if !ok {
		return ItemDimension{}, fmt.Errorf("%w: item %q (must be one of %s)", ErrUnknownDimension, name, names(ItemDimensions))
	}
	return dim, nil
}

// LookupWeight resolves a weight by name. The empty name selects no weight.
func LookupWeight(name string) (WeightColumns, error) {
	if name == "" {
		return noWeight, nil
	}
	cols, ok := Weights[name]
	if !ok {
		return WeightColumns{}, fmt.Errorf("%w: weight %q (must be one of %s)", ErrUnknownDimension, name, names(Weights))
	}
	return cols, nil
}

// ValidateEventQuery checks that every name in q is registered.
func ValidateEventQuery(q EventQuery) error {
	if _, err := LookupGroup(q.GroupBy); err != nil {
		return err
	}
	if _, err := LookupItem(q.Item); err != nil {
		return err
	}
	if _, err := LookupWeight(q.Weight); err != nil {
		return err
	}
	return nil
}

// BuildEventQuery returns the statement listing one
// (group_key, item_key, unit_price, quantity) row per invoice line. Rows with a NULL group or item are excluded.
func BuildEventQuery(q EventQuery) (string, error) {
	group, err := LookupGroup(q.GroupBy)
	if err != nil {
		return "", err
	}
	item, err := LookupItem(q.Item)
	if err != nil {
		return "", err
	}
	weight, err := LookupWeight(q.Weight)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`
		SELECT %s AS group_key, %s AS item_key, %s AS unit_price, %s AS quantity%s%s
		WHERE %s IS NOT NULL
		  AND %s IS NOT NULL
	`, group.Expr, item.KeyExpr, weight.UnitPrice, weight.Quantity, purchaseFrom, item.Joins, group.Expr, item.KeyExpr), nil
}

// BuildPushdownQuery returns the chained-CTE statement computing the top item
// per group inside the database: counts, per-group maximum, greatest key
// among the tied items, then a left join to the attributes.
func BuildPushdownQuery(q EventQuery) (string, error) {
	group, err := LookupGroup(q.GroupBy)
	if err != nil {
		return "", err
	}
	item, err := LookupItem(q.Item)
	if err != nil {
		return "", err
	}
	if !item.IntegerKeys {
		return "", fmt.Errorf("item %q has no integer keys; pushdown tie-break is undefined", item.Name)
	}

	return fmt.Sprintf(`
		WITH
		group_item_counts AS (
			SELECT %[1]s AS group_key, %[2]s AS item_key, COUNT(*) AS item_count%[3]s%[4]s
			WHERE %[1]s IS NOT NULL
			  AND %[2]s IS NOT NULL
			GROUP BY %[1]s, %[2]s
		),
		group_max_counts AS (
			SELECT group_key, MAX(item_count) AS max_count
			FROM group_item_counts
			GROUP BY group_key
		),
		group_winners AS (
			SELECT gic.group_key, MAX(gic.item_key) AS item_key, gic.item_count
			FROM group_item_counts gic
			JOIN group_max_counts gmc
			  ON gmc.group_key = gic.group_key
			 AND gmc.max_count = gic.item_count
			GROUP BY gic.group_key, gic.item_count
		)
		SELECT gw.group_key, gw.item_key, gw.item_count, attrs.item_key, attrs.display_name, attrs.secondary_attribute
		FROM group_winners gw
		LEFT JOIN (%[5]s) attrs ON attrs.item_key = gw.item_key
		ORDER BY gw.group_key ASC
	`, group.Expr, item.KeyExpr, purchaseFrom, item.Joins, item.AttrSelect), nil
}

// BuildAttributeQuery returns the attribute statement for an item dimension
// without a WHERE clause, and the key column adapters filter on.
func BuildAttributeQuery(itemName string) (query string, keyColumn string, err error) {
	item, err := LookupItem(itemName)
	if err != nil {
		return "", "", err
	}
	return item.AttrSelect, item.AttrKeyColumn, nil
}

func names[V any](m map[string]V) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
