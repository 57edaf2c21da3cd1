package postgres

import "fmt"

const queryInvoiceItemsExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'invoice_items'
		)
	`

// attributeLookupQuery filters an attribute statement by a text[] parameter.
// Keys arrive as text, so the key column is compared in its text form.
func attributeLookupQuery(base, keyColumn string) string {
	return fmt.Sprintf("%s\n\t\tWHERE CAST(%s AS TEXT) = ANY($1)", base, keyColumn)
}
