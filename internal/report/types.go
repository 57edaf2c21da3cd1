package report

import (
	"time"

	"github.com/aevon-lab/toppick/internal/core/reportdef"
	"github.com/aevon-lab/toppick/internal/core/toppick"
	"github.com/shopspring/decimal"
)

// Row is one group's winning item as presented to callers.
// Nil descriptive fields mean the item has no attribute row.
type Row struct {
	GroupKey           string          `json:"group_key"`
	ItemKey            string          `json:"item_key"`
	Count              int64           `json:"count"`
	Score              decimal.Decimal `json:"score"`
	DisplayName        *string         `json:"display_name"`
	SecondaryAttribute *string         `json:"secondary_attribute"`
}

// Result is the outcome of one report run.
type Result struct {
	RunID       string               `json:"run_id"`
	Report      reportdef.Definition `json:"report"`
	GeneratedAt time.Time            `json:"generated_at"`
	Groups      int                  `json:"groups"` // groups present before limit
	Rows        []Row                `json:"rows"`

	// PushdownVerified is nil when no in-database comparison was made.
	PushdownVerified *bool `json:"pushdown_verified,omitempty"`
}

// ListReportsResponse is the body of GET /v1/reports.
type ListReportsResponse struct {
	Reports []reportdef.Definition `json:"reports"`
}

func rowFromTopItem(item toppick.TopItem) Row {
	return Row{
		GroupKey:           item.GroupKey,
		ItemKey:            item.ItemKey,
		Count:              item.Count,
		Score:              item.Score,
		DisplayName:        item.DisplayName,
		SecondaryAttribute: item.SecondaryAttribute,
	}
}
