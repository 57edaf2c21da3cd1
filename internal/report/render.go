package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// missing is printed for descriptive fields the attribute source had no row for.
const missing = "-"

// WriteTable renders the result as an aligned text table.
func WriteTable(w io.Writer, result *Result) error {
	fmt.Fprintf(w, "report: %s (group_by=%s item=%s operator=%s)\n",
		result.Report.Name, result.Report.GroupBy, result.Report.Item, result.Report.Operator)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tITEM\tCOUNT\tSCORE\tNAME\tDETAIL")
	for _, row := range result.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			row.GroupKey,
			row.ItemKey,
			row.Count,
			row.Score.String(),
			orMissing(row.DisplayName),
			orMissing(row.SecondaryAttribute))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report table: %w", err)
	}

	_, err := fmt.Fprintf(w, "%d of %d groups\n", len(result.Rows), result.Groups)
	return err
}

// orMissing distinguishes an absent attribute row from a present empty field,
// which renders as an empty cell.
func orMissing(s *string) string {
	if s == nil {
		return missing
	}
	return *s
}
