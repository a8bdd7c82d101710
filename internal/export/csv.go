// Package export renders expense data for download and optionally archives
// exports to cloud storage.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"expensecoach/internal/domain"
)

// csvHeader is the fixed column order of an expense export.
var csvHeader = []string{"date", "amount", "merchant", "category"}

// WriteCSV streams expenses as CSV in the order given. Dates are rendered
// as YYYY-MM-DD; quoting follows RFC 4180 via encoding/csv.
func WriteCSV(w io.Writer, expenses []domain.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Date.UTC().Format("2006-01-02"),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Merchant,
			string(e.Category),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
