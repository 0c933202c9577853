package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var transactionHeader = []string{"date", "product_id", "product", "type", "quantity", "user_id"}

// WriteTransactionsCSV writes the report rows followed by the summary totals.
func WriteTransactionsCSV(w io.Writer, r *TransactionReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range r.Transactions {
		record := []string{
			tx.Date.Format(time.RFC3339),
			tx.ProductID.String(),
			tx.ProductName,
			string(tx.Type),
			strconv.Itoa(tx.Quantity),
			tx.UserID,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	totals := [][]string{
		{},
		{"total_sales", strconv.Itoa(r.Summary.TotalSales)},
		{"total_purchases", strconv.Itoa(r.Summary.TotalPurchases)},
		{"total_transactions", strconv.Itoa(r.Summary.TotalTransactions)},
	}
	if err := cw.WriteAll(totals); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}

	return nil
}
