package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

type invoiceResponse struct {
	ID           uuid.UUID            `json:"id"`
	Number       string               `json:"number"`
	DueDate      time.Time            `json:"due_date"`
	Amount       decimal.Decimal      `json:"amount"`
	Status       ledger.InvoiceStatus `json:"status"`
	DaysUntilDue int                  `json:"days_until_due"`
	DueState     ledger.DueState      `json:"due_state"`
}

func toResponseList(invoices []ledger.Invoice, now time.Time, window time.Duration) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, invoiceResponse{
			ID:           inv.ID,
			Number:       inv.Number,
			DueDate:      inv.DueDate,
			Amount:       inv.Amount,
			Status:       inv.Status,
			DaysUntilDue: report.DaysUntil(inv.DueDate, now),
			DueState:     ledger.ClassifyDue(inv, now, window),
		})
	}

	return out
}
