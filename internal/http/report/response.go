package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stockroom/internal/http/product"
	"github.com/MrJamesThe3rd/stockroom/internal/http/transaction"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

type dashboardResponse struct {
	TotalProducts    int                `json:"total_products"`
	TotalStock       int                `json:"total_stock"`
	UnitsSold        int                `json:"units_sold"`
	Available        []product.Response `json:"available"`
	LowStock         []product.Response `json:"low_stock"`
	UpcomingInvoices []invoiceResponse  `json:"upcoming_invoices"`
}

type invoiceResponse struct {
	ID      uuid.UUID            `json:"id"`
	Number  string               `json:"number"`
	DueDate time.Time            `json:"due_date"`
	Amount  decimal.Decimal      `json:"amount"`
	Status  ledger.InvoiceStatus `json:"status"`
}

type summaryResponse struct {
	TotalSales        int `json:"total_sales"`
	TotalPurchases    int `json:"total_purchases"`
	SaleCount         int `json:"sale_count"`
	PurchaseCount     int `json:"purchase_count"`
	TotalTransactions int `json:"total_transactions"`
}

type transactionReportResponse struct {
	Type         string                 `json:"type"`
	Period       report.Period          `json:"period"`
	Category     string                 `json:"category"`
	GeneratedAt  time.Time              `json:"generated_at"`
	Summary      summaryResponse        `json:"summary"`
	Transactions []transaction.Response `json:"transactions"`
}

type inventoryReportResponse struct {
	TotalProducts int                `json:"total_products"`
	TotalStock    int                `json:"total_stock"`
	LowStockCount int                `json:"low_stock_count"`
	Categories    []string           `json:"categories"`
	Products      []product.Response `json:"products"`
}

type invoiceRowResponse struct {
	invoiceResponse
	DaysUntilDue int             `json:"days_until_due"`
	DueState     ledger.DueState `json:"due_state"`
}

type invoiceReportResponse struct {
	Total       int                  `json:"total"`
	Pending     int                  `json:"pending"`
	Overdue     int                  `json:"overdue"`
	PastDue     int                  `json:"past_due"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Invoices    []invoiceRowResponse `json:"invoices"`
}

func toInvoice(inv ledger.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:      inv.ID,
		Number:  inv.Number,
		DueDate: inv.DueDate,
		Amount:  inv.Amount,
		Status:  inv.Status,
	}
}

func toDashboardResponse(d *report.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		TotalProducts:    d.TotalProducts,
		TotalStock:       d.TotalStock,
		UnitsSold:        d.UnitsSold,
		Available:        product.ToResponseList(d.Available),
		LowStock:         product.ToResponseList(d.LowStock),
		UpcomingInvoices: make([]invoiceResponse, 0, len(d.UpcomingInvoices)),
	}

	for _, inv := range d.UpcomingInvoices {
		resp.UpcomingInvoices = append(resp.UpcomingInvoices, toInvoice(inv))
	}

	return resp
}

func toTransactionReportResponse(r *report.TransactionReport) transactionReportResponse {
	typ := string(r.Filter.Type)
	if typ == "" {
		typ = "all"
	}

	period := r.Filter.Period
	if period == "" {
		period = report.PeriodAll
	}

	category := r.Filter.Category
	if category == "" {
		category = "all"
	}

	return transactionReportResponse{
		Type:        typ,
		Period:      period,
		Category:    category,
		GeneratedAt: r.GeneratedAt,
		Summary: summaryResponse{
			TotalSales:        r.Summary.TotalSales,
			TotalPurchases:    r.Summary.TotalPurchases,
			SaleCount:         r.Summary.SaleCount,
			PurchaseCount:     r.Summary.PurchaseCount,
			TotalTransactions: r.Summary.TotalTransactions,
		},
		Transactions: transaction.ToResponseList(r.Transactions),
	}
}

func toInventoryResponse(r *report.InventoryReport) inventoryReportResponse {
	resp := inventoryReportResponse{
		TotalProducts: r.TotalProducts,
		TotalStock:    r.TotalStock,
		LowStockCount: r.LowStockCount,
		Categories:    r.Categories,
		Products:      make([]product.Response, 0, len(r.Rows)),
	}

	for _, row := range r.Rows {
		resp.Products = append(resp.Products, product.ToResponse(row.Product))
	}

	return resp
}

func toInvoiceReportResponse(r *report.InvoiceReport) invoiceReportResponse {
	resp := invoiceReportResponse{
		Total:       r.Total,
		Pending:     r.Pending,
		Overdue:     r.Overdue,
		PastDue:     r.PastDue,
		TotalAmount: r.TotalAmount,
		Invoices:    make([]invoiceRowResponse, 0, len(r.Rows)),
	}

	for _, row := range r.Rows {
		resp.Invoices = append(resp.Invoices, invoiceRowResponse{
			invoiceResponse: toInvoice(row.Invoice),
			DaysUntilDue:    row.DaysUntilDue,
			DueState:        row.DueState,
		})
	}

	return resp
}
