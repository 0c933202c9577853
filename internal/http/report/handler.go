package report

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/transactions", h.transactions)
	r.Get("/transactions.csv", h.transactionsCSV)
	r.Get("/inventory", h.inventory)
	r.Get("/invoices", h.invoices)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		slog.Error("failed to build dashboard", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toDashboardResponse(d))
}

// parseFilter reads type, period and category. "all" and empty both mean unrestricted.
func parseFilter(r *http.Request) (report.Filter, error) {
	q := r.URL.Query()

	var f report.Filter

	switch t := q.Get("type"); t {
	case "", "all":
	case string(ledger.TypeSale), string(ledger.TypePurchase):
		f.Type = ledger.TransactionType(t)
	default:
		return f, fmt.Errorf("invalid type %q", t)
	}

	f.Period = report.Period(q.Get("period"))
	if !f.Period.Valid() {
		return f, fmt.Errorf("invalid period %q", f.Period)
	}

	if c := q.Get("category"); c != "all" {
		f.Category = c
	}

	return f, nil
}

func (h *Handler) transactionReport(w http.ResponseWriter, r *http.Request) (*report.TransactionReport, bool) {
	f, err := parseFilter(r)
	if err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	rep, err := h.svc.Transactions(r.Context(), f)
	if err != nil {
		slog.Error("failed to build transaction report", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return nil, false
	}

	return rep, true
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.transactionReport(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, toTransactionReportResponse(rep))
}

func (h *Handler) transactionsCSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.transactionReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	if err := report.WriteTransactionsCSV(w, rep); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

func (h *Handler) inventory(w http.ResponseWriter, r *http.Request) {
	q := report.Query{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	if q.Category == "all" {
		q.Category = ""
	}

	rep, err := h.svc.Inventory(r.Context(), q)
	if err != nil {
		slog.Error("failed to build inventory report", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toInventoryResponse(rep))
}

func (h *Handler) invoices(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Invoices(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("failed to build invoice report", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toInvoiceReportResponse(rep))
}
