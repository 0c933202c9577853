package invoice

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/upcoming", h.upcoming)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.Invoices(r.Context())
	if err != nil {
		slog.Error("failed to list invoices", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	if q := strings.ToLower(r.URL.Query().Get("q")); q != "" {
		filtered := make([]ledger.Invoice, 0, len(invoices))
		for _, inv := range invoices {
			if strings.Contains(strings.ToLower(inv.Number), q) {
				filtered = append(filtered, inv)
			}
		}

		invoices = filtered
	}

	render.JSON(w, http.StatusOK, toResponseList(invoices, h.svc.Now(), h.svc.UpcomingWindow()))
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.UpcomingInvoices(r.Context())
	if err != nil {
		slog.Error("failed to list upcoming invoices", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toResponseList(invoices, h.svc.Now(), h.svc.UpcomingWindow()))
}
