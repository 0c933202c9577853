package transaction

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

type Handler struct {
	svc       *ledger.Service
	validator *validator.Validate
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc, validator: render.NewValidator()}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.Transactions(r.Context())
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	if t := ledger.TransactionType(r.URL.Query().Get("type")); t == ledger.TypeSale || t == ledger.TypePurchase {
		filtered := make([]ledger.Transaction, 0, len(txs))
		for _, tx := range txs {
			if tx.Type == t {
				filtered = append(filtered, tx)
			}
		}

		txs = filtered
	}

	render.JSON(w, http.StatusOK, ToResponseList(txs))
}

type createTransactionRequest struct {
	ProductID uuid.UUID              `json:"product_id" validate:"required"`
	Type      ledger.TransactionType `json:"type" validate:"required,oneof=sale purchase"`
	Quantity  int                    `json:"quantity" validate:"gt=0"`
}

// create records a movement for an existing product. Sales larger than the stock on hand are
// refused here; the ledger itself would accept them.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := render.Decode(r, h.validator, &req); err != nil {
		render.ValidationError(w, err)
		return
	}

	p, err := h.svc.Product(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			render.Error(w, http.StatusNotFound, err.Error())
			return
		}

		slog.Error("failed to get product", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	if req.Type == ledger.TypeSale && req.Quantity > p.Stock {
		render.Error(w, http.StatusConflict, "insufficient stock")
		return
	}

	var userID string
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		userID = claims.UserID()
	}

	tx, err := h.svc.AddTransaction(r.Context(), ledger.TransactionParams{
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        req.Type,
		Quantity:    req.Quantity,
		UserID:      userID,
	})
	if err != nil {
		slog.Error("failed to record transaction", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusCreated, ToResponse(*tx))
}
