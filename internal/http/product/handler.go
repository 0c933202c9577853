package product

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	authHttp "github.com/MrJamesThe3rd/stockroom/internal/http/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

type Handler struct {
	svc       *ledger.Service
	validator *validator.Validate
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc, validator: render.NewValidator()}
}

// Routes expects to be mounted behind Authenticate. Mutations additionally require an admin.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/low-stock", h.lowStock)
	r.Get("/categories", h.categories)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(authHttp.RequireRole(auth.RoleAdmin))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products(r.Context())
	if err != nil {
		internalError(w, "failed to list products", err)
		return
	}

	q := report.Query{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	if q.Category == "all" {
		q.Category = ""
	}

	render.JSON(w, http.StatusOK, ToResponseList(report.Search(products, q)))
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.LowStockProducts(r.Context())
	if err != nil {
		internalError(w, "failed to list low stock products", err)
		return
	}

	render.JSON(w, http.StatusOK, ToResponseList(products))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products(r.Context())
	if err != nil {
		internalError(w, "failed to list categories", err)
		return
	}

	render.JSON(w, http.StatusOK, report.Categories(products))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			render.Error(w, http.StatusNotFound, err.Error())
			return
		}

		internalError(w, "failed to get product", err)

		return
	}

	render.JSON(w, http.StatusOK, ToResponse(*p))
}

type createProductRequest struct {
	Code     string               `json:"code" validate:"required"`
	Name     string               `json:"name" validate:"required"`
	Category string               `json:"category" validate:"required"`
	Price    decimal.Decimal      `json:"price"`
	Stock    int                  `json:"stock" validate:"gte=0"`
	MinStock int                  `json:"min_stock" validate:"gte=0"`
	Status   ledger.ProductStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := render.Decode(r, h.validator, &req); err != nil {
		render.ValidationError(w, err)
		return
	}

	if req.Price.IsNegative() {
		render.Error(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	st, err := h.svc.State(r.Context())
	if err != nil {
		internalError(w, "failed to load ledger", err)
		return
	}

	if st.HasCode(req.Code) {
		render.Error(w, http.StatusConflict, "product code already exists")
		return
	}

	status := req.Status
	if status == "" {
		status = ledger.ProductActive
	}

	p, err := h.svc.AddProduct(r.Context(), ledger.ProductParams{
		Code:     req.Code,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		Status:   status,
	})
	if err != nil {
		internalError(w, "failed to add product", err)
		return
	}

	render.JSON(w, http.StatusCreated, ToResponse(*p))
}

type updateProductRequest struct {
	Code     *string               `json:"code,omitempty" validate:"omitnil,min=1"`
	Name     *string               `json:"name,omitempty" validate:"omitnil,min=1"`
	Category *string               `json:"category,omitempty" validate:"omitnil,min=1"`
	Price    *decimal.Decimal      `json:"price,omitempty"`
	Stock    *int                  `json:"stock,omitempty" validate:"omitnil,gte=0"`
	MinStock *int                  `json:"min_stock,omitempty" validate:"omitnil,gte=0"`
	Status   *ledger.ProductStatus `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (req updateProductRequest) patch() ledger.ProductPatch {
	return ledger.ProductPatch{
		Code:     req.Code,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		Status:   req.Status,
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateProductRequest
	if err := render.Decode(r, h.validator, &req); err != nil {
		render.ValidationError(w, err)
		return
	}

	if req.Price != nil && req.Price.IsNegative() {
		render.Error(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	st, err := h.svc.State(r.Context())
	if err != nil {
		internalError(w, "failed to load ledger", err)
		return
	}

	current, ok := st.Product(id)
	if !ok {
		render.Error(w, http.StatusNotFound, ledger.ErrNotFound.Error())
		return
	}

	if req.Code != nil && *req.Code != current.Code && st.HasCode(*req.Code) {
		render.Error(w, http.StatusConflict, "product code already exists")
		return
	}

	if err := h.svc.UpdateProduct(r.Context(), id, req.patch()); err != nil {
		internalError(w, "failed to update product", err)
		return
	}

	// Another writer may have touched the product since the snapshot above.
	updated, err := h.svc.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			render.Error(w, http.StatusNotFound, err.Error())
			return
		}

		internalError(w, "failed to get product", err)

		return
	}

	render.JSON(w, http.StatusOK, ToResponse(*updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		internalError(w, "failed to delete product", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	render.Error(w, http.StatusInternalServerError, "internal error")
}
