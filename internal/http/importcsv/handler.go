package importcsv

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stockroom/internal/http/product"
	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
	"github.com/MrJamesThe3rd/stockroom/internal/importer"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	ledgerSvc *ledger.Service
}

func NewHandler(importSvc *importer.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledgerSvc: ledgerSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type incomingDTO struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
	MinStock int    `json:"min_stock"`
}

type conflictDTO struct {
	Incoming incomingDTO      `json:"incoming"`
	Existing product.Response `json:"existing"`
}

type importSuccessResponse struct {
	Imported int                `json:"imported"`
	Products []product.Response `json:"products"`
}

type importConflictResponse struct {
	Imported  int                `json:"imported"`
	Products  []product.Response `json:"products"`
	Conflicts []conflictDTO      `json:"conflicts"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.ledgerSvc.ImportBatch(r.Context(), params)
	if err != nil {
		slog.Error("failed to import products", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	slog.Info("catalog imported", "imported", len(result.Imported), "conflicts", len(result.Conflicts))

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			Imported:  len(result.Imported),
			Products:  product.ToResponseList(result.Imported),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toIncomingDTO(c.Incoming),
				Existing: product.ToResponse(c.Existing),
			})
		}

		render.JSON(w, http.StatusConflict, resp)

		return
	}

	render.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported: len(result.Imported),
		Products: product.ToResponseList(result.Imported),
	})
}

func toIncomingDTO(p ledger.ProductParams) incomingDTO {
	return incomingDTO{
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.StringFixed(2),
		Stock:    p.Stock,
		MinStock: p.MinStock,
	}
}
