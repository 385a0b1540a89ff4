package importcsv

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/sanitize"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	engine    *finance.Engine
}

func NewHandler(importSvc *importer.Service, engine *finance.Engine) *Handler {
	return &Handler{
		importSvc: importSvc,
		engine:    engine,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type transactionResponse struct {
	ID       int64        `json:"id"`
	Kind     finance.Kind `json:"kind"`
	Label    string       `json:"label"`
	Amount   string       `json:"amount"`
	Category string       `json:"category"`
	Date     finance.Date `json:"date"`
}

type importResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		http.Error(w, "format field is required", http.StatusBadRequest)
		return
	}

	if !slices.Contains(importer.Formats, format) {
		http.Error(w, "unsupported format: "+string(format), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	items, err := h.importSvc.Import(r.Context(), format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for i := range items {
		items[i].Params.Label = sanitize.Text(items[i].Params.Label)
		items[i].Params.Category = sanitize.Text(items[i].Params.Category)
	}

	txs, err := h.engine.Import(r.Context(), items)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toImportResponse(txs))
}

func toImportResponse(txs []finance.Transaction) importResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, transactionResponse{
			ID:       tx.ID,
			Kind:     tx.Kind,
			Label:    tx.Label,
			Amount:   tx.Amount.String(),
			Category: tx.Category,
			Date:     tx.Date,
		})
	}

	return importResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}
