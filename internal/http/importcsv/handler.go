package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally/internal/importer"
)

const maxUploadBytes = 16 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
}

// importFile accepts a multipart CSV upload and responds with the
// batch report. Row-level failures still return 200: the report tells
// the caller which rows were rejected or skipped. Structural failures
// are 400, an oversized batch is 413; neither persists anything.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	report, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		var structural *importer.StructuralError

		switch {
		case errors.Is(err, importer.ErrBatchTooLarge):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		case errors.As(err, &structural):
			http.Error(w, structural.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(report); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
