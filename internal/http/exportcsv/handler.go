package exportcsv

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally/internal/export"
	"github.com/tallyapp/tally/internal/http/request"
)

type Handler struct {
	exportSvc *export.Service
}

func NewHandler(exportSvc *export.Service) *Handler {
	return &Handler{exportSvc: exportSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.exportFile)
}

func (h *Handler) exportFile(w http.ResponseWriter, r *http.Request) {
	filter, err := request.FilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.exportSvc.Export(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
