package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/europemission/martha/internal/document"
	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/report"
)

type Handler struct {
	svc       *report.Service
	documents *document.Service
}

func NewHandler(svc *report.Service, documents *document.Service) *Handler {
	return &Handler{svc: svc, documents: documents}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{year}/{quarter}", h.get)
	r.Get("/{year}/{quarter}/export", h.export)
	r.Get("/documents", h.listDocuments)
}

func parsePeriod(r *http.Request) (period.Quarter, int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year")
	}

	q, err := strconv.Atoi(chi.URLParam(r, "quarter"))
	if err != nil || !period.Quarter(q).Valid() {
		return 0, 0, fmt.Errorf("invalid quarter")
	}

	return period.Quarter(q), year, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	q, year, err := parsePeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.svc.BuildQuarterly(r.Context(), q, year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	q, year, err := parsePeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := report.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatPDF
	}

	if !format.Valid() {
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("report-%s-%d.%s", q, year, format.Extension())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := h.svc.Export(r.Context(), w, format, q, year); err != nil {
		slog.Error("failed to export report", "format", format, "error", err)
	}
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	var year *int

	if s := r.URL.Query().Get("year"); s != "" {
		if y, err := strconv.Atoi(s); err == nil {
			year = &y
		}
	}

	docs, err := h.documents.List(r.Context(), year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(docs); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
