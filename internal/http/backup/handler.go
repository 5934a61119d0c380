package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/europemission/martha/internal/backup"
)

type Handler struct {
	svc *backup.Service
}

func NewHandler(svc *backup.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/restore", h.restore)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("backup-%s.json", time.Now().UTC().Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.svc.WriteTo(r.Context(), w); err != nil {
		slog.Error("failed to export backup", "error", err)
	}
}

type restoreResponse struct {
	Transactions   int `json:"transactions"`
	Circuits       int `json:"circuits"`
	Products       int `json:"products"`
	StockMovements int `json:"stockMovements"`
	Events         int `json:"events"`
	Documents      int `json:"documents"`
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	env, err := h.svc.Import(r.Context(), r.Body)
	if err != nil {
		if errors.Is(err, backup.ErrInvalidBackup) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := restoreResponse{
		Transactions:   len(env.Transactions),
		Circuits:       len(env.Circuits),
		Products:       len(env.Products),
		StockMovements: len(env.StockMovements),
		Events:         len(env.Events),
		Documents:      len(env.Documents),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
