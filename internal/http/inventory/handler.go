package inventory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/inventory"
	"github.com/europemission/martha/internal/period"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.createProduct)
		r.Get("/", h.listProducts)
		r.Get("/low-stock", h.listLowStock)
		r.Get("/{id}", h.getProduct)
		r.Patch("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})

	r.Route("/movements", func(r chi.Router) {
		r.Post("/", h.recordMovement)
		r.Get("/", h.listMovements)
	})
}

type createProductRequest struct {
	Name         string                    `json:"name"`
	CostPrice    decimal.Decimal           `json:"costPrice"`
	SellingPrice decimal.Decimal           `json:"sellingPrice"`
	ReorderLevel int                       `json:"reorderLevel"`
	Category     inventory.ProductCategory `json:"category"`
	InitialStock int                       `json:"initialStock"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), inventory.ProductParams{
		Name:         req.Name,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		ReorderLevel: req.ReorderLevel,
		Category:     req.Category,
		InitialStock: req.InitialStock,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(products); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListLowStock(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(products); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateProductRequest struct {
	Name         *string                    `json:"name,omitempty"`
	CostPrice    *decimal.Decimal           `json:"costPrice,omitempty"`
	SellingPrice *decimal.Decimal           `json:"sellingPrice,omitempty"`
	ReorderLevel *int                       `json:"reorderLevel,omitempty"`
	Category     *inventory.ProductCategory `json:"category,omitempty"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}

	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}

	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}

	if req.ReorderLevel != nil {
		p.ReorderLevel = *req.ReorderLevel
	}

	if req.Category != nil {
		p.Category = *req.Category
	}

	if err := h.svc.UpdateProduct(r.Context(), p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type recordMovementRequest struct {
	ProductID     uuid.UUID              `json:"productId"`
	Type          inventory.MovementType `json:"type"`
	Quantity      int                    `json:"quantity"`
	UnitPrice     decimal.Decimal        `json:"unitPrice"`
	CircuitID     *uuid.UUID             `json:"circuitId,omitempty"`
	TransactionID *uuid.UUID             `json:"transactionId,omitempty"`
	Date          time.Time              `json:"date"`
	Notes         string                 `json:"notes,omitempty"`
}

type movementResponse struct {
	Movement *inventory.StockMovement `json:"movement"`
	Stock    int                      `json:"stock"`
	OverSale bool                     `json:"overSale"`
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	var req recordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.RecordMovement(r.Context(), inventory.MovementParams{
		ProductID:     req.ProductID,
		Type:          req.Type,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		CircuitID:     req.CircuitID,
		TransactionID: req.TransactionID,
		Date:          req.Date,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, inventory.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := movementResponse{Movement: result.Movement, Stock: result.Stock, OverSale: result.OverSale}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	filter := inventory.MovementFilter{}

	if s := r.URL.Query().Get("product_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.ProductID = &id
		}
	}

	if s := r.URL.Query().Get("quarter"); s != "" {
		if q, err := strconv.Atoi(s); err == nil {
			filter.Quarter = new(period.Quarter(q))
		}
	}

	if s := r.URL.Query().Get("year"); s != "" {
		if y, err := strconv.Atoi(s); err == nil {
			filter.Year = &y
		}
	}

	movements, err := h.svc.ListMovements(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(movements); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
