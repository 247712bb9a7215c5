package http

import (
	"net/http"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/service"
)

type InventoryHandler struct {
	inventorySvc service.InventoryService
}

func NewInventoryHandler(inventorySvc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventorySvc: inventorySvc}
}

func (h *InventoryHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	pool, err := h.inventorySvc.GetPool(r.Context(), productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pool":             pool,
		"actual_available": pool.ActualAvailable(),
		"total_stock":      pool.TotalStock(),
		"utilization_rate": pool.UtilizationRate(),
	})
}

func (h *InventoryHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("start_date"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "start_date must be in YYYY-MM-DD format"})
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end_date"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "end_date must be in YYYY-MM-DD format"})
		return
	}
	quantity := int32(1)
	if raw := q.Get("quantity"); raw != "" {
		id, ok := parsePositive(raw)
		if !ok {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quantity"})
			return
		}
		quantity = id
	}

	available, free, err := h.inventorySvc.CheckAvailability(r.Context(), productID, quantity, start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"available": available, "free_units": free})
}

type stockAdjustmentRequest struct {
	Quantity int32  `json:"quantity"`
	Source   string `json:"source"`
	Note     string `json:"note"`
}

func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(productID int32, req stockAdjustmentRequest) (*domain.InventoryPool, error) {
		return h.inventorySvc.AddStock(r.Context(), productID, req.Quantity, req.Note)
	})
}

func (h *InventoryHandler) MoveToMaintenance(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(productID int32, req stockAdjustmentRequest) (*domain.InventoryPool, error) {
		return h.inventorySvc.MoveToMaintenance(r.Context(), productID, req.Quantity, domain.PoolName(req.Source), req.Note)
	})
}

func (h *InventoryHandler) MarkAsDamaged(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(productID int32, req stockAdjustmentRequest) (*domain.InventoryPool, error) {
		return h.inventorySvc.MarkAsDamaged(r.Context(), productID, req.Quantity, domain.PoolName(req.Source), req.Note)
	})
}

func (h *InventoryHandler) MarkAsLost(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(productID int32, req stockAdjustmentRequest) (*domain.InventoryPool, error) {
		return h.inventorySvc.MarkAsLost(r.Context(), productID, req.Quantity, domain.PoolName(req.Source), req.Note)
	})
}

func (h *InventoryHandler) adjust(w http.ResponseWriter, r *http.Request, apply func(int32, stockAdjustmentRequest) (*domain.InventoryPool, error)) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	var req stockAdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pool, err := apply(productID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pool)
}

func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	pools, err := h.inventorySvc.ListLowStock(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"pools": pools})
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	page, pageSize := pagination(r)
	movements, total, err := h.inventorySvc.ListMovements(r.Context(), productID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"movements": movements, "total": total})
}
