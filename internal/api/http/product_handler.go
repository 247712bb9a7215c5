package http

import (
	"net/http"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/service"
)

type ProductHandler struct {
	productSvc service.ProductService
}

func NewProductHandler(productSvc service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

type createProductRequest struct {
	Product      domain.RentalProduct `json:"product"`
	InitialStock int32                `json:"initial_stock"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	product, err := h.productSvc.CreateProduct(r.Context(), &req.Product, req.InitialStock)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var product domain.RentalProduct
	if !decodeBody(w, r, &product) {
		return
	}
	product.ID = id
	if err := h.productSvc.UpdateProduct(r.Context(), &product); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	enabledOnly := r.URL.Query().Get("enabled_only") == "true"
	products, total, err := h.productSvc.ListProducts(r.Context(), enabledOnly, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": products, "total": total})
}
