package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/security"
	"rentstack-backend/internal/service"
)

type OrderHandler struct {
	orderSvc service.OrderService
}

func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

type createOrderRequest struct {
	ProductID int32  `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	quote, err := h.orderSvc.QuoteOrder(r.Context(), req.ProductID, req.Quantity, req.StartDate, req.EndDate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.orderSvc.CreateOrder(r.Context(), claims.CustomerID, req.ProductID, req.Quantity, req.StartDate, req.EndDate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orderSvc.GetOrder(r.Context(), customerScope(claims), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	page, pageSize := pagination(r)
	orders, total, err := h.orderSvc.ListOrders(r.Context(), claims.CustomerID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}

func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orderSvc.ApproveOrder(r.Context(), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Start(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orderSvc.StartOrder(r.Context(), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type returnOrderRequest struct {
	ReturnDate  string          `json:"return_date"`
	Condition   string          `json:"condition"`
	DamageFee   decimal.Decimal `json:"damage_fee"`
	CleaningFee decimal.Decimal `json:"cleaning_fee"`
}

func (h *OrderHandler) Return(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req returnOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.orderSvc.ReturnOrder(r.Context(), orderID, req.ReturnDate, req.Condition, req.DamageFee, req.CleaningFee)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req cancelOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.orderSvc.CancelOrder(r.Context(), customerScope(claims), orderID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type extendOrderRequest struct {
	NewEndDate string `json:"new_end_date"`
}

func (h *OrderHandler) Extend(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req extendOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.orderSvc.ExtendOrder(r.Context(), customerScope(claims), orderID, req.NewEndDate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// customerScope returns the ownership filter for the caller: zero for staff,
// who may act on any order, otherwise the caller's own ID.
func customerScope(claims *security.UserClaims) int32 {
	if claims.Role == string(domain.CustomerRoleStaff) {
		return 0
	}
	return claims.CustomerID
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	id, ok := parsePositive(mux.Vars(r)[name])
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

func parsePositive(raw string) (int32, bool) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return 0, false
	}
	return int32(v), true
}

func pagination(r *http.Request) (int32, int32) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return int32(page), int32(pageSize)
}
