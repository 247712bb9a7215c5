package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentstack-backend/internal/security"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Products     *ProductHandler
	Orders       *OrderHandler
	Inventory    *InventoryHandler
	Notification *NotificationHandler
}

// NewRouter wires all routes. Public routes cover signup, login, and the
// catalog; everything else requires a valid access token, and stock and
// lifecycle administration additionally require the staff role.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// Public
	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods("POST")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods("POST")
	api.HandleFunc("/products", h.Products.List).Methods("GET")
	api.HandleFunc("/products/{id}", h.Products.Get).Methods("GET")
	api.HandleFunc("/products/{product_id}/availability", h.Inventory.CheckAvailability).Methods("GET")
	api.HandleFunc("/orders/quote", h.Orders.Quote).Methods("POST")

	// Authenticated
	authed := api.NewRoute().Subrouter()
	authed.Use(Authenticate(tokens))

	authed.HandleFunc("/orders", h.Orders.Create).Methods("POST")
	authed.HandleFunc("/orders", h.Orders.List).Methods("GET")
	authed.HandleFunc("/orders/{id}", h.Orders.Get).Methods("GET")
	authed.HandleFunc("/orders/{id}/cancel", h.Orders.Cancel).Methods("POST")
	authed.HandleFunc("/orders/{id}/extend", h.Orders.Extend).Methods("POST")
	authed.HandleFunc("/notifications", h.Notification.List).Methods("GET")
	authed.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods("POST")

	// Staff
	authed.HandleFunc("/orders/{id}/approve", RequireStaff(h.Orders.Approve)).Methods("POST")
	authed.HandleFunc("/orders/{id}/start", RequireStaff(h.Orders.Start)).Methods("POST")
	authed.HandleFunc("/orders/{id}/return", RequireStaff(h.Orders.Return)).Methods("POST")
	authed.HandleFunc("/products", RequireStaff(h.Products.Create)).Methods("POST")
	authed.HandleFunc("/products/{id}", RequireStaff(h.Products.Update)).Methods("PUT")
	authed.HandleFunc("/inventory/low-stock", RequireStaff(h.Inventory.ListLowStock)).Methods("GET")
	authed.HandleFunc("/inventory/{product_id}", RequireStaff(h.Inventory.GetPool)).Methods("GET")
	authed.HandleFunc("/inventory/{product_id}/movements", RequireStaff(h.Inventory.ListMovements)).Methods("GET")
	authed.HandleFunc("/inventory/{product_id}/add-stock", RequireStaff(h.Inventory.AddStock)).Methods("POST")
	authed.HandleFunc("/inventory/{product_id}/maintenance", RequireStaff(h.Inventory.MoveToMaintenance)).Methods("POST")
	authed.HandleFunc("/inventory/{product_id}/damage", RequireStaff(h.Inventory.MarkAsDamaged)).Methods("POST")
	authed.HandleFunc("/inventory/{product_id}/loss", RequireStaff(h.Inventory.MarkAsLost)).Methods("POST")

	return r
}
