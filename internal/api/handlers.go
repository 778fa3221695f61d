package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/example/garment-storefront/internal/api/middleware"
	"github.com/example/garment-storefront/internal/cart"
	"github.com/example/garment-storefront/internal/catalog"
	"github.com/example/garment-storefront/internal/checkout"
)

type Handlers struct {
	cart     *cart.Store
	catalog  *catalog.Client
	checkout *checkout.Client
}

func NewHandlers(cartStore *cart.Store, catalogClient *catalog.Client, checkoutClient *checkout.Client) *Handlers {
	return &Handlers{
		cart:     cartStore,
		catalog:  catalogClient,
		checkout: checkoutClient,
	}
}

// cartView is the cart payload the UI renders: the line items plus the
// derived totals, recomputed on every response.
type cartView struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice float64         `json:"totalPrice"`
}

func (h *Handlers) currentCart() cartView {
	return cartView{
		Items:      h.cart.Items(),
		TotalItems: h.cart.TotalItems(),
		TotalPrice: h.cart.TotalPrice(),
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondError(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	product, err := h.catalog.GetProduct(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string  `json:"productId"`
		Name      string  `json:"name"`
		Image     string  `json:"image"`
		Price     float64 `json:"price"`
		Size      string  `json:"size"`
		Color     string  `json:"color"`
		Quantity  int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		respondError(w, "productId is required", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		respondError(w, "quantity must be at least 1", http.StatusBadRequest)
		return
	}

	h.cart.Add(r.Context(), cart.Candidate{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Price:     req.Price,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	})

	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	cartID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		respondError(w, "quantity must be at least 1", http.StatusBadRequest)
		return
	}

	h.cart.UpdateQuantity(r.Context(), cartID, req.Quantity)
	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cartID := extractPathParam(r.URL.Path, "/cart/items/")
	h.cart.Remove(r.Context(), cartID)
	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.currentCart())
}

// Checkout Handler

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	items := h.cart.Items()
	if len(items) == 0 {
		respondError(w, "cart is empty", http.StatusBadRequest)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), middleware.ExtractToken(r), checkout.PlaceOrderRequest{
		UserID:     claims.UserID,
		Items:      checkout.ItemsFromCart(items),
		TotalItems: h.cart.TotalItems(),
		TotalPrice: h.cart.TotalPrice(),
	})
	if err != nil {
		respondError(w, "order placement failed", http.StatusBadGateway)
		return
	}

	// The cart does not clear itself on checkout; that is this
	// handler's explicit call after the order API accepted the handoff.
	h.cart.Clear(r.Context())

	respondJSON(w, http.StatusCreated, order)
}

// Order / Dashboard Handlers

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.checkout.ListOrders(r.Context(), middleware.ExtractToken(r), claims.UserID)
	if err != nil {
		respondError(w, "order API unavailable", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) ManagerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.ListAllOrders(r.Context(), middleware.ExtractToken(r))
	if err != nil {
		respondError(w, "order API unavailable", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// adminSummary aggregates platform orders for the admin dashboard.
type adminSummary struct {
	TotalOrders  int            `json:"totalOrders"`
	TotalUnits   int            `json:"totalUnits"`
	TotalRevenue float64        `json:"totalRevenue"`
	ByStatus     map[string]int `json:"byStatus"`
}

func (h *Handlers) AdminSummary(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.ListAllOrders(r.Context(), middleware.ExtractToken(r))
	if err != nil {
		respondError(w, "order API unavailable", http.StatusBadGateway)
		return
	}

	summary := adminSummary{ByStatus: make(map[string]int)}
	for _, o := range orders {
		summary.TotalOrders++
		summary.TotalUnits += o.TotalItems
		summary.TotalRevenue += o.TotalPrice
		summary.ByStatus[o.Status]++
	}
	respondJSON(w, http.StatusOK, summary)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
