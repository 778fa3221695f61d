package checkout

import (
	"time"

	"github.com/example/garment-storefront/internal/cart"
)

// OrderItem is one line of a placed order, captured by value from the
// cart at checkout time.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// Order is the order record returned by the remote order API.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	Items      []OrderItem `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice float64     `json:"totalPrice"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// PlaceOrderRequest is the payload handed off to the order API.
type PlaceOrderRequest struct {
	UserID     string      `json:"userId"`
	Items      []OrderItem `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice float64     `json:"totalPrice"`
}

// ItemsFromCart converts cart line items into order items. The cartIds
// are session-local and are not part of the handoff.
func ItemsFromCart(items []cart.LineItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, li := range items {
		out = append(out, OrderItem{
			ProductID: li.ProductID,
			Name:      li.Name,
			Price:     li.Price,
			Size:      li.Size,
			Color:     li.Color,
			Quantity:  li.Quantity,
		})
	}
	return out
}
