package cart

// LineItem is one row in the cart. Name, image and price are a snapshot
// of the product's display data at the time of adding; later catalog
// changes never alter items already in the cart.
type LineItem struct {
	CartID    string  `json:"cartId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// Candidate carries the fields of an add request. ProductID, Size and
// Color together form the merge key.
type Candidate struct {
	ProductID string
	Name      string
	Image     string
	Price     float64
	Size      string
	Color     string
	Quantity  int
}

// merges reports whether the candidate targets this line item.
func (li LineItem) merges(c Candidate) bool {
	return li.ProductID == c.ProductID && li.Size == c.Size && li.Color == c.Color
}
